package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"claims-platform/internal/entities"
	apperrors "claims-platform/pkg/errors"
)

const (
	ruleTable  = "routing_rules"
	ruleFields = "id, zip_prefix, profession, priority, active, craftsman_id, created_at, updated_at"
)

type RoutingRuleRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, rule *entities.RoutingRule) (int64, error)
	Update(ctx context.Context, tx pgx.Tx, rule *entities.RoutingRule) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
	FindByID(ctx context.Context, id int64) (*entities.RoutingRule, error)
	GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.RoutingRule, uint64, error)

	// FindActiveByZipAndProfession returns the matching active rules in
	// ascending priority order, capped at limit.
	FindActiveByZipAndProfession(ctx context.Context, zipPrefix, profession string, limit int) ([]*entities.RoutingRule, error)
}

type routingRuleRepository struct {
	storage *pgxpool.Pool
}

func NewRoutingRuleRepository(storage *pgxpool.Pool) RoutingRuleRepositoryInterface {
	return &routingRuleRepository{storage: storage}
}

func (r *routingRuleRepository) scanRow(row pgx.Row) (*entities.RoutingRule, error) {
	var rule entities.RoutingRule
	err := row.Scan(&rule.ID, &rule.ZipPrefix, &rule.Profession, &rule.Priority,
		&rule.Active, &rule.CraftsmanID, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning routing_rules row: %w", err)
	}
	return &rule, nil
}

func (r *routingRuleRepository) Create(ctx context.Context, tx pgx.Tx, rule *entities.RoutingRule) (int64, error) {
	query := `
		INSERT INTO routing_rules (zip_prefix, profession, priority, active, craftsman_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		rule.ZipPrefix, rule.Profession, rule.Priority, rule.Active, rule.CraftsmanID,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return 0, apperrors.ErrConflict
		}
		return 0, fmt.Errorf("creating routing rule: %w", err)
	}
	return id, nil
}

func (r *routingRuleRepository) Update(ctx context.Context, tx pgx.Tx, rule *entities.RoutingRule) error {
	query := `
		UPDATE routing_rules
		SET zip_prefix = $1, profession = $2, priority = $3, active = $4,
		    craftsman_id = $5, updated_at = NOW()
		WHERE id = $6`

	res, err := tx.Exec(ctx, query,
		rule.ZipPrefix, rule.Profession, rule.Priority, rule.Active, rule.CraftsmanID, rule.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *routingRuleRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	res, err := tx.Exec(ctx, `DELETE FROM routing_rules WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *routingRuleRepository) FindByID(ctx context.Context, id int64) (*entities.RoutingRule, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", ruleFields, ruleTable)
	return r.scanRow(r.storage.QueryRow(ctx, query, id))
}

func (r *routingRuleRepository) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.RoutingRule, uint64, error) {
	builder := sq.Select(ruleFields).From(ruleTable).PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(ruleTable).PlaceholderFormat(sq.Dollar)

	if search != "" {
		cond := sq.Or{
			sq.ILike{"profession": "%" + search + "%"},
			sq.ILike{"zip_prefix": "%" + search + "%"},
		}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	query, args, err := builder.OrderBy("zip_prefix", "priority").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building routing rules query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing routing rules: %w", err)
	}
	defer rows.Close()

	rules := make([]*entities.RoutingRule, 0, limit)
	for rows.Next() {
		rule, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting routing rules: %w", err)
	}

	return rules, total, nil
}

func (r *routingRuleRepository) FindActiveByZipAndProfession(ctx context.Context, zipPrefix, profession string, limit int) ([]*entities.RoutingRule, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE active AND zip_prefix = $1 AND profession = $2
		ORDER BY priority
		LIMIT $3`, ruleFields, ruleTable)

	rows, err := r.storage.Query(ctx, query, zipPrefix, profession, limit)
	if err != nil {
		return nil, fmt.Errorf("listing routing rules for %s/%s: %w", zipPrefix, profession, err)
	}
	defer rows.Close()

	rules := make([]*entities.RoutingRule, 0, limit)
	for rows.Next() {
		rule, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
