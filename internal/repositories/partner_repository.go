package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"claims-platform/internal/entities"
	apperrors "claims-platform/pkg/errors"
)

const (
	partnerTable  = "partners"
	partnerFields = "id, company_name, email, professions, verified, rating, zip_coverage, created_at, updated_at"
)

type PartnerRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, partner *entities.Partner) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.Partner, error)
	GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Partner, uint64, error)

	// FindByProfessionAndCoverage returns verified partners declaring the
	// profession whose coverage contains zipPrefix or who declared no
	// coverage at all. Coverage matches sort first, then rating.
	FindByProfessionAndCoverage(ctx context.Context, profession, zipPrefix string, limit int) ([]*entities.Partner, error)

	// FindByProfession is the bounded fallback set for client-side coverage
	// filtering when the containment query is unavailable.
	FindByProfession(ctx context.Context, profession string, limit int) ([]*entities.Partner, error)
}

type partnerRepository struct {
	storage *pgxpool.Pool
}

func NewPartnerRepository(storage *pgxpool.Pool) PartnerRepositoryInterface {
	return &partnerRepository{storage: storage}
}

func (r *partnerRepository) scanRow(row pgx.Row) (*entities.Partner, error) {
	var p entities.Partner
	err := row.Scan(&p.ID, &p.CompanyName, &p.Email, &p.Professions, &p.Verified,
		&p.Rating, &p.ZipCoverage, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning partners row: %w", err)
	}
	return &p, nil
}

func (r *partnerRepository) Create(ctx context.Context, tx pgx.Tx, partner *entities.Partner) (int64, error) {
	query := `
		INSERT INTO partners (company_name, email, professions, verified, rating, zip_coverage)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		partner.CompanyName, partner.Email, partner.Professions,
		partner.Verified, partner.Rating, partner.ZipCoverage,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating partner: %w", err)
	}
	return id, nil
}

func (r *partnerRepository) FindByID(ctx context.Context, id int64) (*entities.Partner, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", partnerFields, partnerTable)
	return r.scanRow(r.storage.QueryRow(ctx, query, id))
}

func (r *partnerRepository) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Partner, uint64, error) {
	builder := sq.Select(partnerFields).From(partnerTable).PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(partnerTable).PlaceholderFormat(sq.Dollar)

	if search != "" {
		cond := sq.ILike{"company_name": "%" + search + "%"}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	query, args, err := builder.OrderBy("company_name").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building partners query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing partners: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Partner, 0, limit)
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, p)
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
		return nil, 0, fmt.Errorf("counting partners: %w", err)
	}

	return list, total, nil
}

func (r *partnerRepository) FindByProfessionAndCoverage(ctx context.Context, profession, zipPrefix string, limit int) ([]*entities.Partner, error) {
	builder := sq.Select(partnerFields).From(partnerTable).
		Where("verified").
		Where(sq.Expr("? = ANY(professions)", profession)).
		PlaceholderFormat(sq.Dollar)

	if zipPrefix != "" {
		// No declared coverage keeps a partner eligible; declared coverage
		// must actually contain the prefix.
		builder = builder.
			Where(sq.Expr("(zip_coverage IS NULL OR cardinality(zip_coverage) = 0 OR ? = ANY(zip_coverage))", zipPrefix)).
			OrderByClause("CASE WHEN ? = ANY(zip_coverage) THEN 0 ELSE 1 END, rating DESC, id", zipPrefix)
	} else {
		builder = builder.OrderBy("rating DESC", "id")
	}

	query, args, err := builder.Limit(uint64(limit)).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building partner coverage query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing partners for profession %s: %w", profession, err)
	}
	defer rows.Close()

	list := make([]*entities.Partner, 0, limit)
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func (r *partnerRepository) FindByProfession(ctx context.Context, profession string, limit int) ([]*entities.Partner, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE verified AND $1 = ANY(professions)
		ORDER BY rating DESC, id
		LIMIT $2`, partnerFields, partnerTable)

	rows, err := r.storage.Query(ctx, query, profession, limit)
	if err != nil {
		return nil, fmt.Errorf("listing partners for profession %s: %w", profession, err)
	}
	defer rows.Close()

	list := make([]*entities.Partner, 0, limit)
	for rows.Next() {
		p, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
