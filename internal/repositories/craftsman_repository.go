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
	craftsmanTable  = "craftsmen"
	craftsmanFields = "id, name, role, professions, verified, rating, created_at, updated_at"
)

type CraftsmanRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, craftsman *entities.Craftsman) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.Craftsman, error)
	GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Craftsman, uint64, error)

	// FindByProfession returns verified craftsmen declaring the profession,
	// best rated first.
	FindByProfession(ctx context.Context, profession string, limit int) ([]*entities.Craftsman, error)
}

type craftsmanRepository struct {
	storage *pgxpool.Pool
}

func NewCraftsmanRepository(storage *pgxpool.Pool) CraftsmanRepositoryInterface {
	return &craftsmanRepository{storage: storage}
}

func (r *craftsmanRepository) scanRow(row pgx.Row) (*entities.Craftsman, error) {
	var c entities.Craftsman
	err := row.Scan(&c.ID, &c.Name, &c.Role, &c.Professions, &c.Verified,
		&c.Rating, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning craftsmen row: %w", err)
	}
	return &c, nil
}

func (r *craftsmanRepository) Create(ctx context.Context, tx pgx.Tx, craftsman *entities.Craftsman) (int64, error) {
	query := `
		INSERT INTO craftsmen (name, role, professions, verified, rating)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		craftsman.Name, craftsman.Role, craftsman.Professions, craftsman.Verified, craftsman.Rating,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating craftsman: %w", err)
	}
	return id, nil
}

func (r *craftsmanRepository) FindByID(ctx context.Context, id int64) (*entities.Craftsman, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", craftsmanFields, craftsmanTable)
	return r.scanRow(r.storage.QueryRow(ctx, query, id))
}

func (r *craftsmanRepository) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Craftsman, uint64, error) {
	builder := sq.Select(craftsmanFields).From(craftsmanTable).PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(craftsmanTable).PlaceholderFormat(sq.Dollar)

	if search != "" {
		cond := sq.ILike{"name": "%" + search + "%"}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	query, args, err := builder.OrderBy("name").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building craftsmen query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing craftsmen: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.Craftsman, 0, limit)
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, c)
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
		return nil, 0, fmt.Errorf("counting craftsmen: %w", err)
	}

	return list, total, nil
}

func (r *craftsmanRepository) FindByProfession(ctx context.Context, profession string, limit int) ([]*entities.Craftsman, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE verified AND $1 = ANY(professions)
		ORDER BY rating DESC, id
		LIMIT $2`, craftsmanFields, craftsmanTable)

	rows, err := r.storage.Query(ctx, query, profession, limit)
	if err != nil {
		return nil, fmt.Errorf("listing craftsmen for profession %s: %w", profession, err)
	}
	defer rows.Close()

	list := make([]*entities.Craftsman, 0, limit)
	for rows.Next() {
		c, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}
