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
	settingsTable  = "assignment_settings"
	settingsFields = "id, profession, zip_prefix, mode, broadcast_partner_count, fallback_behavior, active, created_at, updated_at"
)

type AssignmentSettingsRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, settings *entities.AssignmentSettings) (int64, error)
	Update(ctx context.Context, tx pgx.Tx, settings *entities.AssignmentSettings) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
	FindByID(ctx context.Context, id int64) (*entities.AssignmentSettings, error)
	GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.AssignmentSettings, uint64, error)

	// FindActiveByProfessionAndZip looks up the zip-specific row.
	FindActiveByProfessionAndZip(ctx context.Context, profession, zipPrefix string) (*entities.AssignmentSettings, error)
	// FindActiveGlobal looks up the global (zip_prefix IS NULL) row.
	FindActiveGlobal(ctx context.Context, profession string) (*entities.AssignmentSettings, error)
}

type assignmentSettingsRepository struct {
	storage *pgxpool.Pool
}

func NewAssignmentSettingsRepository(storage *pgxpool.Pool) AssignmentSettingsRepositoryInterface {
	return &assignmentSettingsRepository{storage: storage}
}

func (r *assignmentSettingsRepository) scanRow(row pgx.Row) (*entities.AssignmentSettings, error) {
	var s entities.AssignmentSettings
	err := row.Scan(&s.ID, &s.Profession, &s.ZipPrefix, &s.Mode,
		&s.BroadcastPartnerCount, &s.FallbackBehavior, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning assignment_settings row: %w", err)
	}
	return &s, nil
}

func (r *assignmentSettingsRepository) Create(ctx context.Context, tx pgx.Tx, settings *entities.AssignmentSettings) (int64, error) {
	query := `
		INSERT INTO assignment_settings (profession, zip_prefix, mode, broadcast_partner_count, fallback_behavior, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		settings.Profession, settings.ZipPrefix, settings.Mode,
		settings.BroadcastPartnerCount, settings.FallbackBehavior, settings.Active,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, apperrors.ErrConflict
		}
		return 0, fmt.Errorf("creating assignment settings: %w", err)
	}
	return id, nil
}

func (r *assignmentSettingsRepository) Update(ctx context.Context, tx pgx.Tx, settings *entities.AssignmentSettings) error {
	query := `
		UPDATE assignment_settings
		SET profession = $1, zip_prefix = $2, mode = $3, broadcast_partner_count = $4,
		    fallback_behavior = $5, active = $6, updated_at = NOW()
		WHERE id = $7`

	res, err := tx.Exec(ctx, query,
		settings.Profession, settings.ZipPrefix, settings.Mode,
		settings.BroadcastPartnerCount, settings.FallbackBehavior, settings.Active, settings.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assignmentSettingsRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	res, err := tx.Exec(ctx, `DELETE FROM assignment_settings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *assignmentSettingsRepository) FindByID(ctx context.Context, id int64) (*entities.AssignmentSettings, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", settingsFields, settingsTable)
	return r.scanRow(r.storage.QueryRow(ctx, query, id))
}

func (r *assignmentSettingsRepository) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.AssignmentSettings, uint64, error) {
	builder := sq.Select(settingsFields).From(settingsTable).PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(settingsTable).PlaceholderFormat(sq.Dollar)

	if search != "" {
		cond := sq.ILike{"profession": "%" + search + "%"}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	query, args, err := builder.OrderBy("profession", "zip_prefix NULLS FIRST").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building settings query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing assignment settings: %w", err)
	}
	defer rows.Close()

	list := make([]*entities.AssignmentSettings, 0, limit)
	for rows.Next() {
		s, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, s)
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
		return nil, 0, fmt.Errorf("counting assignment settings: %w", err)
	}

	return list, total, nil
}

func (r *assignmentSettingsRepository) FindActiveByProfessionAndZip(ctx context.Context, profession, zipPrefix string) (*entities.AssignmentSettings, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE active AND profession = $1 AND zip_prefix = $2
		LIMIT 1`, settingsFields, settingsTable)
	return r.scanRow(r.storage.QueryRow(ctx, query, profession, zipPrefix))
}

func (r *assignmentSettingsRepository) FindActiveGlobal(ctx context.Context, profession string) (*entities.AssignmentSettings, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE active AND profession = $1 AND zip_prefix IS NULL
		LIMIT 1`, settingsFields, settingsTable)
	return r.scanRow(r.storage.QueryRow(ctx, query, profession))
}
