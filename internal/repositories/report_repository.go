package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentReportRow is one line of the admin assignment export.
type AssignmentReportRow struct {
	OrderID      int64
	DamageType   string
	PostalCode   string
	State        string
	AssigneeType string
	AssigneeName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ReportRepositoryInterface interface {
	ListAssignments(ctx context.Context, limit int) ([]AssignmentReportRow, error)
}

type reportRepository struct {
	storage *pgxpool.Pool
}

func NewReportRepository(storage *pgxpool.Pool) ReportRepositoryInterface {
	return &reportRepository{storage: storage}
}

func (r *reportRepository) ListAssignments(ctx context.Context, limit int) ([]AssignmentReportRow, error) {
	query := `
		SELECT o.id, o.damage_type, o.postal_code, o.state,
		       CASE
		           WHEN o.assigned_craftsman_id IS NOT NULL THEN 'internal'
		           WHEN o.assigned_partner_id IS NOT NULL THEN 'external'
		           ELSE ''
		       END AS assignee_type,
		       COALESCE(c.name, p.company_name, '') AS assignee_name,
		       o.created_at, o.updated_at
		FROM orders o
		LEFT JOIN craftsmen c ON c.id = o.assigned_craftsman_id
		LEFT JOIN partners p ON p.id = o.assigned_partner_id
		ORDER BY o.id DESC
		LIMIT $1`

	rows, err := r.storage.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("listing assignment report rows: %w", err)
	}
	defer rows.Close()

	report := make([]AssignmentReportRow, 0, limit)
	for rows.Next() {
		var row AssignmentReportRow
		if err := rows.Scan(&row.OrderID, &row.DamageType, &row.PostalCode, &row.State,
			&row.AssigneeType, &row.AssigneeName, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning report row: %w", err)
		}
		report = append(report, row)
	}
	return report, rows.Err()
}
