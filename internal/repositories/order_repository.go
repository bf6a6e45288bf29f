package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"claims-platform/internal/entities"
	"claims-platform/pkg/constants"
	apperrors "claims-platform/pkg/errors"
)

const (
	orderTable  = "orders"
	orderFields = "id, damage_type, postal_code, description, state, customer_payload, assigned_craftsman_id, assigned_partner_id, broadcast_id, broadcast_deadline, created_at, updated_at"
)

type OrderRepositoryInterface interface {
	Create(ctx context.Context, tx pgx.Tx, order *entities.Order) (int64, error)
	FindByID(ctx context.Context, id int64) (*entities.Order, error)
	GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Order, uint64, error)

	// AssignIfUnassigned is the guarded assignment write. It only succeeds
	// while both assignment slots are empty and no broadcast is in flight,
	// and reports via the bool whether the row was actually updated.
	AssignIfUnassigned(ctx context.Context, orderID int64, ref entities.AssigneeRef) (bool, error)

	// MarkBroadcasting moves an unassigned order into the broadcasting state.
	MarkBroadcasting(ctx context.Context, orderID int64, broadcastID string, deadline time.Time) (bool, error)

	// CompleteBroadcast is the acceptance write: conditioned on the order
	// still broadcasting, so exactly one concurrent accept can win.
	CompleteBroadcast(ctx context.Context, orderID int64, ref entities.AssigneeRef) (bool, error)

	// ExpireBroadcast moves a timed-out broadcast to the expired state.
	ExpireBroadcast(ctx context.Context, orderID int64) (bool, error)

	FindExpiredBroadcasting(ctx context.Context, now time.Time, limit int) ([]*entities.Order, error)
}

type orderRepository struct {
	storage *pgxpool.Pool
}

func NewOrderRepository(storage *pgxpool.Pool) OrderRepositoryInterface {
	return &orderRepository{storage: storage}
}

func (r *orderRepository) scanRow(row pgx.Row) (*entities.Order, error) {
	var o entities.Order
	err := row.Scan(
		&o.ID, &o.DamageType, &o.PostalCode, &o.Description, &o.State,
		&o.CustomerPayload, &o.AssignedCraftsmanID, &o.AssignedPartnerID,
		&o.BroadcastID, &o.BroadcastDeadline, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("scanning orders row: %w", err)
	}
	return &o, nil
}

func (r *orderRepository) Create(ctx context.Context, tx pgx.Tx, order *entities.Order) (int64, error) {
	query := `
		INSERT INTO orders (damage_type, postal_code, description, state, customer_payload)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	var id int64
	err := tx.QueryRow(ctx, query,
		order.DamageType, order.PostalCode, order.Description,
		constants.OrderStateUnassigned, order.CustomerPayload,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("creating order: %w", err)
	}
	return id, nil
}

func (r *orderRepository) FindByID(ctx context.Context, id int64) (*entities.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE id = $1", orderFields, orderTable)
	return r.scanRow(r.storage.QueryRow(ctx, query, id))
}

func (r *orderRepository) GetAll(ctx context.Context, limit, offset uint64, search string) ([]*entities.Order, uint64, error) {
	builder := sq.Select(orderFields).From(orderTable).PlaceholderFormat(sq.Dollar)
	countBuilder := sq.Select("COUNT(*)").From(orderTable).PlaceholderFormat(sq.Dollar)

	if search != "" {
		cond := sq.Or{
			sq.ILike{"damage_type": "%" + search + "%"},
			sq.ILike{"postal_code": "%" + search + "%"},
		}
		builder = builder.Where(cond)
		countBuilder = countBuilder.Where(cond)
	}

	query, args, err := builder.OrderBy("id DESC").Limit(limit).Offset(offset).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building orders query: %w", err)
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	defer rows.Close()

	orders := make([]*entities.Order, 0, limit)
	for rows.Next() {
		o, err := r.scanRow(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("building orders count query: %w", err)
	}
	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	return orders, total, nil
}

// slotColumn maps the union tag to the persistence column. The other slot is
// always guarded NULL in the same statement, which is what keeps the
// exclusivity invariant out of reach of races.
func slotAssignment(ref entities.AssigneeRef) (column, state string) {
	if ref.Kind == entities.AssigneeKindInternal {
		return "assigned_craftsman_id", constants.OrderStateAssignedInternal
	}
	return "assigned_partner_id", constants.OrderStateAssignedExternal
}

func (r *orderRepository) AssignIfUnassigned(ctx context.Context, orderID int64, ref entities.AssigneeRef) (bool, error) {
	column, state := slotAssignment(ref)
	query := fmt.Sprintf(`
		UPDATE orders
		SET %s = $2, state = $3, updated_at = NOW()
		WHERE id = $1
		  AND assigned_craftsman_id IS NULL
		  AND assigned_partner_id IS NULL
		  AND state <> $4`, column)

	res, err := r.storage.Exec(ctx, query, orderID, ref.ID, state, constants.OrderStateBroadcasting)
	if err != nil {
		return false, fmt.Errorf("assigning order %d: %w", orderID, err)
	}
	return res.RowsAffected() == 1, nil
}

func (r *orderRepository) MarkBroadcasting(ctx context.Context, orderID int64, broadcastID string, deadline time.Time) (bool, error) {
	query := `
		UPDATE orders
		SET state = $2, broadcast_id = $3, broadcast_deadline = $4, updated_at = NOW()
		WHERE id = $1
		  AND assigned_craftsman_id IS NULL
		  AND assigned_partner_id IS NULL
		  AND state = $5`

	res, err := r.storage.Exec(ctx, query, orderID,
		constants.OrderStateBroadcasting, broadcastID, deadline, constants.OrderStateUnassigned)
	if err != nil {
		return false, fmt.Errorf("marking order %d broadcasting: %w", orderID, err)
	}
	return res.RowsAffected() == 1, nil
}

func (r *orderRepository) CompleteBroadcast(ctx context.Context, orderID int64, ref entities.AssigneeRef) (bool, error) {
	column, state := slotAssignment(ref)
	query := fmt.Sprintf(`
		UPDATE orders
		SET %s = $2, state = $3, broadcast_deadline = NULL, updated_at = NOW()
		WHERE id = $1
		  AND assigned_craftsman_id IS NULL
		  AND assigned_partner_id IS NULL
		  AND state = $4`, column)

	res, err := r.storage.Exec(ctx, query, orderID, ref.ID, state, constants.OrderStateBroadcasting)
	if err != nil {
		return false, fmt.Errorf("completing broadcast for order %d: %w", orderID, err)
	}
	return res.RowsAffected() == 1, nil
}

func (r *orderRepository) ExpireBroadcast(ctx context.Context, orderID int64) (bool, error) {
	query := `
		UPDATE orders
		SET state = $2, broadcast_deadline = NULL, updated_at = NOW()
		WHERE id = $1 AND state = $3`

	res, err := r.storage.Exec(ctx, query, orderID,
		constants.OrderStateExpired, constants.OrderStateBroadcasting)
	if err != nil {
		return false, fmt.Errorf("expiring broadcast for order %d: %w", orderID, err)
	}
	return res.RowsAffected() == 1, nil
}

func (r *orderRepository) FindExpiredBroadcasting(ctx context.Context, now time.Time, limit int) ([]*entities.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE state = $1 AND broadcast_deadline < $2
		ORDER BY broadcast_deadline
		LIMIT $3`, orderFields, orderTable)

	rows, err := r.storage.Query(ctx, query, constants.OrderStateBroadcasting, now, limit)
	if err != nil {
		return nil, fmt.Errorf("listing expired broadcasts: %w", err)
	}
	defer rows.Close()

	orders := make([]*entities.Order, 0, limit)
	for rows.Next() {
		o, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
