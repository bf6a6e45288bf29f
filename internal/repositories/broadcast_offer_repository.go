package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"claims-platform/internal/entities"
)

type BroadcastOfferRepositoryInterface interface {
	CreateMany(ctx context.Context, tx pgx.Tx, orderID int64, broadcastID string, candidates []entities.Assignee) error
	Exists(ctx context.Context, orderID int64, kind entities.AssigneeKind, assigneeID int64) (bool, error)
	ListByOrder(ctx context.Context, orderID int64) ([]*entities.BroadcastOffer, error)
}

type broadcastOfferRepository struct {
	storage *pgxpool.Pool
}

func NewBroadcastOfferRepository(storage *pgxpool.Pool) BroadcastOfferRepositoryInterface {
	return &broadcastOfferRepository{storage: storage}
}

func (r *broadcastOfferRepository) CreateMany(ctx context.Context, tx pgx.Tx, orderID int64, broadcastID string, candidates []entities.Assignee) error {
	query := `
		INSERT INTO broadcast_offers (order_id, broadcast_id, assignee_kind, assignee_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (order_id, assignee_kind, assignee_id) DO NOTHING`

	for _, c := range candidates {
		if _, err := tx.Exec(ctx, query, orderID, broadcastID, string(c.Kind), c.ID); err != nil {
			return fmt.Errorf("creating broadcast offer for order %d: %w", orderID, err)
		}
	}
	return nil
}

func (r *broadcastOfferRepository) Exists(ctx context.Context, orderID int64, kind entities.AssigneeKind, assigneeID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM broadcast_offers WHERE order_id = $1 AND assignee_kind = $2 AND assignee_id = $3)`

	var exists bool
	err := r.storage.QueryRow(ctx, query, orderID, string(kind), assigneeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking broadcast offer: %w", err)
	}
	return exists, nil
}

func (r *broadcastOfferRepository) ListByOrder(ctx context.Context, orderID int64) ([]*entities.BroadcastOffer, error) {
	query := `
		SELECT id, order_id, broadcast_id, assignee_kind, assignee_id, notified_at
		FROM broadcast_offers
		WHERE order_id = $1
		ORDER BY id`

	rows, err := r.storage.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("listing broadcast offers for order %d: %w", orderID, err)
	}
	defer rows.Close()

	var offers []*entities.BroadcastOffer
	for rows.Next() {
		var o entities.BroadcastOffer
		var kind string
		if err := rows.Scan(&o.ID, &o.OrderID, &o.BroadcastID, &kind, &o.AssigneeID, &o.NotifiedAt); err != nil {
			return nil, fmt.Errorf("scanning broadcast_offers row: %w", err)
		}
		o.Kind = entities.AssigneeKind(kind)
		offers = append(offers, &o)
	}
	return offers, rows.Err()
}
