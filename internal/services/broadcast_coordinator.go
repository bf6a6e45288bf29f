package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"claims-platform/internal/entities"
	"claims-platform/internal/events"
	"claims-platform/internal/repositories"
	"claims-platform/pkg/constants"
	"claims-platform/pkg/eventbus"
	apperrors "claims-platform/pkg/errors"
)

type BroadcastCoordinatorInterface interface {
	// Broadcast fans an order out to up to fanout candidates and returns the
	// broadcast handle. Fails with ErrStalePrecondition when the order is no
	// longer unassigned.
	Broadcast(ctx context.Context, order *entities.Order, candidates []entities.Assignee, fanout int) (string, error)

	// Accept records a candidate taking the offer. Exactly one concurrent
	// accept wins; everyone else gets the already_resolved outcome. A caller
	// that never received an offer for this order gets ErrNotFound.
	Accept(ctx context.Context, orderID int64, ref entities.AssigneeRef) (string, error)

	// ExpireDue retires broadcasts past their deadline and applies the
	// configured fallback. Returns how many orders it expired.
	ExpireDue(ctx context.Context, now time.Time) int
}

type BroadcastCoordinator struct {
	orderRepo  repositories.OrderRepositoryInterface
	offerRepo  repositories.BroadcastOfferRepositoryInterface
	txManager  repositories.TxManagerInterface
	resolver   SettingsResolverInterface
	finder     CandidateFinderInterface
	executor   AssignmentExecutorInterface
	bus        *eventbus.Bus
	logger     *zap.Logger
	offerTTL   time.Duration
	sweepLimit int
}

func NewBroadcastCoordinator(
	orderRepo repositories.OrderRepositoryInterface,
	offerRepo repositories.BroadcastOfferRepositoryInterface,
	txManager repositories.TxManagerInterface,
	resolver SettingsResolverInterface,
	finder CandidateFinderInterface,
	executor AssignmentExecutorInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
	offerTTL time.Duration,
	sweepLimit int,
) BroadcastCoordinatorInterface {
	return &BroadcastCoordinator{
		orderRepo:  orderRepo,
		offerRepo:  offerRepo,
		txManager:  txManager,
		resolver:   resolver,
		finder:     finder,
		executor:   executor,
		bus:        bus,
		logger:     logger,
		offerTTL:   offerTTL,
		sweepLimit: sweepLimit,
	}
}

func (c *BroadcastCoordinator) Broadcast(ctx context.Context, order *entities.Order, candidates []entities.Assignee, fanout int) (string, error) {
	if fanout <= 0 || fanout > len(candidates) {
		fanout = len(candidates)
	}
	selected := candidates[:fanout]

	broadcastID := uuid.NewString()
	deadline := time.Now().Add(c.offerTTL)

	marked, err := c.orderRepo.MarkBroadcasting(ctx, order.ID, broadcastID, deadline)
	if err != nil {
		return "", err
	}
	if !marked {
		return "", apperrors.ErrStalePrecondition
	}

	err = c.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		return c.offerRepo.CreateMany(ctx, tx, order.ID, broadcastID, selected)
	})
	if err != nil {
		// The order stays in broadcasting with no offers; the expiry sweep
		// picks it up and applies the fallback.
		c.logger.Error("persisting broadcast offers failed",
			zap.Int64("order_id", order.ID),
			zap.String("broadcast_id", broadcastID),
			zap.Error(err),
		)
		return "", err
	}

	c.logger.Info("order broadcast to candidates",
		zap.Int64("order_id", order.ID),
		zap.String("broadcast_id", broadcastID),
		zap.Int("candidates", len(selected)),
		zap.Time("deadline", deadline),
	)

	if c.bus != nil {
		c.bus.Publish(ctx, events.OrderBroadcastingEvent{
			OrderID:        order.ID,
			BroadcastID:    broadcastID,
			CandidateCount: len(selected),
			Deadline:       deadline,
		})
	}
	return broadcastID, nil
}

func (c *BroadcastCoordinator) Accept(ctx context.Context, orderID int64, ref entities.AssigneeRef) (string, error) {
	offered, err := c.offerRepo.Exists(ctx, orderID, ref.Kind, ref.ID)
	if err != nil {
		return "", err
	}
	if !offered {
		return "", apperrors.ErrNotFound
	}

	won, err := c.orderRepo.CompleteBroadcast(ctx, orderID, ref)
	if err != nil {
		return "", err
	}
	if !won {
		return constants.AcceptOutcomeAlreadyResolved, nil
	}

	c.logger.Info("broadcast offer accepted",
		zap.Int64("order_id", orderID),
		zap.String("assignee_type", string(ref.Kind)),
		zap.Int64("assignee_id", ref.ID),
	)
	if c.bus != nil {
		c.bus.Publish(ctx, events.OrderAssignedEvent{
			OrderID:      orderID,
			AssigneeType: string(ref.Kind),
			AssigneeID:   ref.ID,
			Source:       "broadcast",
		})
	}
	return constants.AcceptOutcomeAccepted, nil
}

func (c *BroadcastCoordinator) ExpireDue(ctx context.Context, now time.Time) int {
	due, err := c.orderRepo.FindExpiredBroadcasting(ctx, now, c.sweepLimit)
	if err != nil {
		c.logger.Error("listing expired broadcasts failed", zap.Error(err))
		return 0
	}

	expired := 0
	for _, order := range due {
		retired, err := c.orderRepo.ExpireBroadcast(ctx, order.ID)
		if err != nil {
			c.logger.Error("expiring broadcast failed",
				zap.Int64("order_id", order.ID), zap.Error(err))
			continue
		}
		if !retired {
			// Somebody accepted between the listing and this write.
			continue
		}
		expired++

		if c.bus != nil && order.BroadcastID != nil {
			c.bus.Publish(ctx, events.BroadcastExpiredEvent{
				OrderID:     order.ID,
				BroadcastID: *order.BroadcastID,
			})
		}

		c.applyFallback(ctx, order)
	}
	return expired
}

// applyFallback re-routes an expired broadcast to the craftsman pool when the
// effective settings ask for internal_only. Every other configuration leaves
// the order in expired for a human dispatcher.
func (c *BroadcastCoordinator) applyFallback(ctx context.Context, order *entities.Order) {
	profession := MapProfession(order.DamageType)
	settings := c.resolver.Resolve(ctx, profession, order.PostalCode)
	if settings == nil || settings.FallbackBehavior != constants.FallbackInternalOnly {
		return
	}

	for _, candidate := range c.finder.FindInternal(ctx, profession) {
		result := c.executor.Commit(ctx, order.ID, candidate.AssigneeRef)
		if result.Applied {
			if c.bus != nil {
				c.bus.Publish(ctx, events.OrderAssignedEvent{
					OrderID:      order.ID,
					AssigneeType: string(candidate.Kind),
					AssigneeID:   candidate.ID,
					Source:       "broadcast_fallback",
				})
			}
			return
		}
		if result.Reason == constants.ReasonStalePrecondition {
			// Already assigned through another path, nothing left to do.
			return
		}
	}
}
