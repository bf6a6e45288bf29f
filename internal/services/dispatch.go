package services

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"claims-platform/internal/entities"
	"claims-platform/internal/events"
	"claims-platform/pkg/constants"
	"claims-platform/pkg/eventbus"
	apperrors "claims-platform/pkg/errors"
)

// RouteResult is what one routing pass produced. When dispatch went into
// broadcast mode the assignment is still open and BroadcastID carries the
// fan-out handle instead.
type RouteResult struct {
	entities.Assignment
	BroadcastID string `json:"broadcast_id,omitempty"`
}

type DispatchServiceInterface interface {
	// RouteOrder runs the full pipeline: profession mapping, settings
	// resolution, candidate search and the mode-specific commit. It reports
	// failures through the result's reason code and never through an error,
	// so intake can persist the order regardless of what routing did.
	RouteOrder(ctx context.Context, order *entities.Order) RouteResult
}

type DispatchService struct {
	resolver    SettingsResolverInterface
	finder      CandidateFinderInterface
	executor    AssignmentExecutorInterface
	coordinator BroadcastCoordinatorInterface
	bus         *eventbus.Bus
	logger      *zap.Logger
}

func NewDispatchService(
	resolver SettingsResolverInterface,
	finder CandidateFinderInterface,
	executor AssignmentExecutorInterface,
	coordinator BroadcastCoordinatorInterface,
	bus *eventbus.Bus,
	logger *zap.Logger,
) DispatchServiceInterface {
	return &DispatchService{
		resolver:    resolver,
		finder:      finder,
		executor:    executor,
		coordinator: coordinator,
		bus:         bus,
		logger:      logger,
	}
}

func (s *DispatchService) RouteOrder(ctx context.Context, order *entities.Order) RouteResult {
	profession := MapProfession(order.DamageType)

	settings := s.resolver.Resolve(ctx, profession, order.PostalCode)
	if settings == nil {
		return skipped(constants.ReasonNoSettings)
	}

	switch settings.Mode {
	case constants.DispatchModeAuto:
		return s.routeAuto(ctx, order, profession, settings)
	case constants.DispatchModeBroadcast:
		return s.routeBroadcast(ctx, order, profession, settings)
	default:
		return skipped(constants.ReasonModeNotAuto)
	}
}

func (s *DispatchService) routeAuto(ctx context.Context, order *entities.Order, profession string, settings *entities.AssignmentSettings) RouteResult {
	candidates := s.finder.Find(ctx, profession, order.PostalCode)
	if len(candidates) == 0 && settings.FallbackBehavior == constants.FallbackInternalOnly {
		candidates = s.finder.FindInternal(ctx, profession)
	}
	if len(candidates) == 0 {
		s.logger.Info("no candidates for order",
			zap.Int64("order_id", order.ID),
			zap.String("profession", profession),
		)
		return skipped(constants.ReasonNoCandidates)
	}

	// The pool is already ranked; commit the first candidate. A stale
	// precondition means a concurrent actor assigned the order first, and a
	// persistence failure was already retried inside the executor. Neither
	// is worth burning through the rest of the pool for.
	best := candidates[0]
	result := s.executor.Commit(ctx, order.ID, best.AssigneeRef)
	if result.Applied && s.bus != nil {
		s.bus.Publish(ctx, events.OrderAssignedEvent{
			OrderID:      order.ID,
			AssigneeType: string(best.Kind),
			AssigneeID:   best.ID,
			Source:       "auto",
		})
	}
	return RouteResult{Assignment: result}
}

func (s *DispatchService) routeBroadcast(ctx context.Context, order *entities.Order, profession string, settings *entities.AssignmentSettings) RouteResult {
	candidates := s.finder.Find(ctx, profession, order.PostalCode)
	if len(candidates) == 0 {
		return skipped(constants.ReasonNoCandidates)
	}

	broadcastID, err := s.coordinator.Broadcast(ctx, order, candidates, settings.BroadcastPartnerCount)
	if err != nil {
		if errors.Is(err, apperrors.ErrStalePrecondition) {
			return skipped(constants.ReasonStalePrecondition)
		}
		s.logger.Error("broadcast failed",
			zap.Int64("order_id", order.ID), zap.Error(err))
		return skipped(constants.ReasonPersistenceError)
	}
	return RouteResult{BroadcastID: broadcastID}
}

func skipped(reason string) RouteResult {
	return RouteResult{Assignment: entities.SkippedAssignment(reason)}
}
