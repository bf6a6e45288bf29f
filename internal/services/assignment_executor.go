package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"claims-platform/internal/entities"
	"claims-platform/internal/repositories"
	"claims-platform/pkg/constants"
)

type AssignmentExecutorInterface interface {
	// Commit writes the assignment through the guarded update. The result is
	// always populated; transient storage failures earn exactly one retry.
	Commit(ctx context.Context, orderID int64, ref entities.AssigneeRef) entities.Assignment
}

type AssignmentExecutor struct {
	orderRepo    repositories.OrderRepositoryInterface
	logger       *zap.Logger
	retryBackoff time.Duration
}

func NewAssignmentExecutor(
	orderRepo repositories.OrderRepositoryInterface,
	logger *zap.Logger,
	retryBackoff time.Duration,
) AssignmentExecutorInterface {
	return &AssignmentExecutor{orderRepo: orderRepo, logger: logger, retryBackoff: retryBackoff}
}

func (e *AssignmentExecutor) Commit(ctx context.Context, orderID int64, ref entities.AssigneeRef) entities.Assignment {
	updated, err := e.orderRepo.AssignIfUnassigned(ctx, orderID, ref)
	if err != nil {
		e.logger.Warn("assignment write failed, retrying once",
			zap.Int64("order_id", orderID), zap.Error(err))

		select {
		case <-ctx.Done():
			return entities.SkippedAssignment(constants.ReasonPersistenceError)
		case <-time.After(e.retryBackoff):
		}

		updated, err = e.orderRepo.AssignIfUnassigned(ctx, orderID, ref)
		if err != nil {
			e.logger.Error("assignment write failed after retry",
				zap.Int64("order_id", orderID), zap.Error(err))
			return entities.SkippedAssignment(constants.ReasonPersistenceError)
		}
	}

	if updated {
		e.logger.Info("order assigned",
			zap.Int64("order_id", orderID),
			zap.String("assignee_type", string(ref.Kind)),
			zap.Int64("assignee_id", ref.ID),
		)
		return entities.AppliedAssignment(ref)
	}

	// Zero rows means the precondition failed. Re-read to distinguish a lost
	// race from a repeated commit of the same assignee, which must stay
	// idempotent.
	order, err := e.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		e.logger.Error("post-commit read failed",
			zap.Int64("order_id", orderID), zap.Error(err))
		return entities.SkippedAssignment(constants.ReasonPersistenceError)
	}
	if current := order.AssigneeRef(); current != nil && *current == ref {
		return entities.AppliedAssignment(ref)
	}
	return entities.SkippedAssignment(constants.ReasonStalePrecondition)
}
