package services

import (
	"context"

	"go.uber.org/zap"
)

type NotificationServiceInterface interface {
	NotifyAssigned(ctx context.Context, orderID, assigneeID int64, assigneeType, source string) error
	NotifyBroadcast(ctx context.Context, orderID int64, broadcastID string, candidates int) error
}

// NotificationService records outbound notifications. Actual delivery runs
// through the messaging platform, which consumes the same events; this keeps
// an audit trail in the application log.
type NotificationService struct {
	logger *zap.Logger
}

func NewNotificationService(logger *zap.Logger) NotificationServiceInterface {
	return &NotificationService{logger: logger}
}

func (s *NotificationService) NotifyAssigned(ctx context.Context, orderID, assigneeID int64, assigneeType, source string) error {
	s.logger.Info("notifying assignee",
		zap.Int64("order_id", orderID),
		zap.Int64("assignee_id", assigneeID),
		zap.String("assignee_type", assigneeType),
		zap.String("source", source),
	)
	return nil
}

func (s *NotificationService) NotifyBroadcast(ctx context.Context, orderID int64, broadcastID string, candidates int) error {
	s.logger.Info("notifying broadcast candidates",
		zap.Int64("order_id", orderID),
		zap.String("broadcast_id", broadcastID),
		zap.Int("candidates", candidates),
	)
	return nil
}
