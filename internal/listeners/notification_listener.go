package listeners

import (
	"context"
	"fmt"

	"claims-platform/internal/events"
	"claims-platform/internal/services"
	"claims-platform/pkg/eventbus"
)

// NotificationListener bridges dispatch events to the notification service.
type NotificationListener struct {
	notifications services.NotificationServiceInterface
}

func NewNotificationListener(notifications services.NotificationServiceInterface) *NotificationListener {
	return &NotificationListener{notifications: notifications}
}

func (l *NotificationListener) Register(bus *eventbus.Bus) {
	bus.Subscribe(events.OrderAssignedEventName, l.handleAssigned)
	bus.Subscribe(events.OrderBroadcastingEventName, l.handleBroadcasting)
}

func (l *NotificationListener) handleAssigned(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderAssignedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Name())
	}
	return l.notifications.NotifyAssigned(ctx, e.OrderID, e.AssigneeID, e.AssigneeType, e.Source)
}

func (l *NotificationListener) handleBroadcasting(ctx context.Context, event eventbus.Event) error {
	e, ok := event.(events.OrderBroadcastingEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.Name())
	}
	return l.notifications.NotifyBroadcast(ctx, e.OrderID, e.BroadcastID, e.CandidateCount)
}
