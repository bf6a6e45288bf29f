package events

import "time"

const (
	OrderAssignedEventName     = "order.assigned"
	OrderBroadcastingEventName = "order.broadcasting"
	BroadcastExpiredEventName  = "order.broadcast_expired"
)

// OrderAssignedEvent fires once per successful assignment commit, whether it
// came from auto dispatch, a manual override or an accepted broadcast offer.
type OrderAssignedEvent struct {
	OrderID      int64
	AssigneeType string
	AssigneeID   int64
	Source       string
}

func (OrderAssignedEvent) Name() string { return OrderAssignedEventName }

// OrderBroadcastingEvent fires after the offer fan-out was persisted.
type OrderBroadcastingEvent struct {
	OrderID        int64
	BroadcastID    string
	CandidateCount int
	Deadline       time.Time
}

func (OrderBroadcastingEvent) Name() string { return OrderBroadcastingEventName }

// BroadcastExpiredEvent fires when the sweep retires a broadcast nobody
// accepted in time.
type BroadcastExpiredEvent struct {
	OrderID     int64
	BroadcastID string
}

func (BroadcastExpiredEvent) Name() string { return BroadcastExpiredEventName }
