package entities

import "time"

// BroadcastOffer records that one candidate was notified during a broadcast.
// Accept calls are only honored for candidates with an offer row.
type BroadcastOffer struct {
	ID          int64        `json:"id"`
	OrderID     int64        `json:"order_id"`
	BroadcastID string       `json:"broadcast_id"`
	Kind        AssigneeKind `json:"kind"`
	AssigneeID  int64        `json:"assignee_id"`
	NotifiedAt  time.Time    `json:"notified_at"`
}
