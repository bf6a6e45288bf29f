package entities

import (
	"encoding/json"
	"time"
)

// Order is a damage claim produced by the intake wizard. The two assignment
// columns are mutually exclusive, at most one is ever set.
type Order struct {
	ID              int64           `json:"id"`
	DamageType      string          `json:"damage_type"`
	PostalCode      string          `json:"postal_code,omitempty"`
	Description     string          `json:"description,omitempty"`
	State           string          `json:"state"`
	CustomerPayload json.RawMessage `json:"customer_payload,omitempty"`

	AssignedCraftsmanID *int64 `json:"assigned_craftsman_id,omitempty"`
	AssignedPartnerID   *int64 `json:"assigned_partner_id,omitempty"`

	BroadcastID       *string    `json:"broadcast_id,omitempty"`
	BroadcastDeadline *time.Time `json:"broadcast_deadline,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AssigneeRef reconstructs the domain union from the two nullable columns.
// Returns nil when the order is unassigned.
func (o *Order) AssigneeRef() *AssigneeRef {
	if o.AssignedCraftsmanID != nil {
		return &AssigneeRef{Kind: AssigneeKindInternal, ID: *o.AssignedCraftsmanID}
	}
	if o.AssignedPartnerID != nil {
		return &AssigneeRef{Kind: AssigneeKindExternal, ID: *o.AssignedPartnerID}
	}
	return nil
}
