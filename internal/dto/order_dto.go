package dto

import (
	"encoding/json"

	"claims-platform/internal/entities"
)

type CreateOrderDTO struct {
	DamageType  string `json:"damage_type" validate:"required,max=64"`
	PostalCode  string `json:"postal_code" validate:"omitempty,postal_code"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	// CustomerPayload is the raw intake wizard document. Kept opaque; only
	// the postal code is ever extracted from it.
	CustomerPayload json.RawMessage `json:"customer_payload,omitempty"`
}

type ManualAssignDTO struct {
	AssigneeType string `json:"assignee_type" validate:"required,oneof=internal external"`
	AssigneeID   int64  `json:"assignee_id" validate:"required,gt=0"`
}

type AcceptOfferDTO struct {
	AssigneeType string `json:"assignee_type" validate:"required,oneof=internal external"`
	AssigneeID   int64  `json:"assignee_id" validate:"required,gt=0"`
}

// AssignmentResultDTO reports what routing did with a freshly created order.
type AssignmentResultDTO struct {
	Applied      bool   `json:"applied"`
	AssigneeID   int64  `json:"assignee_id,omitempty"`
	AssigneeType string `json:"assignee_type,omitempty"`
	Reason       string `json:"reason,omitempty"`
	BroadcastID  string `json:"broadcast_id,omitempty"`
}

type OrderResponseDTO struct {
	*entities.Order
	Routing *AssignmentResultDTO `json:"routing,omitempty"`
}

type AcceptResponseDTO struct {
	OrderID int64  `json:"order_id"`
	Outcome string `json:"outcome"`
}
