package dto

import "github.com/aarondl/null/v8"

type CreateAssignmentSettingsDTO struct {
	Profession string `json:"profession" validate:"required,max=64"`
	// ZipPrefix nil creates the global row for the profession.
	ZipPrefix             *string `json:"zip_prefix,omitempty" validate:"omitempty,len=2,numeric"`
	Mode                  string  `json:"mode" validate:"required,oneof=manual auto broadcast"`
	BroadcastPartnerCount int     `json:"broadcast_partner_count" validate:"gte=0,lte=50"`
	FallbackBehavior      string  `json:"fallback_behavior" validate:"required,oneof=internal_only manual"`
	Active                *bool   `json:"active,omitempty"`
}

type UpdateAssignmentSettingsDTO struct {
	Mode                  null.String `json:"mode" validate:"omitempty"`
	BroadcastPartnerCount null.Int    `json:"broadcast_partner_count" validate:"omitempty"`
	FallbackBehavior      null.String `json:"fallback_behavior" validate:"omitempty"`
	Active                null.Bool   `json:"active" validate:"omitempty"`
}
