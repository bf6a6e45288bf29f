package dto

import "github.com/aarondl/null/v8"

type CreateRoutingRuleDTO struct {
	ZipPrefix   string `json:"zip_prefix" validate:"required,len=2,numeric"`
	Profession  string `json:"profession" validate:"required,max=64"`
	Priority    int    `json:"priority" validate:"gte=0"`
	Active      *bool  `json:"active,omitempty"`
	CraftsmanID int64  `json:"craftsman_id" validate:"required,gt=0"`
}

type UpdateRoutingRuleDTO struct {
	ZipPrefix   null.String `json:"zip_prefix" validate:"omitempty"`
	Profession  null.String `json:"profession" validate:"omitempty"`
	Priority    null.Int    `json:"priority" validate:"omitempty"`
	Active      null.Bool   `json:"active" validate:"omitempty"`
	CraftsmanID null.Int64  `json:"craftsman_id" validate:"omitempty"`
}
