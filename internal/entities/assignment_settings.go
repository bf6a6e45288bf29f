package entities

import "time"

// AssignmentSettings configures dispatch for a profession, either globally
// (ZipPrefix nil) or for one zip prefix. After resolution exactly one row is
// effective for a (profession, zip) pair: the zip-specific one when it exists.
type AssignmentSettings struct {
	ID         int64   `json:"id"`
	Profession string  `json:"profession"`
	ZipPrefix  *string `json:"zip_prefix,omitempty"`
	Mode       string  `json:"mode"`
	// BroadcastPartnerCount is the fan-out size of broadcast mode.
	BroadcastPartnerCount int `json:"broadcast_partner_count"`
	// FallbackBehavior applies when auto mode finds nobody or a broadcast
	// expires: internal_only retries the craftsman pool, manual leaves the
	// order for a human.
	FallbackBehavior string `json:"fallback_behavior"`
	Active           bool   `json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
