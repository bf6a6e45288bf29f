package entities

import "time"

// RoutingRule is an operator-authored override pinning a preferred craftsman
// to a (zip prefix, profession) pair. Priority 1 is the most preferred rule,
// higher numbers are backups.
type RoutingRule struct {
	ID          int64  `json:"id"`
	ZipPrefix   string `json:"zip_prefix"`
	Profession  string `json:"profession"`
	Priority    int    `json:"priority"`
	Active      bool   `json:"active"`
	CraftsmanID int64  `json:"craftsman_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
