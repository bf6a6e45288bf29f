package entities

import "time"

// Craftsman is a staff member of the operator's own company. Matched on
// declared professions only, coverage is implicitly company-wide.
type Craftsman struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role"`
	Professions []string `json:"professions"`
	Verified    bool     `json:"verified"`
	Rating      float64  `json:"rating"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Craftsman) HasProfession(code string) bool {
	for _, p := range c.Professions {
		if p == code {
			return true
		}
	}
	return false
}
