package entities

import "time"

// Partner is an independent company onboarded to receive routed work.
type Partner struct {
	ID          int64    `json:"id"`
	CompanyName string   `json:"company_name"`
	Email       string   `json:"email,omitempty"`
	Professions []string `json:"professions"`
	Verified    bool     `json:"verified"`
	Rating      float64  `json:"rating"`
	// ZipCoverage lists the zip prefixes the partner declared. Empty means no
	// coverage data was declared.
	ZipCoverage []string `json:"zip_coverage,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
