package dto

type CreatePartnerDTO struct {
	CompanyName string   `json:"company_name" validate:"required,max=255"`
	Email       string   `json:"email" validate:"required,email"`
	Professions []string `json:"professions" validate:"required,min=1,dive,required,max=64"`
	Verified    bool     `json:"verified"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
	// ZipCoverage lists the two-digit prefixes the partner serves. Empty
	// means the partner declared nothing and stays eligible everywhere.
	ZipCoverage []string `json:"zip_coverage,omitempty" validate:"omitempty,dive,len=2,numeric"`
}
