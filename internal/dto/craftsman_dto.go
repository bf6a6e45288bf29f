package dto

type CreateCraftsmanDTO struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Role        string   `json:"role" validate:"required,oneof=owner trainee"`
	Professions []string `json:"professions" validate:"required,min=1,dive,required,max=64"`
	Verified    bool     `json:"verified"`
	Rating      float64  `json:"rating" validate:"gte=0,lte=5"`
}
