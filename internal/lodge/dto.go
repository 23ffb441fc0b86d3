package lodge

import (
	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	"github.com/google/uuid"
)

// LodgeDTO is the outward representation of a lodge registry row.
type LodgeDTO struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Number     int        `json:"number"`
	IsDistrict bool       `json:"is_district"`
	DistrictID *uuid.UUID `json:"district_id,omitempty"`
}

// FromModel maps a lodge model onto the API shape.
func FromModel(m *models.Lodge) *LodgeDTO {
	if m == nil {
		return nil
	}
	return &LodgeDTO{
		ID:         m.ID,
		Name:       m.Name,
		Number:     m.Number,
		IsDistrict: m.IsDistrict,
		DistrictID: m.DistrictID,
	}
}
