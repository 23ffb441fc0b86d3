package models

import (
	"time"

	"github.com/google/uuid"
)

// Lodge is the read model for the externally owned lodge registry. The
// resolver only consumes identifiers and the district flag; lodge content is
// managed elsewhere.
type Lodge struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name       string     `gorm:"column:name;not null"`
	Number     int        `gorm:"column:number;not null;default:0"`
	IsDistrict bool       `gorm:"column:is_district;not null;default:false"`
	DistrictID *uuid.UUID `gorm:"column:district_id;type:uuid"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
