package models

import (
	"time"

	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	"github.com/google/uuid"
)

// LodgeMembership links an identity with a lodge and the position held there.
// The lodge side is a LodgeRef rather than a typed foreign key because legacy
// rows stored the reference in whatever form the writing script used. An
// identity holds at most one position per lodge (unique index on identity +
// canonical ref).
type LodgeMembership struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	IdentityID uuid.UUID        `gorm:"column:identity_id;type:uuid;not null;index"`
	LodgeRef   dbtypes.LodgeRef `gorm:"column:lodge_ref;type:text;not null"`
	Position   enums.Position   `gorm:"column:position;type:text;not null;default:'MEMBER'"`
	Rank       int              `gorm:"column:rank;not null;default:0"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
