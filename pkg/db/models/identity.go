package models

import (
	"strings"
	"time"

	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	"github.com/google/uuid"
)

// Identity is the canonical person record, merged from the three legacy
// collections. Name is stored in exactly one of two shapes: a single full
// name, or a first/last pair. The primary lodge likewise survives in two
// columns: migrated rows carry the typed id, unmigrated rows the raw string
// the legacy collection held.
type Identity struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Email          string     `gorm:"type:text;not null;uniqueIndex"`
	CredentialHash string     `gorm:"column:credential_hash;not null"`
	FullName       *string    `gorm:"column:full_name"`
	FirstName      *string    `gorm:"column:first_name"`
	LastName       *string    `gorm:"column:last_name"`

	Role   enums.Role           `gorm:"column:role;type:text;not null;default:'LODGE_MEMBER'"`
	Status enums.IdentityStatus `gorm:"column:status;type:text;not null;default:'pending'"`

	PrimaryLodgeID       *uuid.UUID            `gorm:"column:primary_lodge_id;type:uuid"`
	PrimaryLodgeRef      *string               `gorm:"column:primary_lodge_ref"`
	PrimaryLodgePosition *enums.Position       `gorm:"column:primary_lodge_position;type:text"`
	LegacyLodgeRefs      dbtypes.LodgeRefArray `gorm:"type:text[];column:legacy_lodge_refs;not null;default:ARRAY[]::text[]"`
	AdministeredRefs     dbtypes.LodgeRefArray `gorm:"type:text[];column:administered_lodge_refs;not null;default:ARRAY[]::text[]"`

	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`

	Memberships []LodgeMembership `gorm:"foreignKey:IdentityID"`
}

// DisplayName produces a readable name from whichever shape the record holds.
func (i *Identity) DisplayName() string {
	if i == nil {
		return ""
	}
	if i.FullName != nil && strings.TrimSpace(*i.FullName) != "" {
		return strings.TrimSpace(*i.FullName)
	}
	first, last := "", ""
	if i.FirstName != nil {
		first = strings.TrimSpace(*i.FirstName)
	}
	if i.LastName != nil {
		last = strings.TrimSpace(*i.LastName)
	}
	return strings.TrimSpace(first + " " + last)
}

// PrimaryLodge returns the primary lodge reference regardless of which of the
// two columns the row carries.
func (i *Identity) PrimaryLodge() (dbtypes.LodgeRef, bool) {
	if i == nil {
		return "", false
	}
	if i.PrimaryLodgeID != nil {
		return dbtypes.NewLodgeRef(*i.PrimaryLodgeID), true
	}
	if i.PrimaryLodgeRef != nil && strings.TrimSpace(*i.PrimaryLodgeRef) != "" {
		return dbtypes.LodgeRef(*i.PrimaryLodgeRef), true
	}
	return "", false
}

// PositionAt reports the position this identity holds at the given lodge.
// Stored values are normalized onto the closed position set before use, so
// legacy lowercase rows still resolve. An officer chair wins over the MEMBER
// sentinel whichever column carries it: a primary-lodge match with no officer
// position does not mask an officer chair held in a membership row.
func (i *Identity) PositionAt(ref dbtypes.LodgeRef) (enums.Position, bool) {
	if i == nil {
		return "", false
	}
	position, found := enums.Position(""), false
	if primary, ok := i.PrimaryLodge(); ok && primary.Equal(ref) {
		found = true
		position = enums.PositionMember
		if i.PrimaryLodgePosition != nil {
			position = enums.NormalizePosition(string(*i.PrimaryLodgePosition))
		}
	}
	if !found || !position.IsOfficer() {
		for _, m := range i.Memberships {
			if m.LodgeRef.Equal(ref) {
				candidate := enums.NormalizePosition(string(m.Position))
				if !found || candidate.IsOfficer() {
					found = true
					position = candidate
				}
				break
			}
		}
	}
	return position, found
}
