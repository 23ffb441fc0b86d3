package identity

import (
	"strings"
	"time"

	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	"github.com/google/uuid"
)

// IdentityDTO is the outward representation of an identity. The credential
// hash never leaves the service layer.
type IdentityDTO struct {
	ID              uuid.UUID            `json:"id"`
	Email           string               `json:"email"`
	DisplayName     string               `json:"display_name"`
	Role            enums.Role           `json:"role"`
	Status          enums.IdentityStatus `json:"status"`
	PrimaryLodgeRef *string              `json:"primary_lodge_ref,omitempty"`
	LastLoginAt     *time.Time           `json:"last_login_at,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`

	// TempPassword is only set when provisioning generated the credential.
	// It is never persisted and no other operation returns it.
	TempPassword *string `json:"temp_password,omitempty"`
}

// FromModel maps the persisted identity onto the API shape, normalizing the
// stored role on the way out.
func FromModel(m *models.Identity) *IdentityDTO {
	if m == nil {
		return nil
	}
	dto := &IdentityDTO{
		ID:          m.ID,
		Email:       m.Email,
		DisplayName: m.DisplayName(),
		Role:        enums.NormalizeRole(string(m.Role)),
		Status:      m.Status,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
	if ref, ok := m.PrimaryLodge(); ok {
		canonical := ref.Canonical()
		dto.PrimaryLodgeRef = &canonical
	}
	return dto
}

// CreateIdentityDTO carries the fields needed to insert a new identity row.
// CredentialHash must already be hashed by the caller.
type CreateIdentityDTO struct {
	Email            string
	CredentialHash   string
	FullName         *string
	FirstName        *string
	LastName         *string
	Role             enums.Role
	Status           enums.IdentityStatus
	PrimaryLodgeID   *uuid.UUID
	PrimaryLodgeRef  *string
	LegacyLodgeRefs  []string
	AdministeredRefs []string
}

// ToModel builds the persistence model, lowercasing the email and defaulting
// role/status when unset.
func (d CreateIdentityDTO) ToModel() *models.Identity {
	role := d.Role
	if role == "" {
		role = enums.RoleLodgeMember
	}
	status := d.Status
	if status == "" {
		status = enums.IdentityStatusPending
	}
	m := &models.Identity{
		Email:           strings.ToLower(strings.TrimSpace(d.Email)),
		CredentialHash:  d.CredentialHash,
		FullName:        d.FullName,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Role:            role,
		Status:          status,
		PrimaryLodgeID:  d.PrimaryLodgeID,
		PrimaryLodgeRef: d.PrimaryLodgeRef,
	}
	for _, ref := range d.LegacyLodgeRefs {
		m.LegacyLodgeRefs = append(m.LegacyLodgeRefs, dbtypes.LodgeRef(ref))
	}
	for _, ref := range d.AdministeredRefs {
		m.AdministeredRefs = append(m.AdministeredRefs, dbtypes.LodgeRef(ref))
	}
	return m
}

// UpdateProfileDTO is a partial update for profile self-service. Name fields
// arrive as a set: sending full_name clears first/last and vice versa, keeping
// exactly one name shape at rest.
type UpdateProfileDTO struct {
	FullName  *string `json:"full_name,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

// HasNameChange reports whether any name field was provided.
func (d UpdateProfileDTO) HasNameChange() bool {
	return d.FullName != nil || d.FirstName != nil || d.LastName != nil
}

// ChangePasswordRequest is the self-service password change payload.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}
