package membership

import (
	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	"github.com/google/uuid"
)

// MemberDTO describes one identity's affiliation with a lodge.
type MemberDTO struct {
	IdentityID  uuid.UUID            `json:"identity_id"`
	Email       string               `json:"email"`
	DisplayName string               `json:"display_name"`
	Role        enums.Role           `json:"role"`
	Status      enums.IdentityStatus `json:"status"`
	Position    *enums.Position      `json:"position,omitempty"`
	IsPrimary   bool                 `json:"is_primary"`
}

// PositionDTO names an occupied officer position at a lodge and who holds
// it. A lodge's occupied positions form a set: each position appears once.
type PositionDTO struct {
	Position    enums.Position `json:"position"`
	IdentityID  uuid.UUID      `json:"identity_id"`
	DisplayName string         `json:"display_name"`
}

// memberFromModel maps an identity onto its member view at the given lodge.
// The sentinel MEMBER position is reported as no position.
func memberFromModel(m *models.Identity, ref dbtypes.LodgeRef) MemberDTO {
	dto := MemberDTO{
		IdentityID:  m.ID,
		Email:       m.Email,
		DisplayName: m.DisplayName(),
		Role:        enums.NormalizeRole(string(m.Role)),
		Status:      m.Status,
	}
	if primary, ok := m.PrimaryLodge(); ok && primary.Equal(ref) {
		dto.IsPrimary = true
	}
	if position, ok := m.PositionAt(ref); ok && position.IsOfficer() {
		p := position
		dto.Position = &p
	}
	return dto
}

// TransferRequest carries the inputs for a district admin handover.
type TransferRequest struct {
	FromEmail string `json:"from_email" validate:"required,email"`
	ToEmail   string `json:"to_email" validate:"required,email"`
}
