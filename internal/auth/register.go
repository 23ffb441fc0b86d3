package auth

import (
	"context"
	"strings"
	"time"

	"github.com/lodgelink/lodgelink-backend/internal/identity"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/security"
)

// Register creates a LODGE_MEMBER identity and logs it straight in. The role
// is never taken from the request; elevated roles only exist through
// administrative provisioning.
func (s *service) Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error) {
	if err := validateNameShape(req); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	created, err := s.identities.Create(ctx, identity.CreateIdentityDTO{
		Email:           req.Email,
		CredentialHash:  hash,
		FullName:        req.FullName,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Role:            enums.RoleLodgeMember,
		Status:          enums.IdentityStatusActive,
		PrimaryLodgeRef: req.PrimaryLodgeRef,
	})
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil {
			return nil, coded
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create identity")
	}

	now := time.Now().UTC()
	if err := s.identities.UpdateLastLogin(ctx, created.ID, now); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	created.LastLoginAt = &now

	access, refresh, err := s.issueTokens(ctx, created, now)
	if err != nil {
		return nil, err
	}
	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Identity:     identity.FromModel(created),
	}, nil
}

func validateNameShape(req RegisterRequest) error {
	hasFull := req.FullName != nil && strings.TrimSpace(*req.FullName) != ""
	hasSplit := (req.FirstName != nil && strings.TrimSpace(*req.FirstName) != "") ||
		(req.LastName != nil && strings.TrimSpace(*req.LastName) != "")
	switch {
	case hasFull && hasSplit:
		return pkgerrors.New(pkgerrors.CodeValidation, "provide either full_name or first_name/last_name, not both")
	case !hasFull && !hasSplit:
		return pkgerrors.New(pkgerrors.CodeValidation, "a name is required")
	}
	return nil
}
