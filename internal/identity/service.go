package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/lodgelink/lodgelink-backend/pkg/config"
	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the identities controller.
type Service interface {
	Me(ctx context.Context, id uuid.UUID) (*IdentityDTO, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileDTO) (*IdentityDTO, error)
	ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error
	Provision(ctx context.Context, req ProvisionRequest) (*IdentityDTO, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

type identityRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	Create(ctx context.Context, dto CreateIdentityDTO) (*models.Identity, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Identity, error)
	UpdateCredential(ctx context.Context, id uuid.UUID, hash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        identityRepository
	passwordCfg config.PasswordConfig
}

// ServiceParams bundles the dependencies required to build an identity service.
type ServiceParams struct {
	Repo           identityRepository
	PasswordConfig config.PasswordConfig
}

// NewService constructs an identity service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	return &service{
		repo:        params.Repo,
		passwordCfg: params.PasswordConfig,
	}, nil
}

// tempPasswordLength sizes the generated credential when an admin provisions
// an identity without supplying a password.
const tempPasswordLength = 16

// ProvisionRequest creates an identity administratively, with an explicit role
// and lodge assignments. The caller may supply a plaintext password; when
// omitted, a temporary one is generated and returned exactly once.
type ProvisionRequest struct {
	Email            string   `json:"email" validate:"required,email"`
	Password         string   `json:"password,omitempty" validate:"omitempty,min=8"`
	FullName         *string  `json:"full_name,omitempty"`
	FirstName        *string  `json:"first_name,omitempty"`
	LastName         *string  `json:"last_name,omitempty"`
	Role             string   `json:"role" validate:"required"`
	PrimaryLodgeRef  *string  `json:"primary_lodge_ref,omitempty"`
	AdministeredRefs []string `json:"administered_lodge_refs,omitempty"`
}

func (s *service) Me(ctx context.Context, id uuid.UUID) (*IdentityDTO, error) {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "identity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load identity")
	}
	return FromModel(identity), nil
}

func (s *service) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileDTO) (*IdentityDTO, error) {
	updates := map[string]any{}
	if req.HasNameChange() {
		if err := applyNameShape(updates, req); err != nil {
			return nil, err
		}
	}
	identity, err := s.repo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	return FromModel(identity), nil
}

// applyNameShape enforces the one-name-shape invariant: a full name clears the
// first/last pair and vice versa.
func applyNameShape(updates map[string]any, req UpdateProfileDTO) error {
	hasFull := req.FullName != nil && strings.TrimSpace(*req.FullName) != ""
	hasSplit := (req.FirstName != nil && strings.TrimSpace(*req.FirstName) != "") ||
		(req.LastName != nil && strings.TrimSpace(*req.LastName) != "")

	switch {
	case hasFull && hasSplit:
		return pkgerrors.New(pkgerrors.CodeValidation, "provide either full_name or first_name/last_name, not both")
	case hasFull:
		updates["full_name"] = strings.TrimSpace(*req.FullName)
		updates["first_name"] = nil
		updates["last_name"] = nil
	case hasSplit:
		updates["full_name"] = nil
		if req.FirstName != nil {
			updates["first_name"] = strings.TrimSpace(*req.FirstName)
		}
		if req.LastName != nil {
			updates["last_name"] = strings.TrimSpace(*req.LastName)
		}
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, "name fields cannot be empty")
	}
	return nil
}

func (s *service) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) error {
	identity, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "identity not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load identity")
	}
	if !security.VerifyPassword(current, identity.CredentialHash) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "current password is incorrect")
	}
	hash, err := security.HashPassword(next, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return s.repo.UpdateCredential(ctx, id, hash)
}

func (s *service) Provision(ctx context.Context, req ProvisionRequest) (*IdentityDTO, error) {
	role, err := enums.ParseRole(req.Role)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role")
	}

	password := req.Password
	generated := false
	if strings.TrimSpace(password) == "" {
		password, err = security.GenerateTempPassword(tempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
		}
		generated = true
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	identity, err := s.repo.Create(ctx, CreateIdentityDTO{
		Email:            req.Email,
		CredentialHash:   hash,
		FullName:         req.FullName,
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Role:             role,
		Status:           enums.IdentityStatusActive,
		PrimaryLodgeRef:  req.PrimaryLodgeRef,
		AdministeredRefs: req.AdministeredRefs,
	})
	if err != nil {
		if coded := pkgerrors.As(err); coded != nil {
			return nil, coded
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create identity")
	}

	dto := FromModel(identity)
	if generated {
		dto.TempPassword = &password
	}
	return dto, nil
}

func (s *service) Remove(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}
