package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lodgelink/lodgelink-backend/internal/identity"
	pkgauth "github.com/lodgelink/lodgelink-backend/pkg/auth"
	"github.com/lodgelink/lodgelink-backend/pkg/auth/session"
	"github.com/lodgelink/lodgelink-backend/pkg/config"
	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/metrics"
	"github.com/lodgelink/lodgelink-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "invalid credentials"

// Service defines the behavior needed by the auth controller.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error)
	Logout(ctx context.Context, accessID string) error
	ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type identityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error)
	Create(ctx context.Context, dto identity.CreateIdentityDTO) (*models.Identity, error)
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	UpdateCredential(ctx context.Context, id uuid.UUID, hash string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type service struct {
	identities identityRepository
	session    sessionManager
	reset      *ResetFlow
	jwtCfg     config.JWTConfig
	pwCfg      config.PasswordConfig
	metrics    *metrics.IdentityMetrics
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	IdentityRepo   identityRepository
	SessionManager sessionManager
	ResetFlow      *ResetFlow
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Metrics        *metrics.IdentityMetrics
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.IdentityRepo == nil {
		return nil, fmt.Errorf("identity repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		identities: params.IdentityRepo,
		session:    params.SessionManager,
		reset:      params.ResetFlow,
		jwtCfg:     params.JWTConfig,
		pwCfg:      params.PasswordConfig,
		metrics:    params.Metrics,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	found, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.identities.UpdateLastLogin(ctx, found.ID, now); err != nil {
		s.metrics.IncLogin("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update last login")
	}
	found.LastLoginAt = &now

	access, refresh, err := s.issueTokens(ctx, found, now)
	if err != nil {
		s.metrics.IncLogin("error")
		return nil, err
	}

	s.metrics.IncLogin("success")
	return &LoginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		Identity:     identity.FromModel(found),
	}, nil
}

// authenticate resolves the identity and checks the credential. Unknown email
// and wrong password produce the same response; the account status check only
// runs after the credential verified, so the error never leaks whether the
// email exists.
func (s *service) authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	input := strings.TrimSpace(email)
	if input == "" {
		s.metrics.IncLogin("invalid_credentials")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	found, err := s.identities.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncLogin("invalid_credentials")
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		s.metrics.IncLogin("error")
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup identity")
	}

	if !security.VerifyPassword(password, found.CredentialHash) {
		s.metrics.IncLogin("invalid_credentials")
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	if !found.Status.CanAuthenticate() {
		s.metrics.IncLogin("inactive")
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is not active")
	}
	return found, nil
}

func (s *service) issueTokens(ctx context.Context, found *models.Identity, now time.Time) (string, string, error) {
	accessID := session.NewAccessID()
	payload := pkgauth.AccessTokenPayload{
		IdentityID: found.ID,
		Email:      found.Email,
		Role:       enums.NormalizeRole(string(found.Role)),
		JTI:        accessID,
	}
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, payload)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return "", "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store refresh token")
	}
	return accessToken, refreshToken, nil
}

func (s *service) Refresh(ctx context.Context, req RefreshRequest) (*RefreshResponse, error) {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, req.AccessToken)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid access token")
	}

	newAccessID, newRefresh, err := s.session.Rotate(ctx, claims.ID, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	// re-read so a role change since the last issue takes effect now
	found, err := s.identities.FindByID(ctx, claims.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "identity no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload identity")
	}
	if !found.Status.CanAuthenticate() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is not active")
	}

	payload := pkgauth.AccessTokenPayload{
		IdentityID: found.ID,
		Email:      found.Email,
		Role:       enums.NormalizeRole(string(found.Role)),
		JTI:        newAccessID,
	}
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, time.Now().UTC(), payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &RefreshResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh,
	}, nil
}

func (s *service) Logout(ctx context.Context, accessID string) error {
	if strings.TrimSpace(accessID) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session")
	}
	if err := s.session.Revoke(ctx, accessID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "revoke session")
	}
	return nil
}
