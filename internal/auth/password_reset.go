package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/lodgelink/lodgelink-backend/pkg/config"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/logger"
	"github.com/lodgelink/lodgelink-backend/pkg/mailer"
	"github.com/lodgelink/lodgelink-backend/pkg/security"
	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const resetTokenBytes = 32

// ResetFlow implements the forgot/reset password loop: a single-use token in
// Redis, delivered by email, consumed exactly once.
type ResetFlow struct {
	store resetStore
	mail  mailer.Sender
	cfg   config.PasswordResetConfig
	logg  *logger.Logger
}

type resetStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	PasswordResetKey(token string) string
}

// NewResetFlow wires the reset-token store and the mailer.
func NewResetFlow(store resetStore, mail mailer.Sender, cfg config.PasswordResetConfig, logg *logger.Logger) *ResetFlow {
	return &ResetFlow{store: store, mail: mail, cfg: cfg, logg: logg}
}

// ForgotPassword issues a reset token when the email is known. The response
// is identical either way so the endpoint cannot be used to probe for
// registered addresses.
func (s *service) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) error {
	if s.reset == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "password reset is not configured")
	}
	found, err := s.identities.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup identity")
	}

	token, err := generateResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}
	key := s.reset.store.PasswordResetKey(token)
	if err := s.reset.store.Set(ctx, key, found.ID.String(), s.reset.cfg.TokenTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store reset token")
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", s.reset.cfg.BaseURL, token)
	text := fmt.Sprintf("A password reset was requested for your account.\n\nReset link: %s\n\nIf you did not request this, ignore this message.", link)
	html := fmt.Sprintf(`<p>A password reset was requested for your account.</p><p><a href=%q>Reset your password</a></p><p>If you did not request this, ignore this message.</p>`, link)
	if err := s.reset.mail.Send(ctx, found.Email, "Reset your LodgeLink password", text, html); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "send reset email")
	}
	return nil
}

// ResetPassword consumes the emailed token. Unknown or expired tokens fail
// closed with the same error.
func (s *service) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if s.reset == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "password reset is not configured")
	}
	key := s.reset.store.PasswordResetKey(req.Token)
	stored, err := s.reset.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid or expired reset token")
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load reset token")
	}

	identityID, err := uuid.Parse(stored)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "corrupt reset token entry")
	}

	hash, err := security.HashPassword(req.Password, s.pwCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if err := s.identities.UpdateCredential(ctx, identityID, hash); err != nil {
		return err
	}

	// single use
	if err := s.reset.store.Del(ctx, key); err != nil && s.reset.logg != nil {
		s.reset.logg.Warn(ctx, "failed to delete consumed reset token")
	}
	return nil
}

func generateResetToken() (string, error) {
	bytes := make([]byte, resetTokenBytes)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(bytes), nil
}
