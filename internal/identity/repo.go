package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lodgelink/lodgelink-backend/pkg/db"
	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes identity persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an identity repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the supplied transaction handle.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new identity. A case-insensitive email conflict surfaces
// as CONFLICT rather than a raw driver error.
func (r *Repository) Create(ctx context.Context, dto CreateIdentityDTO) (*models.Identity, error) {
	identity := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(identity).Error; err != nil {
		if db.IsUniqueViolation(err, "idx_identities_email") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, err
	}
	return identity, nil
}

// FindByEmail retrieves the identity matching the provided email. Lookup is
// case-insensitive because legacy rows were written with mixed casing.
func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.Identity, error) {
	var identity models.Identity
	err := r.db.WithContext(ctx).
		Preload("Memberships").
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&identity).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// FindByID loads an identity and its membership rows by UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Identity, error) {
	var identity models.Identity
	err := r.db.WithContext(ctx).
		Preload("Memberships").
		First(&identity, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// Update applies a partial column update and reports NotFound when the row
// does not exist.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Identity, error) {
	if len(updates) == 0 {
		return r.FindByID(ctx, id)
	}
	updates["updated_at"] = time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("id = ?", id).
		Updates(updates)
	if result.Error != nil {
		if db.IsUniqueViolation(result.Error, "idx_identities_email") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, result.Error, "email already registered")
		}
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "identity not found")
	}
	return r.FindByID(ctx, id)
}

// UpdateLastLogin refreshes the identity's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// UpdateCredential replaces the stored password hash.
func (r *Repository) UpdateCredential(ctx context.Context, id uuid.UUID, hash string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"credential_hash": hash,
			"updated_at":      time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "identity not found")
	}
	return nil
}

// Delete removes the identity row. Rows still holding an admin role are
// refused; the caller must demote first.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	identity, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "identity not found")
		}
		return err
	}
	if identity.Role.IsAdmin() {
		return pkgerrors.New(pkgerrors.CodePrecondition, "cannot delete identity holding an admin role")
	}
	return r.db.WithContext(ctx).Delete(&models.Identity{}, "id = ?", id).Error
}
