package membership

import (
	"context"

	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"gorm.io/gorm"
)

// Repository runs the membership resolution queries. The lodge side of the
// data survives in three places (typed primary id, legacy primary ref string,
// membership rows, plus the legacy ref array), so every lookup is a single OR
// predicate over all of them against the canonical form of the identifier.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a membership repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// MembersOfLodge returns every identity affiliated with the lodge, whichever
// column the affiliation was written to. Results are deduplicated by identity
// id (one SELECT over identities) and ordered for stable pagination.
func (r *Repository) MembersOfLodge(ctx context.Context, ref dbtypes.LodgeRef) ([]models.Identity, error) {
	canonical := ref.Canonical()

	predicate := r.db.
		Where("LOWER(TRIM(primary_lodge_ref)) = ?", canonical).
		Or("id IN (SELECT identity_id FROM lodge_memberships WHERE LOWER(TRIM(lodge_ref)) = ?)", canonical).
		Or("EXISTS (SELECT 1 FROM unnest(legacy_lodge_refs) AS legacy_ref WHERE LOWER(TRIM(legacy_ref)) = ?)", canonical)
	if id, ok := ref.UUID(); ok {
		predicate = predicate.Or("primary_lodge_id = ?", id)
	}

	var identities []models.Identity
	err := r.db.WithContext(ctx).
		Preload("Memberships").
		Where(predicate).
		Order("created_at ASC, id ASC").
		Find(&identities).Error
	if err != nil {
		return nil, err
	}
	return identities, nil
}
