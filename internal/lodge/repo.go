package lodge

import (
	"context"

	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository reads the lodge registry. Lodge content is owned by an external
// system; this side only consumes identifiers, names, and the district shape.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a lodge repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// FindByID loads a single lodge.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Lodge, error) {
	var lodge models.Lodge
	if err := r.db.WithContext(ctx).First(&lodge, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lodge, nil
}

// ListConstituents returns the lodges belonging to a district, ordered by
// lodge number for stable output.
func (r *Repository) ListConstituents(ctx context.Context, districtID uuid.UUID) ([]models.Lodge, error) {
	var lodges []models.Lodge
	err := r.db.WithContext(ctx).
		Where("district_id = ?", districtID).
		Order("number ASC").
		Find(&lodges).Error
	if err != nil {
		return nil, err
	}
	return lodges, nil
}

// FindByRef resolves a lodge from any reference form the legacy data
// carries: the typed id, the lodge number, or the lodge name.
func (r *Repository) FindByRef(ctx context.Context, ref dbtypes.LodgeRef) (*models.Lodge, error) {
	if id, ok := ref.UUID(); ok {
		return r.FindByID(ctx, id)
	}
	var lodge models.Lodge
	err := r.db.WithContext(ctx).
		Where("LOWER(name) = ? OR number::text = ?", ref.Canonical(), ref.Canonical()).
		First(&lodge).Error
	if err != nil {
		return nil, err
	}
	return &lodge, nil
}

// ListPage returns one cursor page of the lodge directory ordered by
// (created_at, id). The returned cursor is empty on the last page.
func (r *Repository) ListPage(ctx context.Context, params pagination.Params) ([]models.Lodge, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	limit := pagination.LimitWithBuffer(params.Limit)
	q := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Limit(limit)
	if cursor != nil {
		q = q.Where("(created_at, id) > (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var lodges []models.Lodge
	if err := q.Find(&lodges).Error; err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing lodges")
	}

	next := ""
	if len(lodges) == limit {
		lodges = lodges[:limit-1]
		last := lodges[len(lodges)-1]
		next = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return lodges, next, nil
}
