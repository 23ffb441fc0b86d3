package membership

import (
	"context"
	"strings"
	"testing"

	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type stubResolver struct {
	byRef map[string][]models.Identity
	err   error
}

func (s *stubResolver) MembersOfLodge(ctx context.Context, ref dbtypes.LodgeRef) ([]models.Identity, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.byRef[ref.Canonical()], nil
}

type stubLodges struct {
	lodges       map[uuid.UUID]*models.Lodge
	constituents map[uuid.UUID][]models.Lodge
}

func (s *stubLodges) FindByID(ctx context.Context, id uuid.UUID) (*models.Lodge, error) {
	lodge, ok := s.lodges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return lodge, nil
}

func (s *stubLodges) FindByRef(ctx context.Context, ref dbtypes.LodgeRef) (*models.Lodge, error) {
	for id, lodge := range s.lodges {
		if dbtypes.NewLodgeRef(id).Equal(ref) {
			return lodge, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLodges) ListConstituents(ctx context.Context, districtID uuid.UUID) ([]models.Lodge, error) {
	return s.constituents[districtID], nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newResolverService(t *testing.T, resolver *stubResolver, lodges *stubLodges) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Resolver: resolver,
		Lodges:   lodges,
		Tx:       stubTx{},
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func positionPtr(p enums.Position) *enums.Position { return &p }

func TestMembersOfLodgeMatchesAcrossStoredForms(t *testing.T) {
	lodgeID := uuid.New()
	ref := dbtypes.NewLodgeRef(lodgeID)

	primaryMember := models.Identity{
		ID:             uuid.New(),
		Email:          "primary@example.com",
		FullName:       strPtr("Primary Member"),
		Role:           enums.RoleLodgeMember,
		Status:         enums.IdentityStatusActive,
		PrimaryLodgeID: &lodgeID,
	}
	legacyRef := "  " + strings.ToUpper(lodgeID.String()) + "  "
	legacyMember := models.Identity{
		ID:              uuid.New(),
		Email:           "legacy@example.com",
		FullName:        strPtr("Legacy Member"),
		Role:            enums.Role("lodge_admin"),
		Status:          enums.IdentityStatusActive,
		PrimaryLodgeRef: &legacyRef,
	}

	resolver := &stubResolver{byRef: map[string][]models.Identity{
		ref.Canonical(): {primaryMember, legacyMember},
	}}
	svc := newResolverService(t, resolver, &stubLodges{})

	// the quoted uppercase form canonicalizes to the same key
	members, err := svc.MembersOfLodge(context.Background(), `"`+strings.ToUpper(lodgeID.String())+`"`)
	if err != nil {
		t.Fatalf("members of lodge: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}
	if !members[0].IsPrimary {
		t.Errorf("expected typed-id member marked primary")
	}
	if !members[1].IsPrimary {
		t.Errorf("expected legacy-ref member marked primary")
	}
	if members[1].Role != enums.RoleLodgeAdmin {
		t.Errorf("expected stored role normalized, got %s", members[1].Role)
	}
}

func TestMembersOfLodgeRejectsEmptyRef(t *testing.T) {
	svc := newResolverService(t, &stubResolver{}, &stubLodges{})
	_, err := svc.MembersOfLodge(context.Background(), "   ")
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestOccupiedPositionsExcludesSentinel(t *testing.T) {
	lodgeID := uuid.New()
	ref := dbtypes.NewLodgeRef(lodgeID)

	master := models.Identity{
		ID:                   uuid.New(),
		Email:                "wm@example.com",
		FullName:             strPtr("Worshipful Master"),
		Status:               enums.IdentityStatusActive,
		PrimaryLodgeID:       &lodgeID,
		PrimaryLodgePosition: positionPtr(enums.PositionWorshipfulMaster),
	}
	plainMember := models.Identity{
		ID:             uuid.New(),
		Email:          "plain@example.com",
		Status:         enums.IdentityStatusActive,
		PrimaryLodgeID: &lodgeID,
	}
	rowMember := models.Identity{
		ID:     uuid.New(),
		Email:  "sec@example.com",
		Status: enums.IdentityStatusActive,
		Memberships: []models.LodgeMembership{
			{LodgeRef: ref, Position: enums.PositionSecretary},
		},
	}
	sentinelRow := models.Identity{
		ID:     uuid.New(),
		Email:  "row@example.com",
		Status: enums.IdentityStatusActive,
		Memberships: []models.LodgeMembership{
			{LodgeRef: ref, Position: enums.PositionMember},
		},
	}

	resolver := &stubResolver{byRef: map[string][]models.Identity{
		ref.Canonical(): {master, plainMember, rowMember, sentinelRow},
	}}
	svc := newResolverService(t, resolver, &stubLodges{})

	positions, err := svc.OccupiedPositions(context.Background(), lodgeID.String())
	if err != nil {
		t.Fatalf("occupied positions: %v", err)
	}
	if len(positions) != 2 {
		t.Fatalf("expected 2 occupied positions, got %d: %+v", len(positions), positions)
	}
	got := map[enums.Position]bool{}
	for _, p := range positions {
		got[p.Position] = true
	}
	if !got[enums.PositionWorshipfulMaster] || !got[enums.PositionSecretary] {
		t.Fatalf("missing expected positions: %+v", positions)
	}
}

func TestOccupiedPositionsSeesRowChairBehindPrimaryColumn(t *testing.T) {
	lodgeID := uuid.New()
	ref := dbtypes.NewLodgeRef(lodgeID)

	// Primary lodge column matches with no position; the chair survives only
	// in the membership row.
	secretary := models.Identity{
		ID:             uuid.New(),
		Email:          "sec@example.com",
		FullName:       strPtr("Lodge Secretary"),
		Status:         enums.IdentityStatusActive,
		PrimaryLodgeID: &lodgeID,
		Memberships: []models.LodgeMembership{
			{LodgeRef: ref, Position: enums.PositionSecretary},
		},
	}

	resolver := &stubResolver{byRef: map[string][]models.Identity{
		ref.Canonical(): {secretary},
	}}
	svc := newResolverService(t, resolver, &stubLodges{})

	positions, err := svc.OccupiedPositions(context.Background(), lodgeID.String())
	if err != nil {
		t.Fatalf("occupied positions: %v", err)
	}
	if len(positions) != 1 || positions[0].Position != enums.PositionSecretary {
		t.Fatalf("expected SECRETARY occupied, got %+v", positions)
	}
	if positions[0].IdentityID != secretary.ID {
		t.Fatalf("expected secretary as holder, got %+v", positions[0])
	}
}

func TestOccupiedPositionsNormalizesLegacyRows(t *testing.T) {
	lodgeID := uuid.New()
	ref := dbtypes.NewLodgeRef(lodgeID)

	legacy := models.Identity{
		ID:     uuid.New(),
		Email:  "treasurer@example.com",
		Status: enums.IdentityStatusActive,
		Memberships: []models.LodgeMembership{
			{LodgeRef: ref, Position: enums.Position("treasurer")},
		},
	}

	resolver := &stubResolver{byRef: map[string][]models.Identity{
		ref.Canonical(): {legacy},
	}}
	svc := newResolverService(t, resolver, &stubLodges{})

	positions, err := svc.OccupiedPositions(context.Background(), lodgeID.String())
	if err != nil {
		t.Fatalf("occupied positions: %v", err)
	}
	if len(positions) != 1 || positions[0].Position != enums.PositionTreasurer {
		t.Fatalf("expected lowercase row reported as TREASURER, got %+v", positions)
	}
}

func TestOccupiedPositionsOneEntryPerChair(t *testing.T) {
	lodgeID := uuid.New()
	ref := dbtypes.NewLodgeRef(lodgeID)

	first := models.Identity{
		ID:     uuid.New(),
		Email:  "first@example.com",
		Status: enums.IdentityStatusActive,
		Memberships: []models.LodgeMembership{
			{LodgeRef: ref, Position: enums.PositionSecretary},
		},
	}
	second := models.Identity{
		ID:     uuid.New(),
		Email:  "second@example.com",
		Status: enums.IdentityStatusActive,
		Memberships: []models.LodgeMembership{
			{LodgeRef: ref, Position: enums.PositionSecretary},
		},
	}

	resolver := &stubResolver{byRef: map[string][]models.Identity{
		ref.Canonical(): {first, second},
	}}
	svc := newResolverService(t, resolver, &stubLodges{})

	positions, err := svc.OccupiedPositions(context.Background(), lodgeID.String())
	if err != nil {
		t.Fatalf("occupied positions: %v", err)
	}
	if len(positions) != 1 {
		t.Fatalf("expected one entry for the duplicated chair, got %+v", positions)
	}
	if positions[0].IdentityID != first.ID {
		t.Fatalf("expected the earliest holder kept, got %+v", positions[0])
	}
}

func TestDistrictMembersDeduplicatesAcrossLodges(t *testing.T) {
	districtID := uuid.New()
	blueID := uuid.New()
	districtRef := dbtypes.NewLodgeRef(districtID)
	blueRef := dbtypes.NewLodgeRef(blueID)

	shared := models.Identity{
		ID:             uuid.New(),
		Email:          "both@example.com",
		Status:         enums.IdentityStatusActive,
		PrimaryLodgeID: &blueID,
		Memberships: []models.LodgeMembership{
			{LodgeRef: districtRef, Position: enums.PositionMember},
		},
	}
	blueOnly := models.Identity{
		ID:             uuid.New(),
		Email:          "blue@example.com",
		Status:         enums.IdentityStatusActive,
		PrimaryLodgeID: &blueID,
	}

	resolver := &stubResolver{byRef: map[string][]models.Identity{
		districtRef.Canonical(): {shared},
		blueRef.Canonical():     {shared, blueOnly},
	}}
	lodges := &stubLodges{
		lodges: map[uuid.UUID]*models.Lodge{
			districtID: {ID: districtID, Name: "District 7", IsDistrict: true},
		},
		constituents: map[uuid.UUID][]models.Lodge{
			districtID: {{ID: blueID, Name: "Blue Lodge 42", DistrictID: &districtID}},
		},
	}
	svc := newResolverService(t, resolver, lodges)

	members, err := svc.DistrictMembers(context.Background(), districtID)
	if err != nil {
		t.Fatalf("district members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 unique members, got %d", len(members))
	}
}

func TestDistrictMembersRejectsNonDistrictLodge(t *testing.T) {
	blueID := uuid.New()
	lodges := &stubLodges{
		lodges: map[uuid.UUID]*models.Lodge{
			blueID: {ID: blueID, Name: "Blue Lodge 42", IsDistrict: false},
		},
	}
	svc := newResolverService(t, &stubResolver{}, lodges)

	_, err := svc.DistrictMembers(context.Background(), blueID)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}
