package membership

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"github.com/lodgelink/lodgelink-backend/pkg/metrics"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the membership resolution behavior consumed by the lodge
// and district controllers. All affiliation features route through here;
// nothing else queries the membership columns directly.
type Service interface {
	MembersOfLodge(ctx context.Context, rawRef string) ([]MemberDTO, error)
	OccupiedPositions(ctx context.Context, rawRef string) ([]PositionDTO, error)
	DistrictMembers(ctx context.Context, districtID uuid.UUID) ([]MemberDTO, error)
	TransferDistrictAdmin(ctx context.Context, rawRef string, req TransferRequest) error
}

type resolverRepository interface {
	MembersOfLodge(ctx context.Context, ref dbtypes.LodgeRef) ([]models.Identity, error)
}

type lodgeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Lodge, error)
	FindByRef(ctx context.Context, ref dbtypes.LodgeRef) (*models.Lodge, error)
	ListConstituents(ctx context.Context, districtID uuid.UUID) ([]models.Lodge, error)
}

type identityWriter interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Identity, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// txRepos builds transaction-bound repositories. Overridable in tests.
type txRepos func(tx *gorm.DB) (resolverRepository, identityWriter)

type service struct {
	resolver resolverRepository
	lodges   lodgeRepository
	tx       txRunner
	txRepos  txRepos
	metrics  *metrics.IdentityMetrics
}

// ServiceParams bundles the dependencies required to build a membership service.
type ServiceParams struct {
	Resolver resolverRepository
	Lodges   lodgeRepository
	Tx       txRunner
	TxRepos  txRepos
	Metrics  *metrics.IdentityMetrics
}

// NewService constructs the membership resolver service.
func NewService(params ServiceParams) (Service, error) {
	if params.Resolver == nil {
		return nil, fmt.Errorf("resolver repository is required")
	}
	if params.Lodges == nil {
		return nil, fmt.Errorf("lodge repository is required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner is required")
	}
	return &service{
		resolver: params.Resolver,
		lodges:   params.Lodges,
		tx:       params.Tx,
		txRepos:  params.TxRepos,
		metrics:  params.Metrics,
	}, nil
}

func (s *service) MembersOfLodge(ctx context.Context, rawRef string) ([]MemberDTO, error) {
	ref, err := dbtypes.ParseLodgeRef(rawRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lodge reference")
	}

	started := time.Now()
	identities, err := s.resolver.MembersOfLodge(ctx, ref)
	s.metrics.ObserveResolver("members_of_lodge", time.Since(started))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve members")
	}

	members := make([]MemberDTO, 0, len(identities))
	for i := range identities {
		members = append(members, memberFromModel(&identities[i], ref))
	}
	return members, nil
}

func (s *service) OccupiedPositions(ctx context.Context, rawRef string) ([]PositionDTO, error) {
	ref, err := dbtypes.ParseLodgeRef(rawRef)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lodge reference")
	}

	started := time.Now()
	identities, err := s.resolver.MembersOfLodge(ctx, ref)
	s.metrics.ObserveResolver("occupied_positions", time.Since(started))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve members")
	}

	// One entry per chair. Dirty data can hold two claimants for the same
	// position; the resolver orders by creation time, so the earliest wins.
	seen := map[enums.Position]struct{}{}
	positions := make([]PositionDTO, 0)
	for i := range identities {
		identity := &identities[i]
		position, ok := identity.PositionAt(ref)
		if !ok || !position.IsOfficer() {
			continue
		}
		if _, dup := seen[position]; dup {
			continue
		}
		seen[position] = struct{}{}
		positions = append(positions, PositionDTO{
			Position:    position,
			IdentityID:  identity.ID,
			DisplayName: identity.DisplayName(),
		})
	}
	return positions, nil
}

// DistrictMembers aggregates members across the district lodge and every
// constituent lodge, running each through the same resolver and deduplicating
// by identity id.
func (s *service) DistrictMembers(ctx context.Context, districtID uuid.UUID) ([]MemberDTO, error) {
	district, err := s.lodges.FindByID(ctx, districtID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "district lodge not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load district lodge")
	}
	if !district.IsDistrict {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lodge is not a district lodge")
	}

	constituents, err := s.lodges.ListConstituents(ctx, district.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list constituent lodges")
	}

	refs := make([]dbtypes.LodgeRef, 0, len(constituents)+1)
	refs = append(refs, dbtypes.NewLodgeRef(district.ID))
	for _, lodge := range constituents {
		refs = append(refs, dbtypes.NewLodgeRef(lodge.ID))
	}

	seen := map[uuid.UUID]struct{}{}
	members := make([]MemberDTO, 0)
	for _, ref := range refs {
		started := time.Now()
		identities, err := s.resolver.MembersOfLodge(ctx, ref)
		s.metrics.ObserveResolver("district_members", time.Since(started))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve members")
		}
		for i := range identities {
			identity := &identities[i]
			if _, dup := seen[identity.ID]; dup {
				continue
			}
			seen[identity.ID] = struct{}{}
			members = append(members, memberFromModel(identity, ref))
		}
	}
	return members, nil
}
