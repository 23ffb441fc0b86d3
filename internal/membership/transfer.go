package membership

import (
	"context"
	"errors"
	"strings"

	"github.com/lodgelink/lodgelink-backend/internal/identity"
	"github.com/lodgelink/lodgelink-backend/pkg/db/models"
	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	pkgerrors "github.com/lodgelink/lodgelink-backend/pkg/errors"
	"gorm.io/gorm"
)

// defaultTxRepos binds the concrete repositories to a transaction handle.
func defaultTxRepos(tx *gorm.DB) (resolverRepository, identityWriter) {
	return NewRepository(tx), identity.NewRepository(tx)
}

// TransferDistrictAdmin hands the DISTRICT_ADMIN role from the current holder
// to a candidate who is a member of the district lodge. The target must be a
// district-level lodge. Both role changes happen in one transaction; the
// preconditions are re-checked inside it so a concurrent change aborts the
// whole handover.
func (s *service) TransferDistrictAdmin(ctx context.Context, rawRef string, req TransferRequest) error {
	ref, err := dbtypes.ParseLodgeRef(rawRef)
	if err != nil {
		s.metrics.IncTransfer("invalid_ref")
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid lodge reference")
	}
	if strings.EqualFold(strings.TrimSpace(req.FromEmail), strings.TrimSpace(req.ToEmail)) {
		s.metrics.IncTransfer("invalid_request")
		return pkgerrors.New(pkgerrors.CodeValidation, "cannot transfer to the current holder")
	}

	district, err := s.lodges.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.metrics.IncTransfer("not_district")
			return pkgerrors.New(pkgerrors.CodeNotFound, "district lodge not found")
		}
		s.metrics.IncTransfer("failed")
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load district lodge")
	}
	if !district.IsDistrict {
		s.metrics.IncTransfer("not_district")
		return pkgerrors.New(pkgerrors.CodeValidation, "lodge is not a district lodge")
	}

	repos := s.txRepos
	if repos == nil {
		repos = defaultTxRepos
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		resolver, identities := repos(tx)

		holder, err := findIdentity(ctx, identities, req.FromEmail)
		if err != nil {
			return err
		}
		candidate, err := findIdentity(ctx, identities, req.ToEmail)
		if err != nil {
			return err
		}

		if enums.NormalizeRole(string(holder.Role)) != enums.RoleDistrictAdmin {
			return pkgerrors.New(pkgerrors.CodePrecondition, "current holder does not hold the district admin role")
		}

		members, err := resolver.MembersOfLodge(ctx, ref)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolve district members")
		}
		if !containsIdentity(members, candidate) {
			return pkgerrors.New(pkgerrors.CodePrecondition, "candidate is not a member of the district lodge")
		}

		if _, err := identities.Update(ctx, holder.ID, map[string]any{
			"role": string(enums.RoleLodgeMember),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "demote current holder")
		}
		if _, err := identities.Update(ctx, candidate.ID, map[string]any{
			"role": string(enums.RoleDistrictAdmin),
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote candidate")
		}
		return nil
	})
	if err != nil {
		s.metrics.IncTransfer("failed")
		return err
	}
	s.metrics.IncTransfer("success")
	return nil
}

func findIdentity(ctx context.Context, identities identityWriter, email string) (*models.Identity, error) {
	found, err := identities.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "identity not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup identity")
	}
	return found, nil
}

func containsIdentity(members []models.Identity, target *models.Identity) bool {
	for i := range members {
		if members[i].ID == target.ID {
			return true
		}
	}
	return false
}
