package models

import (
	"testing"

	dbtypes "github.com/lodgelink/lodgelink-backend/pkg/db/types"
	"github.com/lodgelink/lodgelink-backend/pkg/enums"
	"github.com/google/uuid"
)

func positionPtr(p enums.Position) *enums.Position { return &p }

func TestPositionAtPrefersPrimaryColumnOfficer(t *testing.T) {
	lodgeID := uuid.New()
	ref := dbtypes.NewLodgeRef(lodgeID)

	identity := &Identity{
		ID:                   uuid.New(),
		PrimaryLodgeID:       &lodgeID,
		PrimaryLodgePosition: positionPtr(enums.PositionWorshipfulMaster),
		Memberships: []LodgeMembership{
			{LodgeRef: ref, Position: enums.PositionMember},
		},
	}

	position, ok := identity.PositionAt(ref)
	if !ok || position != enums.PositionWorshipfulMaster {
		t.Fatalf("expected WORSHIPFUL_MASTER, got %q (found=%v)", position, ok)
	}
}

func TestPositionAtMembershipRowBehindBarePrimary(t *testing.T) {
	lodgeID := uuid.New()
	ref := dbtypes.NewLodgeRef(lodgeID)

	// Primary lodge matches but carries no position; the officer chair lives
	// in the membership row and must still be visible.
	identity := &Identity{
		ID:             uuid.New(),
		PrimaryLodgeID: &lodgeID,
		Memberships: []LodgeMembership{
			{LodgeRef: ref, Position: enums.PositionSecretary},
		},
	}

	position, ok := identity.PositionAt(ref)
	if !ok || position != enums.PositionSecretary {
		t.Fatalf("expected SECRETARY from membership row, got %q (found=%v)", position, ok)
	}
}

func TestPositionAtPrimaryWithoutRowsIsMember(t *testing.T) {
	lodgeID := uuid.New()
	identity := &Identity{ID: uuid.New(), PrimaryLodgeID: &lodgeID}

	position, ok := identity.PositionAt(dbtypes.NewLodgeRef(lodgeID))
	if !ok || position != enums.PositionMember {
		t.Fatalf("expected MEMBER sentinel, got %q (found=%v)", position, ok)
	}
}

func TestPositionAtNormalizesLegacyCase(t *testing.T) {
	lodgeID := uuid.New()
	ref := dbtypes.NewLodgeRef(lodgeID)

	identity := &Identity{
		ID: uuid.New(),
		Memberships: []LodgeMembership{
			{LodgeRef: ref, Position: enums.Position("secretary")},
		},
	}

	position, ok := identity.PositionAt(ref)
	if !ok || position != enums.PositionSecretary {
		t.Fatalf("expected lowercase row normalized to SECRETARY, got %q (found=%v)", position, ok)
	}
	if !position.IsOfficer() {
		t.Fatalf("normalized position should count as an officer chair")
	}
}

func TestPositionAtUnaffiliatedLodge(t *testing.T) {
	identity := &Identity{ID: uuid.New()}
	if _, ok := identity.PositionAt(dbtypes.NewLodgeRef(uuid.New())); ok {
		t.Fatalf("expected no position at an unaffiliated lodge")
	}
}
