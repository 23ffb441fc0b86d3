package enums

import (
	"fmt"
	"strings"
)

// Position is an officer position an identity may hold at one lodge.
// PositionMember is the sentinel meaning "no officer position"; any number of
// people may hold it at the same lodge, so occupancy checks exclude it.
type Position string

const (
	PositionMember           Position = "MEMBER"
	PositionWorshipfulMaster Position = "WORSHIPFUL_MASTER"
	PositionSeniorWarden     Position = "SENIOR_WARDEN"
	PositionJuniorWarden     Position = "JUNIOR_WARDEN"
	PositionTreasurer        Position = "TREASURER"
	PositionSecretary        Position = "SECRETARY"
	PositionChaplain         Position = "CHAPLAIN"
	PositionSeniorDeacon     Position = "SENIOR_DEACON"
	PositionJuniorDeacon     Position = "JUNIOR_DEACON"
	PositionTyler            Position = "TYLER"
)

var validPositions = []Position{
	PositionMember,
	PositionWorshipfulMaster,
	PositionSeniorWarden,
	PositionJuniorWarden,
	PositionTreasurer,
	PositionSecretary,
	PositionChaplain,
	PositionSeniorDeacon,
	PositionJuniorDeacon,
	PositionTyler,
}

// String implements fmt.Stringer.
func (p Position) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Position.
func (p Position) IsValid() bool {
	for _, candidate := range validPositions {
		if candidate == p {
			return true
		}
	}
	return false
}

// IsOfficer reports whether the position counts toward lodge officer occupancy.
func (p Position) IsOfficer() bool {
	return p.IsValid() && p != PositionMember
}

// NormalizePosition maps raw stored position values onto the closed set,
// falling back to the MEMBER sentinel for anything unrecognized.
func NormalizePosition(raw string) Position {
	key := Position(strings.ToUpper(strings.TrimSpace(raw)))
	if key.IsValid() {
		return key
	}
	return PositionMember
}

// ParsePosition converts raw input into a Position, rejecting unknown values.
func ParsePosition(value string) (Position, error) {
	for _, candidate := range validPositions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid position %q", value)
}
