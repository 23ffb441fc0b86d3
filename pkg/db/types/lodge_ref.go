package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// LodgeRef is a reference to a lodge as the legacy collections stored it:
// sometimes a typed identifier, sometimes its string form with arbitrary
// casing or stray whitespace. Equality always normalizes both sides, so the
// membership predicate never has to care which shape a record carries.
type LodgeRef string

// NewLodgeRef builds a canonical reference from a typed lodge identifier.
func NewLodgeRef(id uuid.UUID) LodgeRef {
	return LodgeRef(id.String())
}

// ParseLodgeRef accepts any historical string form and rejects values that
// cannot name a lodge at all.
func ParseLodgeRef(raw string) (LodgeRef, error) {
	ref := LodgeRef(raw)
	if ref.Canonical() == "" {
		return "", fmt.Errorf("empty lodge ref")
	}
	return ref, nil
}

// String returns the value exactly as stored.
func (r LodgeRef) String() string {
	return string(r)
}

// Canonical returns the normalized comparison form: trimmed, unquoted,
// lowercased.
func (r LodgeRef) Canonical() string {
	s := strings.TrimSpace(string(r))
	s = strings.Trim(s, `"'`)
	return strings.ToLower(strings.TrimSpace(s))
}

// Equal reports whether two refs name the same lodge regardless of the stored
// form on either side.
func (r LodgeRef) Equal(other LodgeRef) bool {
	return r.Canonical() != "" && r.Canonical() == other.Canonical()
}

// UUID returns the typed identifier when the canonical form is one.
func (r LodgeRef) UUID() (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Canonical())
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// Scan implements sql.Scanner.
func (r *LodgeRef) Scan(src any) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = LodgeRef(v)
	case []byte:
		*r = LodgeRef(string(v))
	default:
		return fmt.Errorf("LodgeRef: unsupported Scan type %T", src)
	}
	return nil
}

// Value implements driver.Valuer. Refs are written in canonical form; only
// pre-existing rows carry legacy shapes.
func (r LodgeRef) Value() (driver.Value, error) {
	return r.Canonical(), nil
}
