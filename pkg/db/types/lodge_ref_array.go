package dbtypes

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// LodgeRefArray maps the legacy lodges[] array onto a Postgres text[] column,
// preserving whatever string forms the historical records carried.
type LodgeRefArray []LodgeRef

func (a *LodgeRefArray) Scan(src any) error {
	if src == nil {
		*a = LodgeRefArray{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return a.parseFromString(v)
	case []byte:
		return a.parseFromString(string(v))
	default:
		return fmt.Errorf("LodgeRefArray: unsupported Scan type %T", src)
	}
}

func (a LodgeRefArray) Value() (driver.Value, error) {
	// Postgres array literal: {ref,ref}
	if len(a) == 0 {
		return "{}", nil
	}
	parts := make([]string, 0, len(a))
	for _, ref := range a {
		parts = append(parts, `"`+strings.ReplaceAll(ref.String(), `"`, `\"`)+`"`)
	}
	return "{" + strings.Join(parts, ",") + "}", nil
}

// Contains reports whether any element names the same lodge as ref.
func (a LodgeRefArray) Contains(ref LodgeRef) bool {
	for _, candidate := range a {
		if candidate.Equal(ref) {
			return true
		}
	}
	return false
}

func (a *LodgeRefArray) parseFromString(s string) error {
	s = strings.TrimSpace(s)
	if s == "{}" || s == "" {
		*a = LodgeRefArray{}
		return nil
	}
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")
	if strings.TrimSpace(s) == "" {
		*a = LodgeRefArray{}
		return nil
	}

	raw := strings.Split(s, ",")
	out := make([]LodgeRef, 0, len(raw))
	for _, r := range raw {
		r = strings.Trim(strings.TrimSpace(r), `"`)
		if r == "" {
			continue
		}
		out = append(out, LodgeRef(r))
	}
	*a = LodgeRefArray(out)
	return nil
}
