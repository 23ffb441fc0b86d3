package enums

import "fmt"

// IdentityStatus tracks whether an identity may authenticate.
type IdentityStatus string

const (
	IdentityStatusActive   IdentityStatus = "active"
	IdentityStatusInactive IdentityStatus = "inactive"
	IdentityStatusPending  IdentityStatus = "pending"
)

var validIdentityStatuses = []IdentityStatus{
	IdentityStatusActive,
	IdentityStatusInactive,
	IdentityStatusPending,
}

// String implements fmt.Stringer.
func (s IdentityStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known IdentityStatus.
func (s IdentityStatus) IsValid() bool {
	for _, candidate := range validIdentityStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanAuthenticate reports whether login is permitted for this status.
func (s IdentityStatus) CanAuthenticate() bool {
	return s == IdentityStatusActive
}

// ParseIdentityStatus converts raw input into an IdentityStatus.
func ParseIdentityStatus(value string) (IdentityStatus, error) {
	for _, candidate := range validIdentityStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid identity status %q", value)
}
