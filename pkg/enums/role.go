package enums

import (
	"fmt"
	"strings"
)

// Role is the system-wide permissions role held by an identity.
type Role string

const (
	RoleSuperAdmin    Role = "SUPER_ADMIN"
	RoleDistrictAdmin Role = "DISTRICT_ADMIN"
	RoleLodgeAdmin    Role = "LODGE_ADMIN"
	RoleLodgeMember   Role = "LODGE_MEMBER"
)

var validRoles = []Role{
	RoleSuperAdmin,
	RoleDistrictAdmin,
	RoleLodgeAdmin,
	RoleLodgeMember,
}

// roleAliases maps historical spellings (after trim + uppercase) onto the
// closed set. The legacy collections stored roles in mixed case and with
// underscore-free variants.
var roleAliases = map[string]Role{
	"SUPER_ADMIN":    RoleSuperAdmin,
	"SUPERADMIN":     RoleSuperAdmin,
	"DISTRICT_ADMIN": RoleDistrictAdmin,
	"DISTRICTADMIN":  RoleDistrictAdmin,
	"LODGE_ADMIN":    RoleLodgeAdmin,
	"LODGEADMIN":     RoleLodgeAdmin,
	"LODGE_MEMBER":   RoleLodgeMember,
	"LODGEMEMBER":    RoleLodgeMember,
	"MEMBER":         RoleLodgeMember,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role carries any administrative capability.
func (r Role) IsAdmin() bool {
	return r == RoleSuperAdmin || r == RoleDistrictAdmin || r == RoleLodgeAdmin
}

// NormalizeRole maps a raw stored role value onto the closed set. Unrecognized
// values fail closed to LODGE_MEMBER: an unreadable role must never grant
// elevated privilege.
func NormalizeRole(raw string) Role {
	key := strings.ToUpper(strings.TrimSpace(raw))
	if role, ok := roleAliases[key]; ok {
		return role
	}
	return RoleLodgeMember
}

// ParseRole converts raw input into a Role, rejecting unknown values.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
