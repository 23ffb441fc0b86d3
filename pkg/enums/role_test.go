package enums

import "testing"

func TestNormalizeRoleAliases(t *testing.T) {
	tests := []struct {
		raw  string
		want Role
	}{
		{"district_admin", RoleDistrictAdmin},
		{"DISTRICT_ADMIN", RoleDistrictAdmin},
		{"  districtadmin  ", RoleDistrictAdmin},
		{"lodge_admin", RoleLodgeAdmin},
		{"LodgeAdmin", RoleLodgeAdmin},
		{"super_admin", RoleSuperAdmin},
		{"member", RoleLodgeMember},
		{"lodge_member", RoleLodgeMember},
	}

	for _, tt := range tests {
		if got := NormalizeRole(tt.raw); got != tt.want {
			t.Fatalf("NormalizeRole(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestNormalizeRoleFailsClosed(t *testing.T) {
	for _, raw := range []string{"banana", "", "admin!", "root", "administrator"} {
		if got := NormalizeRole(raw); got != RoleLodgeMember {
			t.Fatalf("NormalizeRole(%q) = %s, want fail-closed LODGE_MEMBER", raw, got)
		}
	}
}

func TestRoleIsAdmin(t *testing.T) {
	if !RoleDistrictAdmin.IsAdmin() || !RoleLodgeAdmin.IsAdmin() || !RoleSuperAdmin.IsAdmin() {
		t.Fatalf("admin roles should report IsAdmin")
	}
	if RoleLodgeMember.IsAdmin() {
		t.Fatalf("LODGE_MEMBER must not report IsAdmin")
	}
}

func TestParseRoleRejectsAliases(t *testing.T) {
	if _, err := ParseRole("district_admin"); err == nil {
		t.Fatalf("ParseRole should reject non-canonical spellings")
	}
	role, err := ParseRole("DISTRICT_ADMIN")
	if err != nil || role != RoleDistrictAdmin {
		t.Fatalf("ParseRole(DISTRICT_ADMIN) = %s, %v", role, err)
	}
}
