package models

import "testing"

func TestRoleValid(t *testing.T) {
	for _, role := range []Role{RoleJobSeeker, RoleEmployer, RoleAdmin} {
		if !role.Valid() {
			t.Errorf("%s should be valid", role)
		}
	}
	for _, role := range []Role{"", "superuser", "Admin"} {
		if role.Valid() {
			t.Errorf("%q should not be valid", role)
		}
	}
}

func TestRegistrationRoleDefaultsNonPrivileged(t *testing.T) {
	cases := map[string]Role{
		"job_seeker": RoleJobSeeker,
		"employer":   RoleEmployer,
		"admin":      RoleJobSeeker,
		"":           RoleJobSeeker,
		"root":       RoleJobSeeker,
	}

	for input, want := range cases {
		if got := RegistrationRole(input); got != want {
			t.Errorf("RegistrationRole(%q) = %s, want %s", input, got, want)
		}
	}
}
