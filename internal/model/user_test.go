package model

import "testing"

func TestRoleAtLeast(t *testing.T) {
	tests := []struct {
		role     string
		minimum  string
		expected bool
	}{
		{RoleAdmin, RoleAdmin, true},
		{RoleAdmin, RoleDispatcher, true},
		{RoleAdmin, RoleDriver, true},
		{RoleDispatcher, RoleAdmin, false},
		{RoleDispatcher, RoleDispatcher, true},
		{RoleDispatcher, RoleDriver, true},
		{RoleDriver, RoleAdmin, false},
		{RoleDriver, RoleDispatcher, false},
		{RoleDriver, RoleDriver, true},
		// Unknown roles fail-closed.
		{"unknown", RoleDriver, false},
		{RoleAdmin, "unknown", false},
		{"", "", false},
		{"", RoleDriver, false},
	}

	for _, tt := range tests {
		got := RoleAtLeast(tt.role, tt.minimum)
		if got != tt.expected {
			t.Errorf("RoleAtLeast(%q, %q) = %v, want %v", tt.role, tt.minimum, got, tt.expected)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"short", true},
		{"1234567", true},
		{"12345678", false},
		{"a-valid-password", false},
	}

	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleAdmin, RoleDispatcher, RoleDriver} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	if ValidRole("manager") {
		t.Error("ValidRole(\"manager\") = true, want false")
	}
}
