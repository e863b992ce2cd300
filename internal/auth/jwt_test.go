package auth

import (
	"testing"
	"time"

	"github.com/binhauler/binhauler/internal/model"
)

func TestIssueAndValidate(t *testing.T) {
	s := NewSigner("test-secret-key", 0)

	token, err := s.Issue(1, "admin", model.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.UserID != 1 || claims.Username != "admin" || claims.Role != model.RoleAdmin {
		t.Errorf("unexpected claims %+v", claims)
	}
	if claims.Issuer != Issuer || claims.Subject != "1" {
		t.Errorf("unexpected registered claims %+v", claims.RegisteredClaims)
	}
	if claims.ID == "" {
		t.Error("expected a JTI")
	}
}

func TestUniqueJTI(t *testing.T) {
	s := NewSigner("secret", 0)
	a, _ := s.Issue(1, "a", model.RoleDriver)
	b, _ := s.Issue(1, "a", model.RoleDriver)
	ca, _ := s.Validate(a)
	cb, _ := s.Validate(b)
	if ca.ID == cb.ID {
		t.Error("expected distinct JTIs")
	}
}

func TestValidateWrongSecret(t *testing.T) {
	token, _ := NewSigner("secret1", 0).Issue(1, "admin", model.RoleAdmin)

	if _, err := NewSigner("secret2", 0).Validate(token); err == nil {
		t.Error("expected error for wrong secret")
	}
}

func TestValidateGarbage(t *testing.T) {
	if _, err := NewSigner("secret", 0).Validate("not-a-token"); err == nil {
		t.Error("expected error for invalid token")
	}
}

func TestTokenExpiry(t *testing.T) {
	s := NewSigner("secret", time.Hour)
	issuedAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return issuedAt }

	token, _ := s.Issue(1, "driver", model.RoleDriver)
	claims, err := s.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !claims.ExpiresAt.Time.Equal(issuedAt.Add(time.Hour)) {
		t.Errorf("expected expiry %v, got %v", issuedAt.Add(time.Hour), claims.ExpiresAt.Time)
	}

	s.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	if _, err := s.Validate(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}
