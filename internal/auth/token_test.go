package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	u := &models.User{
		ID:             uuid.New(),
		OrganizationID: uuid.New(),
		Email:          "user@example.com",
		Role:           models.RoleAnalyst,
	}

	token, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	p, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.UserID != u.ID || p.OrganizationID != u.OrganizationID {
		t.Error("principal identity does not match issued user")
	}
	if p.Email != u.Email || p.Role != models.RoleAnalyst {
		t.Errorf("principal = %+v", p)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(&models.User{
		ID: uuid.New(), OrganizationID: uuid.New(), Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := other.Verify(token); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("err = %v, want unauthorized", err)
	}
}

func TestVerifyRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)
	token, err := issuer.Issue(&models.User{
		ID: uuid.New(), OrganizationID: uuid.New(), Role: models.RoleAdmin,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("err = %v, want unauthorized for expired token", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	if _, err := issuer.Verify("not.a.token"); !errors.Is(err, models.ErrUnauthorized) {
		t.Errorf("err = %v, want unauthorized", err)
	}
}

// An unknown role in a valid token yields a principal with no permissions
// rather than a verification failure.
func TestVerifyUnknownRoleHasNoPermissions(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue(&models.User{
		ID: uuid.New(), OrganizationID: uuid.New(), Role: models.Role("Superuser"),
	})
	if err != nil {
		t.Fatal(err)
	}

	p, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if p.Can(PermSupplierRead) {
		t.Error("unknown role granted supplier:read")
	}
}
