package user

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/auth"
	"github.com/vendorwatch/vendorwatch/internal/models"
)

type fakeStore struct {
	byID   map[uuid.UUID]*models.User
	audits []models.AuditLog
}

func newFakeStore() *fakeStore {
	return &fakeStore{byID: map[uuid.UUID]*models.User{}}
}

func (f *fakeStore) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok || u.OrganizationID != orgID {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetActiveByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.byID {
		if u.Email == email && u.IsActive {
			cp := *u
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeStore) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]models.User, error) {
	var out []models.User
	for _, u := range f.byID {
		if u.OrganizationID == orgID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeStore) EmailTaken(_ context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	for _, u := range f.byID {
		if u.OrganizationID == orgID && strings.EqualFold(u.Email, email) && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) CountActiveOwners(_ context.Context, orgID uuid.UUID) (int, error) {
	n := 0
	for _, u := range f.byID {
		if u.OrganizationID == orgID && u.Role == models.RoleOwner && u.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Create(_ context.Context, u *models.User, entry models.AuditLog) (*models.User, error) {
	cp := *u
	cp.ID = uuid.New()
	f.byID[cp.ID] = &cp

	entry.EntityID = cp.ID
	f.audits = append(f.audits, entry)
	out := cp
	return &out, nil
}

func (f *fakeStore) Update(_ context.Context, orgID, id uuid.UUID, values UpdateValues, entry models.AuditLog) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok || u.OrganizationID != orgID {
		return nil, models.ErrNotFound
	}
	if values.Email != nil {
		u.Email = *values.Email
	}
	if values.FirstName != nil {
		u.FirstName = *values.FirstName
	}
	if values.LastName != nil {
		u.LastName = *values.LastName
	}
	if values.Role != nil {
		u.Role = *values.Role
	}
	if values.IsActive != nil {
		u.IsActive = *values.IsActive
	}
	if values.PasswordHash != nil {
		u.PasswordHash = *values.PasswordHash
	}
	f.audits = append(f.audits, entry)
	cp := *u
	return &cp, nil
}

func (f *fakeStore) Delete(_ context.Context, orgID, id uuid.UUID, entry models.AuditLog) error {
	u, ok := f.byID[id]
	if !ok || u.OrganizationID != orgID {
		return models.ErrNotFound
	}
	delete(f.byID, id)
	f.audits = append(f.audits, entry)
	return nil
}

func seedUser(store *fakeStore, orgID uuid.UUID, email string, role models.Role, active bool) *models.User {
	u := &models.User{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Email:          email,
		FirstName:      "Test",
		LastName:       "User",
		Role:           role,
		IsActive:       active,
	}
	store.byID[u.ID] = u
	return u
}

func ownerPrincipal(orgID uuid.UUID, userID uuid.UUID) auth.Principal {
	return auth.Principal{UserID: userID, Role: models.RoleOwner, OrganizationID: orgID}
}

func TestCreateNormalizesEmailAndAudits(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	p := ownerPrincipal(orgID, uuid.New())

	created, err := svc.Create(context.Background(), p, CreateInput{
		Email:     "  New.Analyst@Example.COM ",
		FirstName: "New",
		LastName:  "Analyst",
		Password:  "s3cret-enough",
		Role:      "analyst",
	}, "10.0.0.1")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Email != "new.analyst@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", created.Email)
	}
	if created.Role != models.RoleAnalyst {
		t.Errorf("role = %s, want Analyst", created.Role)
	}
	if !created.IsActive {
		t.Error("new user not active")
	}
	if created.PasswordHash == "" || created.PasswordHash == "s3cret-enough" {
		t.Error("password not hashed")
	}
	if len(store.audits) != 1 || store.audits[0].Action != models.AuditCreate || store.audits[0].EntityType != models.EntityUser {
		t.Errorf("audits = %+v, want one CREATE user", store.audits)
	}
}

func TestCreateDuplicateEmailConflicts(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	seedUser(store, orgID, "taken@example.com", models.RoleAnalyst, true)
	p := ownerPrincipal(orgID, uuid.New())

	_, err := svc.Create(context.Background(), p, CreateInput{
		Email:     "Taken@example.com",
		FirstName: "A",
		LastName:  "B",
		Password:  "longenough",
		Role:      "Admin",
	}, "")
	if !errors.Is(err, models.ErrConflict) {
		t.Errorf("err = %v, want conflict", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newFakeStore())
	p := ownerPrincipal(uuid.New(), uuid.New())

	_, err := svc.Create(context.Background(), p, CreateInput{
		Email:    "not-an-email",
		Password: "short",
		Role:     "Wizard",
	}, "")

	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	for _, field := range []string{"email", "firstName", "lastName", "password", "role"} {
		if len(verr.Fields[field]) == 0 {
			t.Errorf("missing validation message for %s", field)
		}
	}
}

func TestCreateWithoutPermission(t *testing.T) {
	svc := NewService(newFakeStore())
	orgID := uuid.New()
	p := auth.Principal{UserID: uuid.New(), Role: models.RoleAdmin, OrganizationID: orgID}

	_, err := svc.Create(context.Background(), p, CreateInput{
		Email: "a@b.c", FirstName: "A", LastName: "B", Password: "longenough", Role: "Analyst",
	}, "")
	if !errors.Is(err, models.ErrForbidden) {
		t.Errorf("err = %v, want forbidden (Admin lacks user:manage)", err)
	}
}

func TestUpdateCannotDemoteLastOwner(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	owner := seedUser(store, orgID, "owner@example.com", models.RoleOwner, true)
	p := ownerPrincipal(orgID, owner.ID)

	role := "Admin"
	_, err := svc.Update(context.Background(), p, owner.ID, UpdateInput{Role: &role}, "")

	var ierr *models.InvariantError
	if !errors.As(err, &ierr) {
		t.Fatalf("err = %v, want InvariantError", err)
	}
}

func TestUpdateCannotDeactivateLastOwner(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	owner := seedUser(store, orgID, "owner@example.com", models.RoleOwner, true)
	p := ownerPrincipal(orgID, owner.ID)

	inactive := false
	_, err := svc.Update(context.Background(), p, owner.ID, UpdateInput{IsActive: &inactive}, "")

	var ierr *models.InvariantError
	if !errors.As(err, &ierr) {
		t.Fatalf("err = %v, want InvariantError", err)
	}
}

func TestUpdateDemoteOwnerWithAnotherOwnerPresent(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	first := seedUser(store, orgID, "first@example.com", models.RoleOwner, true)
	second := seedUser(store, orgID, "second@example.com", models.RoleOwner, true)
	p := ownerPrincipal(orgID, first.ID)

	role := "Admin"
	updated, err := svc.Update(context.Background(), p, second.ID, UpdateInput{Role: &role}, "")
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Role != models.RoleAdmin {
		t.Errorf("role = %s, want Admin", updated.Role)
	}
}

// An inactive second Owner does not count towards the safety margin.
func TestUpdateInactiveOwnerDoesNotCount(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	active := seedUser(store, orgID, "active@example.com", models.RoleOwner, true)
	seedUser(store, orgID, "dormant@example.com", models.RoleOwner, false)
	p := ownerPrincipal(orgID, uuid.New())

	role := "Auditor"
	_, err := svc.Update(context.Background(), p, active.ID, UpdateInput{Role: &role}, "")

	var ierr *models.InvariantError
	if !errors.As(err, &ierr) {
		t.Fatalf("err = %v, want InvariantError", err)
	}
}

func TestDeleteSelfRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	seedUser(store, orgID, "other@example.com", models.RoleOwner, true)
	me := seedUser(store, orgID, "me@example.com", models.RoleOwner, true)
	p := ownerPrincipal(orgID, me.ID)

	err := svc.Delete(context.Background(), p, me.ID, "")

	var ierr *models.InvariantError
	if !errors.As(err, &ierr) {
		t.Fatalf("err = %v, want InvariantError for self-delete", err)
	}
	if _, ok := store.byID[me.ID]; !ok {
		t.Error("user deleted despite self-delete guard")
	}
}

func TestDeleteLastOwnerRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	owner := seedUser(store, orgID, "owner@example.com", models.RoleOwner, true)
	p := ownerPrincipal(orgID, uuid.New())

	err := svc.Delete(context.Background(), p, owner.ID, "")

	var ierr *models.InvariantError
	if !errors.As(err, &ierr) {
		t.Fatalf("err = %v, want InvariantError for last Owner", err)
	}
}

func TestDeleteNonOwnerAuditsWithSnapshot(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()
	analyst := seedUser(store, orgID, "analyst@example.com", models.RoleAnalyst, true)
	p := ownerPrincipal(orgID, uuid.New())

	if err := svc.Delete(context.Background(), p, analyst.ID, "10.1.1.1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.audits) != 1 {
		t.Fatalf("audits = %d, want 1", len(store.audits))
	}
	entry := store.audits[0]
	if entry.Action != models.AuditDelete || entry.EntityType != models.EntityUser || entry.Before == nil {
		t.Errorf("delete audit entry = %+v", entry)
	}
}

func TestAuthenticate(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store)
	orgID := uuid.New()

	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	u := seedUser(store, orgID, "login@example.com", models.RoleAdmin, true)
	u.PasswordHash = hash
	dormant := seedUser(store, orgID, "dormant@example.com", models.RoleAdmin, false)
	dormant.PasswordHash = hash

	t.Run("valid credentials", func(t *testing.T) {
		got, err := svc.Authenticate(context.Background(), "Login@Example.com", "correct-horse")
		if err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
		if got.ID != u.ID {
			t.Error("wrong user returned")
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "login@example.com", "wrong")
		if !errors.Is(err, models.ErrUnauthorized) {
			t.Errorf("err = %v, want unauthorized", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "nobody@example.com", "correct-horse")
		if !errors.Is(err, models.ErrUnauthorized) {
			t.Errorf("err = %v, want unauthorized", err)
		}
	})

	t.Run("inactive user", func(t *testing.T) {
		_, err := svc.Authenticate(context.Background(), "dormant@example.com", "correct-horse")
		if !errors.Is(err, models.ErrUnauthorized) {
			t.Errorf("err = %v, want unauthorized", err)
		}
	})
}
