package audit

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

type fakeStore struct {
	lastQuery Query
}

func (f *fakeStore) List(_ context.Context, q Query) ([]models.AuditLog, int, error) {
	f.lastQuery = q
	return nil, 0, nil
}

func (f *fakeStore) GetByID(_ context.Context, orgID, id uuid.UUID) (*models.AuditLog, error) {
	return nil, models.ErrNotFound
}

func TestListRequiresOrganization(t *testing.T) {
	svc := NewService(&fakeStore{})
	_, _, err := svc.List(context.Background(), Query{})
	if !errors.Is(err, models.ErrInvalidInput) {
		t.Errorf("err = %v, want invalid input", err)
	}
}

func TestListClampsPagination(t *testing.T) {
	tests := []struct {
		name      string
		page      int
		limit     int
		wantPage  int
		wantLimit int
	}{
		{"defaults", 0, 0, 1, 20},
		{"negative", -3, -10, 1, 20},
		{"limit capped", 1, 5000, 1, 100},
		{"passthrough", 4, 50, 4, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewService(store)

			_, _, err := svc.List(context.Background(), Query{
				OrganizationID: uuid.New(),
				Page:           tt.page,
				Limit:          tt.limit,
			})
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if store.lastQuery.Page != tt.wantPage || store.lastQuery.Limit != tt.wantLimit {
				t.Errorf("page/limit = %d/%d, want %d/%d",
					store.lastQuery.Page, store.lastQuery.Limit, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestNewEntrySnapshots(t *testing.T) {
	orgID := uuid.New()
	userID := uuid.New()
	entityID := uuid.New()
	before := map[string]string{"name": "old"}

	entry, err := NewEntry(orgID, userID, models.AuditUpdate, models.EntitySupplier, entityID, before, nil, "10.0.0.1")
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}

	if entry.OrganizationID != orgID || entry.UserID != userID || entry.EntityID != entityID {
		t.Error("entry identity fields wrong")
	}
	if entry.Action != models.AuditUpdate || entry.EntityType != models.EntitySupplier {
		t.Error("entry action/type wrong")
	}
	if entry.After != nil {
		t.Error("after snapshot should be nil")
	}

	var got map[string]string
	if err := json.Unmarshal(entry.Before, &got); err != nil {
		t.Fatalf("before snapshot not valid JSON: %v", err)
	}
	if got["name"] != "old" {
		t.Errorf("before snapshot = %v", got)
	}
}

func TestNewEntryNilSnapshotsStayNil(t *testing.T) {
	entry, err := NewEntry(uuid.New(), uuid.New(), models.AuditCreate, models.EntityUser, uuid.Nil, nil, nil, "")
	if err != nil {
		t.Fatalf("NewEntry: %v", err)
	}
	if entry.Before != nil || entry.After != nil {
		t.Error("nil snapshots must stay nil, not encode to JSON null")
	}
}
