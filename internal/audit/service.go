package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

// Store is the audit trail's persistence contract. There is deliberately no
// update or single-row delete: the log is append-only, removable only as part
// of the whole-organisation cascade.
type Store interface {
	List(ctx context.Context, q Query) ([]models.AuditLog, int, error)
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.AuditLog, error)
}

// Query filters AND together. OrganizationID is mandatory; results are always
// newest-first — the log is a chronological ledger and no other order has
// semantic value.
type Query struct {
	OrganizationID uuid.UUID
	EntityType     string
	EntityID       *uuid.UUID
	UserID         *uuid.UUID
	Action         models.AuditAction
	Page           int
	Limit          int
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) List(ctx context.Context, q Query) ([]models.AuditLog, int, error) {
	if q.OrganizationID == uuid.Nil {
		return nil, 0, fmt.Errorf("%w: organization id is required", models.ErrInvalidInput)
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 20
	}
	if q.Limit > 100 {
		q.Limit = 100
	}
	return s.store.List(ctx, q)
}

func (s *Service) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.AuditLog, error) {
	return s.store.GetByID(ctx, orgID, id)
}

// NewEntry builds an audit record with full denormalized snapshots. before is
// nil for CREATE, after is nil for DELETE; snapshots are the entity's complete
// public shape, not diffs, so history stays reconstructable on its own.
func NewEntry(orgID, userID uuid.UUID, action models.AuditAction, entityType string, entityID uuid.UUID, before, after any, ipAddress string) (models.AuditLog, error) {
	entry := models.AuditLog{
		OrganizationID: orgID,
		UserID:         userID,
		Action:         action,
		EntityType:     entityType,
		EntityID:       entityID,
		IPAddress:      ipAddress,
	}
	if before != nil {
		data, err := json.Marshal(before)
		if err != nil {
			return models.AuditLog{}, fmt.Errorf("marshal before snapshot: %w", err)
		}
		entry.Before = data
	}
	if after != nil {
		data, err := json.Marshal(after)
		if err != nil {
			return models.AuditLog{}, fmt.Errorf("marshal after snapshot: %w", err)
		}
		entry.After = data
	}
	return entry, nil
}
