package org

import (
	"context"

	"github.com/google/uuid"

	"github.com/vendorwatch/vendorwatch/internal/auth"
	"github.com/vendorwatch/vendorwatch/internal/models"
)

// Store owns the organisation lifecycle. DeleteCascade removes, in one
// transaction and in FK dependency order, the organisation's audit logs,
// users, suppliers and finally the organisation row itself. All or nothing.
type Store interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error)
	Create(ctx context.Context, name string) (*models.Organisation, error)
	DeleteCascade(ctx context.Context, orgID uuid.UUID) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// DeleteCurrent tears down the caller's own organisation. Owner only.
// The operation is exempt from audit logging: the audit table is being
// deleted as part of the same transaction.
func (s *Service) DeleteCurrent(ctx context.Context, p auth.Principal) error {
	if !p.CanAccess(p.OrganizationID, auth.PermOrgDelete) {
		return models.ErrForbidden
	}
	return s.store.DeleteCascade(ctx, p.OrganizationID)
}
