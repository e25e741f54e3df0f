package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

func (s *OrgStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Organisation, error) {
	var o models.Organisation
	err := s.db.QueryRow(ctx,
		"SELECT id, name, created_at, updated_at FROM organisations WHERE id = $1", id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organisation: %w", err)
	}
	return &o, nil
}

func (s *OrgStore) Create(ctx context.Context, name string) (*models.Organisation, error) {
	var o models.Organisation
	err := s.db.QueryRow(ctx,
		"INSERT INTO organisations (name) VALUES ($1) RETURNING id, name, created_at, updated_at", name,
	).Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert organisation: %w", err)
	}
	return &o, nil
}

// DeleteCascade removes every row belonging to the organisation in FK
// dependency order, in one transaction. A partial teardown must never commit.
func (s *OrgStore) DeleteCascade(ctx context.Context, orgID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, stmt := range []string{
		"DELETE FROM audit_logs WHERE organization_id = $1",
		"DELETE FROM users WHERE organization_id = $1",
		"DELETE FROM suppliers WHERE organization_id = $1",
	} {
		if _, err := tx.Exec(ctx, stmt, orgID); err != nil {
			return fmt.Errorf("cascade delete: %w", err)
		}
	}

	tag, err := tx.Exec(ctx, "DELETE FROM organisations WHERE id = $1", orgID)
	if err != nil {
		return fmt.Errorf("delete organisation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
