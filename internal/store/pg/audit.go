package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendorwatch/vendorwatch/internal/audit"
	"github.com/vendorwatch/vendorwatch/internal/models"
)

const auditColumns = `id, organization_id, user_id, action, entity_type, entity_id,
	before, after, ip_address, created_at`

func scanAuditLog(row rowScanner) (*models.AuditLog, error) {
	var e models.AuditLog
	err := row.Scan(
		&e.ID, &e.OrganizationID, &e.UserID, &e.Action, &e.EntityType, &e.EntityID,
		&e.Before, &e.After, &e.IPAddress, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *AuditStore) List(ctx context.Context, q audit.Query) ([]models.AuditLog, int, error) {
	where := "WHERE organization_id = $1"
	args := []any{q.OrganizationID}
	argIdx := 2

	if q.EntityType != "" {
		where += fmt.Sprintf(" AND entity_type = $%d", argIdx)
		args = append(args, q.EntityType)
		argIdx++
	}
	if q.EntityID != nil {
		where += fmt.Sprintf(" AND entity_id = $%d", argIdx)
		args = append(args, *q.EntityID)
		argIdx++
	}
	if q.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argIdx)
		args = append(args, *q.UserID)
		argIdx++
	}
	if q.Action != "" {
		where += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, q.Action)
		argIdx++
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM audit_logs "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count audit logs: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM audit_logs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		auditColumns, where, argIdx, argIdx+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query audit logs: %w", err)
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		e, err := scanAuditLog(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, *e)
	}
	return logs, total, rows.Err()
}

func (s *AuditStore) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.AuditLog, error) {
	row := s.db.QueryRow(ctx,
		"SELECT "+auditColumns+" FROM audit_logs WHERE id = $1 AND organization_id = $2",
		id, orgID,
	)
	e, err := scanAuditLog(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get audit log: %w", err)
	}
	return e, nil
}
