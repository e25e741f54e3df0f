package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendorwatch/vendorwatch/internal/models"
	"github.com/vendorwatch/vendorwatch/internal/supplier"
)

const supplierColumns = `id, organization_id, name, domain, category, risk_level, status,
	contract_end_date, notes, ai_status, ai_risk_score, ai_analysis,
	ai_last_requested_at, ai_last_completed_at, ai_error, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSupplier(row rowScanner) (*models.Supplier, error) {
	var s models.Supplier
	var aiStatus *string
	err := row.Scan(
		&s.ID, &s.OrganizationID, &s.Name, &s.Domain, &s.Category, &s.RiskLevel, &s.Status,
		&s.ContractEndDate, &s.Notes, &aiStatus, &s.AIRiskScore, &s.AIAnalysis,
		&s.AILastRequestedAt, &s.AILastCompletedAt, &s.AIError, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if aiStatus != nil {
		st := models.AIStatus(*aiStatus)
		s.AIStatus = &st
	}
	return &s, nil
}

func (s *SupplierStore) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Supplier, error) {
	row := s.db.QueryRow(ctx,
		"SELECT "+supplierColumns+" FROM suppliers WHERE id = $1 AND organization_id = $2",
		id, orgID,
	)
	sup, err := scanSupplier(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier: %w", err)
	}
	return sup, nil
}

func (s *SupplierStore) List(ctx context.Context, orgID uuid.UUID, q supplier.ListQuery) ([]models.Supplier, int, error) {
	where := "WHERE organization_id = $1"
	args := []any{orgID}
	argIdx := 2

	if q.Name != "" {
		where += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+q.Name+"%")
		argIdx++
	}
	if q.Category != "" {
		where += fmt.Sprintf(" AND category = $%d", argIdx)
		args = append(args, q.Category)
		argIdx++
	}
	if q.RiskLevel != "" {
		where += fmt.Sprintf(" AND risk_level = $%d", argIdx)
		args = append(args, q.RiskLevel)
		argIdx++
	}
	if q.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, q.Status)
		argIdx++
	}

	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM suppliers "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count suppliers: %w", err)
	}

	// Sort column comes from the whitelist, never from raw input.
	order := supplier.SortColumn(q.SortBy)
	dir := "ASC"
	if q.SortDesc {
		dir = "DESC"
	}

	query := fmt.Sprintf("SELECT %s FROM suppliers %s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		supplierColumns, where, order, dir, argIdx, argIdx+1)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query suppliers: %w", err)
	}
	defer rows.Close()

	var suppliers []models.Supplier
	for rows.Next() {
		sup, err := scanSupplier(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan supplier: %w", err)
		}
		suppliers = append(suppliers, *sup)
	}
	return suppliers, total, rows.Err()
}

func (s *SupplierStore) Create(ctx context.Context, sup *models.Supplier, entry models.AuditLog) (*models.Supplier, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx,
		`INSERT INTO suppliers (organization_id, name, domain, category, risk_level, status,
			contract_end_date, notes, ai_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING `+supplierColumns,
		sup.OrganizationID, sup.Name, sup.Domain, sup.Category, sup.RiskLevel, sup.Status,
		sup.ContractEndDate, sup.Notes, sup.AIStatus,
	)
	created, err := scanSupplier(row)
	if err != nil {
		return nil, fmt.Errorf("insert supplier: %w", err)
	}

	entry.EntityID = created.ID
	if entry.After, err = snapshot(created); err != nil {
		return nil, err
	}
	if err := insertAudit(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return created, nil
}

func (s *SupplierStore) Update(ctx context.Context, orgID, id uuid.UUID, values supplier.UpdateValues, entry models.AuditLog) (*models.Supplier, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}
	argIdx := 1

	set := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, v)
		argIdx++
	}

	if values.Name != nil {
		set("name", *values.Name)
	}
	if values.Domain != nil {
		set("domain", *values.Domain)
	}
	if values.Category != nil {
		set("category", *values.Category)
	}
	if values.Status != nil {
		set("status", *values.Status)
	}
	if values.ContractEndDate != nil {
		set("contract_end_date", *values.ContractEndDate)
	} else if values.ClearContract {
		sets = append(sets, "contract_end_date = NULL")
	}
	if values.RiskLevel != nil {
		set("risk_level", *values.RiskLevel)
	}
	if values.Notes != nil {
		set("notes", *values.Notes)
	}
	if values.ResetAICycle {
		// A new cycle retires the previous result: back to pending,
		// score/analysis/error cleared.
		sets = append(sets,
			"ai_status = 'pending'",
			"ai_risk_score = NULL",
			"ai_analysis = NULL",
			"ai_error = NULL",
		)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf("UPDATE suppliers SET %s WHERE id = $%d AND organization_id = $%d RETURNING %s",
		strings.Join(sets, ", "), argIdx, argIdx+1, supplierColumns)
	args = append(args, id, orgID)

	row := tx.QueryRow(ctx, query, args...)
	updated, err := scanSupplier(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update supplier: %w", err)
	}

	if entry.After, err = snapshot(updated); err != nil {
		return nil, err
	}
	if err := insertAudit(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return updated, nil
}

func (s *SupplierStore) Delete(ctx context.Context, orgID, id uuid.UUID, entry models.AuditLog) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"DELETE FROM suppliers WHERE id = $1 AND organization_id = $2", id, orgID)
	if err != nil {
		return fmt.Errorf("delete supplier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	if err := insertAudit(ctx, tx, entry); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Worker-side AI status transitions. Lookups by id alone: the job was
// enqueued from an org-scoped mutation, and the worker must detect deletion.

func (s *SupplierStore) GetForAnalysis(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	row := s.db.QueryRow(ctx, "SELECT "+supplierColumns+" FROM suppliers WHERE id = $1", id)
	sup, err := scanSupplier(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get supplier for analysis: %w", err)
	}
	return sup, nil
}

func (s *SupplierStore) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE suppliers
		 SET ai_status = 'processing', ai_last_requested_at = now(), ai_error = NULL
		 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *SupplierStore) MarkComplete(ctx context.Context, id uuid.UUID, score float64, analysis models.AIAnalysis) error {
	data, err := snapshot(analysis)
	if err != nil {
		return err
	}
	tag, err := s.db.Exec(ctx,
		`UPDATE suppliers
		 SET ai_status = 'complete', ai_risk_score = $2, ai_analysis = $3,
		     ai_last_completed_at = now(), ai_error = NULL
		 WHERE id = $1`, id, score, data)
	if err != nil {
		return fmt.Errorf("mark complete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// MarkError leaves ai_risk_score and ai_analysis untouched: stale values from
// the previous cycle persist and the error status marks them as stale.
func (s *SupplierStore) MarkError(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := s.db.Exec(ctx,
		"UPDATE suppliers SET ai_status = 'error', ai_error = $2 WHERE id = $1", id, message)
	if err != nil {
		return fmt.Errorf("mark error: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
