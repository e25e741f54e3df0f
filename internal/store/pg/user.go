package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/vendorwatch/vendorwatch/internal/models"
	"github.com/vendorwatch/vendorwatch/internal/user"
)

const userColumns = `u.id, u.organization_id, u.email, u.first_name, u.last_name,
	u.password_hash, u.role, u.is_active, u.created_at, u.updated_at, o.name`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID, &u.OrganizationID, &u.Email, &u.FirstName, &u.LastName,
		&u.PasswordHash, &u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt, &u.OrganizationName,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN organisations o ON o.id = u.organization_id
		 WHERE u.id = $1 AND u.organization_id = $2`, id, orgID)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetActiveByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN organisations o ON o.id = u.organization_id
		 WHERE lower(u.email) = lower($1) AND u.is_active`, email)
	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]models.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN organisations o ON o.id = u.organization_id
		 WHERE u.organization_id = $1
		 ORDER BY u.created_at ASC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (s *UserStore) EmailTaken(ctx context.Context, orgID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE organization_id = $1 AND lower(email) = lower($2)"
	args := []any{orgID, email}
	if excludeID != uuid.Nil {
		query += " AND id != $3"
		args = append(args, excludeID)
	}
	query += ")"

	var taken bool
	if err := s.db.QueryRow(ctx, query, args...).Scan(&taken); err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

func (s *UserStore) CountActiveOwners(ctx context.Context, orgID uuid.UUID) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		"SELECT COUNT(*) FROM users WHERE organization_id = $1 AND role = 'Owner' AND is_active",
		orgID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count owners: %w", err)
	}
	return count, nil
}

func (s *UserStore) Create(ctx context.Context, u *models.User, entry models.AuditLog) (*models.User, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	var id uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO users (organization_id, email, first_name, last_name, password_hash, role, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		u.OrganizationID, u.Email, u.FirstName, u.LastName, u.PasswordHash, u.Role, u.IsActive,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}

	row := tx.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN organisations o ON o.id = u.organization_id
		 WHERE u.id = $1`, id)
	created, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
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

func (s *UserStore) Update(ctx context.Context, orgID, id uuid.UUID, values user.UpdateValues, entry models.AuditLog) (*models.User, error) {
	sets := []string{"updated_at = now()"}
	args := []any{}
	argIdx := 1

	set := func(col string, v any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, v)
		argIdx++
	}

	if values.Email != nil {
		set("email", *values.Email)
	}
	if values.FirstName != nil {
		set("first_name", *values.FirstName)
	}
	if values.LastName != nil {
		set("last_name", *values.LastName)
	}
	if values.Role != nil {
		set("role", *values.Role)
	}
	if values.IsActive != nil {
		set("is_active", *values.IsActive)
	}
	if values.PasswordHash != nil {
		set("password_hash", *values.PasswordHash)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d AND organization_id = $%d",
		strings.Join(sets, ", "), argIdx, argIdx+1)
	args = append(args, id, orgID)

	tag, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, models.ErrNotFound
	}

	row := tx.QueryRow(ctx,
		`SELECT `+userColumns+`
		 FROM users u JOIN organisations o ON o.id = u.organization_id
		 WHERE u.id = $1`, id)
	updated, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("reload user: %w", err)
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

func (s *UserStore) Delete(ctx context.Context, orgID, id uuid.UUID, entry models.AuditLog) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx,
		"DELETE FROM users WHERE id = $1 AND organization_id = $2", id, orgID)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
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
