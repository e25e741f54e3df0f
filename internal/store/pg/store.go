// Package pg implements the service store contracts on PostgreSQL.
//
// Every query against a tenant-owned table carries an organization_id
// predicate; nothing in this package can read or write across tenants.
// Mutations that carry an audit entry execute the entity write and the audit
// insert in a single transaction.
package pg

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vendorwatch/vendorwatch/internal/models"
)

// One store type per service contract; all share the pool.

type SupplierStore struct {
	db *pgxpool.Pool
}

func NewSupplierStore(db *pgxpool.Pool) *SupplierStore {
	return &SupplierStore{db: db}
}

type UserStore struct {
	db *pgxpool.Pool
}

func NewUserStore(db *pgxpool.Pool) *UserStore {
	return &UserStore{db: db}
}

type OrgStore struct {
	db *pgxpool.Pool
}

func NewOrgStore(db *pgxpool.Pool) *OrgStore {
	return &OrgStore{db: db}
}

type AuditStore struct {
	db *pgxpool.Pool
}

func NewAuditStore(db *pgxpool.Pool) *AuditStore {
	return &AuditStore{db: db}
}

// insertAudit appends an audit row inside the caller's transaction. The
// audit_logs table carries a no-update rule; there is no code path that
// modifies a row once written.
func insertAudit(ctx context.Context, tx pgx.Tx, entry models.AuditLog) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO audit_logs (organization_id, user_id, action, entity_type, entity_id, before, after, ip_address)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.OrganizationID, entry.UserID, entry.Action, entry.EntityType, entry.EntityID,
		entry.Before, entry.After, entry.IPAddress,
	)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func snapshot(v any) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}
