package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// Entity types recorded in the audit trail.
const (
	EntitySupplier = "supplier"
	EntityUser     = "user"
)

// AuditLog is an immutable fact. Rows are never updated; the only sanctioned
// removal is the whole-organisation cascade delete.
type AuditLog struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	OrganizationID uuid.UUID       `json:"organizationId" db:"organization_id"`
	UserID         uuid.UUID       `json:"userId" db:"user_id"`
	Action         AuditAction     `json:"action" db:"action"`
	EntityType     string          `json:"entityType" db:"entity_type"`
	EntityID       uuid.UUID       `json:"entityId" db:"entity_id"`
	Before         json.RawMessage `json:"before" db:"before"`
	After          json.RawMessage `json:"after" db:"after"`
	IPAddress      string          `json:"ipAddress" db:"ip_address"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}
