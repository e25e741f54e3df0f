package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID             uuid.UUID `json:"id" db:"id"`
	OrganizationID uuid.UUID `json:"organizationId" db:"organization_id"`
	Email          string    `json:"email" db:"email"`
	FirstName      string    `json:"firstName" db:"first_name"`
	LastName       string    `json:"lastName" db:"last_name"`
	PasswordHash   string    `json:"-" db:"password_hash"`
	Role           Role      `json:"role" db:"role"`
	IsActive       bool      `json:"isActive" db:"is_active"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`

	// Joined from organisations on read paths that need it; not a column.
	OrganizationName string `json:"organizationName,omitempty" db:"-"`
}
