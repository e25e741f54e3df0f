package models

import (
	"time"

	"github.com/google/uuid"
)

// Organisation is the tenant boundary. Every business entity belongs to
// exactly one organisation, and deleting the organisation takes all of it.
type Organisation struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
