// Package domain contains the core data types for the gym platform API.
// It has zero external dependencies beyond uuid/time and is imported by
// every other internal package (repo, importer, handlers).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Tenant is one gym. Every record in the system is namespaced under a
// tenant, and API clients authenticate with a tenant-scoped API key.
type Tenant struct {
	ID         uuid.UUID `json:"id"`
	Slug       string    `json:"slug"`
	Name       string    `json:"name"`
	APIKeyHash string    `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}
