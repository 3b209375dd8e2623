package domain

import (
	"time"

	"github.com/google/uuid"
)

// Package is a membership product a gym sells (e.g. "3 Month Unlimited").
// Name is the natural key within a tenant.
type Package struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	PriceCents   int64     `json:"price_cents"`
	DurationDays int       `json:"duration_days"`
	SessionCount *int      `json:"session_count,omitempty"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
