package domain

import (
	"time"

	"github.com/google/uuid"
)

// Member statuses. Imports coerce boolean-like spreadsheet values into
// these; any other source value is stored as-is.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Member is a gym member. Email and phone are the natural keys used for
// duplicate detection during imports; IdentityID is the external auth
// identity (or a locally generated fallback when the provider was
// unreachable), and QRPayload is the scannable check-in code.
type Member struct {
	ID               uuid.UUID  `json:"id"`
	TenantID         uuid.UUID  `json:"tenant_id"`
	FirstName        string     `json:"first_name"`
	LastName         string     `json:"last_name"`
	Email            *string    `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Gender           *string    `json:"gender,omitempty"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	EmergencyName    *string    `json:"emergency_name,omitempty"`
	EmergencyPhone   *string    `json:"emergency_phone,omitempty"`
	Relationship     *string    `json:"relationship,omitempty"`
	FitnessGoal      *string    `json:"fitness_goal,omitempty"`
	Status           string     `json:"status"`
	MembershipExpiry *time.Time `json:"membership_expiry,omitempty"`
	IdentityID       string     `json:"identity_id"`
	QRPayload        string     `json:"qr_payload"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
