package domain

import (
	"time"

	"github.com/google/uuid"
)

// Staff is a gym employee (trainer, front desk, manager). Unlike members,
// staff always have an email because they must be able to sign in.
type Staff struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	// PasswordHash holds the argon2id hash of the temporary credential
	// issued when the account was provisioned. Never serialized.
	PasswordHash *string   `json:"-"`
	Status       string    `json:"status"`
	IdentityID   string    `json:"identity_id"`
	QRPayload    string    `json:"qr_payload"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
