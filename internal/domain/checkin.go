package domain

import (
	"time"

	"github.com/google/uuid"
)

// CheckIn records one member visit. MemberID plus the check-in timestamp
// identify a visit for duplicate detection during imports.
type CheckIn struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	MemberID    uuid.UUID `json:"member_id"`
	CheckedInAt time.Time `json:"checked_in_at"`
	Method      string    `json:"method"`
	Notes       *string   `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
