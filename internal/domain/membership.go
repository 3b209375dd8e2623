package domain

import (
	"time"

	"github.com/google/uuid"
)

// Membership ties a member to a package for a period of time. The same
// member can hold one membership per package; business operations on
// memberships (freeze, renew, upgrade) live in database procedures owned
// by the storage layer and are not modelled here.
type Membership struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	MemberID    uuid.UUID  `json:"member_id"`
	PackageID   *uuid.UUID `json:"package_id,omitempty"`
	PackageName string     `json:"package_name"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	ExpiryDate  *time.Time `json:"expiry_date,omitempty"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
