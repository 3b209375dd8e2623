package domain

import (
	"time"

	"github.com/google/uuid"
)

// ImportRun is the persisted record of one bulk import: what was uploaded,
// with which settings, and how it ended. Summary holds the serialized
// importer.Result so completed runs can be re-rendered later.
type ImportRun struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	DataType          string     `json:"data_type"`
	DuplicateHandling string     `json:"duplicate_handling"`
	Filename          string     `json:"filename"`
	FileSHA256        string     `json:"file_sha256"`
	Status            string     `json:"status"`
	Summary           []byte     `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

// ImportRun statuses.
const (
	ImportRunRunning   = "running"
	ImportRunCompleted = "completed"
	ImportRunFailed    = "failed"
	ImportRunCancelled = "cancelled"
)
