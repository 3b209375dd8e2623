// Package audit records tenant-scoped audit trail entries (import started,
// import completed, exports downloaded). Failures to write an audit entry
// are reported to the caller, who decides whether to ignore them.
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/gymops-platform/api/internal/repo"
)

type Logger struct {
	repo repo.AuditRepo
}

func NewLogger(r repo.AuditRepo) *Logger {
	return &Logger{repo: r}
}

type Entry struct {
	TenantID   uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	RequestID  string
	Metadata   map[string]any
}

func (l *Logger) Log(ctx context.Context, entry Entry) error {
	metadata := []byte("{}")
	if len(entry.Metadata) > 0 {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = encoded
	}

	row := repo.AuditEntry{
		TenantID:   entry.TenantID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Metadata:   metadata,
	}
	if entry.RequestID != "" {
		row.RequestID = &entry.RequestID
	}

	if err := l.repo.Insert(ctx, row); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
