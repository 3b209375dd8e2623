package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AuditEntry is the row shape for audit_logs; the audit package owns the
// friendlier API around it.
type AuditEntry struct {
	TenantID   uuid.UUID
	Action     string
	EntityType string
	EntityID   *uuid.UUID
	RequestID  *string
	Metadata   []byte
}

type AuditRepo interface {
	Insert(ctx context.Context, entry AuditEntry) error
}

type pgAuditRepo struct {
	db db
}

func NewAuditRepo(db db) AuditRepo {
	return &pgAuditRepo{db: db}
}

func (r *pgAuditRepo) Insert(ctx context.Context, entry AuditEntry) error {
	q := `
		INSERT INTO audit_logs (tenant_id, action, entity_type, entity_id, request_id, metadata)
		VALUES (@tenant_id, @action, @entity_type, @entity_id, @request_id, @metadata)`

	_, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"tenant_id":   entry.TenantID,
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"entity_id":   entry.EntityID,
		"request_id":  entry.RequestID,
		"metadata":    entry.Metadata,
	})
	if err != nil {
		return fmt.Errorf("repo.AuditRepo.Insert: %w", err)
	}
	return nil
}
