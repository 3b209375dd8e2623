package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gymops-platform/api/internal/auth"
	"github.com/gymops-platform/api/internal/domain"
	"github.com/gymops-platform/api/internal/repo"
)

type staffImporter struct {
	tenantID    uuid.UUID
	mappings    []FieldMapping
	onDuplicate DuplicateHandling
	staff       repo.StaffRepo
	prov        *Provisioner
	log         *slog.Logger
}

func (s *staffImporter) importRow(ctx context.Context, rec Record) RowOutcome {
	nr, skip := normalizeStaff(rec, s.mappings)
	if skip != "" {
		return skippedRow(skip)
	}

	existing, found := findExistingStaff(ctx, s.staff, s.log, s.tenantID, nr.Email, nr.Phone)
	if found {
		switch s.onDuplicate {
		case DuplicateSkip:
			return skippedRow("duplicate of existing staff member")
		case DuplicateUpdate:
			updated := staffFromRecord(s.tenantID, nr)
			updated.ID = existing.ID
			if _, err := s.staff.Update(ctx, updated); err != nil {
				return failedRow(persistenceMessage(err))
			}
			return updatedRow()
		}
	}

	st := staffFromRecord(s.tenantID, nr)
	identityID, tempPassword := s.prov.Provision(ctx, nr.Email)
	st.IdentityID = identityID
	st.QRPayload = uuid.NewString()

	// Staff sign in directly, so the temporary credential is also kept
	// locally as an argon2id hash.
	if hash, err := auth.HashPassword(tempPassword); err == nil {
		st.PasswordHash = &hash
	} else {
		s.log.Warn("temporary password hash failed", "email", nr.Email, "error", err)
	}

	if _, err := s.staff.Create(ctx, st); err != nil {
		return failedRow(persistenceMessage(err))
	}
	return importedRow()
}

func staffFromRecord(tenantID uuid.UUID, nr staffRecord) domain.Staff {
	st := domain.Staff{
		TenantID:  tenantID,
		FirstName: nr.FirstName,
		LastName:  nr.LastName,
		Email:     nr.Email,
		Role:      nr.Role,
		Status:    nr.Status,
	}
	if nr.Phone != nil {
		st.Phone = *nr.Phone
	}
	return st
}
