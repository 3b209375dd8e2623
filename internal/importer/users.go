package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gymops-platform/api/internal/domain"
	"github.com/gymops-platform/api/internal/repo"
)

type userImporter struct {
	tenantID    uuid.UUID
	mappings    []FieldMapping
	onDuplicate DuplicateHandling
	members     repo.MemberRepo
	prov        *Provisioner
	log         *slog.Logger
}

func (u *userImporter) importRow(ctx context.Context, rec Record) RowOutcome {
	nr, skip := normalizeMember(rec, u.mappings)
	if skip != "" {
		return skippedRow(skip)
	}

	existing, found := findExistingMember(ctx, u.members, u.log, u.tenantID, nr.Email, nr.Phone)
	if found {
		switch u.onDuplicate {
		case DuplicateSkip:
			return skippedRow("duplicate of existing member")
		case DuplicateUpdate:
			updated := memberFromRecord(u.tenantID, nr)
			updated.ID = existing.ID
			if _, err := u.members.Update(ctx, updated); err != nil {
				return failedRow(persistenceMessage(err))
			}
			return updatedRow()
		}
		// create_new falls through and inserts alongside the duplicate.
	}

	m := memberFromRecord(u.tenantID, nr)
	var email string
	if nr.Email != nil {
		email = *nr.Email
	}
	m.IdentityID, _ = u.prov.Provision(ctx, email)
	m.QRPayload = uuid.NewString()

	if _, err := u.members.Create(ctx, m); err != nil {
		return failedRow(persistenceMessage(err))
	}
	return importedRow()
}

func memberFromRecord(tenantID uuid.UUID, nr memberRecord) domain.Member {
	m := domain.Member{
		TenantID:         tenantID,
		FirstName:        nr.FirstName,
		LastName:         nr.LastName,
		Email:            nr.Email,
		Gender:           nr.Gender,
		DateOfBirth:      nr.DateOfBirth,
		EmergencyName:    nr.EmergencyName,
		EmergencyPhone:   nr.EmergencyPhone,
		Relationship:     nr.Relationship,
		FitnessGoal:      nr.FitnessGoal,
		Status:           nr.Status,
		MembershipExpiry: nr.MembershipExpiry,
	}
	if nr.Phone != nil {
		m.Phone = *nr.Phone
	}
	return m
}
