package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gymops-platform/api/internal/domain"
	"github.com/gymops-platform/api/internal/repo"
)

type membershipImporter struct {
	tenantID    uuid.UUID
	mappings    []FieldMapping
	onDuplicate DuplicateHandling
	members     repo.MemberRepo
	packages    repo.PackageRepo
	memberships repo.MembershipRepo
	log         *slog.Logger

	memberIDs  map[string]uuid.UUID
	packageIDs map[string]*uuid.UUID
}

func (m *membershipImporter) importRow(ctx context.Context, rec Record) RowOutcome {
	nr, skip := normalizeMembership(rec, m.mappings)
	if skip != "" {
		return skippedRow(skip)
	}

	memberID, err := m.resolveMember(ctx, nr.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return skippedRow(fmt.Sprintf("no member with email %q", nr.Email))
		}
		return failedRow(persistenceMessage(err))
	}

	existing, err := m.memberships.FindByMemberAndPackage(ctx, m.tenantID, memberID, nr.PackageName)
	if err == nil {
		switch m.onDuplicate {
		case DuplicateSkip:
			return skippedRow("duplicate membership")
		case DuplicateUpdate:
			existing.StartDate = nr.StartDate
			existing.ExpiryDate = nr.ExpiryDate
			existing.Status = nr.Status
			if _, err := m.memberships.Update(ctx, existing); err != nil {
				return failedRow(persistenceMessage(err))
			}
			return updatedRow()
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		m.log.Warn("duplicate lookup failed, importing as new", "key", "member+package", "error", err)
	}

	ms := domain.Membership{
		TenantID:    m.tenantID,
		MemberID:    memberID,
		PackageID:   m.resolvePackage(ctx, nr.PackageName),
		PackageName: nr.PackageName,
		StartDate:   nr.StartDate,
		ExpiryDate:  nr.ExpiryDate,
		Status:      nr.Status,
	}
	if _, err := m.memberships.Create(ctx, ms); err != nil {
		return failedRow(persistenceMessage(err))
	}
	return importedRow()
}

func (m *membershipImporter) resolveMember(ctx context.Context, email string) (uuid.UUID, error) {
	if id, ok := m.memberIDs[email]; ok {
		return id, nil
	}
	mem, err := m.members.FindByEmail(ctx, m.tenantID, email)
	if err != nil {
		return uuid.Nil, err
	}
	m.memberIDs[email] = mem.ID
	return mem.ID, nil
}

// resolvePackage is best effort. Historical exports often reference
// packages the gym no longer sells; the membership keeps the name and a
// nil package id.
func (m *membershipImporter) resolvePackage(ctx context.Context, name string) *uuid.UUID {
	if id, ok := m.packageIDs[name]; ok {
		return id
	}
	var id *uuid.UUID
	if p, err := m.packages.FindByName(ctx, m.tenantID, name); err == nil {
		pid := p.ID
		id = &pid
	} else if !errors.Is(err, domain.ErrNotFound) {
		m.log.Warn("package lookup failed", "package", name, "error", err)
		return nil // not cached, the next row retries
	}
	m.packageIDs[name] = id
	return id
}
