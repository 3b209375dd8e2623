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

type checkinImporter struct {
	tenantID    uuid.UUID
	mappings    []FieldMapping
	onDuplicate DuplicateHandling
	members     repo.MemberRepo
	checkins    repo.CheckInRepo
	log         *slog.Logger

	// memberIDs caches email lookups for the duration of one run. Visit
	// exports repeat the same member on many rows.
	memberIDs map[string]uuid.UUID
}

func (c *checkinImporter) importRow(ctx context.Context, rec Record) RowOutcome {
	nr, skip := normalizeCheckIn(rec, c.mappings)
	if skip != "" {
		return skippedRow(skip)
	}

	memberID, err := c.resolveMember(ctx, nr.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return skippedRow(fmt.Sprintf("no member with email %q", nr.Email))
		}
		return failedRow(persistenceMessage(err))
	}

	existing, err := c.checkins.FindByMemberAndTime(ctx, c.tenantID, memberID, nr.CheckedInAt)
	if err == nil {
		switch c.onDuplicate {
		case DuplicateSkip:
			return skippedRow("duplicate check-in")
		case DuplicateUpdate:
			existing.Method = nr.Method
			existing.Notes = nr.Notes
			if _, err := c.checkins.Update(ctx, existing); err != nil {
				return failedRow(persistenceMessage(err))
			}
			return updatedRow()
		}
	} else if !errors.Is(err, domain.ErrNotFound) {
		c.log.Warn("duplicate lookup failed, importing as new", "key", "member+time", "error", err)
	}

	ci := domain.CheckIn{
		TenantID:    c.tenantID,
		MemberID:    memberID,
		CheckedInAt: nr.CheckedInAt,
		Method:      nr.Method,
		Notes:       nr.Notes,
	}
	if _, err := c.checkins.Create(ctx, ci); err != nil {
		return failedRow(persistenceMessage(err))
	}
	return importedRow()
}

func (c *checkinImporter) resolveMember(ctx context.Context, email string) (uuid.UUID, error) {
	if id, ok := c.memberIDs[email]; ok {
		return id, nil
	}
	m, err := c.members.FindByEmail(ctx, c.tenantID, email)
	if err != nil {
		return uuid.Nil, err
	}
	c.memberIDs[email] = m.ID
	return m.ID, nil
}
