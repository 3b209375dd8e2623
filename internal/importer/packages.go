package importer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gymops-platform/api/internal/domain"
	"github.com/gymops-platform/api/internal/repo"
)

type packageImporter struct {
	tenantID    uuid.UUID
	mappings    []FieldMapping
	onDuplicate DuplicateHandling
	packages    repo.PackageRepo
	log         *slog.Logger
}

func (p *packageImporter) importRow(ctx context.Context, rec Record) RowOutcome {
	nr, skip := normalizePackage(rec, p.mappings)
	if skip != "" {
		return skippedRow(skip)
	}

	existing, found := findExistingPackage(ctx, p.packages, p.log, p.tenantID, nr.Name)
	if found {
		switch p.onDuplicate {
		case DuplicateSkip:
			return skippedRow("duplicate of existing package")
		case DuplicateUpdate:
			updated := packageFromRecord(p.tenantID, nr)
			updated.ID = existing.ID
			if _, err := p.packages.Update(ctx, updated); err != nil {
				return failedRow(persistenceMessage(err))
			}
			return updatedRow()
		}
	}

	if _, err := p.packages.Create(ctx, packageFromRecord(p.tenantID, nr)); err != nil {
		return failedRow(persistenceMessage(err))
	}
	return importedRow()
}

func packageFromRecord(tenantID uuid.UUID, nr packageRecord) domain.Package {
	return domain.Package{
		TenantID:     tenantID,
		Name:         nr.Name,
		Description:  nr.Description,
		PriceCents:   nr.PriceCents,
		DurationDays: nr.DurationDays,
		SessionCount: nr.SessionCount,
		Status:       nr.Status,
	}
}
