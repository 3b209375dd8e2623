package importer

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/gymops-platform/api/internal/domain"
	"github.com/gymops-platform/api/internal/repo"
)

// Duplicate resolution is fail-open: when a lookup errors for any reason
// other than a clean miss, the row proceeds as if no duplicate existed.
// An import that occasionally double-creates is recoverable; one that
// drops rows on a transient database error is not.

// findExistingMember checks the natural keys in priority order, email
// first, then phone.
func findExistingMember(ctx context.Context, members repo.MemberRepo, log *slog.Logger, tenantID uuid.UUID, email, phone *string) (domain.Member, bool) {
	if email != nil {
		m, err := members.FindByEmail(ctx, tenantID, *email)
		if err == nil {
			return m, true
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("duplicate lookup failed, importing as new", "key", "email", "error", err)
		}
	}
	if phone != nil {
		m, err := members.FindByPhone(ctx, tenantID, *phone)
		if err == nil {
			return m, true
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("duplicate lookup failed, importing as new", "key", "phone", "error", err)
		}
	}
	return domain.Member{}, false
}

func findExistingStaff(ctx context.Context, staff repo.StaffRepo, log *slog.Logger, tenantID uuid.UUID, email string, phone *string) (domain.Staff, bool) {
	s, err := staff.FindByEmail(ctx, tenantID, email)
	if err == nil {
		return s, true
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Warn("duplicate lookup failed, importing as new", "key", "email", "error", err)
	}
	if phone != nil {
		s, err := staff.FindByPhone(ctx, tenantID, *phone)
		if err == nil {
			return s, true
		}
		if !errors.Is(err, domain.ErrNotFound) {
			log.Warn("duplicate lookup failed, importing as new", "key", "phone", "error", err)
		}
	}
	return domain.Staff{}, false
}

func findExistingPackage(ctx context.Context, packages repo.PackageRepo, log *slog.Logger, tenantID uuid.UUID, name string) (domain.Package, bool) {
	p, err := packages.FindByName(ctx, tenantID, name)
	if err == nil {
		return p, true
	}
	if !errors.Is(err, domain.ErrNotFound) {
		log.Warn("duplicate lookup failed, importing as new", "key", "name", "error", err)
	}
	return domain.Package{}, false
}
