package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gymops-platform/api/internal/repo"
)

// Coordinator runs bulk imports. Rows are processed strictly in file
// order, one at a time; the per-row outcome feeds the Result totals and
// the row-indexed message list. A row can fail without affecting any
// other row.
type Coordinator struct {
	Members     repo.MemberRepo
	Staff       repo.StaffRepo
	Packages    repo.PackageRepo
	CheckIns    repo.CheckInRepo
	Memberships repo.MembershipRepo
	Provisioner *Provisioner
	Log         *slog.Logger
}

// Run imports records under cfg. Cancellation is honored between rows:
// work already written stays written, remaining rows are not attempted,
// and the Result says how far the run got. Run itself never returns an
// error; everything that can go wrong is reported through the Result.
func (c *Coordinator) Run(ctx context.Context, cfg Config, records []Record) Result {
	// Errors marshals as [] rather than null on clean runs.
	res := Result{Errors: []string{}}

	imp, ok := c.rowImporterFor(cfg)
	if !ok {
		res.Errors = append(res.Errors, fmt.Sprintf("unsupported data type %q", cfg.DataType))
		return res
	}

	res.TotalRecords = len(records)
	for i, rec := range records {
		if ctx.Err() != nil {
			res.Cancelled = true
			res.Errors = append(res.Errors, fmt.Sprintf("Import cancelled after %d of %d records", i, len(records)))
			break
		}

		out := imp.importRow(ctx, rec)
		switch out.Status {
		case RowImported:
			res.Imported++
		case RowUpdated:
			res.Updated++
		case RowSkipped:
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", i+1, out.Reason))
		case RowFailed:
			res.Failed++
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: %s", i+1, out.Reason))
		}
	}

	res.Success = res.Failed == 0
	c.Log.Info("import finished",
		"data_type", string(cfg.DataType),
		"total", res.TotalRecords,
		"imported", res.Imported,
		"updated", res.Updated,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"cancelled", res.Cancelled,
	)
	return res
}

func (c *Coordinator) rowImporterFor(cfg Config) (rowImporter, bool) {
	if !cfg.DataType.Valid() {
		return nil, false
	}
	onDup := cfg.OnDuplicate
	if !onDup.Valid() {
		onDup = DuplicateSkip
	}
	log := c.Log.With("data_type", string(cfg.DataType), "tenant", cfg.TenantID)

	switch cfg.DataType {
	case KindUsers:
		return &userImporter{
			tenantID:    cfg.TenantID,
			mappings:    cfg.Mappings,
			onDuplicate: onDup,
			members:     c.Members,
			prov:        c.Provisioner,
			log:         log,
		}, true
	case KindStaff:
		return &staffImporter{
			tenantID:    cfg.TenantID,
			mappings:    cfg.Mappings,
			onDuplicate: onDup,
			staff:       c.Staff,
			prov:        c.Provisioner,
			log:         log,
		}, true
	case KindPackages:
		return &packageImporter{
			tenantID:    cfg.TenantID,
			mappings:    cfg.Mappings,
			onDuplicate: onDup,
			packages:    c.Packages,
			log:         log,
		}, true
	case KindCheckIns:
		return &checkinImporter{
			tenantID:    cfg.TenantID,
			mappings:    cfg.Mappings,
			onDuplicate: onDup,
			members:     c.Members,
			checkins:    c.CheckIns,
			log:         log,
			memberIDs:   make(map[string]uuid.UUID),
		}, true
	case KindMemberships:
		return &membershipImporter{
			tenantID:    cfg.TenantID,
			mappings:    cfg.Mappings,
			onDuplicate: onDup,
			members:     c.Members,
			packages:    c.Packages,
			memberships: c.Memberships,
			log:         log,
			memberIDs:   make(map[string]uuid.UUID),
			packageIDs:  make(map[string]*uuid.UUID),
		}, true
	}
	return nil, false
}

// rowImporter is implemented once per record kind.
type rowImporter interface {
	importRow(ctx context.Context, rec Record) RowOutcome
}

// persistenceMessage flattens a database error into one row message.
// Postgres errors carry the useful part in Message/Detail/Hint; the
// wrapped driver prefix is noise to the operator reading the report.
func persistenceMessage(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		parts := make([]string, 0, 3)
		for _, p := range []string{pgErr.Message, pgErr.Detail, pgErr.Hint} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, "; ")
		}
	}
	return err.Error()
}
