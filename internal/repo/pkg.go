package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gymops-platform/api/internal/domain"
)

type PackageRepo interface {
	Create(ctx context.Context, p domain.Package) (domain.Package, error)
	Update(ctx context.Context, p domain.Package) (domain.Package, error)
	// FindByName is the duplicate lookup; package names are unique per tenant.
	FindByName(ctx context.Context, tenantID uuid.UUID, name string) (domain.Package, error)
}

type pgPackageRepo struct {
	db db
}

func NewPackageRepo(db db) PackageRepo {
	return &pgPackageRepo{db: db}
}

const packageColumns = `id, tenant_id, name, description, price_cents, duration_days,
	session_count, status, created_at, updated_at`

func (r *pgPackageRepo) Create(ctx context.Context, p domain.Package) (domain.Package, error) {
	q := `
		INSERT INTO packages (tenant_id, name, description, price_cents, duration_days, session_count, status)
		VALUES (@tenant_id, @name, @description, @price_cents, @duration_days, @session_count, @status)
		RETURNING ` + packageColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tenant_id":     p.TenantID,
		"name":          p.Name,
		"description":   p.Description,
		"price_cents":   p.PriceCents,
		"duration_days": p.DurationDays,
		"session_count": p.SessionCount,
		"status":        p.Status,
	})
	result, err := scanPackage(row)
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgPackageRepo) Update(ctx context.Context, p domain.Package) (domain.Package, error) {
	q := `
		UPDATE packages
		SET description   = COALESCE(@description, description),
		    price_cents   = @price_cents,
		    duration_days = @duration_days,
		    session_count = COALESCE(@session_count, session_count),
		    status        = @status,
		    updated_at    = now()
		WHERE id = @id AND tenant_id = @tenant_id
		RETURNING ` + packageColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":            p.ID,
		"tenant_id":     p.TenantID,
		"description":   p.Description,
		"price_cents":   p.PriceCents,
		"duration_days": p.DurationDays,
		"session_count": p.SessionCount,
		"status":        p.Status,
	})
	result, err := scanPackage(row)
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgPackageRepo) FindByName(ctx context.Context, tenantID uuid.UUID, name string) (domain.Package, error) {
	q := `SELECT ` + packageColumns + ` FROM packages WHERE tenant_id = @tenant_id AND lower(name) = lower(@name)`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "name": name})
	result, err := scanPackage(row)
	if err != nil {
		return domain.Package{}, fmt.Errorf("repo.PackageRepo.FindByName: %w", err)
	}
	return result, nil
}

func scanPackage(s scanner) (domain.Package, error) {
	var p domain.Package
	err := s.Scan(&p.ID, &p.TenantID, &p.Name, &p.Description, &p.PriceCents,
		&p.DurationDays, &p.SessionCount, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Package{}, domain.ErrNotFound
		}
		return domain.Package{}, err
	}
	return p, nil
}
