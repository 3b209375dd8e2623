package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gymops-platform/api/internal/domain"
)

type MembershipRepo interface {
	Create(ctx context.Context, m domain.Membership) (domain.Membership, error)
	Update(ctx context.Context, m domain.Membership) (domain.Membership, error)
	// FindByMemberAndPackage is the duplicate lookup for imported
	// memberships: a member holds at most one row per package name.
	FindByMemberAndPackage(ctx context.Context, tenantID, memberID uuid.UUID, packageName string) (domain.Membership, error)
}

type pgMembershipRepo struct {
	db db
}

func NewMembershipRepo(db db) MembershipRepo {
	return &pgMembershipRepo{db: db}
}

const membershipColumns = `id, tenant_id, member_id, package_id, package_name,
	start_date, expiry_date, status, created_at, updated_at`

func (r *pgMembershipRepo) Create(ctx context.Context, m domain.Membership) (domain.Membership, error) {
	q := `
		INSERT INTO memberships (tenant_id, member_id, package_id, package_name, start_date, expiry_date, status)
		VALUES (@tenant_id, @member_id, @package_id, @package_name, @start_date, @expiry_date, @status)
		RETURNING ` + membershipColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tenant_id":    m.TenantID,
		"member_id":    m.MemberID,
		"package_id":   m.PackageID,
		"package_name": m.PackageName,
		"start_date":   m.StartDate,
		"expiry_date":  m.ExpiryDate,
		"status":       m.Status,
	})
	result, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("repo.MembershipRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMembershipRepo) Update(ctx context.Context, m domain.Membership) (domain.Membership, error) {
	q := `
		UPDATE memberships
		SET package_id  = COALESCE(@package_id, package_id),
		    start_date  = COALESCE(@start_date, start_date),
		    expiry_date = COALESCE(@expiry_date, expiry_date),
		    status      = @status,
		    updated_at  = now()
		WHERE id = @id AND tenant_id = @tenant_id
		RETURNING ` + membershipColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":          m.ID,
		"tenant_id":   m.TenantID,
		"package_id":  m.PackageID,
		"start_date":  m.StartDate,
		"expiry_date": m.ExpiryDate,
		"status":      m.Status,
	})
	result, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("repo.MembershipRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgMembershipRepo) FindByMemberAndPackage(ctx context.Context, tenantID, memberID uuid.UUID, packageName string) (domain.Membership, error) {
	q := `SELECT ` + membershipColumns + `
		FROM memberships
		WHERE tenant_id = @tenant_id AND member_id = @member_id AND lower(package_name) = lower(@package_name)`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tenant_id":    tenantID,
		"member_id":    memberID,
		"package_name": packageName,
	})
	result, err := scanMembership(row)
	if err != nil {
		return domain.Membership{}, fmt.Errorf("repo.MembershipRepo.FindByMemberAndPackage: %w", err)
	}
	return result, nil
}

func scanMembership(s scanner) (domain.Membership, error) {
	var m domain.Membership
	err := s.Scan(&m.ID, &m.TenantID, &m.MemberID, &m.PackageID, &m.PackageName,
		&m.StartDate, &m.ExpiryDate, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Membership{}, domain.ErrNotFound
		}
		return domain.Membership{}, err
	}
	return m, nil
}
