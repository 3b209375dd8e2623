package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gymops-platform/api/internal/domain"
)

type StaffRepo interface {
	Create(ctx context.Context, s domain.Staff) (domain.Staff, error)
	Update(ctx context.Context, s domain.Staff) (domain.Staff, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (domain.Staff, error)
	FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (domain.Staff, error)
}

type pgStaffRepo struct {
	db db
}

func NewStaffRepo(db db) StaffRepo {
	return &pgStaffRepo{db: db}
}

const staffColumns = `id, tenant_id, first_name, last_name, email, phone, role,
	password_hash, status, identity_id, qr_payload, created_at, updated_at`

func (r *pgStaffRepo) Create(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	q := `
		INSERT INTO staff (tenant_id, first_name, last_name, email, phone, role, password_hash, status, identity_id, qr_payload)
		VALUES (@tenant_id, @first_name, @last_name, @email, @phone, @role, @password_hash, @status, @identity_id, @qr_payload)
		RETURNING ` + staffColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tenant_id":     s.TenantID,
		"first_name":    s.FirstName,
		"last_name":     s.LastName,
		"email":         s.Email,
		"phone":         s.Phone,
		"role":          s.Role,
		"password_hash": s.PasswordHash,
		"status":        s.Status,
		"identity_id":   s.IdentityID,
		"qr_payload":    s.QRPayload,
	})
	result, err := scanStaff(row)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("repo.StaffRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgStaffRepo) Update(ctx context.Context, s domain.Staff) (domain.Staff, error) {
	q := `
		UPDATE staff
		SET first_name = @first_name,
		    last_name  = @last_name,
		    phone      = @phone,
		    role       = @role,
		    status     = @status,
		    updated_at = now()
		WHERE id = @id AND tenant_id = @tenant_id
		RETURNING ` + staffColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":         s.ID,
		"tenant_id":  s.TenantID,
		"first_name": s.FirstName,
		"last_name":  s.LastName,
		"phone":      s.Phone,
		"role":       s.Role,
		"status":     s.Status,
	})
	result, err := scanStaff(row)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("repo.StaffRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgStaffRepo) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (domain.Staff, error) {
	q := `SELECT ` + staffColumns + ` FROM staff WHERE tenant_id = @tenant_id AND lower(email) = lower(@email)`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "email": email})
	result, err := scanStaff(row)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("repo.StaffRepo.FindByEmail: %w", err)
	}
	return result, nil
}

func (r *pgStaffRepo) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (domain.Staff, error) {
	q := `SELECT ` + staffColumns + ` FROM staff WHERE tenant_id = @tenant_id AND phone = @phone`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "phone": phone})
	result, err := scanStaff(row)
	if err != nil {
		return domain.Staff{}, fmt.Errorf("repo.StaffRepo.FindByPhone: %w", err)
	}
	return result, nil
}

func scanStaff(s scanner) (domain.Staff, error) {
	var st domain.Staff
	err := s.Scan(&st.ID, &st.TenantID, &st.FirstName, &st.LastName, &st.Email, &st.Phone,
		&st.Role, &st.PasswordHash, &st.Status, &st.IdentityID, &st.QRPayload, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Staff{}, domain.ErrNotFound
		}
		return domain.Staff{}, err
	}
	return st, nil
}
