package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gymops-platform/api/internal/domain"
)

// MemberRepo defines the persistence operations the importer and handlers
// need for members. Email and phone lookups are the duplicate-detection
// natural keys; both are tenant-scoped.
type MemberRepo interface {
	Create(ctx context.Context, m domain.Member) (domain.Member, error)

	// Update overwrites the mutable profile fields of an existing member.
	// Identity fields (IdentityID, QRPayload) are never rewritten.
	Update(ctx context.Context, m domain.Member) (domain.Member, error)

	// FindByEmail returns domain.ErrNotFound when no member matches.
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (domain.Member, error)

	FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (domain.Member, error)

	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Member, error)
}

type pgMemberRepo struct {
	db db
}

// NewMemberRepo constructs a MemberRepo backed by the provided connection.
func NewMemberRepo(db db) MemberRepo {
	return &pgMemberRepo{db: db}
}

const memberColumns = `id, tenant_id, first_name, last_name, email, phone, gender,
	date_of_birth, emergency_name, emergency_phone, relationship, fitness_goal,
	status, membership_expiry, identity_id, qr_payload, created_at, updated_at`

func (r *pgMemberRepo) Create(ctx context.Context, m domain.Member) (domain.Member, error) {
	q := `
		INSERT INTO members (tenant_id, first_name, last_name, email, phone, gender,
			date_of_birth, emergency_name, emergency_phone, relationship, fitness_goal,
			status, membership_expiry, identity_id, qr_payload)
		VALUES (@tenant_id, @first_name, @last_name, @email, @phone, @gender,
			@date_of_birth, @emergency_name, @emergency_phone, @relationship, @fitness_goal,
			@status, @membership_expiry, @identity_id, @qr_payload)
		RETURNING ` + memberColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tenant_id":         m.TenantID,
		"first_name":        m.FirstName,
		"last_name":         m.LastName,
		"email":             m.Email,
		"phone":             m.Phone,
		"gender":            m.Gender,
		"date_of_birth":     m.DateOfBirth,
		"emergency_name":    m.EmergencyName,
		"emergency_phone":   m.EmergencyPhone,
		"relationship":      m.Relationship,
		"fitness_goal":      m.FitnessGoal,
		"status":            m.Status,
		"membership_expiry": m.MembershipExpiry,
		"identity_id":       m.IdentityID,
		"qr_payload":        m.QRPayload,
	})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) Update(ctx context.Context, m domain.Member) (domain.Member, error) {
	q := `
		UPDATE members
		SET first_name        = @first_name,
		    last_name         = @last_name,
		    email             = COALESCE(@email, email),
		    phone             = COALESCE(NULLIF(@phone, ''), phone),
		    gender            = COALESCE(@gender, gender),
		    date_of_birth     = COALESCE(@date_of_birth, date_of_birth),
		    emergency_name    = COALESCE(@emergency_name, emergency_name),
		    emergency_phone   = COALESCE(@emergency_phone, emergency_phone),
		    relationship      = COALESCE(@relationship, relationship),
		    fitness_goal      = COALESCE(@fitness_goal, fitness_goal),
		    status            = @status,
		    membership_expiry = COALESCE(@membership_expiry, membership_expiry),
		    updated_at        = now()
		WHERE id = @id AND tenant_id = @tenant_id
		RETURNING ` + memberColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":                m.ID,
		"tenant_id":         m.TenantID,
		"first_name":        m.FirstName,
		"last_name":         m.LastName,
		"email":             m.Email,
		"phone":             m.Phone,
		"gender":            m.Gender,
		"date_of_birth":     m.DateOfBirth,
		"emergency_name":    m.EmergencyName,
		"emergency_phone":   m.EmergencyPhone,
		"relationship":      m.Relationship,
		"fitness_goal":      m.FitnessGoal,
		"status":            m.Status,
		"membership_expiry": m.MembershipExpiry,
	})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (domain.Member, error) {
	q := `SELECT ` + memberColumns + ` FROM members WHERE tenant_id = @tenant_id AND lower(email) = lower(@email)`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "email": email})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.FindByEmail: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) FindByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (domain.Member, error) {
	q := `SELECT ` + memberColumns + ` FROM members WHERE tenant_id = @tenant_id AND phone = @phone`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "phone": phone})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.FindByPhone: %w", err)
	}
	return result, nil
}

func (r *pgMemberRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.Member, error) {
	q := `SELECT ` + memberColumns + ` FROM members WHERE tenant_id = @tenant_id AND id = @id`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id})
	result, err := scanMember(row)
	if err != nil {
		return domain.Member{}, fmt.Errorf("repo.MemberRepo.GetByID: %w", err)
	}
	return result, nil
}

func scanMember(s scanner) (domain.Member, error) {
	var m domain.Member
	err := s.Scan(&m.ID, &m.TenantID, &m.FirstName, &m.LastName, &m.Email, &m.Phone,
		&m.Gender, &m.DateOfBirth, &m.EmergencyName, &m.EmergencyPhone, &m.Relationship,
		&m.FitnessGoal, &m.Status, &m.MembershipExpiry, &m.IdentityID, &m.QRPayload,
		&m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Member{}, domain.ErrNotFound
		}
		return domain.Member{}, err
	}
	return m, nil
}
