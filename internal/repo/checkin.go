package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gymops-platform/api/internal/domain"
)

type CheckInRepo interface {
	Create(ctx context.Context, c domain.CheckIn) (domain.CheckIn, error)
	// Update overwrites method and notes of an existing visit.
	Update(ctx context.Context, c domain.CheckIn) (domain.CheckIn, error)
	// FindByMemberAndTime is the duplicate lookup: one visit per member per
	// timestamp.
	FindByMemberAndTime(ctx context.Context, tenantID, memberID uuid.UUID, at time.Time) (domain.CheckIn, error)
}

type pgCheckInRepo struct {
	db db
}

func NewCheckInRepo(db db) CheckInRepo {
	return &pgCheckInRepo{db: db}
}

const checkInColumns = `id, tenant_id, member_id, checked_in_at, method, notes, created_at`

func (r *pgCheckInRepo) Create(ctx context.Context, c domain.CheckIn) (domain.CheckIn, error) {
	q := `
		INSERT INTO check_ins (tenant_id, member_id, checked_in_at, method, notes)
		VALUES (@tenant_id, @member_id, @checked_in_at, @method, @notes)
		RETURNING ` + checkInColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tenant_id":     c.TenantID,
		"member_id":     c.MemberID,
		"checked_in_at": c.CheckedInAt,
		"method":        c.Method,
		"notes":         c.Notes,
	})
	result, err := scanCheckIn(row)
	if err != nil {
		return domain.CheckIn{}, fmt.Errorf("repo.CheckInRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgCheckInRepo) Update(ctx context.Context, c domain.CheckIn) (domain.CheckIn, error) {
	q := `
		UPDATE check_ins
		SET method = @method,
		    notes  = COALESCE(@notes, notes)
		WHERE id = @id AND tenant_id = @tenant_id
		RETURNING ` + checkInColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":        c.ID,
		"tenant_id": c.TenantID,
		"method":    c.Method,
		"notes":     c.Notes,
	})
	result, err := scanCheckIn(row)
	if err != nil {
		return domain.CheckIn{}, fmt.Errorf("repo.CheckInRepo.Update: %w", err)
	}
	return result, nil
}

func (r *pgCheckInRepo) FindByMemberAndTime(ctx context.Context, tenantID, memberID uuid.UUID, at time.Time) (domain.CheckIn, error) {
	q := `SELECT ` + checkInColumns + `
		FROM check_ins
		WHERE tenant_id = @tenant_id AND member_id = @member_id AND checked_in_at = @checked_in_at`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tenant_id":     tenantID,
		"member_id":     memberID,
		"checked_in_at": at,
	})
	result, err := scanCheckIn(row)
	if err != nil {
		return domain.CheckIn{}, fmt.Errorf("repo.CheckInRepo.FindByMemberAndTime: %w", err)
	}
	return result, nil
}

func scanCheckIn(s scanner) (domain.CheckIn, error) {
	var c domain.CheckIn
	err := s.Scan(&c.ID, &c.TenantID, &c.MemberID, &c.CheckedInAt, &c.Method, &c.Notes, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.CheckIn{}, domain.ErrNotFound
		}
		return domain.CheckIn{}, err
	}
	return c, nil
}
