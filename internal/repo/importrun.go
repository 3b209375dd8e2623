package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gymops-platform/api/internal/domain"
)

type ImportRunRepo interface {
	Create(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error)
	// Complete sets the final status and summary JSON of a run.
	Complete(ctx context.Context, tenantID, id uuid.UUID, status string, summary []byte) (domain.ImportRun, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.ImportRun, error)
}

type pgImportRunRepo struct {
	db db
}

func NewImportRunRepo(db db) ImportRunRepo {
	return &pgImportRunRepo{db: db}
}

const importRunColumns = `id, tenant_id, data_type, duplicate_handling, filename,
	file_sha256, status, summary_json, created_at, completed_at`

func (r *pgImportRunRepo) Create(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error) {
	summary := run.Summary
	if len(summary) == 0 {
		summary = []byte(`{}`)
	}
	q := `
		INSERT INTO import_runs (tenant_id, data_type, duplicate_handling, filename, file_sha256, status, summary_json)
		VALUES (@tenant_id, @data_type, @duplicate_handling, @filename, @file_sha256, @status, @summary_json)
		RETURNING ` + importRunColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"tenant_id":          run.TenantID,
		"data_type":          run.DataType,
		"duplicate_handling": run.DuplicateHandling,
		"filename":           run.Filename,
		"file_sha256":        run.FileSHA256,
		"status":             run.Status,
		"summary_json":       summary,
	})
	result, err := scanImportRun(row)
	if err != nil {
		return domain.ImportRun{}, fmt.Errorf("repo.ImportRunRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgImportRunRepo) Complete(ctx context.Context, tenantID, id uuid.UUID, status string, summary []byte) (domain.ImportRun, error) {
	if len(summary) == 0 {
		summary = []byte(`{}`)
	}
	q := `
		UPDATE import_runs
		SET status = @status, summary_json = @summary_json, completed_at = now()
		WHERE id = @id AND tenant_id = @tenant_id
		RETURNING ` + importRunColumns

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{
		"id":           id,
		"tenant_id":    tenantID,
		"status":       status,
		"summary_json": summary,
	})
	result, err := scanImportRun(row)
	if err != nil {
		return domain.ImportRun{}, fmt.Errorf("repo.ImportRunRepo.Complete: %w", err)
	}
	return result, nil
}

func (r *pgImportRunRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (domain.ImportRun, error) {
	q := `SELECT ` + importRunColumns + ` FROM import_runs WHERE tenant_id = @tenant_id AND id = @id`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"tenant_id": tenantID, "id": id})
	result, err := scanImportRun(row)
	if err != nil {
		return domain.ImportRun{}, fmt.Errorf("repo.ImportRunRepo.GetByID: %w", err)
	}
	return result, nil
}

func scanImportRun(s scanner) (domain.ImportRun, error) {
	var run domain.ImportRun
	err := s.Scan(&run.ID, &run.TenantID, &run.DataType, &run.DuplicateHandling,
		&run.Filename, &run.FileSHA256, &run.Status, &run.Summary, &run.CreatedAt, &run.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ImportRun{}, domain.ErrNotFound
		}
		return domain.ImportRun{}, err
	}
	return run, nil
}
