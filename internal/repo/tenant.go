package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gymops-platform/api/internal/domain"
)

type TenantRepo interface {
	// GetByAPIKeyHash resolves the tenant owning an API key. The raw key is
	// never stored; callers hash it first.
	GetByAPIKeyHash(ctx context.Context, keyHash string) (domain.Tenant, error)
}

type pgTenantRepo struct {
	db db
}

func NewTenantRepo(db db) TenantRepo {
	return &pgTenantRepo{db: db}
}

func (r *pgTenantRepo) GetByAPIKeyHash(ctx context.Context, keyHash string) (domain.Tenant, error) {
	q := `SELECT id, slug, name, api_key_hash, created_at FROM tenants WHERE api_key_hash = @api_key_hash`
	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"api_key_hash": keyHash})

	var t domain.Tenant
	if err := row.Scan(&t.ID, &t.Slug, &t.Name, &t.APIKeyHash, &t.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Tenant{}, fmt.Errorf("repo.TenantRepo.GetByAPIKeyHash: %w", domain.ErrNotFound)
		}
		return domain.Tenant{}, fmt.Errorf("repo.TenantRepo.GetByAPIKeyHash: %w", err)
	}
	return t, nil
}
