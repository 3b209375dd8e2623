package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gymops-platform/api/internal/auth"
	"github.com/gymops-platform/api/internal/domain"
)

// TenantResolver is the slice of the tenant repo the auth middleware needs.
type TenantResolver interface {
	GetByAPIKeyHash(ctx context.Context, keyHash string) (domain.Tenant, error)
}

type AuthMiddleware struct {
	Tenants TenantResolver
}

// RequireTenant authenticates the request with a bearer API key. The raw key
// is never stored; lookup is by its sha256 hash.
func (m AuthMiddleware) RequireTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			writeError(w, r, http.StatusUnauthorized, "unauthorized", "API key required", nil)
			return
		}

		tenant, err := m.Tenants.GetByAPIKeyHash(r.Context(), auth.HashToken(token))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, r, http.StatusUnauthorized, "unauthorized", "API key is invalid", nil)
				return
			}
			writeError(w, r, http.StatusInternalServerError, "internal_error", "Failed to resolve tenant", nil)
			return
		}

		ctx := WithActor(r.Context(), Actor{
			TenantID:   tenant.ID,
			TenantSlug: tenant.Slug,
			TenantName: tenant.Name,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
