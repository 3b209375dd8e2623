package app

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	openapimiddleware "github.com/oapi-codegen/nethttp-middleware"

	"github.com/gymops-platform/api/internal/audit"
	"github.com/gymops-platform/api/internal/config"
	"github.com/gymops-platform/api/internal/handlers"
	"github.com/gymops-platform/api/internal/httpx"
	"github.com/gymops-platform/api/internal/identity"
	"github.com/gymops-platform/api/internal/importer"
	"github.com/gymops-platform/api/internal/middleware"
	"github.com/gymops-platform/api/internal/repo"
)

// NewRouter wires the full HTTP surface: the OpenAPI contract is loaded
// and validated at startup, and every /api request is checked against it
// before reaching a handler.
func NewRouter(cfg config.Config, pool *pgxpool.Pool, logger *slog.Logger) (http.Handler, error) {
	specPath := cfg.OpenAPIPath
	if _, err := os.Stat(specPath); err != nil {
		return nil, fmt.Errorf("openapi spec not found at %s: %w", specPath, err)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(specPath)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}

	members := repo.NewMemberRepo(pool)
	staff := repo.NewStaffRepo(pool)
	packages := repo.NewPackageRepo(pool)
	checkins := repo.NewCheckInRepo(pool)
	memberships := repo.NewMembershipRepo(pool)
	tenants := repo.NewTenantRepo(pool)
	importRuns := repo.NewImportRunRepo(pool)
	auditLogger := audit.NewLogger(repo.NewAuditRepo(pool))

	coordinator := &importer.Coordinator{
		Members:     members,
		Staff:       staff,
		Packages:    packages,
		CheckIns:    checkins,
		Memberships: memberships,
		Provisioner: importer.NewProvisioner(
			identity.NewHTTPClient(cfg.IdentityBaseURL, cfg.IdentityAdminToken),
			cfg.IdentityPacing,
			cfg.IdentityCooldown,
			logger,
		),
		Log: logger,
	}

	h := handlers.NewServer(cfg, logger, auditLogger, coordinator, importRuns)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.SecurityHeaders(cfg.Env))
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.LimitBodyBytesWithOverrides(cfg.APIMaxBodyBytes, []middleware.BodyLimitOverride{
		{PathPrefix: "/imports", MaxBytes: cfg.ImportMaxFileBytes},
	}))

	api := chi.NewRouter()
	api.Use(openapimiddleware.OapiRequestValidatorWithOptions(doc, &openapimiddleware.Options{
		SilenceServersWarning: true,
		ErrorHandler: func(w http.ResponseWriter, message string, statusCode int) {
			requestID := w.Header().Get("X-Request-Id")
			httpx.WriteJSON(w, statusCode, httpx.ErrorEnvelope{
				Error:     httpx.ErrorBody{Code: "validation_error", Message: message},
				RequestID: requestID,
			})
		},
	}))

	authMW := middleware.AuthMiddleware{Tenants: tenants}
	importLimiter := middleware.NewIPRateLimiter(cfg.ImportRateLimit, time.Minute)

	api.Group(func(public chi.Router) {
		public.Get("/health", h.GetHealth)
	})

	api.Group(func(protected chi.Router) {
		protected.Use(authMW.RequireTenant)
		protected.With(importLimiter.Middleware("Too many imports, slow down")).Post("/imports", h.PostImports)
		protected.Post("/imports/mappings", h.PostImportMappings)
		protected.Get("/imports/{id}", h.GetImportRun)
		protected.Get("/imports/templates/{dataType}", h.GetImportTemplate)
	})

	r.Mount("/api", api)
	return r, nil
}
