package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gymops-platform/api/internal/audit"
	"github.com/gymops-platform/api/internal/config"
	"github.com/gymops-platform/api/internal/httpx"
	"github.com/gymops-platform/api/internal/importer"
	"github.com/gymops-platform/api/internal/middleware"
	"github.com/gymops-platform/api/internal/repo"
)

type Server struct {
	Config      config.Config
	Logger      *slog.Logger
	Audit       *audit.Logger
	Coordinator *importer.Coordinator
	ImportRuns  repo.ImportRunRepo
}

func NewServer(cfg config.Config, logger *slog.Logger, auditLogger *audit.Logger, coordinator *importer.Coordinator, importRuns repo.ImportRunRepo) *Server {
	return &Server{
		Config:      cfg,
		Logger:      logger,
		Audit:       auditLogger,
		Coordinator: coordinator,
		ImportRuns:  importRuns,
	}
}

func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// requireActor pulls the authenticated tenant off the request. The auth
// middleware guarantees it on protected routes; the check is for handlers
// wired outside that chain.
func requireActor(w http.ResponseWriter, r *http.Request) (middleware.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		httpx.WriteError(w, r, http.StatusUnauthorized, "unauthorized", "Missing tenant credentials", nil)
		return middleware.Actor{}, false
	}
	return actor, true
}
