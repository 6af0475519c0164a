// internal/api/handler.go
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mcphubs/internal/catalog"
	"mcphubs/internal/model"
	"mcphubs/internal/projects"
	"mcphubs/internal/quality"
	"mcphubs/internal/syncer"
)

// SyncService triggers and inspects sync runs.
type SyncService interface {
	RunSync(ctx context.Context, opts syncer.Options) model.SyncRunReport
	Status(ctx context.Context) (model.SyncStatus, error)
	ResetPosition(ctx context.Context) error
	ListRuns(ctx context.Context, limit int) ([]model.SyncRunReport, error)
}

// ProjectService serves project reads.
type ProjectService interface {
	Defaults() projects.ReadConfig
	GetProjects(ctx context.Context, cfg projects.ReadConfig) (projects.ProjectList, error)
	GetProjectDetails(ctx context.Context, id string) (projects.ProjectDetail, error)
	SearchProjects(ctx context.Context, q string, limit int) ([]model.Project, string, error)
}

// CatalogService manages servers, clients and submissions.
type CatalogService interface {
	UpsertServer(ctx context.Context, in catalog.ServerInput) (model.RemoteServer, error)
	ListServers(ctx context.Context) ([]model.RemoteServer, error)
	GetServer(ctx context.Context, id string) (model.RemoteServer, error)
	UpsertClient(ctx context.Context, in catalog.ClientInput) (model.Client, error)
	ListClients(ctx context.Context) ([]model.Client, error)
	CreateSubmission(ctx context.Context, in catalog.SubmissionInput) (model.Submission, error)
	ListSubmissions(ctx context.Context, status model.SubmissionStatus) ([]model.Submission, error)
	ListPublicSubmissions(ctx context.Context) ([]model.Submission, error)
	ApproveSubmission(ctx context.Context, id string) (model.Submission, error)
	RejectSubmission(ctx context.Context, id, reason string) (model.Submission, error)
}

// QualityScanner produces the data-quality report.
type QualityScanner interface {
	Scan(ctx context.Context) (quality.Report, error)
}

// Pinger checks storage connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies are the services the router exposes.
type Dependencies struct {
	Sync     SyncService
	Projects ProjectService
	Catalog  CatalogService
	Quality  QualityScanner
	DB       Pinger
}

// Options configure the HTTP surface.
type Options struct {
	APIKey             string // empty disables every admin route
	CORSAllowedOrigins []string // empty means no CORS headers
	RateLimit          int // requests per minute per client IP; 0 disables
	RequestTimeout     time.Duration
}

// Handler is the container for API dependencies.
type Handler struct {
	deps   Dependencies
	apiKey string
	logger *slog.Logger
}

// NewRouter creates and configures a new chi router with all API routes.
func NewRouter(deps Dependencies, opts Options, logger *slog.Logger) http.Handler {
	h := &Handler{
		deps:   deps,
		apiKey: opts.APIKey,
		logger: logger,
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(recordMetrics)
	// cors allows every origin when the list is empty, so only mount it when origins are set.
	if len(opts.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Content-Type", "Authorization", "X-API-Key"},
			MaxAge:         300,
		}))
	}
	if opts.RateLimit > 0 {
		r.Use(httprate.LimitByIP(opts.RateLimit, time.Minute))
	}

	r.Get("/health", h.healthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(opts.RequestTimeout))

			r.Get("/projects", h.getProjects)
			r.Get("/projects/search", h.searchProjects)
			r.Get("/projects/{id}", h.getProject)
			r.Get("/projects/{owner}/{name}", h.getProjectByName)

			r.Get("/servers", h.listServers)
			r.Get("/servers/{id}", h.getServer)
			r.Get("/clients", h.listClients)
			r.Get("/submissions", h.listPublicSubmissions)
			r.Post("/submissions", h.createSubmission)
		})

		// Sync runs are not bound to the request timeout.
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireAPIKey)

			r.Post("/sync", h.triggerSync)
			r.Get("/sync/status", h.syncStatus)
			r.Get("/sync/runs", h.syncRuns)
			r.Post("/sync/reset", h.resetPosition)

			r.Get("/submissions", h.listSubmissions)
			r.Post("/submissions/{id}/approve", h.approveSubmission)
			r.Post("/submissions/{id}/reject", h.rejectSubmission)

			r.Put("/servers", h.upsertServer)
			r.Put("/clients", h.upsertClient)

			r.Get("/data-quality", h.dataQuality)
		})
	})

	return r
}

// healthCheck reports storage reachability.
func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	if h.deps.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.deps.DB.Ping(ctx); err != nil {
			h.logger.Warn("Health check failed", "error", err)
			respondWithJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "database": "unreachable"})
			return
		}
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
