package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"mcphubs/internal/model"
	"mcphubs/internal/projects"
)

type searchResponse struct {
	Projects []model.Project `json:"projects"`
	Source   string          `json:"source"`
	Query    string          `json:"query"`
}

// getProjects lists projects. ?strategy= and ?fallback= override the configured defaults.
func (h *Handler) getProjects(w http.ResponseWriter, r *http.Request) {
	cfg := h.deps.Projects.Defaults()

	q := r.URL.Query()
	if raw := q.Get("strategy"); raw != "" {
		switch s := projects.Strategy(raw); s {
		case projects.StrategyDatabaseFirst, projects.StrategyLive:
			cfg.Strategy = s
		default:
			respondWithError(w, http.StatusBadRequest, "strategy must be one of database-first, live")
			return
		}
	}
	if raw := q.Get("fallback"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "fallback must be a boolean")
			return
		}
		cfg.FallbackEnabled = v
	}

	list, err := h.deps.Projects.GetProjects(r.Context(), cfg)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) searchProjects(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	results, source, err := h.deps.Projects.SearchProjects(r.Context(), query, limit)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, searchResponse{Projects: results, Source: source, Query: query})
}

// getProject accepts a numeric GitHub id or the "owner--name" slug.
func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	h.writeProjectDetail(w, r, chi.URLParam(r, "id"))
}

func (h *Handler) getProjectByName(w http.ResponseWriter, r *http.Request) {
	h.writeProjectDetail(w, r, chi.URLParam(r, "owner")+"/"+chi.URLParam(r, "name"))
}

func (h *Handler) writeProjectDetail(w http.ResponseWriter, r *http.Request, id string) {
	detail, err := h.deps.Projects.GetProjectDetails(r.Context(), id)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, detail)
}
