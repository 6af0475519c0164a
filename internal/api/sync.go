package api

import (
	"context"
	"net/http"
	"strconv"

	"mcphubs/internal/model"
	"mcphubs/internal/syncer"
)

type syncRequest struct {
	Force          bool   `json:"force"`
	SkipTimeWindow bool   `json:"skip_time_window"`
	FastMode       bool   `json:"fast_mode"`
	BatchLimit     int    `json:"batch_limit"`
	Source         string `json:"source"`
}

// triggerSync runs a sync to completion and returns its report. Skipped and failed
// runs are still reported with 200; the report carries the outcome.
func (h *Handler) triggerSync(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.BatchLimit < 0 {
		respondWithError(w, http.StatusBadRequest, "batch_limit must be non-negative")
		return
	}
	source, ok := model.ParseSyncSource(req.Source)
	if !ok {
		respondWithError(w, http.StatusBadRequest, "source must be manual or cron")
		return
	}

	// A client disconnect must not abandon a run that already holds the lock.
	ctx := context.WithoutCancel(r.Context())
	report := h.deps.Sync.RunSync(ctx, syncer.Options{
		Force:          req.Force,
		SkipTimeWindow: req.SkipTimeWindow,
		FastMode:       req.FastMode,
		BatchLimit:     req.BatchLimit,
		Source:         source,
	})
	respondWithJSON(w, http.StatusOK, report)
}

func (h *Handler) syncStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.deps.Sync.Status(r.Context())
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

func (h *Handler) syncRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	runs, err := h.deps.Sync.ListRuns(r.Context(), limit)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, runs)
}

func (h *Handler) resetPosition(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Sync.ResetPosition(r.Context()); err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	h.logger.Info("Sync position reset by operator", "remote_addr", r.RemoteAddr)
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (h *Handler) dataQuality(w http.ResponseWriter, r *http.Request) {
	report, err := h.deps.Quality.Scan(r.Context())
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}
