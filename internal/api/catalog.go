package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"mcphubs/internal/catalog"
	"mcphubs/internal/model"
)

func (h *Handler) listServers(w http.ResponseWriter, r *http.Request) {
	servers, err := h.deps.Catalog.ListServers(r.Context())
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, servers)
}

func (h *Handler) getServer(w http.ResponseWriter, r *http.Request) {
	server, err := h.deps.Catalog.GetServer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, server)
}

func (h *Handler) upsertServer(w http.ResponseWriter, r *http.Request) {
	var in catalog.ServerInput
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	server, err := h.deps.Catalog.UpsertServer(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, server)
}

func (h *Handler) listClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.deps.Catalog.ListClients(r.Context())
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, clients)
}

func (h *Handler) upsertClient(w http.ResponseWriter, r *http.Request) {
	var in catalog.ClientInput
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	client, err := h.deps.Catalog.UpsertClient(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, client)
}

func (h *Handler) createSubmission(w http.ResponseWriter, r *http.Request) {
	var in catalog.SubmissionInput
	if err := decodeJSON(r, &in, false); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	sub, err := h.deps.Catalog.CreateSubmission(r.Context(), in)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, sub)
}

// listPublicSubmissions shows approved entries without submitter details.
func (h *Handler) listPublicSubmissions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.deps.Catalog.ListPublicSubmissions(r.Context())
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, subs)
}

func (h *Handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	status := model.SubmissionPending
	if raw := r.URL.Query().Get("status"); raw != "" {
		st, ok := model.ParseSubmissionStatus(raw)
		if !ok {
			respondWithError(w, http.StatusBadRequest, "status must be one of pending, approved, rejected")
			return
		}
		status = st
	}
	subs, err := h.deps.Catalog.ListSubmissions(r.Context(), status)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, subs)
}

func (h *Handler) approveSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := h.deps.Catalog.ApproveSubmission(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *Handler) rejectSubmission(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decodeJSON(r, &req, true); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	sub, err := h.deps.Catalog.RejectSubmission(r.Context(), chi.URLParam(r, "id"), req.Reason)
	if err != nil {
		respondWithDomainError(w, h.logger, err)
		return
	}
	respondWithJSON(w, http.StatusOK, sub)
}
