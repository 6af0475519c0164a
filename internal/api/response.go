package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	apperrors "mcphubs/internal/errors"
	"mcphubs/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error  string                   `json:"error"`
	Fields []validation.FieldError `json:"fields,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

// respondWithDomainError maps service errors onto HTTP statuses.
func respondWithDomainError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		respondWithJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Fields: verr.Fields})
	case errors.Is(err, apperrors.ErrInvalidIdentifier):
		respondWithError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Not found")
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrSyncInProgress),
		errors.Is(err, apperrors.ErrPositionConflict):
		respondWithError(w, http.StatusConflict, err.Error())
	case apperrors.IsConfig(err):
		respondWithError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Error("Request failed", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// decodeJSON reads a JSON body into dst. An empty body is accepted when allowEmpty is set.
func decodeJSON(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) && allowEmpty {
			return nil
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
