package api

import (
	"crypto/subtle"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mcphubs/internal/metrics"
)

// requireAPIKey gates admin routes. With no key configured every call is refused.
func (h *Handler) requireAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.apiKey == "" {
			metrics.AuthFailures.WithLabelValues("not_configured").Inc()
			h.logger.Error("Admin request refused: API_SECRET_KEY is not configured", "path", r.URL.Path)
			respondWithError(w, http.StatusServiceUnavailable, "Admin API not configured")
			return
		}

		key := r.Header.Get("X-API-Key")
		if key == "" {
			if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				key = strings.TrimPrefix(auth, "Bearer ")
			}
		}
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(h.apiKey)) != 1 {
			metrics.AuthFailures.WithLabelValues("invalid_key").Inc()
			h.logger.Warn("Admin request refused: invalid API key", "path", r.URL.Path, "remote_addr", r.RemoteAddr)
			respondWithError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recordMetrics counts requests by route pattern so path parameters do not explode
// label cardinality.
func recordMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(status), time.Since(start))
	})
}
