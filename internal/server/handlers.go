package server

import (
	"context"
	"net/http"

	"github.com/go-sod/mlserve/internal/httputil"
	"github.com/go-sod/mlserve/internal/logging"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-Id"

// HandleHealth always reports ok once the server accepts requests.
func HandleHealth(ctx context.Context) http.Handler {
	logger := logging.FromContext(ctx)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			httputil.RespMethodNotAllowed(r.Context(), w, http.MethodGet)
			return
		}
		logger.Debug("health check")
		httputil.RespJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
	})
}

// WithRequestLogger attaches a logger carrying the request id to every
// request context. An incoming X-Request-Id header is reused.
func WithRequestLogger(ctx context.Context, next http.Handler) http.Handler {
	base := logging.FromContext(ctx)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(requestIDHeader, id)

		logger := base.With("request_id", id, "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), logger)))
	})
}
