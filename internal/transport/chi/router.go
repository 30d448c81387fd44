package chi

import (
	"net/http"

	chirouter "github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/metrics"
)

// Paths reachable without an API key.
const (
	PathHealth  = "/health"
	PathMetrics = "/metrics"
)

// NewRouter mounts the API. Middleware order: request id, access log,
// panic recovery, bearer auth, HTTP metrics.
func NewRouter(s *Server, apiKeys []string, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chirouter.NewRouter()
	r.Use(chimw.RequestID, accessLog(logger), recoverJSON(logger))
	r.Use(BearerAuthMiddleware(apiKeys, PathHealth, PathMetrics))
	r.Use(metrics.Middleware())

	r.Get(PathHealth, s.HealthCheck)
	r.Get(PathMetrics, s.Metrics)
	r.Route("/v1", func(r chirouter.Router) {
		r.Post("/search", s.Search)
		r.Post("/ask", s.Ask)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorCodeBadRequest, "method not allowed")
	})
	return r
}
