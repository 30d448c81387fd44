// Package chi exposes the search and answer flows over HTTP.
package chi

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/transcriptqa/internal/domain"
	domanswer "github.com/kailas-cloud/transcriptqa/internal/domain/answer"
	"github.com/kailas-cloud/transcriptqa/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/transcriptqa/internal/usecase/health"
)

// Searcher runs the query flow.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]result.Result, error)
}

// Asker runs the answer flow.
type Asker interface {
	Ask(ctx context.Context, question string) (domanswer.Answer, error)
}

// HealthChecker aggregates component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}

// Server holds the HTTP handlers.
type Server struct {
	search   Searcher
	answer   Asker
	health   HealthChecker
	defaultK int
	metrics  http.Handler
	logger   *zap.Logger
}

// NewServer creates an HTTP API server. defaultK applies when a search request omits k.
func NewServer(search Searcher, answer Asker, health HealthChecker, defaultK int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		search:   search,
		answer:   answer,
		health:   health,
		defaultK: defaultK,
		metrics:  promhttp.Handler(),
		logger:   logger,
	}
}

// Search handles POST /v1/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if !s.decode(w, r, &req) {
		return
	}
	k := s.defaultK
	if req.K != nil {
		k = *req.K
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	results, err := s.search.Search(ctx, req.Query, k)
	setUsageHeaders(w, usage)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Query: req.Query, Results: toItems(results)})
}

// Ask handles POST /v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if !s.decode(w, r, &req) {
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	ans, err := s.answer.Ask(ctx, req.Question)
	setUsageHeaders(w, usage)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, AskResponse{
		Question: ans.Question(),
		Answer:   ans.Text(),
		Sources:  toItems(ans.Sources()),
	})
}

// HealthCheck handles GET /health. Anything but a healthy report is a 503.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	resp := HealthResponse{Status: string(report.Status), Checks: make(map[string]string, len(report.Checks))}
	for name, res := range report.Checks {
		resp.Checks[name] = string(res)
	}

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	s.metrics.ServeHTTP(w, r)
}

func toItems(results []result.Result) []SearchResultItem {
	items := make([]SearchResultItem, 0, len(results))
	for _, res := range results {
		chunk := res.Chunk()
		items = append(items, SearchResultItem{
			Key:      res.Key(),
			Score:    res.Score(),
			Content:  res.Content(),
			Source:   chunk.Source(),
			Metadata: chunk.Metadata(),
		})
	}
	return items
}
