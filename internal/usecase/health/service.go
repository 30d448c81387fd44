// Package health reports whether Redis and the model providers are reachable.
package health

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates a provider failure while Redis is reachable.
	Degraded Status = "degraded"
	// Unhealthy indicates Redis is unreachable.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	ComponentDatabase  = "database"
	ComponentEmbedding = "embedding"
	ComponentChat      = "chat"
)

// DefaultCheckTimeout bounds a single component check.
const DefaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type component struct {
	name     string
	critical bool // failure makes the service Unhealthy rather than Degraded
	run      func(context.Context) error
}

// Service runs every component check concurrently.
type Service struct {
	checks  []component
	timeout time.Duration
}

// New creates a Service. embedding and chat can be nil.
func New(db DBPinger, embedding, chat Checker) *Service {
	s := &Service{
		checks:  []component{{name: ComponentDatabase, critical: true, run: db.Ping}},
		timeout: DefaultCheckTimeout,
	}
	if embedding != nil {
		s.checks = append(s.checks, component{name: ComponentEmbedding, run: embedding.HealthCheck})
	}
	if chat != nil {
		s.checks = append(s.checks, component{name: ComponentChat, run: chat.HealthCheck})
	}
	return s
}

// WithTimeout overrides the per-check deadline. Non-positive values are ignored.
func (s *Service) WithTimeout(d time.Duration) *Service {
	if d > 0 {
		s.timeout = d
	}
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		g      errgroup.Group
		report = Report{Status: Healthy, Checks: make(map[string]CheckResult, len(s.checks))}
	)

	for _, p := range s.checks {
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(ctx, s.timeout)
			defer cancel()
			err := p.run(pctx)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				report.Checks[p.name] = CheckOK
				return nil
			}
			report.Checks[p.name] = CheckError
			switch {
			case p.critical:
				report.Status = Unhealthy
			case report.Status == Healthy:
				report.Status = Degraded
			}
			return nil
		})
	}
	_ = g.Wait()

	return report
}
