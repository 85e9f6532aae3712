package health

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultTimeout bounds each check.
const DefaultTimeout = 10 * time.Second

// Manager runs checkers in parallel, each under its own timeout.
type Manager struct {
	checkers []Checker
	timeout  time.Duration
}

// NewManager creates a manager with DefaultTimeout.
func NewManager() *Manager {
	return &Manager{timeout: DefaultTimeout}
}

// WithTimeout sets a custom timeout for health checks.
func (m *Manager) WithTimeout(timeout time.Duration) *Manager {
	m.timeout = timeout
	return m
}

// AddChecker registers a checker. Results keep registration order.
func (m *Manager) AddChecker(c Checker) {
	m.checkers = append(m.checkers, c)
}

// Named pairs a result with the checker that produced it.
type Named struct {
	Name   string `json:"name" yaml:"name"`
	Result `yaml:",inline"`
}

// Check runs every checker and returns the results in registration order.
func (m *Manager) Check(ctx context.Context) []Named {
	results := make([]Named, len(m.checkers))
	var g errgroup.Group
	for i, c := range m.checkers {
		i, c := i, c
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, m.timeout)
			defer cancel()

			start := time.Now()
			res := c.Check(cctx)
			if res.Latency == 0 {
				res.Latency = time.Since(start)
			}

			results[i] = Named{Name: c.Name(), Result: *res}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Overall is unhealthy if any result is, degraded if any is, else healthy.
func Overall(results []Named) Status {
	status := StatusHealthy
	for _, r := range results {
		switch r.Status {
		case StatusUnhealthy:
			return StatusUnhealthy
		case StatusDegraded:
			status = StatusDegraded
		}
	}
	return status
}
