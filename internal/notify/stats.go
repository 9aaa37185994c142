package notify

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/pikad/herald/internal/logstore"
	"github.com/pikad/herald/internal/lookup"
	"github.com/pikad/herald/internal/transport"
)

// StatsReport is the aggregated service report: delivery statistics
// plus the health of every dependency.
type StatsReport struct {
	EmailStats     *logstore.Stats       `json:"email_stats"`
	ServicesHealth []lookup.HealthStatus `json:"services_health"`
	ServiceStatus  string                `json:"service_status"`
	Timestamp      time.Time             `json:"timestamp"`
}

// StatsCollector aggregates the delivery log and probes dependency
// health.
type StatsCollector struct {
	store     logstore.Store
	lookups   lookup.Client
	transport transport.Transport
	logger    *slog.Logger
}

// NewStatsCollector creates the collector.
func NewStatsCollector(store logstore.Store, lookups lookup.Client, tr transport.Transport, logger *slog.Logger) *StatsCollector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &StatsCollector{store: store, lookups: lookups, transport: tr, logger: logger}
}

// Collect computes delivery statistics and probes every dependent
// service concurrently. One unhealthy service never hides the others;
// each probe result lands in its own slot and Collect waits for all of
// them before returning.
func (c *StatsCollector) Collect(ctx context.Context) (*StatsReport, error) {
	stats, err := c.store.Stats(ctx, time.Now())
	if err != nil {
		c.logger.Error("failed to aggregate delivery stats", "error", err)
		return nil, err
	}

	services := c.lookups.Services()
	health := make([]lookup.HealthStatus, len(services)+1)

	var wg sync.WaitGroup
	for i, service := range services {
		wg.Add(1)
		go func(slot int, name string) {
			defer wg.Done()
			health[slot] = c.lookups.CheckHealth(ctx, name)
		}(i, service)
	}

	// The transport gets probed alongside the lookup services.
	wg.Add(1)
	go func() {
		defer wg.Done()
		status := lookup.HealthStatus{
			Service:   "transport",
			Status:    lookup.StatusHealthy,
			CheckedAt: time.Now(),
		}
		if err := c.transport.VerifyConnection(ctx); err != nil {
			status.Status = lookup.StatusUnhealthy
			status.Detail = err.Error()
		}
		health[len(services)] = status
	}()

	wg.Wait()

	return &StatsReport{
		EmailStats:     stats,
		ServicesHealth: health,
		ServiceStatus:  "healthy",
		Timestamp:      time.Now(),
	}, nil
}
