package jobs

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"mneme/internal/metrics"
)

// Pinger checks that a remote dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// InferenceMonitor periodically probes the inference service and remembers
// whether the last probe succeeded. It never retries a failed note request;
// it only feeds readiness and metrics.
type InferenceMonitor struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	healthy  atomic.Bool
}

// NewInferenceMonitor creates a monitor. The service is assumed healthy
// until the first probe says otherwise.
func NewInferenceMonitor(pinger Pinger, interval time.Duration) *InferenceMonitor {
	m := &InferenceMonitor{
		pinger:   pinger,
		interval: interval,
		timeout:  10 * time.Second,
	}
	m.healthy.Store(true)
	return m
}

// Healthy reports the result of the last probe. A nil monitor is healthy.
func (m *InferenceMonitor) Healthy() bool {
	if m == nil {
		return true
	}
	return m.healthy.Load()
}

// Start begins the background probe loop and blocks until ctx is done.
func (m *InferenceMonitor) Start(ctx context.Context) {
	slog.Info("inference monitor started", "interval", m.interval)

	// Run immediately on start
	m.check(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("inference monitor stopped")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

// check runs a single probe and records the outcome.
func (m *InferenceMonitor) check(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	err := m.pinger.Ping(probeCtx)
	if err != nil && ctx.Err() != nil {
		// Shutting down, not an outage.
		return
	}

	healthy := err == nil
	if was := m.healthy.Swap(healthy); was != healthy {
		if healthy {
			slog.Info("inference service reachable again")
		} else {
			slog.Warn("inference service unreachable", "error", err)
		}
	}
	metrics.SetInferenceUp(healthy)
}
