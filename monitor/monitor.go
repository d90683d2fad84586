package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/medisave/genericmeds-api/interfaces"
	"github.com/medisave/genericmeds-api/logging"
	"github.com/medisave/genericmeds-api/metrics"
)

const (
	probeInterval = 10 * time.Minute
	probeTimeout  = 10 * time.Second
)

// Compile-time check to ensure Monitor implements Scheduler interface
var _ interfaces.Scheduler = (*Monitor)(nil)

// Monitor periodically probes the drug vocabulary service and records the
// result using dependency injection
type Monitor struct {
	pinger    interfaces.Pinger
	status    interfaces.StatusStore
	scheduler *gocron.Scheduler
}

// NewMonitor creates a new monitor instance with injected dependencies
func NewMonitor(pinger interfaces.Pinger, status interfaces.StatusStore) *Monitor {
	return &Monitor{
		pinger:    pinger,
		status:    status,
		scheduler: gocron.NewScheduler(time.Local),
	}
}

// Start runs an immediate probe and schedules recurring ones. A failed
// first probe is recorded, not fatal; the API serves searches even when
// the vocabulary service is down.
func (m *Monitor) Start() error {
	m.probe()

	_, err := m.scheduler.Every(probeInterval).Do(m.probe)
	if err != nil {
		logging.Error("Failed to schedule vocabulary probes", "error", err)
		return fmt.Errorf("failed to schedule vocabulary probes: %w", err)
	}

	m.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (m *Monitor) Stop() {
	m.scheduler.Stop()
}

// probe checks upstream reachability once and records the observation
func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	previous := m.status.LastProbe()
	status := interfaces.ProbeStatus{
		CheckedAt: time.Now(),
		Reachable: true,
	}

	if err := m.pinger.Ping(ctx); err != nil {
		status.Reachable = false
		status.ConsecutiveFailures = previous.ConsecutiveFailures + 1
		metrics.VocabularyReachable.Set(0)
		logging.Warn("Vocabulary service unreachable",
			"error", err,
			"consecutive_failures", status.ConsecutiveFailures)
	} else {
		metrics.VocabularyReachable.Set(1)
		if previous.ConsecutiveFailures > 0 {
			logging.Info("Vocabulary service reachable again",
				"after_failures", previous.ConsecutiveFailures)
		}
	}

	m.status.RecordProbe(status)
}
