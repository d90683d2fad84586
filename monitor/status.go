// Package monitor probes the drug vocabulary service in the background and
// keeps the latest probe result available for the health endpoint. Probes run
// on a fixed schedule so that health checks never call the upstream
// themselves.
package monitor

import (
	"sync/atomic"

	"github.com/medisave/genericmeds-api/interfaces"
)

// Compile-time check to ensure StatusContainer implements StatusStore interface
var _ interfaces.StatusStore = (*StatusContainer)(nil)

// StatusContainer holds the last probe result behind an atomic pointer so
// readers never block writers
type StatusContainer struct {
	probe atomic.Value // interfaces.ProbeStatus
}

// NewStatusContainer creates an empty status container
func NewStatusContainer() *StatusContainer {
	return &StatusContainer{}
}

// RecordProbe stores the latest probe result
func (c *StatusContainer) RecordProbe(status interfaces.ProbeStatus) {
	c.probe.Store(status)
}

// LastProbe returns the latest probe result, or a zero value before the
// first probe has completed
func (c *StatusContainer) LastProbe() interfaces.ProbeStatus {
	if v := c.probe.Load(); v != nil {
		if status, ok := v.(interfaces.ProbeStatus); ok {
			return status
		}
	}
	return interfaces.ProbeStatus{}
}
