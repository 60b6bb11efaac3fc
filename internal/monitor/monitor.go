// Package monitor implements the periodic system sampler (spec.md
// §4.7): CPU, memory, and optional GPU/disk/network rates, published
// as SystemStatsUpdated events. Rate calculations for disk/network
// keep the previous counters and lastCheckTime; a zero or negative
// delta produces 0 and never divides by zero.
package monitor

import (
	"context"
	"time"

	"github.com/deskpet/core/pkg/eventbus"
	"github.com/deskpet/core/pkg/logger"
)

// Sampler is the platform-specific probe the Monitor polls. CPU and
// Memory are mandatory; GPU/Disk/Network return ok=false when the
// underlying probe is unavailable, so the field is omitted rather
// than faked (spec.md §4.7).
type Sampler interface {
	CPUPercent() (float64, error)
	MemoryPercent() (float64, error)
	GPUPercent() (value float64, ok bool)
	DiskBusyPercent(now time.Time) (value float64, ok bool)
	NetworkBusyPercent(now time.Time) (value float64, ok bool)
}

// Monitor polls a Sampler every period and publishes
// SystemStatsUpdated on bus.
type Monitor struct {
	bus     *eventbus.Bus
	sampler Sampler
	period  time.Duration
	log     *logger.Logger
}

// New creates a Monitor.
func New(bus *eventbus.Bus, sampler Sampler, period time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{bus: bus, sampler: sampler, period: period, log: log}
}

// SampleOnce takes one reading and publishes it, or logs and drops it
// on a BadReading-class probe error (spec.md §7).
func (m *Monitor) SampleOnce(now time.Time) {
	cpu, err := m.sampler.CPUPercent()
	if err != nil {
		if m.log != nil {
			m.log.Warn("bad reading: cpu probe failed", "error", err.Error())
		}
		return
	}
	mem, err := m.sampler.MemoryPercent()
	if err != nil {
		if m.log != nil {
			m.log.Warn("bad reading: memory probe failed", "error", err.Error())
		}
		return
	}

	stats := eventbus.SystemStatsUpdated{CPU: cpu, Memory: mem}
	if gpu, ok := m.sampler.GPUPercent(); ok {
		stats.GPU = &gpu
	}
	if disk, ok := m.sampler.DiskBusyPercent(now); ok {
		stats.Disk = &disk
	}
	if net, ok := m.sampler.NetworkBusyPercent(now); ok {
		stats.Network = &net
	}

	m.bus.Dispatch(&eventbus.Event{Kind: eventbus.KindSystemStatsUpdated, Payload: stats})
}

// Run blocks, sampling every m.period, until ctx is canceled. It
// stops cleanly within one period of cancellation (spec.md §5).
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if m.log != nil {
				m.log.Info("monitor stopped")
			}
			return
		case now := <-ticker.C:
			m.SampleOnce(now)
		}
	}
}

// RateFrom computes a per-second rate from a (current, previous)
// counter pair and elapsed time, guarding the spec.md §4.7 invariant:
// a zero or negative delta (counter reset, clock skew, or elapsed<=0)
// produces 0 and never divides by zero.
func RateFrom(current, previous uint64, elapsed time.Duration) float64 {
	if elapsed <= 0 || current <= previous {
		return 0
	}
	return float64(current-previous) / elapsed.Seconds()
}
