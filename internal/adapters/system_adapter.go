// Package adapters implements the three source adapters of spec.md
// §4.5: SystemStateAdapter, InteractionStateAdapter, and
// TimeStateBridge. Each translates raw signals (stats, interaction
// events, time/calendar events) into category-scoped PetState updates
// on the state machine.
package adapters

import (
	"math"
	"time"

	"github.com/deskpet/core/internal/config"
	"github.com/deskpet/core/internal/petstate"
	"github.com/deskpet/core/pkg/eventbus"
	"github.com/deskpet/core/pkg/logger"
)

// SystemStateAdapter consumes SystemStatsUpdated events and maps a
// reading through the configured thresholds to a single
// System-category PetState (spec.md §4.5.1).
type SystemStateAdapter struct {
	machine *petstate.Machine
	cfg     *config.Config
	log     *logger.Logger

	lastCPU, lastMemory float64
}

// NewSystemStateAdapter wires an adapter to machine, reading
// thresholds from cfg. It holds a reference to the machine; the
// machine holds none back (spec.md §9).
func NewSystemStateAdapter(machine *petstate.Machine, cfg *config.Config, log *logger.Logger) *SystemStateAdapter {
	return &SystemStateAdapter{machine: machine, cfg: cfg, log: log}
}

// Register subscribes the adapter to bus's SystemStatsUpdated events.
func (a *SystemStateAdapter) Register(bus *eventbus.Bus) eventbus.Token {
	return bus.Register(eventbus.KindSystemStatsUpdated, func(e *eventbus.Event) {
		stats, ok := e.Payload.(eventbus.SystemStatsUpdated)
		if !ok {
			return
		}
		a.handle(stats, time.Now())
	})
}

func (a *SystemStateAdapter) handle(stats eventbus.SystemStatsUpdated, now time.Time) {
	if !validReading(stats.CPU) || !validReading(stats.Memory) {
		if a.log != nil {
			a.log.Warn("bad reading: non-numeric/out-of-range cpu or memory", "cpu", stats.CPU, "memory", stats.Memory)
		}
		return
	}

	state := ClassifySystemState(stats, a.cfg)
	a.machine.UpdateSystem(state, now)

	if a.log != nil && (absDiff(stats.CPU, a.lastCPU) > 5 || absDiff(stats.Memory, a.lastMemory) > 5) {
		a.log.Debug("system load", "cpu", stats.CPU, "memory", stats.Memory, "state", state)
		a.lastCPU, a.lastMemory = stats.CPU, stats.Memory
	}
}

func validReading(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func absDiff(a, b float64) float64 {
	d := a - b
	if d < 0 {
		return -d
	}
	return d
}

// ClassifySystemState implements the priority-consistent ladder of
// spec.md §4.5.1: memory criticality outranks cpu criticality, which
// outranks memory warning, which outranks subsystem "very busy"
// readings, and so on down to Idle.
func ClassifySystemState(stats eventbus.SystemStatsUpdated, cfg *config.Config) petstate.PetState {
	cpu, mem := stats.CPU, stats.Memory

	if mem >= cfg.Memory.Critical {
		return petstate.StateMemoryCritical
	}
	if cpu >= cfg.CPU.Critical {
		return petstate.StateCpuCritical
	}
	if mem >= cfg.Memory.Warning {
		return petstate.StateMemoryWarning
	}

	if s, ok := subsystemState(stats, cfg, true); ok {
		return s
	}
	if cpu >= cfg.CPU.VeryHeavy {
		return petstate.StateVeryHeavyLoad
	}
	if s, ok := subsystemState(stats, cfg, false); ok {
		return s
	}
	if cpu >= cfg.CPU.Heavy {
		return petstate.StateHeavyLoad
	}
	if cpu >= cfg.CPU.Moderate {
		return petstate.StateModerateLoad
	}
	if cpu >= cfg.CPU.Light {
		return petstate.StateLightLoad
	}
	return petstate.StateIdle
}

// subsystemState checks GPU, disk, and network (in that deterministic
// tie-break order) against either the "very busy" or "busy" threshold
// tier, returning the first match.
func subsystemState(stats eventbus.SystemStatsUpdated, cfg *config.Config, veryBusy bool) (petstate.PetState, bool) {
	check := func(reading *float64, busyThresh, veryBusyThresh float64, busyState, veryBusyState petstate.PetState) (petstate.PetState, bool) {
		if reading == nil {
			return "", false
		}
		if veryBusy {
			if *reading >= veryBusyThresh {
				return veryBusyState, true
			}
			return "", false
		}
		if *reading >= busyThresh {
			return busyState, true
		}
		return "", false
	}
	if s, ok := check(stats.GPU, cfg.GPU.Busy, cfg.GPU.VeryBusy, petstate.StateGpuBusy, petstate.StateGpuVeryBusy); ok {
		return s, true
	}
	if s, ok := check(stats.Disk, cfg.Disk.Busy, cfg.Disk.VeryBusy, petstate.StateDiskBusy, petstate.StateDiskVeryBusy); ok {
		return s, true
	}
	if s, ok := check(stats.Network, cfg.Network.Busy, cfg.Network.VeryBusy, petstate.StateNetworkBusy, petstate.StateNetworkVeryBusy); ok {
		return s, true
	}
	return "", false
}
