// Package config centralizes every tunable named in spec.md §6:
// system-state thresholds, monitor/calendar periods, interaction
// timeouts, history capacity, decay retention, and pattern
// classification thresholds — plus the ambient daemon settings
// (listen address, database path, logging) the teacher's own
// DaemonConfig carries.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// CPUThresholds holds the monotonically increasing CPU percentage
// breakpoints used by the System-state classification ladder
// (spec.md §4.5.1).
type CPUThresholds struct {
	Light     float64 `json:"light" yaml:"light"`
	Moderate  float64 `json:"moderate" yaml:"moderate"`
	Heavy     float64 `json:"heavy" yaml:"heavy"`
	VeryHeavy float64 `json:"very_heavy" yaml:"very_heavy"`
	Critical  float64 `json:"critical" yaml:"critical"`
}

// MemoryThresholds holds the memory percentage breakpoints.
type MemoryThresholds struct {
	Warning  float64 `json:"warning" yaml:"warning"`
	Critical float64 `json:"critical" yaml:"critical"`
}

// SubsystemThresholds holds the optional GPU/disk/network busy
// breakpoints (percent).
type SubsystemThresholds struct {
	Busy     float64 `json:"busy" yaml:"busy"`
	VeryBusy float64 `json:"very_busy" yaml:"very_busy"`
}

// InteractionTimeouts holds the per-kind and generic interaction
// slot timeouts (spec.md §4.5.2).
type InteractionTimeouts struct {
	ClickedMs time.Duration `json:"clicked_ms" yaml:"clicked_ms"`
	PettedMs  time.Duration `json:"petted_ms" yaml:"petted_ms"`
	HoverMs   time.Duration `json:"hover_ms" yaml:"hover_ms"`
	GenericMs time.Duration `json:"generic_ms" yaml:"generic_ms"`
}

// PatternThresholds holds the frequency-per-hour breakpoints used by
// InteractionTracker.ClassifyPattern (spec.md §4.3).
type PatternThresholds struct {
	Rare       float64 `json:"rare" yaml:"rare"`
	Occasional float64 `json:"occasional" yaml:"occasional"`
	Regular    float64 `json:"regular" yaml:"regular"`
	Frequent   float64 `json:"frequent" yaml:"frequent"`
}

// DaemonConfig holds the ambient daemon-level settings: where the
// local status HTTP surface listens, where interaction history is
// persisted, and how the process logs.
type DaemonConfig struct {
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
	DBPath     string `json:"db_path" yaml:"db_path"`
	LogLevel   string `json:"log_level" yaml:"log_level"`
}

// ZoneConfig describes one interaction zone to seed the geometry
// registry with at startup (spec.md §4.2). Shape is one of "circle",
// "rectangle", "polygon"; the fields relevant to the other shapes are
// ignored. Supports names InteractionKind strings the zone responds
// to under hit-testing.
type ZoneConfig struct {
	ID      string `json:"id" yaml:"id"`
	Shape   string `json:"shape" yaml:"shape"`

	CenterX float64 `json:"center_x" yaml:"center_x"`
	CenterY float64 `json:"center_y" yaml:"center_y"`
	Radius  float64 `json:"radius" yaml:"radius"`

	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`

	Vertices [][2]float64 `json:"vertices" yaml:"vertices"`

	Supports []string `json:"supports" yaml:"supports"`
	Enabled  bool     `json:"enabled" yaml:"enabled"`
}

// Config is the root configuration object for the core.
type Config struct {
	CPU         CPUThresholds       `json:"cpu" yaml:"cpu"`
	Memory      MemoryThresholds    `json:"memory" yaml:"memory"`
	GPU         SubsystemThresholds `json:"gpu" yaml:"gpu"`
	Disk        SubsystemThresholds `json:"disk" yaml:"disk"`
	Network     SubsystemThresholds `json:"network" yaml:"network"`

	MonitorPeriodMs  time.Duration `json:"monitor_period_ms" yaml:"monitor_period_ms"`
	CalendarPeriodMs time.Duration `json:"calendar_period_ms" yaml:"calendar_period_ms"`

	Interaction InteractionTimeouts `json:"interaction_timeouts" yaml:"interaction_timeouts"`

	HistoryCap        int           `json:"history_cap" yaml:"history_cap"`
	DecayRetentionSec time.Duration `json:"decay_retention_sec" yaml:"decay_retention_sec"`

	PatternPeriodHours float64           `json:"pattern_period_hours" yaml:"pattern_period_hours"`
	Pattern            PatternThresholds `json:"pattern_thresholds" yaml:"pattern_thresholds"`

	Daemon DaemonConfig `json:"daemon" yaml:"daemon"`

	Zones []ZoneConfig `json:"zones" yaml:"zones"`
}

// DefaultConfig returns a Config populated with every default named
// in spec.md §6.
func DefaultConfig() *Config {
	return &Config{
		CPU: CPUThresholds{
			Light:     10,
			Moderate:  30,
			Heavy:     60,
			VeryHeavy: 80,
			Critical:  95,
		},
		Memory: MemoryThresholds{
			Warning:  75,
			Critical: 90,
		},
		GPU:     SubsystemThresholds{Busy: 60, VeryBusy: 85},
		Disk:    SubsystemThresholds{Busy: 60, VeryBusy: 85},
		Network: SubsystemThresholds{Busy: 60, VeryBusy: 85},

		MonitorPeriodMs:  1000 * time.Millisecond,
		CalendarPeriodMs: 60000 * time.Millisecond,

		Interaction: InteractionTimeouts{
			ClickedMs: 500 * time.Millisecond,
			PettedMs:  1500 * time.Millisecond,
			HoverMs:   800 * time.Millisecond,
			GenericMs: 5000 * time.Millisecond,
		},

		HistoryCap:        128,
		DecayRetentionSec: 86400 * time.Second,

		PatternPeriodHours: 1.0,
		Pattern: PatternThresholds{
			Rare:       1,
			Occasional: 5,
			Regular:    15,
			Frequent:   30,
		},

		Daemon: DaemonConfig{
			ListenAddr: "127.0.0.1:8741",
			DBPath:     "./data/deskpet.db",
			LogLevel:   "info",
		},
	}
}

// LoadJSON reads and merges a JSON config file over DefaultConfig.
// A missing file is not an error — DefaultConfig alone is returned.
func LoadJSON(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate enforces monotonic CPU and memory threshold ordering,
// positive monitor/calendar periods, history cap and decay retention,
// and a known shape and non-empty ID for each zone; interaction
// timeouts and pattern thresholds are not checked. Construction-time errors are reported to the caller per
// spec.md §7, never logged-and-ignored.
func (c *Config) Validate() error {
	cpu := c.CPU
	if !(cpu.Light <= cpu.Moderate && cpu.Moderate <= cpu.Heavy &&
		cpu.Heavy <= cpu.VeryHeavy && cpu.VeryHeavy <= cpu.Critical) {
		return fmt.Errorf("config: cpu thresholds must be monotonically increasing: %+v", cpu)
	}
	if !(c.Memory.Warning <= c.Memory.Critical) {
		return fmt.Errorf("config: memory thresholds must be monotonically increasing: %+v", c.Memory)
	}
	if c.MonitorPeriodMs <= 0 {
		return fmt.Errorf("config: monitor_period_ms must be positive")
	}
	if c.CalendarPeriodMs <= 0 {
		return fmt.Errorf("config: calendar_period_ms must be positive")
	}
	if c.HistoryCap <= 0 {
		return fmt.Errorf("config: history_cap must be positive")
	}
	if c.DecayRetentionSec <= 0 {
		return fmt.Errorf("config: decay_retention_sec must be positive")
	}
	for _, z := range c.Zones {
		switch z.Shape {
		case "circle", "rectangle", "polygon":
		default:
			return fmt.Errorf("config: zone %q has unrecognized shape %q", z.ID, z.Shape)
		}
		if z.ID == "" {
			return fmt.Errorf("config: zone entry missing id")
		}
	}
	return nil
}
