// Package interaction implements the time-windowed interaction
// tracker (spec.md §4.3): per (kind, zoneId) timestamp history with
// decay, frequency/pattern classification, and a pluggable
// persistence sink.
package interaction

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/deskpet/core/pkg/logger"
)

// ErrInvalidInteractionKind is returned at the API boundary for an
// unknown interaction-kind string (spec.md §4.3, §7).
var ErrInvalidInteractionKind = errors.New("interaction: invalid interaction kind")

// Pattern is the frequency classification of a (kind, zone) cell
// over a reference window (spec.md §3).
type Pattern string

const (
	PatternRare       Pattern = "Rare"
	PatternOccasional Pattern = "Occasional"
	PatternRegular    Pattern = "Regular"
	PatternFrequent   Pattern = "Frequent"
	PatternExcessive  Pattern = "Excessive"
)

// Thresholds are the frequency-per-hour breakpoints used by
// ClassifyPattern (spec.md §4.3, config.PatternThresholds).
type Thresholds struct {
	Rare       float64
	Occasional float64
	Regular    float64
	Frequent   float64
}

type cellKey struct {
	kind   string
	zoneID string
}

// Tracker holds per-(kind, zoneId) timestamp history, with decay
// sweeps on every write (spec.md §4.3); counts are derived from the
// history. The known interaction kinds are the set passed to New;
// unknown kinds are rejected at the boundary rather than silently
// accepted.
type Tracker struct {
	validKinds map[string]bool
	history    map[cellKey][]time.Time
	decay      time.Duration
	thresholds Thresholds
	log        *logger.Logger
}

// New creates a Tracker. knownKinds is the closed set of valid
// interaction-kind strings (normally geometry.KindClick etc., plus
// any custom kinds the application wants to accept); decayRetention
// is how far back history is kept (default 24h per spec.md §4.3).
func New(knownKinds []string, decayRetention time.Duration, thresholds Thresholds, log *logger.Logger) *Tracker {
	valid := make(map[string]bool, len(knownKinds))
	for _, k := range knownKinds {
		valid[k] = true
	}
	return &Tracker{
		validKinds: valid,
		history:    make(map[cellKey][]time.Time),
		decay:      decayRetention,
		thresholds: thresholds,
		log:        log,
	}
}

// Track appends a timestamp for (kind, zoneId), decaying entries
// older than the retention window for that cell as it does so.
func (t *Tracker) Track(kind, zoneID string, now time.Time) error {
	if !t.validKinds[kind] {
		return fmt.Errorf("%w: %q", ErrInvalidInteractionKind, kind)
	}
	key := cellKey{kind, zoneID}
	t.history[key] = append(t.history[key], now)
	t.decayCell(key, now)
	return nil
}

func (t *Tracker) decayCell(key cellKey, now time.Time) {
	cutoff := now.Add(-t.decay)
	entries := t.history[key]
	kept := entries[:0:0]
	for _, ts := range entries {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.history[key] = kept
}

// Count returns the total number of recorded timestamps for
// (kind, zoneId) if window is nil, else the count within
// [now-*window, now].
func (t *Tracker) Count(kind, zoneID string, now time.Time, window *time.Duration) int {
	entries := t.history[cellKey{kind, zoneID}]
	if window == nil {
		return len(entries)
	}
	cutoff := now.Add(-*window)
	n := 0
	for _, ts := range entries {
		if !ts.Before(cutoff) && !ts.After(now) {
			n++
		}
	}
	return n
}

// FrequencyPerHour returns Count(..., hours*time.Hour) / hours.
// Division by zero (hours <= 0) returns 0 rather than panicking or
// returning Inf/NaN (spec.md §4.3).
func (t *Tracker) FrequencyPerHour(kind, zoneID string, now time.Time, hours float64) float64 {
	if hours <= 0 {
		return 0
	}
	window := time.Duration(hours * float64(time.Hour))
	count := t.Count(kind, zoneID, now, &window)
	return float64(count) / hours
}

// ClassifyPattern classifies the 1-hour frequency of (kind, zoneId)
// against the configured thresholds (spec.md §4.3).
func (t *Tracker) ClassifyPattern(kind, zoneID string, now time.Time) Pattern {
	freq := t.FrequencyPerHour(kind, zoneID, now, 1.0)
	switch {
	case freq <= t.thresholds.Rare:
		return PatternRare
	case freq <= t.thresholds.Occasional:
		return PatternOccasional
	case freq <= t.thresholds.Regular:
		return PatternRegular
	case freq <= t.thresholds.Frequent:
		return PatternFrequent
	default:
		return PatternExcessive
	}
}

// LastTimestamp returns the most recent recorded timestamp for
// (kind, zoneId), if any.
func (t *Tracker) LastTimestamp(kind, zoneID string) (time.Time, bool) {
	entries := t.history[cellKey{kind, zoneID}]
	if len(entries) == 0 {
		return time.Time{}, false
	}
	return entries[len(entries)-1], true
}

// TimestampsInWindow returns a sorted copy of timestamps for
// (kind, zoneId) within [now-window, now].
func (t *Tracker) TimestampsInWindow(kind, zoneID string, now time.Time, window time.Duration) []time.Time {
	cutoff := now.Add(-window)
	entries := t.history[cellKey{kind, zoneID}]
	out := make([]time.Time, 0, len(entries))
	for _, ts := range entries {
		if !ts.Before(cutoff) && !ts.After(now) {
			out = append(out, ts)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Snapshot is the serializable state handed to a persistence sink:
// one entry per (kind, zoneId) cell and its timestamp history.
type Snapshot struct {
	Entries     []SnapshotEntry
	LastUpdated time.Time
}

// SnapshotEntry is one (kind, zoneId) cell's history.
type SnapshotEntry struct {
	Kind       string
	ZoneID     string
	Timestamps []time.Time
}

// Snapshot captures the tracker's current state for persistence.
func (t *Tracker) Snapshot(now time.Time) Snapshot {
	entries := make([]SnapshotEntry, 0, len(t.history))
	for key, ts := range t.history {
		cp := make([]time.Time, len(ts))
		copy(cp, ts)
		entries = append(entries, SnapshotEntry{Kind: key.kind, ZoneID: key.zoneID, Timestamps: cp})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].ZoneID < entries[j].ZoneID
	})
	return Snapshot{Entries: entries, LastUpdated: now}
}

// Restore replaces the tracker's history with snap's contents. Used
// on startup load; an empty or absent snapshot is a valid input that
// leaves the tracker starting fresh (spec.md §4.3, §6).
func (t *Tracker) Restore(snap Snapshot) {
	t.history = make(map[cellKey][]time.Time, len(snap.Entries))
	for _, e := range snap.Entries {
		if !t.validKinds[e.Kind] {
			if t.log != nil {
				t.log.Warn("dropping unknown interaction kind from snapshot", "kind", e.Kind)
			}
			continue
		}
		ts := make([]time.Time, len(e.Timestamps))
		copy(ts, e.Timestamps)
		t.history[cellKey{e.Kind, e.ZoneID}] = ts
	}
}
