package eventbus

import "time"

// SystemStatsUpdated is the payload for KindSystemStatsUpdated.
// GPU, Disk, and Network are nil when the corresponding probe is
// unavailable — the monitor omits rather than fakes a reading
// (spec.md §4.7).
type SystemStatsUpdated struct {
	CPU     float64
	Memory  float64
	GPU     *float64
	Disk    *float64
	Network *float64
}

// UserInteraction is the payload for KindUserInteraction.
type UserInteraction struct {
	Kind                string
	ZoneID              string
	OriginalQtEventType string
	Data                map[string]any
	Timestamp           time.Time
}

// TimePeriodChanged is the payload for KindTimePeriodChanged. Old is
// empty on the very first classification.
type TimePeriodChanged struct {
	Old       string
	New       string
	Timestamp time.Time
}

// SpecialDateFired is the payload for KindSpecialDate. Cleared
// distinguishes a day firing (Cleared=false, Name/Description/
// LeadOffset/IsLunar populated) from the calendar system deciding the
// day has ended (Cleared=true, carrying only Timestamp) — the same
// event kind carries both signals rather than growing the closed
// event-kind set (spec.md §3, §4.1).
type SpecialDateFired struct {
	Name        string
	Description string
	LeadOffset  int
	IsLunar     bool
	Cleared     bool
	Timestamp   time.Time
}

// StateChanged is the payload for KindStateChanged.
type StateChanged struct {
	Prev            string
	New             string
	CategoryChanged string
	Timestamp       time.Time
}
