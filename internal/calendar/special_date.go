package calendar

import (
	"sort"
	"time"
)

// SpecialDateKind discriminates how a SpecialDate's (month, day) are
// interpreted (spec.md §3).
type SpecialDateKind string

const (
	KindSolarFestival SpecialDateKind = "SolarFestival"
	KindLunarFestival SpecialDateKind = "LunarFestival"
	KindSolarTerm     SpecialDateKind = "SolarTerm"
	KindCustom        SpecialDateKind = "Custom"
)

// SpecialDate is one registered entry in the special-date registry
// (spec.md §3). LeadDays >= 0 means "fire up to LeadDays days early".
type SpecialDate struct {
	Name        string
	Description string
	Month       int
	Day         int
	Kind        SpecialDateKind
	IsLunar     bool
	IsLeapMonth bool
	LeadDays    int
}

// triggeredKey is (name, year): the dedup unit for the triggered set
// (spec.md §4.4, §8).
type triggeredKey struct {
	name string
	year int
}

// FiredEvent is what Registry.Tick reports for a date that fired on
// this tick.
type FiredEvent struct {
	Date       SpecialDate
	LeadOffset int
	Timestamp  time.Time
}

// Registry holds the preloaded + runtime-registered special dates and
// the triggered-dedup set.
type Registry struct {
	dates     []SpecialDate
	triggered map[triggeredKey]bool
	backend   Backend
}

// NewRegistry creates an empty registry. backend may be nil (lunar
// backend absent — spec.md §4.4, §9).
func NewRegistry(backend Backend) *Registry {
	return &Registry{triggered: make(map[triggeredKey]bool), backend: backend}
}

// RegisterSpecialDate adds d to the registry at runtime.
func (r *Registry) RegisterSpecialDate(d SpecialDate) {
	r.dates = append(r.dates, d)
}

// ResetTriggered clears the entire triggered set, or just the entry
// for name if name is non-empty (spec.md §4.4: "cleared on demand").
func (r *Registry) ResetTriggered(name string) {
	if name == "" {
		r.triggered = make(map[triggeredKey]bool)
		return
	}
	for k := range r.triggered {
		if k.name == name {
			delete(r.triggered, k)
		}
	}
}

// Tick evaluates every registered date against today (per spec.md
// §4.4 step 2-3) and returns the events that fired on this call. It
// implicitly prunes triggered-set entries from years earlier than
// today's year (year-rollover reset).
func (r *Registry) Tick(today time.Time) []FiredEvent {
	r.pruneOldYears(today.Year())

	var fired []FiredEvent
	for _, d := range r.dates {
		if d.Kind == KindLunarFestival || d.Kind == KindSolarTerm {
			if r.backend == nil {
				continue
			}
		}
		for offset := 0; offset <= d.LeadDays; offset++ {
			candidate := today.AddDate(0, 0, offset)
			if !r.matches(d, candidate) {
				continue
			}
			key := triggeredKey{name: d.Name, year: candidate.Year()}
			if r.triggered[key] {
				continue
			}
			r.triggered[key] = true
			fired = append(fired, FiredEvent{
				Date:       d,
				LeadOffset: offset,
				Timestamp:  today,
			})
			break
		}
	}
	return fired
}

func (r *Registry) pruneOldYears(currentYear int) {
	for k := range r.triggered {
		if k.year < currentYear {
			delete(r.triggered, k)
		}
	}
}

// matches reports whether candidate's calendar date equals d's
// (month, day) in the appropriate calendar system.
func (r *Registry) matches(d SpecialDate, candidate time.Time) bool {
	if !d.IsLunar {
		return int(candidate.Month()) == d.Month && candidate.Day() == d.Day
	}
	if r.backend == nil {
		return false
	}
	if d.Kind == KindSolarTerm {
		onTerm, supported := r.backend.SolarTermOn(candidate, d.Name)
		return supported && onTerm
	}
	lunar, ok := r.backend.SolarToLunar(candidate)
	if !ok {
		return false
	}
	if lunar.Month != d.Month || lunar.Day != d.Day {
		return false
	}
	// The leap-month flag must match the backend's report; a backend
	// that cannot tell leap months apart reports false for every date.
	if d.IsLeapMonth != lunar.IsLeapMonth {
		return false
	}
	return true
}

// Upcoming is one entry in an UpcomingSpecialDates lookahead result.
type Upcoming struct {
	Date      SpecialDate
	SolarDate time.Time
}

// UpcomingSpecialDates returns every registered date whose next
// occurrence falls within [today, today+days], sorted ascending by
// date (spec.md §4.4). Lunar dates are resolved against this year,
// falling back to next year if this year's occurrence has already
// passed.
func (r *Registry) UpcomingSpecialDates(today time.Time, days int) []Upcoming {
	end := today.AddDate(0, 0, days)
	var out []Upcoming
	for _, d := range r.dates {
		if d.IsLunar && r.backend == nil {
			continue
		}
		occ, ok := r.nextOccurrence(d, today)
		if !ok {
			continue
		}
		if !occ.Before(dateOnly(today)) && !occ.After(end) {
			out = append(out, Upcoming{Date: d, SolarDate: occ})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SolarDate.Before(out[j].SolarDate) })
	return out
}

func (r *Registry) nextOccurrence(d SpecialDate, today time.Time) (time.Time, bool) {
	if !d.IsLunar {
		thisYear := time.Date(today.Year(), time.Month(d.Month), d.Day, 0, 0, 0, 0, today.Location())
		if thisYear.Before(dateOnly(today)) {
			return thisYear.AddDate(1, 0, 0), true
		}
		return thisYear, true
	}
	if r.backend == nil {
		return time.Time{}, false
	}
	for _, candidate := range []time.Time{dateOnly(today), today.AddDate(1, 0, 0)} {
		for offset := 0; offset < 366; offset++ {
			probe := candidate.AddDate(0, 0, offset)
			lunar, ok := r.backend.SolarToLunar(probe)
			if ok && lunar.Month == d.Month && lunar.Day == d.Day && !probe.Before(dateOnly(today)) {
				return probe, true
			}
		}
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
