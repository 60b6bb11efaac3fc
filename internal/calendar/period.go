// Package calendar implements the time/calendar subsystem (spec.md
// §4.4): period-of-day classification and the special-date registry
// with lead-days lookahead and once-per-year deduplication.
package calendar

// Period is one of the five periods of a day (spec.md §3).
type Period string

const (
	PeriodMorning   Period = "Morning"
	PeriodNoon      Period = "Noon"
	PeriodAfternoon Period = "Afternoon"
	PeriodEvening   Period = "Evening"
	PeriodNight     Period = "Night"
)

// ClassifyPeriod maps a local hour (0-23) to a Period per the fixed
// table in spec.md §4.4: Morning [05:00,12:00), Noon [12:00,14:00),
// Afternoon [14:00,18:00), Evening [18:00,23:00), Night otherwise.
func ClassifyPeriod(hour int) Period {
	switch {
	case hour >= 5 && hour < 12:
		return PeriodMorning
	case hour >= 12 && hour < 14:
		return PeriodNoon
	case hour >= 14 && hour < 18:
		return PeriodAfternoon
	case hour >= 18 && hour < 23:
		return PeriodEvening
	default:
		return PeriodNight
	}
}
