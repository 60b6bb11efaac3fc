package calendar

import "time"

// LunarDate is a solar-calendar-independent lunar calendar reading.
// Month/Day are 1-based; IsLeapMonth marks a repeated (intercalary)
// month, which the backend may not always be able to detect reliably
// (spec.md §9 — the source backend's leap-month detection is
// unreliable, and this spec does not mandate exact semantics there).
type LunarDate struct {
	Year        int
	Month       int
	Day         int
	IsLeapMonth bool
}

// Backend is the injected lunar-calendar capability (spec.md §4.4,
// §9: "the lunar backend is an injected capability"). It is optional:
// a nil Backend degrades LunarFestival and SolarTerm registry entries
// silently, while SolarFestival entries still fire.
type Backend interface {
	// SolarToLunar converts a solar date to its lunar equivalent. ok
	// is false if the conversion is out of the backend's supported
	// range.
	SolarToLunar(t time.Time) (date LunarDate, ok bool)
	// SolarTermOn reports whether t falls on the named solar term
	// (e.g. "Lichun"), if the backend tracks solar terms at all.
	SolarTermOn(t time.Time, name string) (onTerm bool, supported bool)
}
