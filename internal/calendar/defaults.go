package calendar

// DefaultSpecialDates returns the preloaded solar-festival seed list
// (SPEC_FULL.md §5): a small built-in set, extensible at runtime via
// Registry.RegisterSpecialDate. Lunar entries are included so their
// names are available to TimeStateBridge's mapping table even though
// they only ever fire once a lunar Backend is injected.
func DefaultSpecialDates() []SpecialDate {
	return []SpecialDate{
		{Name: "NewYear", Description: "New Year's Day", Month: 1, Day: 1, Kind: KindSolarFestival, LeadDays: 0},
		{Name: "Valentine", Description: "Valentine's Day", Month: 2, Day: 14, Kind: KindSolarFestival, LeadDays: 1},
		{Name: "Lichun", Description: "Start of Spring (solar term)", Month: 2, Day: 4, Kind: KindSolarTerm, IsLunar: true, LeadDays: 0},
		{Name: "SpringFestival", Description: "Lunar New Year", Month: 1, Day: 1, Kind: KindLunarFestival, IsLunar: true, LeadDays: 2},
	}
}
