// Package petstate implements the pet state machine — the arbitration
// core of the system (spec.md §4.6): category-stratified slots,
// priority-based resolution into a single current state, bounded
// history, and StateChanged emission.
package petstate

// Category is one of the four partitions every PetState belongs to
// exactly one of (spec.md §3).
type Category string

const (
	CategorySystem      Category = "System"
	CategoryTime        Category = "Time"
	CategorySpecialDate Category = "SpecialDate"
	CategoryInteraction Category = "Interaction"
)

// PetState is the closed enumeration of named states driving
// animation selection (spec.md §3, GLOSSARY). SpecialDate states are
// open-ended registry entries identified only by name at the
// animation-mapping boundary, so PetState itself is a string newtype
// rather than a Go enum: a SpecialDate registry can mint new state
// names without a core code change, matching spec.md's "open-ended
// registry; names matter only as identifiers into animation mapping".
type PetState string

// System-category states, in the priority order of spec.md §3.
const (
	StateMemoryCritical   PetState = "MemoryCritical"
	StateCpuCritical      PetState = "CpuCritical"
	StateMemoryWarning    PetState = "MemoryWarning"
	StateVeryHeavyLoad    PetState = "VeryHeavyLoad"
	StateGpuVeryBusy      PetState = "GpuVeryBusy"
	StateDiskVeryBusy     PetState = "DiskVeryBusy"
	StateNetworkVeryBusy  PetState = "NetworkVeryBusy"
	StateHeavyLoad        PetState = "HeavyLoad"
	StateGpuBusy          PetState = "GpuBusy"
	StateDiskBusy         PetState = "DiskBusy"
	StateNetworkBusy      PetState = "NetworkBusy"
	StateModerateLoad     PetState = "ModerateLoad"
	StateLightLoad        PetState = "LightLoad"
	StateIdle             PetState = "Idle"
)

// Time-category states.
const (
	StateMorning   PetState = "Morning"
	StateNoon      PetState = "Noon"
	StateAfternoon PetState = "Afternoon"
	StateEvening   PetState = "Evening"
	StateNight     PetState = "Night"
)

// Interaction-category states.
const (
	StateClicked PetState = "Clicked"
	StateDragged PetState = "Dragged"
	StateHover   PetState = "Hover"
	StatePetted  PetState = "Petted"
	StateHappy   PetState = "Happy"
	StateSad     PetState = "Sad"
	StateAngry   PetState = "Angry"
	StatePlay    PetState = "Play"
)

// Built-in SpecialDate-category states, matching the seed registry
// (calendar.DefaultSpecialDates). The category is open-ended: any
// SpecialDate name registered at runtime is also a valid
// SpecialDate-category PetState.
const (
	StateNewYear        PetState = "NewYear"
	StateSpringFestival PetState = "SpringFestival"
	StateValentine      PetState = "Valentine"
	StateBirthday       PetState = "Birthday"
	StateLichun         PetState = "Lichun"
)

// categoryTable is the compile-time category membership lookup
// (spec.md §3: "Category membership is a compile-time property").
// SpecialDate names are not listed here: CategoryOf treats any
// PetState not found in this table, and not empty, as belonging to
// whatever category the caller asserts it into via slot validation —
// in practice SpecialDate, since that is the only open-ended category.
var categoryTable = map[PetState]Category{
	StateIdle:            CategorySystem,
	StateLightLoad:       CategorySystem,
	StateModerateLoad:    CategorySystem,
	StateHeavyLoad:       CategorySystem,
	StateVeryHeavyLoad:   CategorySystem,
	StateCpuCritical:     CategorySystem,
	StateMemoryWarning:   CategorySystem,
	StateMemoryCritical:  CategorySystem,
	StateGpuBusy:         CategorySystem,
	StateGpuVeryBusy:     CategorySystem,
	StateDiskBusy:        CategorySystem,
	StateDiskVeryBusy:    CategorySystem,
	StateNetworkBusy:     CategorySystem,
	StateNetworkVeryBusy: CategorySystem,

	StateMorning:   CategoryTime,
	StateNoon:      CategoryTime,
	StateAfternoon: CategoryTime,
	StateEvening:   CategoryTime,
	StateNight:     CategoryTime,

	StateClicked: CategoryInteraction,
	StateDragged: CategoryInteraction,
	StateHover:   CategoryInteraction,
	StatePetted:  CategoryInteraction,
	StateHappy:   CategoryInteraction,
	StateSad:     CategoryInteraction,
	StateAngry:   CategoryInteraction,
	StatePlay:    CategoryInteraction,

	StateNewYear:        CategorySpecialDate,
	StateSpringFestival: CategorySpecialDate,
	StateValentine:      CategorySpecialDate,
	StateBirthday:       CategorySpecialDate,
	StateLichun:         CategorySpecialDate,
}

// allStates lists every compile-time-known PetState across all four
// categories, plus Idle's System-category siblings (spec.md §4.8: a
// Binder needs one AnimationHandle per registered state). Runtime
// SpecialDate names registered only via calendar.Registry are not
// included here; a Binder built from this list falls back to
// AnimationFor's (handle, false) for those until explicitly extended.
var allStates = func() []PetState {
	out := make([]PetState, 0, len(categoryTable))
	for s := range categoryTable {
		out = append(out, s)
	}
	return out
}()

// AllStates returns every compile-time-known PetState (spec.md §4.8).
func AllStates() []PetState {
	out := make([]PetState, len(allStates))
	copy(out, allStates)
	return out
}

// CategoryOf returns the category s is statically known to belong to,
// and whether s was found in the compile-time table. SpecialDate
// names registered only at runtime (via calendar.Registry) are not in
// this table; callers setting the SpecialDate slot pass the category
// explicitly rather than relying on this lookup (see Machine.SetSpecialDate).
func CategoryOf(s PetState) (Category, bool) {
	c, ok := categoryTable[s]
	return c, ok
}

// systemPriority ranks System-category states from most to least
// severe, per the ladder in spec.md §3. Lower index = higher priority.
// States tied in the spec's prose ("VeryHeavyLoad = {Gpu,Disk,Network}VeryBusy")
// share a rank.
var systemPriority = [][]PetState{
	{StateMemoryCritical},
	{StateCpuCritical},
	{StateMemoryWarning},
	{StateVeryHeavyLoad, StateGpuVeryBusy, StateDiskVeryBusy, StateNetworkVeryBusy},
	{StateHeavyLoad},
	{StateGpuBusy, StateDiskBusy, StateNetworkBusy, StateModerateLoad},
	{StateLightLoad},
	{StateIdle},
}

var systemRank = func() map[PetState]int {
	m := make(map[PetState]int)
	for i, tier := range systemPriority {
		for _, s := range tier {
			m[s] = i
		}
	}
	return m
}()

// SystemRank returns s's position in the System severity ladder
// (lower is more severe); the third return value is false if s is
// not a recognized System state.
func SystemRank(s PetState) (int, bool) {
	r, ok := systemRank[s]
	return r, ok
}
