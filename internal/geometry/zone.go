package geometry

import "gonum.org/v1/gonum/spatial/r2"

// InteractionKind is the closed set of interaction kinds a zone may
// support (spec.md §3).
type InteractionKind string

const (
	KindClick       InteractionKind = "Click"
	KindDoubleClick InteractionKind = "DoubleClick"
	KindRightClick  InteractionKind = "RightClick"
	KindHover       InteractionKind = "Hover"
	KindDrag        InteractionKind = "Drag"
	KindDrop        InteractionKind = "Drop"
	KindCustom      InteractionKind = "Custom"
)

// Zone is a named, shaped region of the desktop surface that can
// receive interactions (spec.md §3). Enabled gates whether hit-testing
// reports the zone at all; Active is a hover-tracking flag toggled by
// the caller and does not itself gate hit-testing (spec.md §4.2).
type Zone struct {
	ID        string
	Shape     Shape
	Supported map[InteractionKind]bool
	Enabled   bool
	Active    bool
}

// Supports reports whether the zone declares support for kind.
func (z Zone) Supports(kind InteractionKind) bool {
	return z.Supported[kind]
}

// Registry maps zone IDs to Zones, preserving insertion order so
// ZonesAt results are deterministic (spec.md §4.2).
type Registry struct {
	zones map[string]*Zone
	order []string
}

// NewRegistry returns an empty zone registry.
func NewRegistry() *Registry {
	return &Registry{zones: make(map[string]*Zone)}
}

// Register adds or replaces the zone under z.ID. Mutating the
// registry while a lookup is in flight never panics; a concurrent
// lookup may simply miss the mutation (spec.md §5).
func (r *Registry) Register(z Zone) {
	if _, exists := r.zones[z.ID]; !exists {
		r.order = append(r.order, z.ID)
	}
	zCopy := z
	r.zones[z.ID] = &zCopy
}

// Unregister removes zone id, if present.
func (r *Registry) Unregister(id string) {
	if _, ok := r.zones[id]; !ok {
		return
	}
	delete(r.zones, id)
	for i, zid := range r.order {
		if zid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Get returns the zone by id, if present.
func (r *Registry) Get(id string) (Zone, bool) {
	z, ok := r.zones[id]
	if !ok {
		return Zone{}, false
	}
	return *z, true
}

// SetActive toggles the hover-tracking flag for id, if present.
func (r *Registry) SetActive(id string, active bool) {
	if z, ok := r.zones[id]; ok {
		z.Active = active
	}
}

// SetEnabled toggles whether id is reported by ZonesAt, if present.
func (r *Registry) SetEnabled(id string, enabled bool) {
	if z, ok := r.zones[id]; ok {
		z.Enabled = enabled
	}
}

// ZonesAt returns all enabled zones containing p, in registration
// order. It is not limited to the first match (spec.md §4.2, §8).
func (r *Registry) ZonesAt(p r2.Vec) []Zone {
	var out []Zone
	for _, id := range r.order {
		z, ok := r.zones[id]
		if !ok || !z.Enabled {
			continue
		}
		if z.Shape.Contains(p) {
			out = append(out, *z)
		}
	}
	return out
}

// All returns every registered zone in registration order.
func (r *Registry) All() []Zone {
	out := make([]Zone, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.zones[id])
	}
	return out
}
