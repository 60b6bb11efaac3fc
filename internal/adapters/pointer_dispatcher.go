package adapters

import (
	"sync"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/deskpet/core/internal/geometry"
	"github.com/deskpet/core/pkg/eventbus"
	"github.com/deskpet/core/pkg/logger"
)

// noZoneRelease is the sentinel zoneId a release event carries when it
// lands outside every registered zone (spec.md §8, scenario 6).
const noZoneRelease = "no_zone_release"

// PointerDispatcher turns raw pointer positions into hit-tested
// UserInteraction events (spec.md §4.2, §8): it is the piece standing
// between an external GUI's mouse events and the event bus, so that
// zoneId is always resolved by Registry.ZonesAt rather than trusted
// from the caller.
type PointerDispatcher struct {
	mu sync.Mutex

	bus   *eventbus.Bus
	zones *geometry.Registry
	log   *logger.Logger

	hoverZoneID string
	haveHover   bool
}

// NewPointerDispatcher wires a dispatcher to bus and zones.
func NewPointerDispatcher(bus *eventbus.Bus, zones *geometry.Registry, log *logger.Logger) *PointerDispatcher {
	return &PointerDispatcher{bus: bus, zones: zones, log: log}
}

// Move reports a pointer position with no button held. It dispatches
// a Hover UserInteraction only on entering a new hover-supporting zone
// (spec.md §8 scenario 5); leaving one is left to the Interaction
// adapter's own 800ms hover timeout rather than a second event, since
// the spec describes the clear as a timeout, not a leave signal.
func (d *PointerDispatcher) Move(p r2.Vec, now time.Time) {
	zoneID, found := d.firstSupporting(p, geometry.KindHover)

	d.mu.Lock()
	prevID, prevFound := d.hoverZoneID, d.haveHover
	changed := found != prevFound || zoneID != prevID
	if changed {
		if prevFound {
			d.zones.SetActive(prevID, false)
		}
		if found {
			d.zones.SetActive(zoneID, true)
		}
		d.hoverZoneID, d.haveHover = zoneID, found
	}
	d.mu.Unlock()

	if found && changed {
		d.dispatch(geometry.KindHover, zoneID, now)
	}
}

// Press reports a pointer-down at p for the given kind (Click,
// DoubleClick, RightClick, or Drag). It dispatches against the first
// enabled zone at p that declares support for kind; if none does, no
// event is posted (spec.md §4.2: hit-testing, not a fallback zone).
func (d *PointerDispatcher) Press(p r2.Vec, kind geometry.InteractionKind, now time.Time) {
	zoneID, found := d.firstSupporting(p, kind)
	if !found {
		if d.log != nil {
			d.log.Debug("press outside any supporting zone", "kind", kind)
		}
		return
	}
	d.dispatch(kind, zoneID, now)
}

// Release reports a pointer-up at p. If p falls inside a
// Drop-supporting zone, that zone's ID is used; otherwise the release
// carries the "no_zone_release" sentinel (spec.md §8 scenario 6).
func (d *PointerDispatcher) Release(p r2.Vec, now time.Time) {
	zoneID, found := d.firstSupporting(p, geometry.KindDrop)
	if !found {
		zoneID = noZoneRelease
	}
	d.dispatch(geometry.KindDrop, zoneID, now)
}

// firstSupporting returns the ID of the first enabled zone at p that
// supports kind, in registration order.
func (d *PointerDispatcher) firstSupporting(p r2.Vec, kind geometry.InteractionKind) (string, bool) {
	for _, z := range d.zones.ZonesAt(p) {
		if z.Supports(kind) {
			return z.ID, true
		}
	}
	return "", false
}

func (d *PointerDispatcher) dispatch(kind geometry.InteractionKind, zoneID string, now time.Time) {
	d.bus.Dispatch(&eventbus.Event{
		Kind: eventbus.KindUserInteraction,
		Payload: eventbus.UserInteraction{
			Kind:      string(kind),
			ZoneID:    zoneID,
			Timestamp: now,
		},
	})
}
