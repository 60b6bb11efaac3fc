/**
 * CONTEXT:   HTTP handlers for the pet state daemon's local status API
 * INPUT:     HTTP requests from the petctl CLI and any local frontend integration
 * OUTPUT:    JSON responses describing health, current state, and recent history
 * BUSINESS:  Provide a local HTTP surface so the CLI and a desktop shell can observe state
 * CHANGE:    Initial HTTP handler implementation covering health, state, and history endpoints
 * RISK:      Medium - API endpoints affect all local client integrations
 */
package daemon

import (
	"encoding/json"
	"net/http"
	"time"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/deskpet/core/internal/config"
	"github.com/deskpet/core/internal/geometry"
	"github.com/deskpet/core/internal/petstate"
	"github.com/deskpet/core/pkg/eventbus"
)

func (o *Orchestrator) registerRoutes() {
	o.router.HandleFunc("/healthz", o.handleHealth).Methods(http.MethodGet)
	o.router.HandleFunc("/state", o.handleState).Methods(http.MethodGet)
	o.router.HandleFunc("/history", o.handleHistory).Methods(http.MethodGet)
	o.router.HandleFunc("/zones", o.handleZones).Methods(http.MethodGet)
	o.router.HandleFunc("/zones", o.handleRegisterZone).Methods(http.MethodPost)
	o.router.HandleFunc("/upcoming", o.handleUpcoming).Methods(http.MethodGet)
	o.router.HandleFunc("/simulate", o.handleSimulate).Methods(http.MethodPost)
	o.router.HandleFunc("/pointer/move", o.handlePointerMove).Methods(http.MethodPost)
	o.router.HandleFunc("/pointer/press", o.handlePointerPress).Methods(http.MethodPost)
	o.router.HandleFunc("/pointer/release", o.handlePointerRelease).Methods(http.MethodPost)
	o.router.HandleFunc("/animation/current", o.handleAnimationCurrent).Methods(http.MethodGet)
	o.router.HandleFunc("/animation/finished", o.handleAnimationFinished).Methods(http.MethodPost)
}

type simulateRequest struct {
	Kind   string `json:"kind"`
	ZoneID string `json:"zone_id"`
}

// handleSimulate injects a synthetic UserInteraction event onto the
// bus exactly as given, bypassing hit-testing entirely. It exists for
// petctl's local development and manual QA workflow, where the caller
// already knows which zoneId it wants to exercise; the /pointer/*
// endpoints below are the hit-tested path a real pointer-driven
// frontend should use instead.
func (o *Orchestrator) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	o.bus.Dispatch(&eventbus.Event{
		Kind: eventbus.KindUserInteraction,
		Payload: eventbus.UserInteraction{
			Kind:      req.Kind,
			ZoneID:    req.ZoneID,
			Timestamp: time.Now(),
		},
	})
	writeJSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
}

type pointerPositionRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// handlePointerMove hit-tests a pointer position against the zone
// registry and dispatches a Hover UserInteraction on entering a new
// hover-supporting zone (spec.md §8 scenario 5).
func (o *Orchestrator) handlePointerMove(w http.ResponseWriter, r *http.Request) {
	var req pointerPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	o.pointer.Move(r2.Vec{X: req.X, Y: req.Y}, time.Now())
	writeJSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
}

type pointerPressRequest struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Kind string  `json:"kind"`
}

// handlePointerPress hit-tests a pointer-down at (x, y) and dispatches
// kind against the first zone at that point supporting it.
func (o *Orchestrator) handlePointerPress(w http.ResponseWriter, r *http.Request) {
	var req pointerPressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	o.pointer.Press(r2.Vec{X: req.X, Y: req.Y}, geometry.InteractionKind(req.Kind), time.Now())
	writeJSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
}

// handlePointerRelease hit-tests a pointer-up at (x, y), dispatching
// Drop against the resolved zone, or the "no_zone_release" sentinel
// when it falls outside every zone (spec.md §8 scenario 6).
func (o *Orchestrator) handlePointerRelease(w http.ResponseWriter, r *http.Request) {
	var req pointerPositionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	o.pointer.Release(r2.Vec{X: req.X, Y: req.Y}, time.Now())
	writeJSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
}

// handleRegisterZone registers one zone into the registry at runtime,
// for a frontend that discovers its own widget geometry rather than
// shipping it through static configuration.
func (o *Orchestrator) handleRegisterZone(w http.ResponseWriter, r *http.Request) {
	var req config.ZoneConfig
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	z, err := buildZone(req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	o.zones.Register(z)
	writeJSON(w, http.StatusOK, map[string]string{"status": "registered"})
}

type healthResponse struct {
	Status string        `json:"status"`
	Uptime time.Duration `json:"uptime"`
}

func (o *Orchestrator) handleHealth(w http.ResponseWriter, r *http.Request) {
	o.mu.RLock()
	running := o.isRunning
	o.mu.RUnlock()
	status := "starting"
	if running {
		status = "ok"
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: status, Uptime: time.Since(o.startTime)})
}

type stateResponse struct {
	Current string                    `json:"current"`
	Slots   map[string]categorySlotDTO `json:"slots"`
}

type categorySlotDTO struct {
	State string    `json:"state"`
	Set   bool      `json:"set"`
	At    time.Time `json:"at"`
}

func (o *Orchestrator) handleState(w http.ResponseWriter, r *http.Request) {
	snap := o.machine.Snapshot()
	resp := stateResponse{
		Current: string(o.machine.Current()),
		Slots:   make(map[string]categorySlotDTO, len(snap)),
	}
	for cat, slot := range snap {
		resp.Slots[string(cat)] = categorySlotDTO{State: string(slot.State), Set: slot.Set, At: slot.At}
	}
	writeJSON(w, http.StatusOK, resp)
}

type historyEntryDTO struct {
	Prev      string    `json:"prev"`
	New       string    `json:"new"`
	Cause     string    `json:"cause"`
	Timestamp time.Time `json:"timestamp"`
}

func (o *Orchestrator) handleHistory(w http.ResponseWriter, r *http.Request) {
	hist := o.machine.History()
	out := make([]historyEntryDTO, len(hist))
	for i, h := range hist {
		out[i] = historyEntryDTO{Prev: string(h.Prev), New: string(h.New), Cause: string(h.Cause), Timestamp: h.Timestamp}
	}
	writeJSON(w, http.StatusOK, out)
}

type zoneDTO struct {
	ID      string `json:"id"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
	Active  bool   `json:"active"`
}

func (o *Orchestrator) handleZones(w http.ResponseWriter, r *http.Request) {
	zones := o.zones.All()
	out := make([]zoneDTO, len(zones))
	for i, z := range zones {
		out[i] = zoneDTO{ID: z.ID, Kind: z.Shape.Kind(), Enabled: z.Enabled, Active: z.Active}
	}
	writeJSON(w, http.StatusOK, out)
}

type upcomingDTO struct {
	Name      string    `json:"name"`
	SolarDate time.Time `json:"solar_date"`
}

func (o *Orchestrator) handleUpcoming(w http.ResponseWriter, r *http.Request) {
	days := 30
	if v := r.URL.Query().Get("days"); v != "" {
		if parsed, err := parsePositiveInt(v); err == nil {
			days = parsed
		}
	}
	ups := o.calReg.UpcomingSpecialDates(time.Now(), days)
	out := make([]upcomingDTO, len(ups))
	for i, u := range ups {
		out[i] = upcomingDTO{Name: u.Date.Name, SolarDate: u.SolarDate}
	}
	writeJSON(w, http.StatusOK, out)
}

type animationHandleDTO struct {
	State   string `json:"state"`
	Name    string `json:"name"`
	Looping bool   `json:"looping"`
	Bound   bool   `json:"bound"`
}

// handleAnimationCurrent resolves the animation bound to the live
// current state (spec.md §4.8), so a rendering frontend has something
// concrete to play without depending on the daemon pushing
// StateChanged over a socket it may not have opened yet.
func (o *Orchestrator) handleAnimationCurrent(w http.ResponseWriter, r *http.Request) {
	state := o.machine.Current()
	handle, bound := o.anim.AnimationFor(state)
	writeJSON(w, http.StatusOK, animationHandleDTO{
		State:   string(state),
		Name:    handle.Name,
		Looping: handle.Looping,
		Bound:   bound,
	})
}

type animationFinishedRequest struct {
	State string `json:"state"`
}

// handleAnimationFinished reports that a one-shot animation for the
// given state has completed, letting the core re-dispatch whatever
// category state is now live underneath it (spec.md §4.8's
// AnimationFinished -> RedispatchCurrent path).
func (o *Orchestrator) handleAnimationFinished(w http.ResponseWriter, r *http.Request) {
	var req animationFinishedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	o.anim.AnimationFinished(petstate.PetState(req.State))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parsePositiveInt(s string) (int, error) {
	var n int
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errNotANumber
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

var errNotANumber = httpParseError("daemon: not a number")

type httpParseError string

func (e httpParseError) Error() string { return string(e) }
