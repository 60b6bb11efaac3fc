/**
 * CONTEXT:   Main daemon orchestrator wiring every component of the pet state core
 * INPUT:     Daemon configuration, signal handling, and component coordination requirements
 * OUTPUT:    Running HTTP daemon exposing state, history, and zone endpoints with graceful shutdown
 * BUSINESS:  Central orchestration point ensuring reliable operation of the desktop pet core
 * CHANGE:    Initial orchestrator implementation wiring bus, adapters, machine, and persistence
 * RISK:      High - Central orchestration point affecting entire system reliability and operation
 */
package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/deskpet/core/internal/adapters"
	"github.com/deskpet/core/internal/animation"
	"github.com/deskpet/core/internal/calendar"
	"github.com/deskpet/core/internal/config"
	"github.com/deskpet/core/internal/database/sqlite"
	"github.com/deskpet/core/internal/geometry"
	"github.com/deskpet/core/internal/interaction"
	"github.com/deskpet/core/internal/monitor"
	"github.com/deskpet/core/internal/petstate"
	"github.com/deskpet/core/pkg/eventbus"
	"github.com/deskpet/core/pkg/logger"
)

const interactionKnownKinds = "Click,DoubleClick,RightClick,Hover,Drag,Drop,Custom"

// OrchestratorConfig holds configuration for orchestrator initialization.
type OrchestratorConfig struct {
	ConfigPath string
	Logger     *logger.Logger
}

/**
 * CONTEXT:   Main daemon orchestrator managing the complete component lifecycle
 * INPUT:     Configuration, dependencies, and system resources for daemon operation
 * OUTPUT:    Coordinated daemon operation with HTTP server, state machine, and cleanup
 * BUSINESS:  Ensure reliable pet-state operation with proper component coordination
 * CHANGE:    Initial orchestrator implementation with comprehensive lifecycle management
 * RISK:      High - Central coordination point affecting system reliability and data integrity
 */
type Orchestrator struct {
	cfg *config.Config
	log *logger.Logger

	bus        *eventbus.Bus
	zones      *geometry.Registry
	tracker    *interaction.Tracker
	db         *sqlite.DB
	repo       *sqlite.InteractionRepository
	calReg     *calendar.Registry
	calTicker  *calendar.Ticker
	machine    *petstate.Machine
	sysAdapter *adapters.SystemStateAdapter
	intAdapter *adapters.InteractionStateAdapter
	timeBridge *adapters.TimeStateBridge
	pointer    *adapters.PointerDispatcher
	anim       *animation.PlaceholderFactory
	mon        *monitor.Monitor

	httpServer *http.Server
	router     *mux.Router

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startTime time.Time

	mu        sync.RWMutex
	isRunning bool
}

/**
 * CONTEXT:   Factory function creating a daemon orchestrator with complete initialization
 * INPUT:     OrchestratorConfig with configuration path and logger
 * OUTPUT:    Fully initialized Orchestrator ready to run
 * BUSINESS:  Orchestrator requires complete component initialization and dependency injection
 * CHANGE:    Initial factory implementation with comprehensive component setup
 * RISK:      High - Complex initialization affecting all downstream components
 */
func NewOrchestrator(oc OrchestratorConfig) (*Orchestrator, error) {
	cfg, err := config.LoadJSON(oc.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := oc.Logger
	if log == nil {
		log = logger.New("daemon", logger.ParseLevel(cfg.Daemon.LogLevel), os.Stderr)
	}

	ctx, cancel := context.WithCancel(context.Background())
	o := &Orchestrator{
		cfg:       cfg,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	if err := o.initializeComponents(); err != nil {
		cancel()
		return nil, fmt.Errorf("initialize components: %w", err)
	}

	log.Info("orchestrator initialized", "listen_addr", cfg.Daemon.ListenAddr, "db_path", cfg.Daemon.DBPath)
	return o, nil
}

func (o *Orchestrator) initializeComponents() error {
	o.bus = eventbus.New(o.log.With("bus"))
	o.zones = geometry.NewRegistry()
	seedZones(o.zones, o.cfg.Zones, func(msg, id string, err error) {
		o.log.Warn(msg, "zone_id", id, "error", err.Error())
	})

	kinds := []string{
		string(geometry.KindClick), string(geometry.KindDoubleClick), string(geometry.KindRightClick),
		string(geometry.KindHover), string(geometry.KindDrag), string(geometry.KindDrop), string(geometry.KindCustom),
	}
	o.tracker = interaction.New(kinds, o.cfg.DecayRetentionSec, interaction.Thresholds{
		Rare: o.cfg.Pattern.Rare, Occasional: o.cfg.Pattern.Occasional,
		Regular: o.cfg.Pattern.Regular, Frequent: o.cfg.Pattern.Frequent,
	}, o.log.With("interaction"))

	dbCfg := sqlite.DefaultConnectionConfig(o.cfg.Daemon.DBPath)
	db, err := sqlite.Open(dbCfg, o.log.With("sqlite"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	o.db = db
	o.repo = sqlite.NewInteractionRepository(db, o.log.With("sqlite"))
	if snap := o.repo.Load(o.ctx); len(snap.Entries) > 0 {
		o.tracker.Restore(snap)
		o.log.Info("restored interaction history", "entries", len(snap.Entries))
	}

	o.calReg = calendar.NewRegistry(nil)
	for _, d := range calendar.DefaultSpecialDates() {
		o.calReg.RegisterSpecialDate(d)
	}
	o.calTicker = calendar.NewTicker(o.bus, o.calReg, o.cfg.CalendarPeriodMs, o.log.With("calendar"))

	thresholds := petstate.Thresholds{
		CPULight: o.cfg.CPU.Light, CPUModerate: o.cfg.CPU.Moderate, CPUHeavy: o.cfg.CPU.Heavy,
		CPUVeryHeavy: o.cfg.CPU.VeryHeavy, CPUCritical: o.cfg.CPU.Critical,
		MemWarning: o.cfg.Memory.Warning, MemCritical: o.cfg.Memory.Critical,
		GPUBusy: o.cfg.GPU.Busy, GPUVeryBusy: o.cfg.GPU.VeryBusy,
		DiskBusy: o.cfg.Disk.Busy, DiskVeryBusy: o.cfg.Disk.VeryBusy,
		NetworkBusy: o.cfg.Network.Busy, NetworkVeryBusy: o.cfg.Network.VeryBusy,
	}
	o.machine = petstate.New(o.bus, o.cfg.HistoryCap, thresholds, o.log.With("petstate"))

	o.sysAdapter = adapters.NewSystemStateAdapter(o.machine, o.cfg, o.log.With("adapters.system"))
	o.sysAdapter.Register(o.bus)

	o.intAdapter = adapters.NewInteractionStateAdapter(o.machine, o.cfg.Interaction, o.tracker, o.log.With("adapters.interaction"))
	o.intAdapter.Register(o.bus)

	o.timeBridge = adapters.NewTimeStateBridge(o.machine, o.log.With("adapters.time"))
	o.timeBridge.Register(o.bus)
	o.timeBridge.SyncNow(time.Now(), o.calReg)

	o.pointer = adapters.NewPointerDispatcher(o.bus, o.zones, o.log.With("adapters.pointer"))

	o.anim = animation.NewPlaceholderFactory(petstate.AllStates(), o.machine)

	o.mon = monitor.New(o.bus, newPlatformSampler(), o.cfg.MonitorPeriodMs, o.log.With("monitor"))

	o.router = mux.NewRouter()
	o.registerRoutes()
	o.httpServer = &http.Server{
		Addr:    o.cfg.Daemon.ListenAddr,
		Handler: o.router,
	}
	return nil
}

/**
 * CONTEXT:   Main daemon execution with signal handling and graceful shutdown
 * INPUT:     System signals and operational context for daemon lifecycle
 * OUTPUT:    Running daemon with HTTP server and background ticking processes
 * BUSINESS:  Provide reliable pet-state service with proper error handling and shutdown
 * CHANGE:    Initial run implementation with signal handling and lifecycle management
 * RISK:      High - Main execution loop affecting system availability and reliability
 */
func (o *Orchestrator) Run() error {
	o.mu.Lock()
	o.isRunning = true
	o.mu.Unlock()

	o.log.Info("starting daemon", "pid", os.Getpid(), "listen_addr", o.cfg.Daemon.ListenAddr)

	o.wg.Add(3)
	go func() { defer o.wg.Done(); o.mon.Run(o.ctx) }()
	go func() { defer o.wg.Done(); o.calTicker.Run(o.ctx, nil) }()
	go func() {
		defer o.wg.Done()
		o.intAdapter.RunTimeoutWatcher(o.ctx, 250*time.Millisecond)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)
	go func() {
		if err := o.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case sig := <-sigChan:
		o.log.Info("received shutdown signal", "signal", sig.String())
		return o.gracefulShutdown()
	case err := <-serverErr:
		o.log.Error("http server error", "error", err.Error())
		return fmt.Errorf("http server failed: %w", err)
	}
}

/**
 * CONTEXT:   Graceful shutdown with persistence of interaction history
 * INPUT:     Shutdown context and timeout constraints
 * OUTPUT:    Clean shutdown with saved interaction snapshot and closed resources
 * BUSINESS:  Ensure interaction history survives restarts (spec.md tolerant-persistence semantics)
 * CHANGE:    Initial graceful shutdown implementation
 * RISK:      Medium - Shutdown process affects persisted interaction history
 */
func (o *Orchestrator) gracefulShutdown() error {
	o.mu.Lock()
	o.isRunning = false
	o.mu.Unlock()

	o.log.Info("shutting down")
	o.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	var errs []error
	if err := o.httpServer.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}

	snap := o.tracker.Snapshot(time.Now())
	if err := o.repo.Save(shutdownCtx, snap); err != nil {
		errs = append(errs, fmt.Errorf("save interaction history: %w", err))
	}

	o.wg.Wait()
	if err := o.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %v", errs)
	}
	o.log.Info("shutdown complete")
	return nil
}

// Bus returns the orchestrator's event bus, for components that need
// to publish interaction or window events from outside the daemon
// (e.g. a future desktop-shell frontend).
func (o *Orchestrator) Bus() *eventbus.Bus { return o.bus }

// Zones returns the zone registry for frontend hit-testing wiring.
func (o *Orchestrator) Zones() *geometry.Registry { return o.zones }

func newPlatformSampler() monitor.Sampler {
	return newSampler()
}
