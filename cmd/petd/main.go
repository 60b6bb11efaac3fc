/**
 * CONTEXT:   Main entry point for the desktop pet state daemon
 * INPUT:     Command line arguments, configuration files, and system environment
 * OUTPUT:    Running daemon providing the local HTTP status API for the pet state core
 * BUSINESS:  Provide a production-ready daemon hosting state arbitration and persistence
 * CHANGE:    Initial main implementation with CLI interface and daemon orchestration
 * RISK:      High - Main entry point affecting daemon startup and operation
 */
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/deskpet/core/internal/daemon"
	"github.com/deskpet/core/pkg/logger"
)

var (
	Version   = "0.1.0"
	BuildTime = "development"
)

var (
	configFile = flag.String("config", "", "Path to configuration file (JSON format)")
	logLevel   = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	version    = flag.Bool("version", false, "Show version information and exit")
	pidFile    = flag.String("pid", "", "PID file path (optional)")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("petd %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	log := logger.New("petd", logger.ParseLevel(*logLevel), os.Stderr)

	if *pidFile != "" {
		if err := createPIDFile(*pidFile); err != nil {
			log.Error("failed to create pid file", "path", *pidFile, "error", err.Error())
			os.Exit(1)
		}
		defer removePIDFile(*pidFile, log)
	}

	log.Info("starting petd", "version", Version, "config_file", *configFile)

	orchestrator, err := daemon.NewOrchestrator(daemon.OrchestratorConfig{
		ConfigPath: *configFile,
		Logger:     log,
	})
	if err != nil {
		log.Error("failed to initialize daemon", "error", err.Error())
		os.Exit(1)
	}

	if err := orchestrator.Run(); err != nil {
		log.Error("daemon execution failed", "error", err.Error())
		os.Exit(1)
	}

	log.Info("petd stopped")
}

func createPIDFile(path string) error {
	pid := os.Getpid()
	return os.WriteFile(path, []byte(fmt.Sprintf("%d\n", pid)), 0644)
}

func removePIDFile(path string, log *logger.Logger) {
	if err := os.Remove(path); err != nil {
		log.Warn("failed to remove pid file", "path", path, "error", err.Error())
	}
}
