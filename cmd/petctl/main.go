/**
 * CONTEXT:   Command-line client for the desktop pet state daemon's HTTP API
 * INPUT:     Command line arguments selecting status, history, zone, or simulation views
 * OUTPUT:    Colorized terminal output summarizing daemon state
 * BUSINESS:  Give operators and developers a quick window into arbitration decisions
 * CHANGE:    Initial CLI implementation with status, history, zones, and upcoming commands
 * RISK:      Low - CLI client whose only write path is simulate posting interactions
 */
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	BuildTime = "development"
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgMagenta, color.Bold)
)

var daemonAddr string

var rootCmd = &cobra.Command{
	Use:   "petctl",
	Short: "petctl - inspect the desktop pet state daemon",
	Long: `petctl is the command-line client for petd, the desktop pet state
arbitration daemon.

It talks to petd's local HTTP API to show the current state, recent
state transitions, registered hit-test zones, and upcoming special
dates.`,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&daemonAddr, "addr", "http://127.0.0.1:8741", "petd HTTP API address")
	rootCmd.AddCommand(statusCmd, historyCmd, zonesCmd, upcomingCmd, simulateCmd, versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("petctl %s (built %s)\n", Version, BuildTime)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
