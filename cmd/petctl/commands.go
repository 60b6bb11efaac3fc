/**
 * CONTEXT:   petctl subcommands rendering daemon status through tablewriter and color
 * INPUT:     petd HTTP API responses
 * OUTPUT:    Formatted terminal tables and summaries
 * BUSINESS:  Readable operator-facing views into arbitration state and history
 * CHANGE:    Initial command set covering status, history, zones, upcoming, and simulate
 * RISK:      Low - Display commands plus simulate, which posts synthetic interactions
 */
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current pet state and category slots",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newAPIClient(daemonAddr)

		var health healthResponse
		if err := c.get("/healthz", &health); err != nil {
			return err
		}
		var state stateResponse
		if err := c.get("/state", &state); err != nil {
			return err
		}

		headerColor.Println("DESKTOP PET STATUS")
		fmt.Printf("daemon:  %s (up %s)\n", health.Status, health.Uptime)
		successColor.Printf("current: %s\n\n", state.Current)

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Category", "State", "Set", "Since"})
		table.SetBorder(false)
		for _, cat := range []string{"Interaction", "SpecialDate", "System", "Time"} {
			slot, ok := state.Slots[cat]
			if !ok {
				continue
			}
			setStr := "no"
			if slot.Set {
				setStr = "yes"
			}
			table.Append([]string{cat, slot.State, setStr, slot.At.Format("15:04:05")})
		}
		table.Render()
		return nil
	},
}

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent state transitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newAPIClient(daemonAddr)
		var hist []historyEntryDTO
		if err := c.get("/history", &hist); err != nil {
			return err
		}
		if historyLimit > 0 && len(hist) > historyLimit {
			hist = hist[len(hist)-historyLimit:]
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Time", "Prev", "New", "Cause"})
		table.SetBorder(false)
		for _, h := range hist {
			table.Append([]string{h.Timestamp.Format("15:04:05"), h.Prev, h.New, h.Cause})
		}
		table.Render()
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries to display")
}

var zonesCmd = &cobra.Command{
	Use:   "zones",
	Short: "List registered hit-test zones",
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newAPIClient(daemonAddr)
		var zones []zoneDTO
		if err := c.get("/zones", &zones); err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Shape", "Enabled", "Active"})
		table.SetBorder(false)
		for _, z := range zones {
			enabled, active := "no", "no"
			if z.Enabled {
				enabled = "yes"
			}
			if z.Active {
				active = "yes"
			}
			table.Append([]string{z.ID, z.Kind, enabled, active})
		}
		table.Render()
		return nil
	},
}

var upcomingCmd = &cobra.Command{
	Use:   "upcoming [days]",
	Short: "Show upcoming special dates",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		days := 30
		if len(args) == 1 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid day count %q: %w", args[0], err)
			}
			days = parsed
		}

		c := newAPIClient(daemonAddr)
		var ups []upcomingDTO
		if err := c.get(fmt.Sprintf("/upcoming?days=%d", days), &ups); err != nil {
			return err
		}
		if len(ups) == 0 {
			infoColor.Println("no upcoming special dates in range")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"Name", "Date"})
		table.SetBorder(false)
		for _, u := range ups {
			table.Append([]string{u.Name, u.SolarDate.Format("2006-01-02")})
		}
		table.Render()
		return nil
	},
}

var simulateCmd = &cobra.Command{
	Use:   "simulate <kind> <zoneId>",
	Short: "Send a synthetic interaction event to a running daemon for testing",
	Long: `simulate posts a synthetic UserInteraction event to petd, as if a
frontend had reported a click, hover, or drag on the named zone.

petd always serves the /simulate endpoint; the command is intended
for local development and manual QA, not production use.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, zoneID := args[0], args[1]
		body, _ := json.Marshal(map[string]string{"kind": kind, "zone_id": zoneID})
		resp, err := http.Post(daemonAddr+"/simulate", "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("simulate request: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			warningColor.Printf("daemon returned status %d\n", resp.StatusCode)
			return nil
		}
		successColor.Printf("sent %s on zone %s\n", kind, zoneID)
		return nil
	},
}
