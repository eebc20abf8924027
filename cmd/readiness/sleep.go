// ABOUTME: CLI command for manual sleep entries.
// ABOUTME: Manual durations can override auto-detected sleep sessions.
package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
)

var (
	sleepDate     string
	sleepOverride bool
)

var sleepCmd = &cobra.Command{
	Use:   "sleep <minutes>",
	Short: "Record a manual sleep duration",
	Long: `Record a manual sleep duration for a wake date.

Manual entries fill gaps where no sleep session was detected. Use
--override to make the manual duration win even when auto-detected
sessions exist for the same date.

Examples:
  readiness sleep 450                        # 7.5 hours, woke today
  readiness sleep 390 --date 2026-01-30
  readiness sleep 420 --override             # trust me, not the watch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.ParseFloat(args[0], 64)
		if err != nil || minutes <= 0 {
			return fmt.Errorf("invalid minutes: %s", args[0])
		}

		date := time.Now()
		if sleepDate != "" {
			date, err = time.Parse("2006-01-02", sleepDate)
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", sleepDate)
			}
		}

		entry := models.NewSleepEntry(currentUser(), date, minutes)
		if sleepOverride {
			entry.WithOverride()
		}
		if err := repo.CreateSleepEntry(entry); err != nil {
			return fmt.Errorf("failed to create sleep entry: %w", err)
		}

		kind := "manual"
		if sleepOverride {
			kind = "override"
		}
		color.Green("✓ Recorded %.0f min %s sleep", minutes, kind)
		fmt.Printf("  wake date %s\n", models.DateKey(entry.WakeDate))

		return nil
	},
}

func init() {
	sleepCmd.Flags().StringVar(&sleepDate, "date", "", "wake date (YYYY-MM-DD, default today)")
	sleepCmd.Flags().BoolVar(&sleepOverride, "override", false, "override auto-detected sleep for the date")
	rootCmd.AddCommand(sleepCmd)
}
