// ABOUTME: CLI command for flagging anomalous scores.
// ABOUTME: Compares a date's scores against the user's own result history.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/anomaly"
)

var anomaliesCmd = &cobra.Command{
	Use:   "anomalies [date]",
	Short: "Flag scores far below their history",
	Long: `Flag scores on a date that fall sharply below that user's own history.

Detection needs at least a week of stored results. Scores more than two
standard deviations below their trailing mean are flagged as alerts;
three or more as critical.

Examples:
  readiness anomalies               # check today
  readiness anomalies 2026-01-30    # check a past date`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now()
		if len(args) > 0 {
			var err error
			date, err = time.Parse("2006-01-02", args[0])
			if err != nil {
				return fmt.Errorf("invalid date: %s (use YYYY-MM-DD)", args[0])
			}
		}

		anomalies, err := detector.Detect(context.Background(), currentUser(), date)
		if err != nil {
			return fmt.Errorf("failed to detect anomalies: %w", err)
		}

		if len(anomalies) == 0 {
			color.Green("✓ No anomalies detected")
			return nil
		}

		for _, a := range anomalies {
			c := color.New(color.FgYellow)
			if a.Severity == anomaly.SeverityCritical {
				c = color.New(color.FgRed, color.Bold)
			}
			c.Printf("%s %s\n", padRight(string(a.Severity), 9), a.ScoreID)
			fmt.Printf("  value %.1f vs mean %.1f (z %.2f)\n", a.Value, a.Mean, a.ZScore)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(anomaliesCmd)
}
