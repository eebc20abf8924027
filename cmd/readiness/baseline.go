// ABOUTME: CLI command for inspecting rolling baselines.
// ABOUTME: Shows median, MAD, and sample count for one or all metric types.
package main

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
)

var (
	baselineWindow int
	baselineForce  bool
)

var baselineCmd = &cobra.Command{
	Use:   "baseline [type]",
	Short: "Show rolling baselines",
	Long: `Show the rolling baseline (median and MAD) for a metric type, or for
all tracked metric types when no type is given.

Baselines summarize the trailing window of samples with robust statistics
so a single bad reading cannot shift them.

Examples:
  readiness baseline              # all metrics with data
  readiness baseline hrv          # one metric
  readiness baseline hrv -w 7     # 7-day window instead of 28
  readiness baseline hrv --force  # recompute, skipping the cache`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		types := models.AllMetricTypes
		if len(args) > 0 {
			if !models.IsValidMetricType(args[0]) {
				return fmt.Errorf("unknown metric type: %s", args[0])
			}
			types = []models.MetricType{models.MetricType(args[0])}
		}

		faint := color.New(color.Faint)
		shown := 0
		for _, mt := range types {
			b, err := engine.Baselines().Get(ctx, currentUser(), mt, baselineWindow, baselineForce)
			if err != nil {
				if len(args) > 0 {
					return fmt.Errorf("no baseline for %s: %w", mt, err)
				}
				continue
			}
			fmt.Printf("%s median %.2f  mad %.2f  %s\n",
				padRight(string(mt), 18),
				b.Median, b.MAD,
				faint.Sprintf("(%d samples / %dd)", b.SampleCount, b.WindowDays))
			shown++
		}

		if shown == 0 {
			fmt.Println("No baselines available. Add samples first.")
		}
		return nil
	},
}

func init() {
	baselineCmd.Flags().IntVarP(&baselineWindow, "window", "w", 0, "trailing window in days (default 28)")
	baselineCmd.Flags().BoolVar(&baselineForce, "force", false, "recompute, bypassing the cache")
	rootCmd.AddCommand(baselineCmd)
}
