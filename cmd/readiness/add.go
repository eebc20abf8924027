// ABOUTME: CLI command for adding wearable samples.
// ABOUTME: Handles point samples and interval samples (workouts, sleep sessions).
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
	addAt     string
	addStart  string
	addEnd    string
	addSource string
	addNotes  string
)

var addCmd = &cobra.Command{
	Use:     "add <type> [value]",
	Aliases: []string{"a"},
	Short:   "Add a wearable sample",
	Long: `Add a wearable sample. Workouts and sleep sessions are intervals and
require --start and --end; everything else is a point sample.

Examples:
  readiness add hrv 48
  readiness add resting_heart_rate 52 --at "2026-01-31 07:00"
  readiness add spo2 97 --source "oura"
  readiness add workout 6 --start "2026-01-31 17:00" --end "2026-01-31 18:00"
  readiness add sleep_auto --start "2026-01-30 22:30" --end "2026-01-31 06:30"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metricType := args[0]
		if !models.IsValidMetricType(metricType) {
			return fmt.Errorf("unknown metric type: %s\nValid types: resting_heart_rate, heart_rate, hrv, respiratory_rate, spo2, temperature, stress, steps, distance, active_calories, calories_intake, workout, sleep_auto", metricType)
		}

		var value float64
		if len(args) > 1 {
			var err error
			value, err = strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid value: %s", args[1])
			}
		}

		mt := models.MetricType(metricType)
		s := models.NewSample(currentUser(), mt, value)

		if models.IsIntervalMetric(mt) {
			if addStart == "" || addEnd == "" {
				return fmt.Errorf("%s samples require --start and --end", metricType)
			}
			start, err := parseTime(addStart)
			if err != nil {
				return fmt.Errorf("invalid start: %s", addStart)
			}
			end, err := parseTime(addEnd)
			if err != nil {
				return fmt.Errorf("invalid end: %s", addEnd)
			}
			if !end.After(start) {
				return fmt.Errorf("interval end must be after start")
			}
			s.WithInterval(start, end)
		} else if addAt != "" {
			t, err := parseTime(addAt)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addAt)
			}
			s.WithRecordedAt(t)
		}

		if addSource != "" {
			s.WithSource(addSource)
		}
		if addNotes != "" {
			s.WithNotes(addNotes)
		}

		if err := repo.CreateSample(s); err != nil {
			return fmt.Errorf("failed to create sample: %w", err)
		}

		// New data shifts the window; stale baselines must not survive it.
		if err := engine.Baselines().Invalidate(s.UserID, &mt); err != nil {
			return fmt.Errorf("failed to invalidate baseline: %w", err)
		}

		color.Green("✓ Added %s", metricType)
		if s.IsInterval {
			fmt.Printf("  %s %.0f min\n",
				color.New(color.Faint).Sprint(s.ID.String()[:8]),
				s.DurationMinutes())
		} else {
			fmt.Printf("  %s %.2f %s\n",
				color.New(color.Faint).Sprint(s.ID.String()[:8]),
				s.Value, s.Unit)
		}

		return nil
	},
}

func parseTime(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02 15:04",
		"2006-01-02T15:04",
		"2006-01-02",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format")
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "timestamp (YYYY-MM-DD HH:MM)")
	addCmd.Flags().StringVar(&addStart, "start", "", "interval start (workouts, sleep sessions)")
	addCmd.Flags().StringVar(&addEnd, "end", "", "interval end (workouts, sleep sessions)")
	addCmd.Flags().StringVar(&addSource, "source", "", "originating device or app")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notes for the sample")
	rootCmd.AddCommand(addCmd)
}
