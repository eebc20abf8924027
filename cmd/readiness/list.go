// ABOUTME: CLI commands for listing and deleting wearable samples.
// ABOUTME: Supports filtering by type and deletion by ID prefix.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
)

var (
	listType  string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List wearable samples",
	Long: `List recent wearable samples.

OUTPUT FORMAT:

  Each line shows: ID  TIMESTAMP  TYPE  VALUE  UNIT  (NOTES)

  Interval samples (workouts, sleep sessions) show their duration in
  minutes. The ID is an 8-character prefix usable with 'readiness delete'.

EXAMPLES:

  readiness list                    # Show last 20 samples (all types)
  readiness list --type hrv         # Show only HRV readings
  readiness list -t workout -n 50   # Show last 50 workouts`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var metricType *models.MetricType
		if listType != "" {
			if !models.IsValidMetricType(listType) {
				return fmt.Errorf("unknown metric type: %s", listType)
			}
			mt := models.MetricType(listType)
			metricType = &mt
		}

		samples, err := repo.ListSamples(currentUser(), metricType, listLimit)
		if err != nil {
			return fmt.Errorf("failed to list samples: %w", err)
		}

		if len(samples) == 0 {
			fmt.Println("No samples found.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, s := range samples {
			notes := ""
			if s.Notes != nil && *s.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(*s.Notes, 30))
			}
			value := fmt.Sprintf("%.2f %s", s.Value, s.Unit)
			if s.IsInterval {
				value = fmt.Sprintf("%.0f min", s.DurationMinutes())
			}
			fmt.Printf("%s %s %s %s%s\n",
				faint.Sprint(s.ID.String()[:8]),
				faint.Sprint(s.RecordedAt.Format("2006-01-02 15:04")),
				padRight(string(s.MetricType), 18),
				value,
				notes)
		}

		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm"},
	Short:   "Delete a wearable sample",
	Long: `Delete a wearable sample by its ID or ID prefix.

You can use either the full UUID or just the first few characters.
The ID prefix is shown in the first column of 'readiness list' output.
If the prefix matches multiple samples, an error is returned.

This permanently deletes the sample. There is no undo.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idOrPrefix := args[0]

		sample, err := repo.GetSample(idOrPrefix)
		if err != nil {
			return fmt.Errorf("sample not found: %s", idOrPrefix)
		}
		if err := repo.DeleteSample(idOrPrefix); err != nil {
			return fmt.Errorf("failed to delete sample: %w", err)
		}

		mt := sample.MetricType
		if err := engine.Baselines().Invalidate(sample.UserID, &mt); err != nil {
			return fmt.Errorf("failed to invalidate baseline: %w", err)
		}

		color.Yellow("✗ Deleted %s", sample.MetricType)
		fmt.Printf("  %s %.2f %s\n",
			color.New(color.Faint).Sprint(sample.ID.String()[:8]),
			sample.Value, sample.Unit)

		return nil
	},
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func padRight(s string, length int) string {
	if len(s) >= length {
		return s
	}
	return s + strings.Repeat(" ", length-len(s))
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "", "filter by metric type")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
}
