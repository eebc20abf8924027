// ABOUTME: CLI command for showing recent readiness history.
// ABOUTME: One line per stored result, newest first.
package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
)

var trendLimit int

var trendCmd = &cobra.Command{
	Use:   "trend",
	Short: "Show recent readiness scores",
	Long: `Show recent readiness scores, newest first.

Each line shows the date, overall score, category, and the recovery and
sleep quality components.

Examples:
  readiness trend          # last 14 days
  readiness trend -n 28    # last 28 days`,
	RunE: func(cmd *cobra.Command, args []string) error {
		results, err := repo.ListResults(currentUser(), trendLimit)
		if err != nil {
			return fmt.Errorf("failed to list results: %w", err)
		}

		if len(results) == 0 {
			fmt.Println("No results yet. Run 'readiness score' first.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, r := range results {
			fmt.Printf("%s  ", faint.Sprint(models.DateKey(r.Date)))
			categoryColor(r.Category).Printf("%-8s %5.1f", r.Category, r.Readiness)
			fmt.Printf("  %s\n",
				faint.Sprintf("recovery %.0f  sleep %.0f", r.Recovery, r.SleepQuality))
		}

		return nil
	},
}

func init() {
	trendCmd.Flags().IntVarP(&trendLimit, "limit", "n", 14, "number of days to show")
	rootCmd.AddCommand(trendCmd)
}
