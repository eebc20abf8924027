// ABOUTME: CLI command for computing and displaying the daily readiness score.
// ABOUTME: Renders the score card and optionally publishes the result to Charm Cloud.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/sync"
)

var (
	scorePublish bool
	scoreShow    bool
)

var scoreCmd = &cobra.Command{
	Use:   "score [date]",
	Short: "Compute the readiness score for a date",
	Long: `Compute and store the readiness score for a date (default today).

The run recomputes every component score from stored samples, aggregates
them into the overall readiness score, and overwrites any prior result
for the same date.

Examples:
  readiness score                  # compute for today
  readiness score 2026-01-30       # recompute a past date
  readiness score --show           # show stored result without recomputing
  readiness score --publish        # also push the result to Charm Cloud`,
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

		var result *models.Result
		var err error
		if scoreShow {
			result, err = repo.GetResult(currentUser(), models.DateOf(date))
			if err != nil {
				return fmt.Errorf("no stored result for %s (run without --show to compute)", models.DateKey(date))
			}
		} else {
			result, err = engine.CalculateAndStore(context.Background(), currentUser(), date)
			if err != nil {
				return fmt.Errorf("failed to compute readiness: %w", err)
			}
		}

		printScoreCard(result)

		if scorePublish || cfg.AutoSync {
			client, err := sync.GetClient()
			if err != nil {
				color.Yellow("⚠ Sync unavailable: %v", err)
				return nil
			}
			if err := client.PublishResult(result); err != nil {
				color.Yellow("⚠ Publish failed: %v", err)
			} else {
				color.Green("✓ Published to Charm Cloud")
			}
		}

		return nil
	},
}

func printScoreCard(r *models.Result) {
	fmt.Println()
	fmt.Printf("  Readiness for %s\n", models.DateKey(r.Date))
	fmt.Println()

	categoryColor(r.Category).Printf("  %s  %.0f\n", r.Category, r.Readiness)
	fmt.Printf("  confidence %s, data completeness %.0f%%\n",
		r.Confidence, r.DataCompleteness*100)
	fmt.Println()

	faint := color.New(color.Faint)
	for _, id := range models.ComponentScoreIDs {
		value, err := r.Score(id)
		if err != nil {
			continue
		}
		conf := r.Confidences[id]
		if conf == "" {
			conf = models.ConfidenceLow
		}
		fmt.Printf("  %s %5.1f  %s\n",
			padRight(strings.ReplaceAll(id, "_", " "), 24),
			value,
			faint.Sprint(conf))
	}
	fmt.Println()
}

func categoryColor(c models.Category) *color.Color {
	switch c {
	case models.CategoryGo:
		return color.New(color.FgGreen, color.Bold)
	case models.CategoryCaution:
		return color.New(color.FgYellow, color.Bold)
	case models.CategoryLimited:
		return color.New(color.FgMagenta, color.Bold)
	default:
		return color.New(color.FgRed, color.Bold)
	}
}

func init() {
	scoreCmd.Flags().BoolVar(&scorePublish, "publish", false, "publish the result to Charm Cloud")
	scoreCmd.Flags().BoolVar(&scoreShow, "show", false, "show the stored result without recomputing")
	rootCmd.AddCommand(scoreCmd)
}
