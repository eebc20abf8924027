// ABOUTME: Root Cobra command for readiness CLI.
// ABOUTME: Opens storage, baseline cache, and engine via PersistentPre/PostRunE.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/anomaly"
	"github.com/harperreed/readiness/internal/baseline"
	"github.com/harperreed/readiness/internal/config"
	"github.com/harperreed/readiness/internal/score"
	"github.com/harperreed/readiness/internal/storage"
)

var (
	cfg      *config.Config
	repo     storage.Repository
	blCache  *baseline.Cache
	engine   *score.Engine
	detector *anomaly.Detector

	flagDataDir string
	flagUser    string
)

var rootCmd = &cobra.Command{
	Use:   "readiness",
	Short: "Physiological readiness scoring engine",
	Long: `Readiness scores daily training readiness from wearable sensor data.

WHAT IT COMPUTES:

  A 0-100 readiness score for each day, aggregated from 17 component
  scores: autonomic deviations (HRV, resting HR, respiratory rate, SpO2),
  sleep quality and debt, training load and acute:chronic ratio,
  recovery, fatigue, stress, illness risk, overtraining risk, energy
  availability, and physical status.

QUICK START:

  $ readiness add hrv 48                  # Log a morning HRV reading
  $ readiness add resting_heart_rate 52   # Log resting heart rate
  $ readiness sleep 450                   # Log last night's sleep (minutes)
  $ readiness score                       # Compute today's readiness
  $ readiness trend                       # Recent score history

WORKOUTS AND SLEEP SESSIONS:

  Workouts and auto-detected sleep are interval samples:

  $ readiness add workout 6 --start "2026-01-31 17:00" --end "2026-01-31 18:00"
  $ readiness add sleep_auto 0 --start "2026-01-30 22:30" --end "2026-01-31 06:30"

  Workout value is perceived effort (RPE, 0-10).

SYNC:

  Computed results (scores only, never raw samples) can sync across
  devices via Charm Cloud, E2E encrypted with your SSH key:

  $ readiness sync link      # Link device to your Charm account
  $ readiness sync status    # Check sync status

MCP INTEGRATION:

  Run 'readiness mcp' to start the Model Context Protocol server for use
  with MCP-compatible AI assistants:

  {
    "mcpServers": {
      "readiness": { "command": "readiness", "args": ["mcp"] }
    }
  }

DATA STORAGE:

  Samples and results live in SQLite at ~/.local/share/readiness, with a
  Badger cache alongside for baseline statistics.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagDataDir != "" {
			cfg.DataDir = flagDataDir
		}
		if flagUser != "" {
			cfg.DefaultUser = flagUser
		}

		repo, err = cfg.OpenStorage()
		if err != nil {
			return fmt.Errorf("failed to open storage: %w", err)
		}
		blCache, err = cfg.OpenBaselineCache()
		if err != nil {
			return fmt.Errorf("failed to open baseline cache: %w", err)
		}

		engine = score.NewEngine(repo, baseline.NewStore(repo, blCache))
		detector = anomaly.NewDetector(repo)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if blCache != nil {
			_ = blCache.Close()
		}
		if repo != nil {
			return repo.Close()
		}
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.local/share/readiness)")
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "user ID (default from config)")
}

// currentUser resolves the active user for a command run.
func currentUser() string {
	return cfg.GetDefaultUser()
}
