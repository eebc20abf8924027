// ABOUTME: CLI commands for viewing and updating the user profile.
// ABOUTME: Profile parameters feed the load model and sleep-need calculation.
package main

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/storage"
)

var (
	profileMaxHR     float64
	profileRestingHR float64
	profileAge       int
	profileSleepNeed float64
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the user profile",
	Long: `View or update the physiological profile used by scoring.

MaxHR and RestingHR calibrate the heart-rate reserve used for workout
load. SleepNeedMinutes sets the nightly sleep target for sleep quality
and debt. Unset users score against population defaults.

Examples:
  readiness profile show
  readiness profile set --max-hr 188 --resting-hr 48
  readiness profile set --sleep-need 450`,
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetProfile(currentUser())
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				p = models.DefaultProfile(currentUser())
				fmt.Println("No profile set; showing defaults.")
			} else {
				return fmt.Errorf("failed to get profile: %w", err)
			}
		}

		fmt.Printf("user         %s\n", p.UserID)
		fmt.Printf("max hr       %.0f bpm\n", p.MaxHR)
		fmt.Printf("resting hr   %.0f bpm\n", p.RestingHR)
		if p.Age > 0 {
			fmt.Printf("age          %d\n", p.Age)
		}
		fmt.Printf("sleep need   %.0f min\n", p.SleepNeedMinutes)
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Update profile parameters",
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := repo.GetProfile(currentUser())
		if err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return fmt.Errorf("failed to get profile: %w", err)
			}
			p = models.DefaultProfile(currentUser())
		}

		if cmd.Flags().Changed("max-hr") {
			p.MaxHR = profileMaxHR
		}
		if cmd.Flags().Changed("resting-hr") {
			p.RestingHR = profileRestingHR
		}
		if cmd.Flags().Changed("age") {
			p.Age = profileAge
		}
		if cmd.Flags().Changed("sleep-need") {
			p.SleepNeedMinutes = profileSleepNeed
		}

		if p.MaxHR <= p.RestingHR {
			return fmt.Errorf("max hr must exceed resting hr")
		}

		if err := repo.UpsertProfile(p); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}

		color.Green("✓ Profile updated")
		return nil
	},
}

func init() {
	profileSetCmd.Flags().Float64Var(&profileMaxHR, "max-hr", 0, "maximum heart rate (bpm)")
	profileSetCmd.Flags().Float64Var(&profileRestingHR, "resting-hr", 0, "resting heart rate (bpm)")
	profileSetCmd.Flags().IntVar(&profileAge, "age", 0, "age in years")
	profileSetCmd.Flags().Float64Var(&profileSleepNeed, "sleep-need", 0, "nightly sleep need (minutes)")

	profileCmd.AddCommand(profileShowCmd)
	profileCmd.AddCommand(profileSetCmd)
	rootCmd.AddCommand(profileCmd)
}
