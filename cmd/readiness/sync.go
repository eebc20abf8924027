// ABOUTME: CLI commands for Charm-based result sync.
// ABOUTME: Supports link, unlink, status, publish, results, and reset operations.
package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harperreed/readiness/internal/models"
	"github.com/harperreed/readiness/internal/sync"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Sync readiness results across devices",
	Long: `Sync computed readiness results across devices using Charm Cloud.

Only computed results sync: the overall score, component scores, and
confidence. Raw samples and score breakdowns never leave this device.
Published data is E2E encrypted with your SSH key before upload.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     readiness sync link

  2. On other devices, link with the same Charm account:
     readiness sync link

COMMANDS:

  link        Link this device to your Charm account
  unlink      Disconnect this device from Charm
  status      Show sync status and account info
  publish     Publish stored results to the cloud
  results     List results published from any device
  reset       Reset local cloud cache and restore from cloud (destructive)`,
}

var syncLinkCmd = &cobra.Command{
	Use:   "link",
	Short: "Link this device to Charm",
	Long: `Link this device to your Charm account.

If you don't have a Charm account, one will be created using your SSH key.
If you already have an account, you'll be prompted to link via charm.sh.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}

		color.Green("\n✓ Device linked to Charm")
		fmt.Println("Computed results will now sync across devices.")

		if client, err := sync.GetClient(); err == nil {
			if err := client.Sync(); err != nil {
				color.Yellow("⚠ Initial sync failed: %v", err)
			} else {
				color.Green("✓ Initial sync complete")
			}
		}

		return nil
	},
}

var syncUnlinkCmd = &cobra.Command{
	Use:   "unlink",
	Short: "Disconnect from Charm",
	Long: `Disconnect this device from Charm.

This does not delete your local data.
You can link again later with 'readiness sync link'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "unlink")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to unlink: %w", err)
		}

		color.Green("✓ Device unlinked from Charm")
		fmt.Println("Your local data is preserved.")

		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show sync status",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := sync.GetClient()
		if err != nil {
			color.Yellow("Charm client not initialized: %v", err)
			fmt.Println("\nRun 'readiness sync link' to connect to Charm.")
			return nil
		}

		id, err := client.ID()
		if err != nil {
			color.Yellow("Not linked to Charm")
			fmt.Println("\nRun 'readiness sync link' to connect to Charm.")
			return nil
		}

		fmt.Println("Charm ID:", id)
		fmt.Println("Server: charm.2389.dev")
		fmt.Println()

		published, _ := client.ListPublished(currentUser())
		color.Green("✓ Connected to Charm")
		fmt.Printf("  Published results: %d\n", len(published))
		if client.IsReadOnly() {
			color.Yellow("  (read-only: another process holds the lock)")
		}

		return nil
	},
}

var syncPublishLimit int

var syncPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish stored results to the cloud",
	Long: `Publish recent stored results to Charm Cloud.

Each result overwrites any previously published result for the same
(user, date) pair.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := sync.GetClient()
		if err != nil {
			return fmt.Errorf("failed to initialize charm client: %w", err)
		}

		results, err := repo.ListResults(currentUser(), syncPublishLimit)
		if err != nil {
			return fmt.Errorf("failed to list results: %w", err)
		}
		if len(results) == 0 {
			fmt.Println("No results to publish. Run 'readiness score' first.")
			return nil
		}

		for _, r := range results {
			if err := client.PublishResult(r); err != nil {
				return fmt.Errorf("failed to publish %s: %w", models.DateKey(r.Date), err)
			}
		}

		color.Green("✓ Published %d results", len(results))
		return nil
	},
}

var syncResultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List results published from any device",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := sync.GetClient()
		if err != nil {
			return fmt.Errorf("failed to initialize charm client: %w", err)
		}

		published, err := client.ListPublished(currentUser())
		if err != nil {
			return fmt.Errorf("failed to list published results: %w", err)
		}
		if len(published) == 0 {
			fmt.Println("No published results.")
			return nil
		}

		faint := color.New(color.Faint)
		for _, p := range published {
			fmt.Printf("%s  ", faint.Sprint(p.Date))
			categoryColor(models.Category(p.Category)).Printf("%-8s %5.1f", p.Category, p.Readiness)
			fmt.Println()
		}

		return nil
	},
}

var syncResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset cloud cache and restore from cloud",
	Long: `Delete the local cloud cache and restore it from Charm Cloud.

This only affects the synced result store; local samples and computed
history in SQLite are untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("This will reset the local cloud cache and restore from cloud.")
		fmt.Print("Continue? [y/N]: ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "y" && confirm != "Y" {
			fmt.Println("Canceled.")
			return nil
		}

		client, err := sync.GetClient()
		if err != nil {
			return fmt.Errorf("failed to initialize charm client: %w", err)
		}
		if err := client.Reset(); err != nil {
			return fmt.Errorf("reset failed: %w", err)
		}

		color.Green("✓ Cloud cache reset and restored")

		return nil
	},
}

func init() {
	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncUnlinkCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncPublishCmd)
	syncCmd.AddCommand(syncResultsCmd)
	syncCmd.AddCommand(syncResetCmd)

	syncPublishCmd.Flags().IntVarP(&syncPublishLimit, "limit", "n", 28, "max results to publish")

	rootCmd.AddCommand(syncCmd)
}
