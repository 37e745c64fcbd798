package main

import (
	"github.com/spf13/cobra"
)

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the full local journal to cloud backup",
	Long: `Push serializes every record owned by the signed-in user and overwrites
the remote backup blob wholesale. Records are marked synced only after the
upload succeeds.`,
	RunE: runPush,
}

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Merge the cloud backup into the local journal",
	Long: `Pull downloads the backup blob and creates any record missing locally.
Records that already exist locally are never overwritten; the local copy
always wins. A missing backup (first-time user) is not an error.`,
	RunE: runPull,
}

func init() {
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
}

func runPush(cmd *cobra.Command, args []string) error {
	if app.Identity.LocalMode() {
		printWarning("Local mode is on; nothing is pushed.")
		return nil
	}

	if err := app.Backup.Push(cmd.Context()); err != nil {
		return err
	}

	printSuccess("Backup pushed")
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	if app.Identity.LocalMode() {
		printWarning("Local mode is on; nothing is pulled.")
		return nil
	}

	if err := app.Backup.Pull(cmd.Context()); err != nil {
		return err
	}

	printSuccess("Backup merged")
	return nil
}
