package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var localCmd = &cobra.Command{
	Use:   "local on|off",
	Short: "Toggle local-only mode",
	Long: `Local mode keeps the journal entirely on this device: no backup, no
restore, no leaderboard. Records created while local stay on-device even
after turning local mode off.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE:      runLocal,
}

func init() {
	rootCmd.AddCommand(localCmd)
}

func runLocal(cmd *cobra.Command, args []string) error {
	switch args[0] {
	case "on":
		if err := app.Identity.SetLocalMode(true); err != nil {
			return err
		}
		printSuccess("Local mode enabled. Your journal stays on this device.")
	case "off":
		if err := app.Identity.SetLocalMode(false); err != nil {
			return err
		}
		printSuccess("Local mode disabled. Sign in with 'bobalog login' to enable backup.")
	default:
		return fmt.Errorf("expected 'on' or 'off', got %q", args[0])
	}
	return nil
}
