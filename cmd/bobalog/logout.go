package main

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	RunE:  runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	sess, err := app.Identity.Session()
	if err != nil {
		printWarning("Not signed in.")
		return nil
	}

	// Revocation is best-effort; the local session is cleared regardless.
	if app.Provider != nil {
		if err := app.Provider.SignOut(cmd.Context(), sess.Token); err != nil {
			logger.WithError(err).Warn("Remote sign-out failed")
		}
	}

	if err := app.Identity.ClearSession(); err != nil {
		return err
	}

	printSuccess("Signed out.")
	return nil
}
