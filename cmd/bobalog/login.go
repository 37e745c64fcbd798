package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to enable cloud backup",
	Long:  `Login signs in against the identity service and stores the session locally.`,
	Example: `  bobalog login --email user@example.com
  bobalog login --email user@example.com --password secret`,
	RunE: runLogin,
}

var (
	loginEmail    string
	loginPassword string
)

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "",
		"Email address (required)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "",
		"Password (will prompt if not provided)")

	_ = loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	if app.Provider == nil {
		return fmt.Errorf("no identity service configured; set auth.base_url or use local mode")
	}

	if app.Identity.LocalMode() {
		printWarning("Local mode is on; run 'bobalog local off' first to sign in.")
		return nil
	}

	if loginPassword == "" {
		var err error
		loginPassword, err = promptPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}

	sess, err := app.Provider.SignIn(cmd.Context(), loginEmail, loginPassword)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	if err := app.Identity.SaveSession(sess); err != nil {
		return err
	}

	printSuccess("Signed in as %s", sess.Email)
	return nil
}

func promptPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)

	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)

	if err != nil {
		return "", err
	}

	return string(password), nil
}
