package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bobalog/bobalog/internal/client"
	"github.com/bobalog/bobalog/internal/config"
	"github.com/bobalog/bobalog/internal/events"
)

var (
	cfgFile string
	verbose bool

	cfg    *config.Config
	logger *events.Logger
	app    *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "bobalog",
	Short: "Offline-first boba tea journal with cloud backup",
	Long: `Bobalog keeps a journal of your boba tea drinks in a local database
that works with zero network. Signed-in users get their journal backed up
to cloud storage and counted on the shared store leaderboard; local-only
users never touch the network.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initApp,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"Config file (default: ./bobalog.yaml or ~/.config/bobalog/bobalog.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
}

func initApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	if verbose {
		cfg.Log.Level = "debug"
	}
	logger = events.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)

	app, err = client.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	// Startup restore for cloud users; never blocks the command.
	app.Restore(cmd.Context())

	return nil
}

// Execute runs the CLI.
func Execute() {
	defer func() {
		if app != nil {
			_ = app.Close()
		}
	}()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func printSuccess(format string, args ...interface{}) {
	fmt.Println(color.GreenString(format, args...))
}

func printWarning(format string, args ...interface{}) {
	fmt.Println(color.YellowString(format, args...))
}
