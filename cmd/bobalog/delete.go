package main

import (
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete <record-id>",
	Short:   "Permanently delete a logged drink",
	Long:    `Delete removes the record locally and, for cloud users, drops it from the backup and removes its photo object (best-effort).`,
	Example: `  bobalog delete 5f8d3a12`,
	Args:    cobra.ExactArgs(1),
	RunE:    runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}

func runDelete(cmd *cobra.Command, args []string) error {
	if err := app.Journal.Delete(cmd.Context(), args[0]); err != nil {
		return err
	}

	printSuccess("Deleted %s", args[0])
	return nil
}
