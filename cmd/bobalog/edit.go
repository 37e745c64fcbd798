package main

import (
	"github.com/spf13/cobra"

	"github.com/bobalog/bobalog/internal/models"
)

var editCmd = &cobra.Command{
	Use:     "edit <record-id>",
	Short:   "Edit a logged drink",
	Example: `  bobalog edit 5f8d3a12 --rating 5 --occasion "birthday"`,
	Args:    cobra.ExactArgs(1),
	RunE:    runEdit,
}

var (
	editFlavor   string
	editStore    string
	editOccasion string
	editPrice    float64
	editRating   int
)

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().StringVarP(&editFlavor, "flavor", "f", "", "Drink flavor")
	editCmd.Flags().StringVarP(&editStore, "store", "s", "", "Store name")
	editCmd.Flags().StringVarP(&editOccasion, "occasion", "o", "", "Occasion")
	editCmd.Flags().Float64VarP(&editPrice, "price", "p", 0, "Price")
	editCmd.Flags().IntVarP(&editRating, "rating", "r", 0, "Rating 1-5")
}

func runEdit(cmd *cobra.Command, args []string) error {
	id := args[0]

	rec, err := app.Journal.Edit(cmd.Context(), id, func(r *models.DrinkRecord) {
		if cmd.Flags().Changed("flavor") {
			r.Flavor = editFlavor
		}
		if cmd.Flags().Changed("store") {
			r.Store = editStore
		}
		if cmd.Flags().Changed("occasion") {
			r.Occasion = editOccasion
		}
		if cmd.Flags().Changed("price") {
			r.Price = editPrice
		}
		if cmd.Flags().Changed("rating") {
			r.Rating = editRating
		}
	})
	if rec == nil {
		return err
	}

	printSuccess("Updated %s", rec.ID)
	if err != nil {
		printWarning("Saved locally, but sync failed: %v", err)
	}

	return nil
}
