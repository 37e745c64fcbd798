package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bobalog/bobalog/internal/services/journal"
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Log a new drink",
	Example: `  bobalog add --flavor "Taro Milk Tea" --store "Boba Guys" --price 5.50 --rating 4
  bobalog add -f "Brown Sugar" -s "Tiger Sugar" -p 6.25 -r 5 --photo ./drink.jpg`,
	RunE: runAdd,
}

var (
	addFlavor   string
	addStore    string
	addOccasion string
	addPrice    float64
	addRating   int
	addDate     string
	addPhoto    string
	addLat      float64
	addLng      float64
	addPlaceID  string
)

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().StringVarP(&addFlavor, "flavor", "f", "", "Drink flavor (required)")
	addCmd.Flags().StringVarP(&addStore, "store", "s", "", "Store name")
	addCmd.Flags().StringVarP(&addOccasion, "occasion", "o", "", "Occasion")
	addCmd.Flags().Float64VarP(&addPrice, "price", "p", 0, "Price")
	addCmd.Flags().IntVarP(&addRating, "rating", "r", 0, "Rating 1-5")
	addCmd.Flags().StringVar(&addDate, "date", "", "Visit date YYYY-MM-DD (default: today)")
	addCmd.Flags().StringVar(&addPhoto, "photo", "", "Path to a photo of the drink")
	addCmd.Flags().Float64Var(&addLat, "lat", 0, "Store latitude")
	addCmd.Flags().Float64Var(&addLng, "lng", 0, "Store longitude")
	addCmd.Flags().StringVar(&addPlaceID, "place-id", "", "Place ID of the store")

	_ = addCmd.MarkFlagRequired("flavor")
}

func runAdd(cmd *cobra.Command, args []string) error {
	if addPrice < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if addRating < 1 || addRating > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}

	params := journal.AddParams{
		Flavor:    addFlavor,
		Store:     addStore,
		Occasion:  addOccasion,
		Price:     addPrice,
		Rating:    addRating,
		Date:      addDate,
		PhotoPath: addPhoto,
		PlaceID:   addPlaceID,
	}
	if cmd.Flags().Changed("lat") {
		params.Latitude = &addLat
	}
	if cmd.Flags().Changed("lng") {
		params.Longitude = &addLng
	}

	rec, err := app.Journal.Add(cmd.Context(), params)
	if rec == nil {
		return err
	}

	printSuccess("Logged %s (%s)", rec.Flavor, rec.ID)
	if err != nil {
		printWarning("Saved locally, but sync failed: %v", err)
		printWarning("The record will be retried on the next sync.")
	}

	return nil
}
