package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List logged drinks",
	Example: `  bobalog list
  bobalog list --stats`,
	RunE: runList,
}

var listStats bool

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().BoolVar(&listStats, "stats", false, "Show journal statistics instead of records")
}

func runList(cmd *cobra.Command, args []string) error {
	if listStats {
		return runListStats(cmd)
	}

	records, err := app.Journal.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No drinks logged yet. Try: bobalog add --flavor \"Taro Milk Tea\"")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tFLAVOR\tSTORE\tPRICE\tRATING\tSYNCED")
	for _, rec := range records {
		synced := color.GreenString("yes")
		if !rec.Synced {
			synced = color.YellowString("no")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%d\t%s\n",
			rec.ID, rec.Date, rec.Flavor, rec.Store, rec.Price, rec.Rating, synced)
	}
	return w.Flush()
}

func runListStats(cmd *cobra.Command) error {
	stats, err := app.Journal.Stats(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Drinks logged:   %d\n", stats.Count)
	if stats.Count == 0 {
		return nil
	}

	fmt.Printf("Total spent:     %.2f\n", stats.TotalSpent)
	fmt.Printf("Average price:   %.2f\n", stats.AveragePrice)
	fmt.Printf("Average rating:  %.1f\n", stats.AverageRating)
	if stats.FavoriteStore != "" {
		fmt.Printf("Favorite store:  %s (%d visits)\n", stats.FavoriteStore, stats.FavoriteVisits)
	}
	return nil
}
