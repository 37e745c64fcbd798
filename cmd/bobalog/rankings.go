package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the shared store leaderboard",
	Example: `  bobalog rankings
  bobalog rankings --top 10
  bobalog rankings --rank "Boba Guys"`,
	RunE: runRankings,
}

var (
	rankingsTop  int
	rankingsRank string
)

func init() {
	rootCmd.AddCommand(rankingsCmd)

	rankingsCmd.Flags().IntVar(&rankingsTop, "top", 0, "Number of stores to show (default 5)")
	rankingsCmd.Flags().StringVar(&rankingsRank, "rank", "", "Look up the rank of a single store")
}

func runRankings(cmd *cobra.Command, args []string) error {
	if app.Identity.LocalMode() {
		printWarning("Local mode is on; the shared leaderboard is unavailable.")
		return nil
	}

	if rankingsRank != "" {
		rank, err := app.Rankings.StoreRank(cmd.Context(), rankingsRank)
		if err != nil {
			return err
		}
		if rank == 0 {
			fmt.Printf("%q is not on the leaderboard yet.\n", rankingsRank)
			return nil
		}
		fmt.Printf("%q is ranked #%d.\n", rankingsRank, rank)
		return nil
	}

	top, err := app.Rankings.TopStores(cmd.Context(), rankingsTop)
	if err != nil {
		return err
	}

	if len(top) == 0 {
		fmt.Println("The leaderboard is empty.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tSTORE\tVISITS\tLAST VISITED")
	for i, entry := range top {
		last := time.UnixMilli(entry.LastVisited).Format("2006-01-02")
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, entry.StoreName, entry.VisitCount, last)
	}
	return w.Flush()
}
