package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	addTitle  string
	addGenre  string
	addRating float64
	addYear   int
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Submit a movie for ingestion",
	Long: `Submit a movie to the catalog. The movie is persisted asynchronously;
the printed ID correlates this submission with the eventual catalog entry.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ack, err := newClient().SubmitMovie(cmd.Context(), addTitle, addGenre, addRating, addYear)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\nsubmission id: %s\n", ack.Message, ack.ID)
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "movie title")
	addCmd.Flags().StringVar(&addGenre, "genre", "", "movie genre")
	addCmd.Flags().Float64Var(&addRating, "rating", 0, "rating, 0 to 10")
	addCmd.Flags().IntVar(&addYear, "year", 0, "release year, 1900 to 2100")
	_ = addCmd.MarkFlagRequired("title")
	_ = addCmd.MarkFlagRequired("genre")
	_ = addCmd.MarkFlagRequired("rating")
	_ = addCmd.MarkFlagRequired("year")

	rootCmd.AddCommand(addCmd)
}
