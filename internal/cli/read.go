package cli

import (
	"github.com/spf13/cobra"

	"github.com/jasondotparse/movie-library-explorer/internal/client"
)

var searchCmd = &cobra.Command{
	Use:   "search <title>",
	Short: "Search movies by title substring",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		movies, err := newClient().SearchMovies(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return client.RenderMovies(cmd.OutOrStdout(), movies)
	},
}

var (
	filterGenres    []string
	filterMinRating float64
	filterYear      int
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "List movies matching genre, rating, and year criteria",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := client.FilterParams{Genres: filterGenres}
		if cmd.Flags().Changed("min-rating") {
			params.MinRating = &filterMinRating
		}
		if cmd.Flags().Changed("year") {
			params.Year = &filterYear
		}

		result, err := newClient().FilterMovies(cmd.Context(), params)
		if err != nil {
			return err
		}
		return client.RenderMovies(cmd.OutOrStdout(), result.Movies)
	},
}

var (
	topRatedStart int
	topRatedLimit int
)

var topRatedCmd = &cobra.Command{
	Use:   "top-rated",
	Short: "List movies ordered by rating",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, err := newClient().TopRatedMovies(cmd.Context(), topRatedStart, topRatedLimit)
		if err != nil {
			return err
		}
		return client.RenderTopRatedPage(cmd.OutOrStdout(), page)
	},
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show aggregate catalog statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		summary, err := newClient().Dashboard(cmd.Context())
		if err != nil {
			return err
		}
		return client.RenderDashboard(cmd.OutOrStdout(), summary)
	},
}

func init() {
	filterCmd.Flags().StringSliceVar(&filterGenres, "genre", nil, "genre to include (repeatable)")
	filterCmd.Flags().Float64Var(&filterMinRating, "min-rating", 0, "minimum rating, 0 to 10")
	filterCmd.Flags().IntVar(&filterYear, "year", 0, "release year")

	topRatedCmd.Flags().IntVar(&topRatedStart, "start", 0, "offset into the listing")
	topRatedCmd.Flags().IntVar(&topRatedLimit, "limit", 10, "page size, 1 to 100")

	rootCmd.AddCommand(searchCmd, filterCmd, topRatedCmd, dashboardCmd)
}
