package client

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/domain"
)

// RenderMovies writes a movie listing as an aligned text table.
func RenderMovies(w io.Writer, movies []domain.Movie) error {
	if len(movies) == 0 {
		_, err := fmt.Fprintln(w, "no movies found")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TITLE\tGENRE\tRATING\tYEAR")
	for _, m := range movies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", m.Title, m.Genre, formatRating(m.Rating), m.Year)
	}
	return tw.Flush()
}

// RenderTopRatedPage writes one page of the top-rated listing with a paging
// footer.
func RenderTopRatedPage(w io.Writer, page *TopRatedPage) error {
	if err := RenderMovies(w, page.Movies); err != nil {
		return err
	}
	p := page.Pagination
	if len(page.Movies) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "\nshowing %d-%d of %d", p.Start+1, p.Start+len(page.Movies), p.Total)
	if err != nil {
		return err
	}
	if p.HasMore {
		_, err = fmt.Fprintf(w, " (more available, next: --start %d)", p.Start+p.Limit)
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(w)
	return err
}

// RenderDashboard writes the aggregate catalog statistics.
func RenderDashboard(w io.Writer, summary *domain.DashboardSummary) error {
	fmt.Fprintf(w, "Total movies:   %d\n", summary.TotalMovies)
	fmt.Fprintf(w, "Average rating: %s\n", formatRating(summary.AverageRating))

	if len(summary.TopGenres) > 0 {
		fmt.Fprintln(w, "\nTop genres:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, g := range summary.TopGenres {
			fmt.Fprintf(tw, "  %s\t%d\n", g.Genre, g.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if len(summary.MoviesByYear) > 0 {
		fmt.Fprintln(w, "\nMovies by year:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, y := range summary.MoviesByYear {
			fmt.Fprintf(tw, "  %d\t%d\n", y.Year, y.Count)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	return nil
}

func formatRating(r float64) string {
	return strconv.FormatFloat(r, 'f', 1, 64)
}
