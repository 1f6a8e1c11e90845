// Package cli implements the moviectl command tree.
package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jasondotparse/movie-library-explorer/internal/client"
	apperrors "github.com/jasondotparse/movie-library-explorer/pkg/errors"
	"github.com/jasondotparse/movie-library-explorer/pkg/logger"
)

var (
	serverURL string
	authToken string
	timeout   time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "moviectl",
	Short: "Explore and extend the movie catalog",
	Long: `moviectl is a command line client for the movie catalog API.

It reads the catalog through the gateway (search, filter, top-rated,
dashboard) and submits new movies for asynchronous ingestion.

The server address and bearer token can also be set through the
MOVIECTL_SERVER and MOVIECTL_TOKEN environment variables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", friendlyError(err))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", envOr("MOVIECTL_SERVER", "http://localhost:8080"), "gateway base URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", os.Getenv("MOVIECTL_TOKEN"), "bearer token for authentication")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "request timeout")
}

func newClient() *client.Client {
	return client.New(client.Config{
		BaseURL: serverURL,
		Token:   authToken,
		Timeout: timeout,
	}, logger.New("moviectl", "error"))
}

// friendlyError rewrites common API failures into actionable messages.
func friendlyError(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return "authentication required: sign in and pass the token with --token or MOVIECTL_TOKEN"
	case errors.Is(err, apperrors.ErrForbidden):
		return "this token is not allowed to perform that operation"
	case errors.Is(err, apperrors.ErrServiceUnavail):
		return "the catalog service is unavailable, try again shortly"
	}
	return err.Error()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
