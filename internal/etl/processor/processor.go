package processor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/event"
)

// Publisher enqueues movie submissions for the ingest worker.
type Publisher interface {
	PublishMovieSubmitted(ctx context.Context, correlationID, eventID string, submission *event.MovieSubmission) error
}

// Summary reports the outcome of an ETL run.
type Summary struct {
	FilesSeen int
	Published int
	Failed    int
}

// Processor walks a directory tree of movie JSON files and publishes each
// valid file to the submission queue. Event IDs are derived from the file
// content, so re-running the loader over the same tree republishes the same
// IDs and the pipeline's deduplication collapses them.
type Processor struct {
	publisher Publisher
	logger    *slog.Logger
}

// New creates a new ETL processor.
func New(publisher Publisher, logger *slog.Logger) *Processor {
	return &Processor{
		publisher: publisher,
		logger:    logger,
	}
}

// movieFile is the on-disk JSON document shape.
type movieFile struct {
	Title  string  `json:"title"`
	Genre  string  `json:"genre"`
	Rating float64 `json:"rating"`
	Year   int     `json:"year"`
}

// Run walks the directory tree rooted at sourceDir and publishes every
// .json file found. Individual file failures are logged and counted but do
// not stop the run.
func (p *Processor) Run(ctx context.Context, sourceDir string) (*Summary, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %q is not a directory", sourceDir)
	}

	summary := &Summary{}

	err = filepath.WalkDir(sourceDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			p.logger.Error("walk error, skipping",
				slog.String("path", path),
				slog.String("error", walkErr.Error()),
			)
			summary.Failed++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".json") {
			return nil
		}

		summary.FilesSeen++
		if err := p.processFile(ctx, path); err != nil {
			summary.Failed++
			p.logger.Error("failed to process file",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return nil
		}
		summary.Published++
		return nil
	})
	if err != nil {
		return summary, fmt.Errorf("walk %s: %w", sourceDir, err)
	}

	p.logger.Info("etl run complete",
		slog.Int("files_seen", summary.FilesSeen),
		slog.Int("published", summary.Published),
		slog.Int("failed", summary.Failed),
	)

	return summary, nil
}

func (p *Processor) processFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var doc movieFile
	if err := json.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("parse json: %w", err)
	}

	submission := &event.MovieSubmission{
		Title:  doc.Title,
		Genre:  doc.Genre,
		Rating: doc.Rating,
		Year:   doc.Year,
	}
	if err := validate(submission); err != nil {
		return err
	}

	id := contentID(submission)
	if err := p.publisher.PublishMovieSubmitted(ctx, id, id, submission); err != nil {
		return fmt.Errorf("publish: %w", err)
	}

	p.logger.Debug("file published",
		slog.String("path", path),
		slog.String("event_id", id),
		slog.String("title", submission.Title),
	)
	return nil
}

// contentID derives a deterministic event ID from the normalized submission
// fields. Formatting differences between files with the same payload do not
// change the ID.
func contentID(s *event.MovieSubmission) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00%g\x00%d", s.Title, s.Genre, s.Rating, s.Year)
	return "etl-" + hex.EncodeToString(h.Sum(nil))[:32]
}

func validate(s *event.MovieSubmission) error {
	if strings.TrimSpace(s.Title) == "" || len(s.Title) > 255 {
		return fmt.Errorf("title must be 1-255 characters")
	}
	if strings.TrimSpace(s.Genre) == "" || len(s.Genre) > 100 {
		return fmt.Errorf("genre must be 1-100 characters")
	}
	if s.Rating < 0 || s.Rating > 10 {
		return fmt.Errorf("rating must be between 0 and 10")
	}
	if s.Year < 1900 || s.Year > 2100 {
		return fmt.Errorf("year must be between 1900 and 2100")
	}
	return nil
}
