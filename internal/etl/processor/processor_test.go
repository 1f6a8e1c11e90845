package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jasondotparse/movie-library-explorer/internal/catalog/event"
)

type fakePublisher struct {
	mu       sync.Mutex
	eventIDs []string
	titles   []string
	err      error
}

func (f *fakePublisher) PublishMovieSubmitted(_ context.Context, correlationID, eventID string, s *event.MovieSubmission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.eventIDs = append(f.eventIDs, eventID)
	f.titles = append(f.titles, s.Title)
	return nil
}

func newProcessor(pub *fakePublisher) *Processor {
	return New(pub, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRun_PublishesJSONFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "classics")
	require.NoError(t, os.Mkdir(sub, 0o755))

	writeFile(t, dir, "heat.json", `{"title":"Heat","genre":"Crime","rating":8.3,"year":1995}`)
	writeFile(t, sub, "alien.json", `{"title":"Alien","genre":"Horror","rating":8.5,"year":1979}`)
	writeFile(t, dir, "notes.txt", "not a movie")

	pub := &fakePublisher{}
	summary, err := newProcessor(pub).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesSeen)
	assert.Equal(t, 2, summary.Published)
	assert.Zero(t, summary.Failed)
	assert.ElementsMatch(t, []string{"Heat", "Alien"}, pub.titles)
}

func TestRun_SameContentYieldsSameEventID(t *testing.T) {
	dir := t.TempDir()
	// Same payload, different formatting and file names.
	writeFile(t, dir, "a.json", `{"title":"Heat","genre":"Crime","rating":8.3,"year":1995}`)
	writeFile(t, dir, "b.json", `{"year":1995,  "rating":8.3,"genre":"Crime","title":"Heat"}`)

	pub := &fakePublisher{}
	_, err := newProcessor(pub).Run(context.Background(), dir)
	require.NoError(t, err)

	require.Len(t, pub.eventIDs, 2)
	assert.Equal(t, pub.eventIDs[0], pub.eventIDs[1])
}

func TestRun_BadFilesCountedNotFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"title":"Heat","genre":"Crime","rating":8.3,"year":1995}`)
	writeFile(t, dir, "broken.json", `{not json`)
	writeFile(t, dir, "invalid.json", `{"title":"","genre":"Crime","rating":8.3,"year":1995}`)

	pub := &fakePublisher{}
	summary, err := newProcessor(pub).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.FilesSeen)
	assert.Equal(t, 1, summary.Published)
	assert.Equal(t, 2, summary.Failed)
}

func TestRun_PublishFailureCounted(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "heat.json", `{"title":"Heat","genre":"Crime","rating":8.3,"year":1995}`)

	pub := &fakePublisher{err: errors.New("broker unreachable")}
	summary, err := newProcessor(pub).Run(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Failed)
	assert.Zero(t, summary.Published)
}

func TestRun_MissingDirectory(t *testing.T) {
	pub := &fakePublisher{}
	_, err := newProcessor(pub).Run(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

func TestRun_SourceIsFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "heat.json", `{}`)

	pub := &fakePublisher{}
	_, err := newProcessor(pub).Run(context.Background(), filepath.Join(dir, "heat.json"))
	assert.Error(t, err)
}

func TestContentID_Deterministic(t *testing.T) {
	s := &event.MovieSubmission{Title: "Heat", Genre: "Crime", Rating: 8.3, Year: 1995}
	assert.Equal(t, contentID(s), contentID(s))
	assert.Contains(t, contentID(s), "etl-")

	other := &event.MovieSubmission{Title: "Heat", Genre: "Crime", Rating: 8.3, Year: 1996}
	assert.NotEqual(t, contentID(s), contentID(other))
}
