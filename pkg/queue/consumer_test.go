package queue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConsumer(handler Handler, maxRetries int) *Consumer {
	return &Consumer{
		handler:    handler,
		logger:     discardLogger(),
		topic:      "movies.catalog.submission_requested",
		maxRetries: maxRetries,
		backoff:    time.Millisecond,
	}
}

func eventMessage(t *testing.T) kafka.Message {
	t.Helper()
	ev, err := NewEvent("movie.submitted", "corr-1", "movie", "test", map[string]string{"k": "v"})
	require.NoError(t, err)
	value, err := ev.Marshal()
	require.NoError(t, err)
	return kafka.Message{Value: value}
}

func TestConsumerProcess_SuccessOnFirstAttempt(t *testing.T) {
	calls := 0
	c := testConsumer(func(context.Context, *Event) error {
		calls++
		return nil
	}, 3)

	c.process(context.Background(), eventMessage(t))
	assert.Equal(t, 1, calls)
}

func TestConsumerProcess_RetriesThenSucceeds(t *testing.T) {
	calls := 0
	c := testConsumer(func(context.Context, *Event) error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	}, 3)

	c.process(context.Background(), eventMessage(t))
	assert.Equal(t, 3, calls)
}

func TestConsumerProcess_StopsAfterMaxRetries(t *testing.T) {
	calls := 0
	c := testConsumer(func(context.Context, *Event) error {
		calls++
		return errors.New("permanent")
	}, 3)

	// No DLQ configured in this test; the poison message is dropped after
	// the final attempt.
	c.process(context.Background(), eventMessage(t))
	assert.Equal(t, 3, calls)
}

func TestConsumerProcess_MalformedEnvelopeNotRetried(t *testing.T) {
	calls := 0
	c := testConsumer(func(context.Context, *Event) error {
		calls++
		return nil
	}, 3)

	c.process(context.Background(), kafka.Message{Value: []byte("{not an envelope")})
	assert.Zero(t, calls)
}

func TestConsumerProcess_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	c := testConsumer(func(context.Context, *Event) error {
		calls++
		cancel()
		return errors.New("transient")
	}, 3)
	c.backoff = time.Hour

	msg := eventMessage(t)
	done := make(chan struct{})
	go func() {
		c.process(ctx, msg)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("process did not return after context cancellation")
	}
	assert.Equal(t, 1, calls)
}

func TestDLQTopic_Naming(t *testing.T) {
	assert.Equal(t, "movies.dlq.movies.catalog.submission_requested",
		DLQTopic("movies.catalog.submission_requested"))
}
