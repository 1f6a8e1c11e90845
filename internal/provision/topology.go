package provision

import (
	catalogevent "github.com/jasondotparse/movie-library-explorer/internal/catalog/event"
	"github.com/jasondotparse/movie-library-explorer/pkg/queue"
)

// TopicSpec describes one Kafka topic to provision.
type TopicSpec struct {
	Name              string
	Partitions        int
	ReplicationFactor int
}

// Topology is the declarative description of the infrastructure the
// application needs: queue topics plus the schema migrations. Applying the
// same topology twice produces no changes the second time.
type Topology struct {
	Topics []TopicSpec
}

// DefaultTopology returns the topology for the movie catalog pipeline: the
// submission topic and its dead letter topic.
func DefaultTopology() Topology {
	return Topology{
		Topics: []TopicSpec{
			{
				Name:              catalogevent.TopicMovieSubmitted,
				Partitions:        3,
				ReplicationFactor: 1,
			},
			{
				Name:              queue.DLQTopic(catalogevent.TopicMovieSubmitted),
				Partitions:        1,
				ReplicationFactor: 1,
			},
		},
	}
}
