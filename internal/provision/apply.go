package provision

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/segmentio/kafka-go"

	"github.com/jasondotparse/movie-library-explorer/internal/provision/migrations"
	"github.com/jasondotparse/movie-library-explorer/pkg/database"
)

// Report summarizes what an Apply run changed.
type Report struct {
	TopicsCreated     []string
	TopicsExisting    []string
	MigrationsApplied int
}

// Applier provisions the topology against live infrastructure. Apply is
// idempotent: topics that already exist and migrations already recorded are
// skipped.
type Applier struct {
	brokers []string
	pool    *pgxpool.Pool
	logger  *slog.Logger
}

func NewApplier(brokers []string, pool *pgxpool.Pool, logger *slog.Logger) *Applier {
	return &Applier{brokers: brokers, pool: pool, logger: logger}
}

// Apply creates missing topics and runs pending schema migrations.
func (a *Applier) Apply(ctx context.Context, topo Topology) (*Report, error) {
	report := &Report{}

	if err := a.applyTopics(ctx, topo.Topics, report); err != nil {
		return report, err
	}

	applied, err := database.RunMigrationsWithReport(ctx, a.pool, migrations.Files, a.logger)
	if err != nil {
		return report, fmt.Errorf("run migrations: %w", err)
	}
	report.MigrationsApplied = applied

	return report, nil
}

func (a *Applier) applyTopics(ctx context.Context, specs []TopicSpec, report *Report) error {
	if len(specs) == 0 {
		return nil
	}

	conn, err := kafka.DialContext(ctx, "tcp", a.brokers[0])
	if err != nil {
		return fmt.Errorf("dial broker %s: %w", a.brokers[0], err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("resolve controller: %w", err)
	}

	controllerAddr := net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port))
	controllerConn, err := kafka.DialContext(ctx, "tcp", controllerAddr)
	if err != nil {
		return fmt.Errorf("dial controller %s: %w", controllerAddr, err)
	}
	defer controllerConn.Close()

	existing, err := existingTopics(controllerConn)
	if err != nil {
		return fmt.Errorf("list topics: %w", err)
	}

	var configs []kafka.TopicConfig
	for _, spec := range specs {
		if existing[spec.Name] {
			report.TopicsExisting = append(report.TopicsExisting, spec.Name)
			a.logger.Info("topic already exists", "topic", spec.Name)
			continue
		}
		configs = append(configs, kafka.TopicConfig{
			Topic:             spec.Name,
			NumPartitions:     spec.Partitions,
			ReplicationFactor: spec.ReplicationFactor,
		})
	}

	if len(configs) == 0 {
		return nil
	}

	if err := controllerConn.CreateTopics(configs...); err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	for _, cfg := range configs {
		report.TopicsCreated = append(report.TopicsCreated, cfg.Topic)
		a.logger.Info("topic created",
			"topic", cfg.Topic,
			"partitions", cfg.NumPartitions,
			"replication_factor", cfg.ReplicationFactor,
		)
	}
	return nil
}

func existingTopics(conn *kafka.Conn) (map[string]bool, error) {
	partitions, err := conn.ReadPartitions()
	if err != nil {
		return nil, err
	}
	topics := make(map[string]bool, len(partitions))
	for _, p := range partitions {
		topics[p.Topic] = true
	}
	return topics, nil
}
