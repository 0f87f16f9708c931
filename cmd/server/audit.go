package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/jackc/pgx/v5/stdlib"

	"dsledger/internal/platform/config"
	"dsledger/internal/platform/kafka/producer"
	"dsledger/internal/platform/metrics"
	httptransport "dsledger/internal/transport/http"
	"dsledger/pkg/platform/audit"
	"dsledger/pkg/platform/audit/outbox"
	"dsledger/pkg/platform/audit/store/fallback"
	auditmemory "dsledger/pkg/platform/audit/store/memory"
	auditpostgres "dsledger/pkg/platform/audit/store/postgres"
	"dsledger/pkg/platform/circuit"
)

const (
	auditTopicPartitions  = 3
	auditTopicReplication = 1
)

// auditPipeline is where ledger audit events end up: memory only, Postgres
// with an in-memory fallback, and optionally a Kafka relay draining the
// Postgres outbox.
type auditPipeline struct {
	store   audit.Store
	relay   *outbox.Relay
	checks  map[string]httptransport.HealthCheck
	closers []func()
}

func (p *auditPipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
}

func buildAuditPipeline(ctx context.Context, cfg config.Config, log *slog.Logger, reg *metrics.Registry) (*auditPipeline, error) {
	memory := auditmemory.NewInMemoryStore()
	p := &auditPipeline{store: memory, checks: map[string]httptransport.HealthCheck{}}

	if cfg.Database.URL == "" {
		if len(cfg.Kafka.Brokers) > 0 {
			log.Warn("KAFKA_BROKERS ignored: the audit relay reads the Postgres outbox and DATABASE_URL is not set")
		}
		log.Warn("DATABASE_URL not set; audit events are kept in memory")
		return p, nil
	}

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	p.closers = append(p.closers, func() { _ = db.Close() })
	if err := db.PingContext(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	pg := auditpostgres.New(db)
	if err := pg.Migrate(ctx); err != nil {
		p.Close()
		return nil, fmt.Errorf("migrating audit schema: %w", err)
	}
	p.store = fallback.New(pg, memory, circuit.New("audit-postgres"), log)
	p.checks["postgres"] = db.PingContext

	if len(cfg.Kafka.Brokers) == 0 {
		log.Info("KAFKA_BROKERS not set; audit outbox is not relayed")
		return p, nil
	}

	prod, err := producer.New(producer.Config{
		Brokers:  cfg.Kafka.Brokers,
		ClientID: cfg.Kafka.ClientID,
	})
	if err != nil {
		p.Close()
		return nil, err
	}
	p.closers = append(p.closers, prod.Close)
	if err := prod.EnsureTopic(ctx, cfg.Kafka.AuditTopic, auditTopicPartitions, auditTopicReplication); err != nil {
		p.Close()
		return nil, fmt.Errorf("creating audit topic: %w", err)
	}

	p.relay = outbox.NewRelay(pg, prod, cfg.Kafka.AuditTopic,
		outbox.WithLogger(log),
		outbox.WithInterval(cfg.Kafka.RelayInterval),
		outbox.WithBreaker(circuit.New("audit-kafka")),
		outbox.WithRegisterer(reg),
	)
	p.checks["kafka"] = prod.Ping
	log.Info("audit outbox relay enabled", "topic", cfg.Kafka.AuditTopic, "brokers", cfg.Kafka.Brokers)
	return p, nil
}
