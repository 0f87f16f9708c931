package outbox

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"dsledger/internal/platform/kafka/producer"
	"dsledger/pkg/platform/circuit"
)

// Source hands out batches of unpublished entries. publish runs while the
// batch is locked; the batch is marked published only if it returns nil.
type Source interface {
	ProcessOutbox(ctx context.Context, limit int, publish func(context.Context, []Entry) error) (int, error)
}

// Sink publishes messages to the audit stream.
type Sink interface {
	Publish(ctx context.Context, msgs ...producer.Message) error
}

// Relay moves outbox entries to Kafka. Delivery is at least once: a crash
// between publishing and marking replays the batch, so consumers dedupe by
// event ID.
type Relay struct {
	source    Source
	sink      Sink
	topic     string
	batchSize int
	interval  time.Duration
	breaker   *circuit.Breaker
	logger    *slog.Logger
	metrics   *relayMetrics
}

type Option func(*Relay)

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(r *Relay) {
		r.breaker = b
	}
}

func WithRegisterer(reg prometheus.Registerer) Option {
	return func(r *Relay) {
		r.metrics = newRelayMetrics(reg)
	}
}

func NewRelay(source Source, sink Sink, topic string, opts ...Option) *Relay {
	r := &Relay{
		source:    source,
		sink:      sink,
		topic:     topic,
		batchSize: 100,
		interval:  time.Second,
		breaker:   circuit.New("audit-relay"),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run relays until ctx is cancelled. While the breaker is open the relay
// backs off to a slower poll instead of hammering the broker.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	skip := 0
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
		if skip > 0 {
			skip--
			continue
		}
		for {
			n, err := r.RelayOnce(ctx)
			if err != nil {
				if r.breaker.IsOpen() {
					skip = 10
				}
				break
			}
			if n < r.batchSize {
				break
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many entries it moved.
func (r *Relay) RelayOnce(ctx context.Context) (int, error) {
	n, err := r.source.ProcessOutbox(ctx, r.batchSize, r.publish)
	if err != nil {
		_, change := r.breaker.RecordFailure()
		if change.Opened {
			r.logger.WarnContext(ctx, "audit relay circuit opened", "error", err)
		} else {
			r.logger.ErrorContext(ctx, "audit relay batch failed", "error", err)
		}
		r.metrics.failed()
		return 0, err
	}
	if _, change := r.breaker.RecordSuccess(); change.Closed {
		r.logger.InfoContext(ctx, "audit relay circuit closed")
	}
	r.metrics.published(n)
	return n, nil
}

func (r *Relay) publish(ctx context.Context, entries []Entry) error {
	msgs := make([]producer.Message, len(entries))
	for i, e := range entries {
		msgs[i] = producer.Message{
			Topic: r.topic,
			Key:   []byte(e.AggregateID),
			Value: e.Payload,
			Headers: map[string]string{
				"event_type": e.EventType,
				"outbox_id":  e.ID.String(),
			},
		}
	}
	return r.sink.Publish(ctx, msgs...)
}

type relayMetrics struct {
	publishedTotal prometheus.Counter
	failuresTotal  prometheus.Counter
}

func newRelayMetrics(reg prometheus.Registerer) *relayMetrics {
	f := promauto.With(reg)
	return &relayMetrics{
		publishedTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_audit_relay_published_total",
			Help: "Outbox entries published to the audit stream",
		}),
		failuresTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "ledger_audit_relay_failures_total",
			Help: "Outbox batches that failed to publish",
		}),
	}
}

func (m *relayMetrics) published(n int) {
	if m == nil {
		return
	}
	m.publishedTotal.Add(float64(n))
}

func (m *relayMetrics) failed() {
	if m == nil {
		return
	}
	m.failuresTotal.Inc()
}
