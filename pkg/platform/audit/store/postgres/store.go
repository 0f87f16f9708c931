package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	audit "dsledger/pkg/platform/audit"
	"dsledger/pkg/platform/audit/outbox"
	txcontext "dsledger/pkg/platform/tx"
)

//go:embed schema.sql
var schema string

// Store implements audit.Store using the transactional outbox pattern.
// Each event is written to ledger_audit_events for querying and to the
// outbox table in the same transaction; the outbox relay publishes it to
// Kafka.
type Store struct {
	db *sql.DB
}

// New creates a new PostgreSQL audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the audit tables when they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply audit schema: %w", err)
	}
	return nil
}

// outboxPayload is the JSON structure published to Kafka.
type outboxPayload struct {
	ID         string   `json:"id"`
	Category   string   `json:"category"`
	Timestamp  string   `json:"timestamp"`
	Action     string   `json:"action"`
	Actor      string   `json:"actor,omitempty"`
	Subjects   []string `json:"subjects,omitempty"`
	InvestorID string   `json:"investor_id,omitempty"`
	Amount     string   `json:"amount,omitempty"`
	Outcome    string   `json:"outcome"`
	Reason     string   `json:"reason,omitempty"`
	RequestID  string   `json:"request_id,omitempty"`
}

// Append writes the event and its outbox entry atomically.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Category == "" {
		event.Category = audit.AuditEvent(event.Action).Category()
	}
	if event.Subjects == nil {
		event.Subjects = []string{}
	}

	payload, err := json.Marshal(outboxPayload{
		ID:         event.ID.String(),
		Category:   string(event.Category),
		Timestamp:  event.Timestamp.UTC().Format(time.RFC3339Nano),
		Action:     event.Action,
		Actor:      event.Actor,
		Subjects:   event.Subjects,
		InvestorID: event.InvestorID,
		Amount:     event.Amount,
		Outcome:    string(event.Outcome),
		Reason:     event.Reason,
		RequestID:  event.RequestID,
	})
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	aggregateType := "token"
	aggregateID := "token"
	if len(event.Subjects) > 0 {
		aggregateType = "wallet"
		aggregateID = event.Subjects[0]
	}

	return txcontext.Run(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO ledger_audit_events (
				id, category, timestamp, action, actor, subjects,
				investor_id, amount, outcome, reason, request_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO NOTHING
		`,
			event.ID,
			string(event.Category),
			event.Timestamp,
			event.Action,
			event.Actor,
			pq.Array(event.Subjects),
			event.InvestorID,
			event.Amount,
			string(event.Outcome),
			event.Reason,
			event.RequestID,
		)
		if err != nil {
			return fmt.Errorf("insert audit event: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO outbox (id, aggregate_type, aggregate_id, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`,
			uuid.New(),
			aggregateType,
			aggregateID,
			event.Action,
			payload,
			time.Now(),
		)
		if err != nil {
			return fmt.Errorf("insert outbox entry: %w", err)
		}
		return nil
	})
}

const selectEvents = `
	SELECT id, category, timestamp, action, actor, subjects,
		   investor_id, amount, outcome, reason, request_id
	FROM ledger_audit_events
`

// ListRecent returns the newest limit events, oldest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	if limit <= 0 {
		rows, err := s.db.QueryContext(ctx, selectEvents+` ORDER BY seq`)
		if err != nil {
			return nil, fmt.Errorf("query audit events: %w", err)
		}
		defer rows.Close()
		return scanEvents(rows)
	}

	rows, err := s.db.QueryContext(ctx, selectEvents+` ORDER BY seq DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	events, err := scanEvents(rows)
	if err != nil {
		return nil, err
	}
	slices.Reverse(events)
	return events, nil
}

// ListBySubject returns events whose actor or subjects include addr.
func (s *Store) ListBySubject(ctx context.Context, addr string) ([]audit.Event, error) {
	rows, err := s.db.QueryContext(ctx, selectEvents+`
		WHERE actor = $1 OR $1 = ANY(subjects)
		ORDER BY seq
	`, addr)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()
	return scanEvents(rows)
}

func scanEvents(rows *sql.Rows) ([]audit.Event, error) {
	var events []audit.Event
	for rows.Next() {
		var (
			event    audit.Event
			category string
			outcome  string
		)
		err := rows.Scan(
			&event.ID,
			&category,
			&event.Timestamp,
			&event.Action,
			&event.Actor,
			pq.Array(&event.Subjects),
			&event.InvestorID,
			&event.Amount,
			&outcome,
			&event.Reason,
			&event.RequestID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		event.Category = audit.EventCategory(category)
		event.Outcome = audit.Outcome(outcome)
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit events: %w", err)
	}
	return events, nil
}

// ProcessOutbox locks up to limit unpublished entries, hands them to publish
// and marks them published when it succeeds. Entries locked by another relay
// are skipped. It returns how many entries were published.
func (s *Store) ProcessOutbox(ctx context.Context, limit int, publish func(context.Context, []outbox.Entry) error) (int, error) {
	var published int
	err := txcontext.Run(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `
			SELECT id, aggregate_id, event_type, payload, created_at
			FROM outbox
			WHERE published_at IS NULL
			ORDER BY seq
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		`, limit)
		if err != nil {
			return fmt.Errorf("query outbox: %w", err)
		}
		var entries []outbox.Entry
		for rows.Next() {
			var e outbox.Entry
			if err := rows.Scan(&e.ID, &e.AggregateID, &e.EventType, &e.Payload, &e.CreatedAt); err != nil {
				rows.Close()
				return fmt.Errorf("scan outbox entry: %w", err)
			}
			entries = append(entries, e)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("iterate outbox: %w", err)
		}
		if len(entries) == 0 {
			return nil
		}

		if err := publish(ctx, entries); err != nil {
			return err
		}

		ids := make([]string, len(entries))
		for i, e := range entries {
			ids[i] = e.ID.String()
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE outbox SET published_at = $1 WHERE id = ANY($2::uuid[])`,
			time.Now(), pq.Array(ids),
		); err != nil {
			return fmt.Errorf("mark outbox published: %w", err)
		}
		published = len(entries)
		return nil
	})
	return published, err
}

// PendingOutbox counts entries not yet published.
func (s *Store) PendingOutbox(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx,
		`SELECT count(*) FROM outbox WHERE published_at IS NULL`,
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("count outbox: %w", err)
	}
	return n, nil
}
