// Package ledger is the compliance-gated token ledger: balances, time locks,
// the holder set, pause state, and the privileged operations that move them.
//
// A single read/write lock guards the trust registry, the identity registry,
// the compliance policy, and the balances together. Every mutating call takes
// the write lock for its whole duration, so a compliance check always sees the
// same snapshot as the mutation it gates. Each mutating call emits exactly one
// audit event, committed or rejected, before the lock is released.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/algorand/go-deadlock"
	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"dsledger/internal/compliance"
	"dsledger/internal/identity"
	"dsledger/internal/ledger/metrics"
	"dsledger/internal/trust"
	dErrors "dsledger/pkg/domain-errors"
	"dsledger/pkg/platform/audit"
	"dsledger/pkg/requestcontext"
)

// AuditPublisher receives one event per mutating call. Emit is called with the
// ledger lock held and must not block.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

type Ledger struct {
	mu deadlock.RWMutex

	trust      *trust.Registry
	identities *identity.Registry
	compliance *compliance.Engine
	st         *state
	meta       Metadata

	clock   func() time.Time
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
	tracer  trace.Tracer

	initialPolicy compliance.Policy
	engineOpts    []compliance.Option
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the time source used when the context carries no request time.
func WithClock(clock func() time.Time) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(l *Ledger) {
		l.metrics = m
	}
}

// WithAuditPublisher sets the sink for per-call audit events.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(l *Ledger) {
		l.auditor = p
	}
}

// WithPolicy sets the initial compliance policy.
func WithPolicy(p compliance.Policy) Option {
	return func(l *Ledger) {
		l.initialPolicy = p
	}
}

// WithComplianceOption forwards an option to the compliance engine.
func WithComplianceOption(opt compliance.Option) Option {
	return func(l *Ledger) {
		l.engineOpts = append(l.engineOpts, opt)
	}
}

// WithMetadata sets the token name, symbol and decimals.
func WithMetadata(meta Metadata) Option {
	return func(l *Ledger) {
		l.meta = meta
	}
}

// New creates a ledger whose trust registry is bootstrapped with owner as
// master.
func New(owner common.Address, opts ...Option) (*Ledger, error) {
	if owner == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "owner address is required")
	}
	l := &Ledger{
		trust:      trust.NewRegistry(owner),
		identities: identity.NewRegistry(),
		st:         newState(),
		meta:       Metadata{Name: "Digital Security", Symbol: "DST", Decimals: 18},
		clock:      time.Now,
		tracer:     otel.Tracer("dsledger/internal/ledger"),

		initialPolicy: compliance.DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if err := l.initialPolicy.Validate(); err != nil {
		return nil, err
	}
	if l.meta.Decimals < 0 || l.meta.Decimals > 36 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "decimals must be between 0 and 36")
	}
	engineOpts := append([]compliance.Option{compliance.WithPolicy(l.initialPolicy)}, l.engineOpts...)
	l.compliance = compliance.NewEngine(l.identities, engineOpts...)
	return l, nil
}

// now prefers the request-scoped time so a whole request observes one instant.
func (l *Ledger) now(ctx context.Context) time.Time {
	if requestcontext.HasTime(ctx) {
		return requestcontext.Now(ctx)
	}
	return l.clock()
}

// op describes one mutating call for tracing, metrics and audit.
type op struct {
	event      audit.AuditEvent
	caller     common.Address
	subjects   []common.Address
	investorID string
	amount     decimal.Decimal
	reason     string
	// describe, when set, supplies the reason of a committed call once fn
	// has run.
	describe   func() string
}

// mutate runs fn under the write lock and records the outcome. fn must either
// return an error before touching state or apply every change and return nil.
func (l *Ledger) mutate(ctx context.Context, o op, fn func(now time.Time) error) error {
	ctx, span := l.tracer.Start(ctx, "ledger."+o.event.String(), trace.WithAttributes(
		attribute.String("ledger.caller", o.caller.Hex()),
	))
	defer span.End()

	start := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now(ctx)
	err := fn(now)

	outcome := audit.OutcomeCommitted
	if err != nil {
		outcome = audit.OutcomeRejected
		code := string(dErrors.CodeOf(err))
		span.SetStatus(codes.Error, code)
		span.RecordError(err)
		l.metrics.IncrementRejection(o.event.String(), code)
	}
	l.metrics.ObserveOperation(o.event.String(), string(outcome), time.Since(start))
	l.metrics.SetSupply(l.st.holders.Len(), l.st.totalIssued.InexactFloat64(), l.st.paused)
	l.record(ctx, o, now, err)
	return err
}

// record logs the call and hands its audit event to the publisher.
func (l *Ledger) record(ctx context.Context, o op, now time.Time, err error) {
	event := audit.Event{
		ID:         uuid.New(),
		Category:   o.event.Category(),
		Timestamp:  now,
		Action:     o.event.String(),
		Actor:      o.caller.Hex(),
		InvestorID: o.investorID,
		Outcome:    audit.OutcomeCommitted,
		Reason:     o.reason,
		RequestID:  requestcontext.RequestID(ctx),
	}
	if o.describe != nil {
		event.Reason = o.describe()
	}
	for _, s := range o.subjects {
		event.Subjects = append(event.Subjects, s.Hex())
	}
	if !o.amount.IsZero() {
		event.Amount = o.amount.String()
	}
	if err != nil {
		event.Outcome = audit.OutcomeRejected
		event.Reason = dErrors.MessageOf(err)
		if event.Category == audit.CategoryOperations && dErrors.HasCode(err, dErrors.CodeForbidden) {
			event.Category = audit.CategorySecurity
		}
	}

	if l.logger != nil {
		attrs := []any{
			"event", event.Action,
			"log_type", "audit",
			"outcome", event.Outcome,
			"actor", event.Actor,
			"subjects", event.Subjects,
		}
		if event.Amount != "" {
			attrs = append(attrs, "amount", event.Amount)
		}
		if event.Reason != "" {
			attrs = append(attrs, "reason", event.Reason)
		}
		if event.RequestID != "" {
			attrs = append(attrs, "request_id", event.RequestID)
		}
		if err != nil {
			attrs = append(attrs, "code", dErrors.CodeOf(err))
		}
		l.logger.InfoContext(ctx, event.Action, attrs...)
	}

	if l.auditor == nil {
		return
	}
	if emitErr := l.auditor.Emit(context.WithoutCancel(ctx), event); emitErr != nil {
		l.metrics.IncrementAuditDropped()
		if l.logger != nil {
			l.logger.ErrorContext(ctx, "failed to emit audit event",
				"event", event.Action,
				"audit_id", event.ID,
				"error", emitErr,
			)
		}
	}
}

// requireRole checks caller's role under the lock.
func (l *Ledger) requireRole(caller common.Address, min trust.Role) error {
	return l.trust.Require(caller, min)
}

func requirePositive(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be greater than zero")
	}
	if !amount.Equal(amount.Truncate(0)) {
		return dErrors.New(dErrors.CodeInvalidInput, "amount must be a whole number of base units")
	}
	return nil
}
