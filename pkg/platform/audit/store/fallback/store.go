package fallback

import (
	"context"
	"log/slog"

	audit "dsledger/pkg/platform/audit"
	"dsledger/pkg/platform/circuit"
)

// Store writes to a primary store and diverts to a fallback while the
// primary keeps failing. The primary is still tried on every append so the
// breaker can observe recovery.
type Store struct {
	primary  audit.Store
	fallback audit.Store
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func New(primary, fallback audit.Store, breaker *circuit.Breaker, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (s *Store) Append(ctx context.Context, event audit.Event) error {
	err := s.primary.Append(ctx, event)
	if err == nil {
		usePrimary, change := s.breaker.RecordSuccess()
		if change.Closed {
			s.logger.InfoContext(ctx, "audit store recovered", "breaker", s.breaker.Name())
		}
		if !usePrimary {
			// Still half-trusted: keep the fallback copy complete as well.
			return s.fallback.Append(ctx, event)
		}
		return nil
	}

	useFallback, change := s.breaker.RecordFailure()
	if change.Opened {
		s.logger.WarnContext(ctx, "audit store failing, using fallback",
			"breaker", s.breaker.Name(),
			"error", err,
		)
	}
	if !useFallback {
		return err
	}
	return s.fallback.Append(ctx, event)
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]audit.Event, error) {
	return s.lister().ListRecent(ctx, limit)
}

func (s *Store) ListBySubject(ctx context.Context, addr string) ([]audit.Event, error) {
	return s.lister().ListBySubject(ctx, addr)
}

// lister reads from the primary while it is healthy.
func (s *Store) lister() audit.Lister {
	if !s.breaker.IsOpen() {
		if l, ok := s.primary.(audit.Lister); ok {
			return l
		}
	}
	if l, ok := s.fallback.(audit.Lister); ok {
		return l
	}
	return emptyLister{}
}

type emptyLister struct{}

func (emptyLister) ListRecent(context.Context, int) ([]audit.Event, error) { return nil, nil }

func (emptyLister) ListBySubject(context.Context, string) ([]audit.Event, error) {
	return nil, nil
}
