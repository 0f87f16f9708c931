package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	dErrors "dsledger/pkg/domain-errors"
	"dsledger/pkg/platform/httputil"
	"dsledger/pkg/platform/sentinel"
	"dsledger/pkg/requestcontext"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	maxKeyLength         = 255
)

// Store reserves keys. Reserve returns sentinel.ErrConflict for a live key.
type Store interface {
	Reserve(ctx context.Context, key string, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

type Middleware struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
}

func New(store Store, ttl time.Duration, logger *slog.Logger) *Middleware {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Middleware{store: store, ttl: ttl, logger: logger}
}

// Handler rejects a replayed Idempotency-Key on mutating requests with a
// conflict. A request that fails (status >= 400) releases its key so the
// caller can retry once the cause is fixed. Requests without the header pass
// through.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimSpace(r.Header.Get(HeaderIdempotencyKey))
		if key == "" || !mutating(r.Method) {
			next.ServeHTTP(w, r)
			return
		}
		if len(key) > maxKeyLength {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "Idempotency-Key is too long"))
			return
		}

		ctx := r.Context()
		scoped := scopedKey(r, key)
		if err := m.store.Reserve(ctx, scoped, m.ttl); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				m.logger.InfoContext(ctx, "idempotency key replayed",
					"request_id", requestcontext.RequestID(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeConflict, "Idempotency-Key already used"))
				return
			}
			m.logger.ErrorContext(ctx, "failed to reserve idempotency key",
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
			httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "idempotency store unavailable"))
			return
		}

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		if ww.Status() >= http.StatusBadRequest {
			if err := m.store.Release(context.WithoutCancel(ctx), scoped); err != nil {
				m.logger.WarnContext(ctx, "failed to release idempotency key",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
			}
		}
	})
}

func mutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

// scopedKey binds the client's key to the caller and route so two callers
// cannot collide on the same key.
func scopedKey(r *http.Request, key string) string {
	return requestcontext.Actor(r.Context()).Hex() + ":" + r.Method + ":" + r.URL.Path + ":" + key
}
