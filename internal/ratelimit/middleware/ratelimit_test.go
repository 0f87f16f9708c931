package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsledger/internal/ratelimit/models"
	"dsledger/internal/ratelimit/store/bucket"
	"dsledger/pkg/requestcontext"
)

var (
	alice = common.HexToAddress("0x00000000000000000000000000000000000000b1")
	bob   = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

type failingStore struct{}

func (failingStore) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("redis down")
}

func newMiddleware(store BucketStore, opts ...Option) *Middleware {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts = append([]Option{
		WithLimit(models.ClassWrite, models.Limit{Requests: 2, Window: time.Minute}),
		WithLimit(models.ClassRead, models.Limit{Requests: 5, Window: time.Minute}),
	}, opts...)
	return New(store, logger, opts...)
}

func serve(h http.Handler, method string, actor common.Address) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/token/transfer", nil)
	if actor != (common.Address{}) {
		req = req.WithContext(requestcontext.WithActor(req.Context(), actor))
	} else {
		req = req.WithContext(requestcontext.WithClientMetadata(req.Context(), "203.0.113.9", "test"))
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRateLimitPerActor(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newMiddleware(bucket.NewInMemoryBucketStore(), WithRegisterer(reg))
	h := m.RateLimit(okHandler)

	first := serve(h, http.MethodPost, alice)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, alice).Code)

	denied := serve(h, http.MethodPost, alice)
	require.Equal(t, http.StatusTooManyRequests, denied.Code)
	assert.NotEmpty(t, denied.Header().Get("Retry-After"))
	assert.Contains(t, denied.Body.String(), "rate_limit_exceeded")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejected.WithLabelValues("write")))

	assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, bob).Code, "other actors keep their own budget")
	assert.Equal(t, http.StatusOK, serve(h, http.MethodGet, alice).Code, "reads have a separate budget")
}

func TestRateLimitAnonymousByIP(t *testing.T) {
	h := newMiddleware(bucket.NewInMemoryBucketStore()).RateLimit(okHandler)

	serve(h, http.MethodPost, common.Address{})
	serve(h, http.MethodPost, common.Address{})
	assert.Equal(t, http.StatusTooManyRequests, serve(h, http.MethodPost, common.Address{}).Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	h := newMiddleware(failingStore{}).RateLimit(okHandler)

	for range 5 {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, alice).Code)
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := newMiddleware(bucket.NewInMemoryBucketStore(), WithDisabled(true)).RateLimit(okHandler)

	for range 5 {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, alice).Code)
	}
}

func TestRateLimitUnconfiguredClassPasses(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := New(bucket.NewInMemoryBucketStore(), logger).RateLimit(okHandler)

	for range 5 {
		assert.Equal(t, http.StatusOK, serve(h, http.MethodPost, alice).Code)
	}
}
