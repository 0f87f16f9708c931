package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"dsledger/internal/idempotency/store/memory"
	"dsledger/pkg/requestcontext"
)

type brokenStore struct{}

func (brokenStore) Reserve(context.Context, string, time.Duration) error {
	return errors.New("redis: connection refused")
}
func (brokenStore) Release(context.Context, string) error { return nil }

type IdempotencySuite struct {
	suite.Suite
	calls  int
	status int
	h      http.Handler
}

func TestIdempotencySuite(t *testing.T) {
	suite.Run(t, new(IdempotencySuite))
}

func (s *IdempotencySuite) SetupTest() {
	s.calls = 0
	s.status = http.StatusOK
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mw := New(memory.New(), time.Hour, logger)
	s.h = mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s.calls++
		w.WriteHeader(s.status)
	}))
}

func (s *IdempotencySuite) do(method, path, key string, actor common.Address) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	req = req.WithContext(requestcontext.WithActor(req.Context(), actor))
	rr := httptest.NewRecorder()
	s.h.ServeHTTP(rr, req)
	return rr
}

var (
	issuer = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	other  = common.HexToAddress("0x00000000000000000000000000000000000000b2")
)

func (s *IdempotencySuite) TestReplayIsRejected() {
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/token/issue", "abc", issuer).Code)

	rr := s.do(http.MethodPost, "/token/issue", "abc", issuer)
	s.Equal(http.StatusConflict, rr.Code)
	s.JSONEq(`{"error":"conflict","error_description":"Idempotency-Key already used"}`, rr.Body.String())
	s.Equal(1, s.calls)
}

func (s *IdempotencySuite) TestKeysAreScopedToActorAndRoute() {
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/token/issue", "abc", issuer).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/token/issue", "abc", other).Code)
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/token/burn", "abc", issuer).Code)
	s.Equal(3, s.calls)
}

func (s *IdempotencySuite) TestFailedRequestReleasesKey() {
	s.status = http.StatusConflict
	s.Equal(http.StatusConflict, s.do(http.MethodPost, "/token/issue", "abc", issuer).Code)

	s.status = http.StatusOK
	s.Equal(http.StatusOK, s.do(http.MethodPost, "/token/issue", "abc", issuer).Code)
	s.Equal(2, s.calls)
}

func (s *IdempotencySuite) TestPassThrough() {
	s.do(http.MethodPost, "/token/issue", "", issuer)
	s.do(http.MethodPost, "/token/issue", "", issuer)
	s.do(http.MethodGet, "/token", "abc", issuer)
	s.do(http.MethodGet, "/token", "abc", issuer)
	s.Equal(4, s.calls)
}

func (s *IdempotencySuite) TestKeyTooLong() {
	rr := s.do(http.MethodPost, "/token/issue", strings.Repeat("k", maxKeyLength+1), issuer)
	s.Equal(http.StatusBadRequest, rr.Code)
	s.Zero(s.calls)
}

func TestStoreFailureFailsClosed(t *testing.T) {
	calls := 0
	mw := New(brokenStore{}, time.Hour, slog.New(slog.NewTextHandler(io.Discard, nil)))
	h := mw.Handler(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls++ }))

	req := httptest.NewRequest(http.MethodPost, "/token/issue", nil)
	req.Header.Set(HeaderIdempotencyKey, "abc")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Zero(t, calls)
}
