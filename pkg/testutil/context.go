package testutil

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"dsledger/pkg/requestcontext"
)

// WithActor authenticates req as actor, the way the auth middleware would
// after validating a bearer token.
func WithActor(req *http.Request, actor common.Address) *http.Request {
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithRequestTime pins the request time, as the request-time middleware would.
func WithRequestTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
