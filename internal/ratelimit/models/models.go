package models

import (
	"net/http"
	"time"
)

// EndpointClass groups routes that share a request budget.
type EndpointClass string

const (
	// ClassRead covers views.
	ClassRead EndpointClass = "read"
	// ClassWrite covers every state-changing ledger call.
	ClassWrite EndpointClass = "write"
)

// ClassFor classifies a request by method. POSTs to the dry-run check routes
// count as writes.
func ClassFor(method string) EndpointClass {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return ClassRead
	default:
		return ClassWrite
	}
}

// Limit is a request budget over a sliding window. A non-positive Requests
// disables limiting for the class.
type Limit struct {
	Requests int
	Window   time.Duration
}

func (l Limit) Enabled() bool {
	return l.Requests > 0 && l.Window > 0
}

// RateLimitResult is the outcome of one Allow call.
type RateLimitResult struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAt    time.Time
	RetryAfter int // seconds; set when denied
}

// RateLimitExceededResponse is the API response when a budget is exhausted.
type RateLimitExceededResponse struct {
	Error      string `json:"error"`
	Message    string `json:"message"`
	RetryAfter int    `json:"retry_after"`
}
