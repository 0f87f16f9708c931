// Package httptransport assembles the HTTP surface: the middleware chain,
// operational endpoints, and the authenticated ledger routes.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"dsledger/pkg/platform/httputil"
	"dsledger/pkg/platform/middleware/auth"
	"dsledger/pkg/platform/middleware/metadata"
	"dsledger/pkg/platform/middleware/request"
	"dsledger/pkg/platform/middleware/requesttime"
)

const (
	defaultRequestTimeout = 30 * time.Second
	healthCheckTimeout    = 2 * time.Second
)

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouteRegistrar mounts a module's routes.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// Deps are the collaborators the router is built from. RateLimit,
// Idempotency, Metrics and HealthChecks are optional.
type Deps struct {
	Logger       *slog.Logger
	Validator    auth.JWTValidator
	Ledger       RouteRegistrar
	RateLimit    func(http.Handler) http.Handler
	Idempotency  func(http.Handler) http.Handler
	Metrics      http.Handler
	HealthChecks map[string]HealthCheck
	Clock        func() time.Time
}

// NewRouter wires every public endpoint. Operational endpoints are
// unauthenticated; ledger routes require a bearer token.
func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(request.RequestID)
	r.Use(request.Recovery(logger))
	r.Use(request.Logger(logger))
	r.Use(metadata.ClientMetadata)
	if d.Clock != nil {
		r.Use(requesttime.MiddlewareWithClock(d.Clock))
	} else {
		r.Use(requesttime.Middleware)
	}

	r.Get("/health", healthHandler(d.HealthChecks))
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(defaultRequestTimeout))
		r.Use(chimw.AllowContentType("application/json"))
		r.Use(auth.RequireAuth(d.Validator, logger))
		if d.RateLimit != nil {
			r.Use(d.RateLimit)
		}
		if d.Idempotency != nil {
			r.Use(d.Idempotency)
		}
		d.Ledger.Register(r)
	})

	return r
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// healthHandler runs every check and answers 503 when any of them fails.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok"}
		status := http.StatusOK
		if len(names) > 0 {
			resp.Checks = make(map[string]string, len(names))
		}
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				resp.Checks[name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[name] = "ok"
		}
		httputil.WriteJSON(w, status, resp)
	}
}
