package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	dErrors "dsledger/pkg/domain-errors"
	"dsledger/pkg/platform/httputil"
	"dsledger/pkg/requestcontext"
)

// JWTValidator validates a raw bearer token.
type JWTValidator interface {
	ValidateToken(tokenString string) (*JWTClaims, error)
}

// JWTClaims is what the middleware needs from a validated token.
type JWTClaims struct {
	Actor common.Address
	JTI   string
}

// RequireAuth resolves the bearer token to the acting wallet and stores it
// in the request context. Every failure answers 401 unauthorized.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			claims, err := authenticate(validator, r.Header.Get("Authorization"))
			if err != nil {
				logger.WarnContext(ctx, "rejected bearer token",
					"error", err,
					"client_ip", requestcontext.ClientIP(ctx),
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}
			logger.DebugContext(ctx, "authenticated",
				"actor", claims.Actor.Hex(),
				"jti", claims.JTI,
				"request_id", requestcontext.RequestID(ctx),
			)
			next.ServeHTTP(w, r.WithContext(requestcontext.WithActor(ctx, claims.Actor)))
		})
	}
}

func authenticate(validator JWTValidator, header string) (*JWTClaims, error) {
	scheme, token, _ := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header")
	}
	claims, err := validator.ValidateToken(token)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnauthorized, "Invalid or expired token")
	}
	if claims.Actor == (common.Address{}) {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Token does not name an actor")
	}
	return claims, nil
}
