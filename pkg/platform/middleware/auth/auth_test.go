package auth

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"dsledger/pkg/requestcontext"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) { return s.claims, s.err }

func TestRequireAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	actor := common.HexToAddress("0x00000000000000000000000000000000000000a1")

	var seen common.Address
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.Actor(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name      string
		header    string
		validator stubValidator
		status    int
		desc      string
	}{
		{"missing header", "", stubValidator{}, http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"wrong scheme", "Basic abc", stubValidator{}, http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"empty bearer", "Bearer   ", stubValidator{}, http.StatusUnauthorized, "Missing or invalid Authorization header"},
		{"invalid token", "Bearer bad", stubValidator{err: errors.New("bad")}, http.StatusUnauthorized, "Invalid or expired token"},
		{"token without actor", "Bearer good", stubValidator{claims: &JWTClaims{}}, http.StatusUnauthorized, "Token does not name an actor"},
		{"valid token", "Bearer good", stubValidator{claims: &JWTClaims{Actor: actor, JTI: "t-1"}}, http.StatusNoContent, ""},
		{"scheme is case insensitive", "bearer good", stubValidator{claims: &JWTClaims{Actor: actor}}, http.StatusNoContent, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			seen = common.Address{}
			req := httptest.NewRequest(http.MethodGet, "/token", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			RequireAuth(tc.validator, logger)(next).ServeHTTP(rr, req)

			assert.Equal(t, tc.status, rr.Code)
			if tc.status == http.StatusNoContent {
				assert.Equal(t, actor, seen)
			} else {
				assert.JSONEq(t, `{"error":"unauthorized","error_description":"`+tc.desc+`"}`, rr.Body.String())
			}
		})
	}
}
