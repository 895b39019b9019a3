package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/auth"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type tokenKey struct{}

// AuthRequired rejects requests without a valid, unrevoked access token.
// It must run after jwtauth.Verifier.
func AuthRequired(jwtService jwt.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != jwt.TokenTypeAccess || !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			raw := jwtauth.TokenFromHeader(r)
			if raw == "" || jwtService.IsTokenRevoked(raw) {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			ctx := context.WithValue(r.Context(), tokenKey{}, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		}
		return http.HandlerFunc(hfn)
	}
}

// AccessToken returns the bearer token accepted by AuthRequired.
func AccessToken(ctx context.Context) string {
	raw, _ := ctx.Value(tokenKey{}).(string)
	return raw
}
