package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/auth"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

// RequirePermission gates a route group on one capability.
func RequirePermission(p user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}
			if err := actor.Require(p); err != nil {
				response.HandleError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
