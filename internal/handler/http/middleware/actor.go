package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/auth"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

type actorKey struct{}

// ActorLoader is the slice of the user repository the middleware needs.
type ActorLoader interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

// ResolveActor loads the token's user once per request. Role and active
// flag are read from the database, not from the token.
func ResolveActor(users ActorLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, err := loadActor(r, users)
			if err != nil {
				response.HandleError(w, err)
				return
			}
			if !actor.IsActive {
				response.HandleError(w, user.ErrAccountInactive)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// OptionalActor resolves the actor when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalActor(users ActorLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, _, err := jwtauth.FromContext(r.Context()); err == nil && token != nil {
				if actor, err := loadActor(r, users); err == nil && actor.IsActive {
					r = r.WithContext(WithActor(r.Context(), actor))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func loadActor(r *http.Request, users ActorLoader) (user.Actor, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Actor{}, auth.ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Actor{}, auth.ErrInvalidToken
	}

	u, err := users.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return user.Actor{}, auth.ErrInvalidToken
		}
		return user.Actor{}, err
	}
	return u.Actor(), nil
}

// WithActor stores actor in ctx.
func WithActor(ctx context.Context, actor user.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor set by ResolveActor.
func ActorFromContext(ctx context.Context) (user.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(user.Actor)
	return actor, ok
}
