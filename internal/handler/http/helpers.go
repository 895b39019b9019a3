package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/auth"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
)

const maxJSONBody = 1 << 20

// decode reads a JSON body into dst. It writes the error response and
// returns false on failure.
func decode(w http.ResponseWriter, r *http.Request, op string, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		slog.Error(op+" decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// actorFrom returns the request's actor or writes 401.
func actorFrom(w http.ResponseWriter, r *http.Request) (user.Actor, bool) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.HandleError(w, auth.ErrInvalidToken)
		return user.Actor{}, false
	}
	return actor, true
}

// dateQuery parses the YYYY-MM-DD query parameter name as midnight in loc.
// A missing parameter yields the zero time.
func dateQuery(r *http.Request, name string, loc *time.Location) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation("2006-01-02", raw, loc)
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add(name, "must be a date in YYYY-MM-DD format")
		return time.Time{}, errs
	}
	return day, nil
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add(name, "must be a number")
		return 0, errs
	}
	return n, nil
}
