package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/auth"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/correction"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/leave"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/notification"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/passwordreset"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/weeklock"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
	"github.com/cmlabs-hris/timekeeper-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid username or password")
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, passwordreset.ErrTokenInvalid),
		errors.Is(err, passwordreset.ErrTokenUsed):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrUserNotFound):
		NotFound(w, "No account matches that email, username or phone")
	case errors.Is(err, auth.ErrNoDeliveryChannel):
		BadRequest(w, "No email or phone on file for this account", nil)
	case errors.Is(err, auth.ErrInitDisabled):
		NotFound(w, "Initialization is disabled")
	case errors.Is(err, auth.ErrInitForbidden):
		Forbidden(w, "Invalid initialization token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUsernameExists):
		Conflict(w, "Username already taken")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already registered")
	case errors.Is(err, user.ErrAccountInactive):
		Forbidden(w, "Account is deactivated")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")
	case errors.Is(err, user.ErrCannotModifyAdmin):
		Forbidden(w, "Admin accounts cannot be deactivated or deleted")
	case errors.Is(err, user.ErrLastAdmin):
		Forbidden(w, "Cannot remove the last admin")
	case errors.Is(err, user.ErrIncorrectPassword):
		BadRequest(w, "Current password is incorrect", nil)
	case errors.Is(err, user.ErrInvalidImage):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, file.ErrFileTooLarge):
		TooLarge(w, err.Error())

	// Time tracking errors
	case errors.Is(err, weeklock.ErrWeekLocked):
		Conflict(w, "This week is locked and can no longer be changed")
	case errors.Is(err, weeklock.ErrInvalidTransition):
		Conflict(w, err.Error())
	case errors.Is(err, timeentry.ErrTimeEntryNotFound):
		NotFound(w, "Time entry not found")
	case errors.Is(err, timeentry.ErrUnknownAction):
		BadRequest(w, "Unknown punch action", nil)
	case timeentry.IsStateConflict(err):
		Conflict(w, err.Error())

	// Workflow errors
	case errors.Is(err, correction.ErrCorrectionNotFound):
		NotFound(w, "Correction request not found")
	case errors.Is(err, correction.ErrAlreadyReviewed):
		Conflict(w, "Correction request already reviewed")
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, roster.ErrRosterNotFound):
		NotFound(w, "Roster entry not found")
	case errors.Is(err, roster.ErrInvalidDay):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, notification.ErrUnknownChannel), errors.Is(err, notification.ErrNoRecipient):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
