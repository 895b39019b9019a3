package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timekeeper-go/internal/service/file"
)

type AccountHandler interface {
	Me(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
	ChangeUsername(w http.ResponseWriter, r *http.Request)
	UpdateEmail(w http.ResponseWriter, r *http.Request)
	UpdatePhone(w http.ResponseWriter, r *http.Request)
	UploadPicture(w http.ResponseWriter, r *http.Request)
}

type accountHandlerImpl struct {
	accountService user.AccountService
}

func NewAccountHandler(accountService user.AccountService) AccountHandler {
	return &accountHandlerImpl{accountService: accountService}
}

// Me implements AccountHandler.
func (h *accountHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	me, err := h.accountService.Me(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, me)
}

// ChangePassword implements AccountHandler.
func (h *accountHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req user.ChangePasswordRequest
	if !decode(w, r, "ChangePassword", &req) {
		return
	}

	if err := h.accountService.ChangePassword(r.Context(), actor, req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password changed successfully", nil)
}

// ChangeUsername implements AccountHandler.
func (h *accountHandlerImpl) ChangeUsername(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req user.ChangeUsernameRequest
	if !decode(w, r, "ChangeUsername", &req) {
		return
	}

	me, err := h.accountService.ChangeUsername(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Username updated", me)
}

// UpdateEmail implements AccountHandler.
func (h *accountHandlerImpl) UpdateEmail(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req user.UpdateEmailRequest
	if !decode(w, r, "UpdateEmail", &req) {
		return
	}

	me, err := h.accountService.UpdateEmail(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Email updated", me)
}

// UpdatePhone implements AccountHandler.
func (h *accountHandlerImpl) UpdatePhone(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req user.UpdatePhoneRequest
	if !decode(w, r, "UpdatePhone", &req) {
		return
	}

	me, err := h.accountService.UpdatePhone(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Phone updated", me)
}

// UploadPicture implements AccountHandler. Expects a multipart field "picture".
func (h *accountHandlerImpl) UploadPicture(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, file.MaxUploadBytes+(64<<10))
	if err := r.ParseMultipartForm(file.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, file.ErrFileTooLarge)
			return
		}
		slog.Error("Failed to parse multipart form", "error", err)
		response.BadRequest(w, "Failed to parse form data", nil)
		return
	}

	picture, header, err := r.FormFile("picture")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			response.BadRequest(w, "Picture file is required", nil)
			return
		}
		slog.Error("Failed to get file from form", "error", err)
		response.BadRequest(w, "Invalid file upload", nil)
		return
	}
	defer picture.Close()

	me, err := h.accountService.UploadProfilePicture(r.Context(), actor, picture, header.Filename)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile picture updated", me)
}
