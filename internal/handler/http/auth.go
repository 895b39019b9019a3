package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/auth"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/user"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	ForgotPassword(w http.ResponseWriter, r *http.Request)
	ResetPassword(w http.ResponseWriter, r *http.Request)
	Init(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
}

func NewAuthHandler(authService auth.AuthService) AuthHandler {
	return &AuthHandlerImpl{authService: authService}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if !decode(w, r, "Login", &loginReq) {
		return
	}

	resp, err := a.authService.Login(r.Context(), loginReq)
	if err != nil {
		slog.Warn("Login failed", "username", loginReq.Username, "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("User logged in", "user_id", resp.User.ID)
	response.SuccessWithMessage(w, "Login successful", resp)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	if err := a.authService.Logout(r.Context(), actor, middleware.AccessToken(r.Context())); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Logout successful", nil)
}

// ForgotPassword implements AuthHandler.
func (a *AuthHandlerImpl) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var forgotPasswordReq auth.ForgotPasswordRequest
	if !decode(w, r, "ForgotPassword", &forgotPasswordReq) {
		return
	}

	resp, err := a.authService.ForgotPassword(r.Context(), forgotPasswordReq)
	if err != nil {
		slog.Error("ForgotPassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	message := "Password reset link has been sent by email"
	if resp.Channel == "sms" {
		message = "Password reset link has been sent by SMS"
	}
	response.SuccessWithMessage(w, message, resp)
}

// ResetPassword implements AuthHandler.
func (a *AuthHandlerImpl) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var resetPasswordReq auth.ResetPasswordRequest
	if !decode(w, r, "ResetPassword", &resetPasswordReq) {
		return
	}

	if err := a.authService.ResetPassword(r.Context(), resetPasswordReq); err != nil {
		slog.Error("ResetPassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Password has been reset, you can now log in", nil)
}

// Init implements AuthHandler. The token may come from the body or the
// X-Init-Token header; a signed-in admin needs neither.
func (a *AuthHandlerImpl) Init(w http.ResponseWriter, r *http.Request) {
	var initReq auth.InitRequest
	if err := json.NewDecoder(r.Body).Decode(&initReq); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	if initReq.Token == "" {
		initReq.Token = r.Header.Get("X-Init-Token")
	}

	var actor *user.Actor
	if current, ok := middleware.ActorFromContext(r.Context()); ok {
		actor = &current
	}

	resp, err := a.authService.Init(r.Context(), actor, initReq)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "System initialized", resp)
}
