package http

import (
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

type SettingsHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

type settingsHandlerImpl struct {
	settingsService settings.SettingsService
}

func NewSettingsHandler(settingsService settings.SettingsService) SettingsHandler {
	return &settingsHandlerImpl{settingsService: settingsService}
}

// GetSettings implements SettingsHandler.
func (h *settingsHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	current, err := h.settingsService.Get(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, current)
}

// UpdateSettings implements SettingsHandler.
func (h *settingsHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req settings.UpdateSettingsRequest
	if !decode(w, r, "UpdateSettings", &req) {
		return
	}

	updated, err := h.settingsService.Update(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Settings updated", updated)
}
