package http

import (
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/settings"
	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

// DashboardResponse is everything the home screen renders in one call.
type DashboardResponse struct {
	Today    timeentry.TodayResponse   `json:"today"`
	Schedule []roster.RosterResponse   `json:"schedule"`
	Settings settings.SettingsResponse `json:"settings"`
}

type DashboardHandler interface {
	GetDashboard(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	timeEntryService timeentry.TimeEntryService
	rosterService    roster.RosterService
	settingsService  settings.SettingsService
}

func NewDashboardHandler(timeEntryService timeentry.TimeEntryService, rosterService roster.RosterService, settingsService settings.SettingsService) DashboardHandler {
	return &dashboardHandlerImpl{
		timeEntryService: timeEntryService,
		rosterService:    rosterService,
		settingsService:  settingsService,
	}
}

// GetDashboard implements DashboardHandler.
func (h *dashboardHandlerImpl) GetDashboard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	today, err := h.timeEntryService.Today(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	schedule, err := h.rosterService.MyWeek(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	current, err := h.settingsService.Current(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, DashboardResponse{
		Today:    today,
		Schedule: schedule,
		Settings: settings.ToResponse(current),
	})
}
