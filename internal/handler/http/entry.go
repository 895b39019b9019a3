package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timeentry"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
	"github.com/cmlabs-hris/timekeeper-go/internal/pkg/validator"
	"github.com/go-chi/chi/v5"
)

type TimeEntryHandler interface {
	Today(w http.ResponseWriter, r *http.Request)
	Punch(w http.ResponseWriter, r *http.Request)
	SaveNotes(w http.ResponseWriter, r *http.Request)
	Week(w http.ResponseWriter, r *http.Request)
	Calendar(w http.ResponseWriter, r *http.Request)
	ResetEntry(w http.ResponseWriter, r *http.Request)
	EditEntry(w http.ResponseWriter, r *http.Request)
	ResetWeek(w http.ResponseWriter, r *http.Request)
}

type timeEntryHandlerImpl struct {
	timeEntryService timeentry.TimeEntryService
	loc              *time.Location
	now              func() time.Time
}

func NewTimeEntryHandler(timeEntryService timeentry.TimeEntryService, loc *time.Location) TimeEntryHandler {
	return &timeEntryHandlerImpl{timeEntryService: timeEntryService, loc: loc, now: time.Now}
}

// Today implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	today, err := h.timeEntryService.Today(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, today)
}

// Punch implements TimeEntryHandler. The action comes from the {action} path segment.
func (h *timeEntryHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	action, err := timeentry.ParseAction(chi.URLParam(r, "action"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	entry, err := h.timeEntryService.Punch(r.Context(), actor, action)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recorded "+string(action), entry)
}

// SaveNotes implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) SaveNotes(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req timeentry.SaveNotesRequest
	if !decode(w, r, "SaveNotes", &req) {
		return
	}

	entry, err := h.timeEntryService.SaveNotes(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notes saved", entry)
}

// Week implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) Week(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	day, err := dateQuery(r, "date", h.loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	week, err := h.timeEntryService.Week(r.Context(), actor, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, week)
}

// Calendar implements TimeEntryHandler. Year and month default to the current month.
func (h *timeEntryHandlerImpl) Calendar(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	now := h.now().In(h.loc)
	year, err := intQuery(r, "year", now.Year())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	month, err := intQuery(r, "month", int(now.Month()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if month < 1 || month > 12 {
		var errs validator.ValidationErrors
		errs.Add("month", "month must be between 1 and 12")
		response.HandleError(w, errs)
		return
	}

	calendar, err := h.timeEntryService.Calendar(r.Context(), actor, year, time.Month(month))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, calendar)
}

// ResetEntry implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) ResetEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	entry, err := h.timeEntryService.ResetEntry(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Entry reset", entry)
}

// EditEntry implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) EditEntry(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req timeentry.EditEntryRequest
	if !decode(w, r, "EditEntry", &req) {
		return
	}

	entry, err := h.timeEntryService.EditEntry(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Entry updated", entry)
}

// ResetWeek implements TimeEntryHandler.
func (h *timeEntryHandlerImpl) ResetWeek(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req timeentry.ResetWeekRequest
	if !decode(w, r, "ResetWeek", &req) {
		return
	}

	deleted, err := h.timeEntryService.ResetWeek(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Week reset", map[string]int64{"deleted": deleted})
}
