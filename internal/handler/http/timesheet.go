package http

import (
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type TimesheetHandler interface {
	ListPending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type timesheetHandlerImpl struct {
	timesheetService timesheet.TimesheetService
}

func NewTimesheetHandler(timesheetService timesheet.TimesheetService) TimesheetHandler {
	return &timesheetHandlerImpl{timesheetService: timesheetService}
}

// ListPending implements TimesheetHandler.
func (h *timesheetHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	pending, err := h.timesheetService.ListPending(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, pending, &response.Meta{TotalItems: len(pending)})
}

// Review implements TimesheetHandler.
func (h *timesheetHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req timesheet.ReviewRequest
	if !decode(w, r, "ReviewTimesheet", &req) {
		return
	}
	req.EntryID = chi.URLParam(r, "id")

	result, err := h.timesheetService.Review(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Timesheet rejected"
	if req.Decision == timesheet.DecisionApprove {
		message = "Timesheet approved"
	}
	if result.WeekLocked {
		message += " and week locked"
	}
	response.SuccessWithMessage(w, message, result)
}
