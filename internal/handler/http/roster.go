package http

import (
	"net/http"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/roster"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

type RosterHandler interface {
	MyWeek(w http.ResponseWriter, r *http.Request)
	WeekBoard(w http.ResponseWriter, r *http.Request)
	SetShift(w http.ResponseWriter, r *http.Request)
	SetShiftForAll(w http.ResponseWriter, r *http.Request)
	BulkUpsertWeek(w http.ResponseWriter, r *http.Request)
}

type rosterHandlerImpl struct {
	rosterService roster.RosterService
	loc           *time.Location
}

func NewRosterHandler(rosterService roster.RosterService, loc *time.Location) RosterHandler {
	return &rosterHandlerImpl{rosterService: rosterService, loc: loc}
}

// MyWeek implements RosterHandler.
func (h *rosterHandlerImpl) MyWeek(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	rows, err := h.rosterService.MyWeek(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, rows)
}

// WeekBoard implements RosterHandler. ?date= picks the week, default this week.
func (h *rosterHandlerImpl) WeekBoard(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	day, err := dateQuery(r, "date", h.loc)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	board, err := h.rosterService.WeekBoard(r.Context(), actor, day)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, board)
}

// SetShift implements RosterHandler.
func (h *rosterHandlerImpl) SetShift(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req roster.SetShiftRequest
	if !decode(w, r, "SetShift", &req) {
		return
	}

	row, err := h.rosterService.SetShift(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift saved", row)
}

// SetShiftForAll implements RosterHandler.
func (h *rosterHandlerImpl) SetShiftForAll(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req roster.SetShiftForAllRequest
	if !decode(w, r, "SetShiftForAll", &req) {
		return
	}

	updated, err := h.rosterService.SetShiftForAll(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift applied to all active staff", map[string]int{"updated": updated})
}

// BulkUpsertWeek implements RosterHandler.
func (h *rosterHandlerImpl) BulkUpsertWeek(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req roster.BulkWeekRequest
	if !decode(w, r, "BulkUpsertWeek", &req) {
		return
	}

	board, err := h.rosterService.BulkUpsertWeek(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Roster saved", board)
}
