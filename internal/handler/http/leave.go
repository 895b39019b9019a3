package http

import (
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/leave"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListPendingRequests(w http.ResponseWriter, r *http.Request)
	ReviewRequest(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	// 1. Decode JSON
	var req leave.CreateLeaveRequestRequest
	if !decode(w, r, "CreateLeaveRequest", &req) {
		return
	}

	// 2. Validation and overlap rules live in the service
	leaveRequest, err := l.leaveService.CreateLeaveRequest(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", leaveRequest)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	requests, err := l.leaveService.ListMyLeaveRequests(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: len(requests)})
}

// ListPendingRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListPendingRequests(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	requests, err := l.leaveService.ListPendingLeaveRequests(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: len(requests)})
}

// ReviewRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ReviewRequest(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req leave.ReviewLeaveRequest
	if !decode(w, r, "ReviewLeaveRequest", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	leaveRequest, err := l.leaveService.ReviewLeaveRequest(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request "+leaveRequest.Status, leaveRequest)
}
