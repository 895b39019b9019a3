package http

import (
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/correction"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CorrectionHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	ListPending(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{correctionService: correctionService}
}

// Submit implements CorrectionHandler.
func (h *correctionHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req correction.SubmitRequest
	if !decode(w, r, "SubmitCorrection", &req) {
		return
	}

	result, err := h.correctionService.Submit(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction request submitted", result)
}

// ListMine implements CorrectionHandler.
func (h *correctionHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	requests, err := h.correctionService.ListMine(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: len(requests)})
}

// ListPending implements CorrectionHandler.
func (h *correctionHandlerImpl) ListPending(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	requests, err := h.correctionService.ListPending(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: len(requests)})
}

// Review implements CorrectionHandler.
func (h *correctionHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req correction.ReviewRequest
	if !decode(w, r, "ReviewCorrection", &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")

	result, err := h.correctionService.Review(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Correction request "+result.Status, result)
}
