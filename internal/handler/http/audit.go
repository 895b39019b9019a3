package http

import (
	"net/http"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/audit"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

type AuditHandler interface {
	ListActivity(w http.ResponseWriter, r *http.Request)
}

type auditHandlerImpl struct {
	auditService audit.AuditService
}

func NewAuditHandler(auditService audit.AuditService) AuditHandler {
	return &auditHandlerImpl{auditService: auditService}
}

// ListActivity implements AuditHandler.
func (h *auditHandlerImpl) ListActivity(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	logs, err := h.auditService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, logs, &response.Meta{TotalItems: len(logs)})
}
