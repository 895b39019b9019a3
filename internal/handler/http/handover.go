package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/timekeeper-go/internal/domain/handover"
	"github.com/cmlabs-hris/timekeeper-go/internal/handler/http/response"
)

const streamKeepalive = 30 * time.Second

type HandoverHandler interface {
	PostMessage(w http.ResponseWriter, r *http.Request)
	ListMessages(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type handoverHandlerImpl struct {
	handoverService handover.HandoverService
}

func NewHandoverHandler(handoverService handover.HandoverService) HandoverHandler {
	return &handoverHandlerImpl{handoverService: handoverService}
}

// PostMessage implements HandoverHandler.
func (h *handoverHandlerImpl) PostMessage(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	var req handover.PostMessageRequest
	if !decode(w, r, "PostHandover", &req) {
		return
	}

	msg, err := h.handoverService.Post(r.Context(), actor, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Handover note posted", msg)
}

// ListMessages implements HandoverHandler.
func (h *handoverHandlerImpl) ListMessages(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	msgs, err := h.handoverService.List(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, msgs)
}

// Stream pushes newly posted notes as server-sent events.
func (h *handoverHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	events, cleanup, err := h.handoverService.Subscribe(r.Context(), actor)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Error("failed to encode handover event", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
