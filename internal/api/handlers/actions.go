package handlers

import (
	"log"
	"net/http"

	"lab-dispatch-service/internal/api/dto"
	"lab-dispatch-service/internal/domain"
	"lab-dispatch-service/internal/queue"
)

// ActionHandler exposes the device-local offline action queue.
type ActionHandler struct {
	Queue    *queue.Queue
	Handlers map[string]queue.Handler
}

func (h *ActionHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	var req dto.EnqueueRequest
	defer r.Body.Close()
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.ActionType == "" {
		writeError(w, r, http.StatusBadRequest, "action_type is required")
		return
	}

	a, err := h.Queue.Enqueue(r.Context(), req.ActionType, req.Payload)
	if err != nil {
		log.Printf("enqueue failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, actionResponse(a))
}

func (h *ActionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if !requireGet(w, r) {
		return
	}

	actions, err := h.Queue.ListPending(r.Context())
	if err != nil {
		log.Printf("list pending failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListActionsResponse{Actions: make([]dto.ActionResponse, 0, len(actions))}
	for _, a := range actions {
		res.Actions = append(res.Actions, actionResponse(a))
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Sync triggers one synchronization pass with the handler set wired at
// composition time.
func (h *ActionHandler) Sync(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}

	report, err := h.Queue.Sync(r.Context(), h.Handlers)
	if err != nil {
		log.Printf("sync failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SyncResponse{
		Attempted: report.Attempted,
		Succeeded: report.Succeeded,
		Retried:   report.Retried,
		Exhausted: report.Exhausted,
	})
}

func actionResponse(a domain.QueuedAction) dto.ActionResponse {
	return dto.ActionResponse{
		ID:         a.ID,
		ActionType: a.ActionType,
		Payload:    a.Payload,
		Timestamp:  a.Timestamp,
		Status:     string(a.Status),
		Retries:    a.Retries,
		MaxRetries: a.MaxRetries,
		Error:      a.Error,
	}
}
