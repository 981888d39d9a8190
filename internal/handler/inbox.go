package handler

import (
	"net/http"

	"github.com/bararan/swapandread/internal/middleware"
	"github.com/bararan/swapandread/internal/model"
	"github.com/bararan/swapandread/internal/service"
)

// InboxHandler handles message endpoints
type InboxHandler struct {
	inboxService *service.InboxService
}

// NewInboxHandler creates a new inbox handler
func NewInboxHandler(inboxService *service.InboxService) *InboxHandler {
	return &InboxHandler{
		inboxService: inboxService,
	}
}

// ListMessages handles GET /v1/messages
func (h *InboxHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	messages, err := h.inboxService.ListMessages(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list messages"))
		return
	}

	WriteCollection(w, http.StatusOK, messages, nil)
}

// DeleteMessages handles DELETE /v1/messages
func (h *InboxHandler) DeleteMessages(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req model.DeleteMessagesRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	result, err := h.inboxService.DeleteMessages(r.Context(), userID, req.MessageIDs)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "delete messages"))
		return
	}

	WriteData(w, http.StatusOK, result, nil)
}
