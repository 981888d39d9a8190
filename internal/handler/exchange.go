package handler

import (
	"net/http"

	"github.com/bararan/swapandread/internal/middleware"
	"github.com/bararan/swapandread/internal/service"
)

// ExchangeHandler handles swap request endpoints
type ExchangeHandler struct {
	exchangeService *service.ExchangeService
}

// NewExchangeHandler creates a new exchange handler
func NewExchangeHandler(exchangeService *service.ExchangeService) *ExchangeHandler {
	return &ExchangeHandler{
		exchangeService: exchangeService,
	}
}

// RequestBook handles POST /v1/books/{bookId}/request
func (h *ExchangeHandler) RequestBook(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := middleware.GetUsername(r.Context())
	bookID := r.PathValue("bookId")

	req, err := h.exchangeService.RequestBook(r.Context(), userID, username, bookID)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, req, map[string]string{
		"requests": "/v1/requests",
		"cancel":   "/v1/requests/" + req.ID + "/cancel",
	})
}

// ListRequests handles GET /v1/requests
func (h *ExchangeHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	list, err := h.exchangeService.ListRequests(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list requests"))
		return
	}

	WriteData(w, http.StatusOK, list, nil)
}

// CancelRequest handles POST /v1/requests/{requestId}/cancel
func (h *ExchangeHandler) CancelRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	requestID := r.PathValue("requestId")

	if err := h.exchangeService.CancelRequest(r.Context(), userID, requestID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// AcceptRequest handles POST /v1/requests/{requestId}/accept
func (h *ExchangeHandler) AcceptRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := middleware.GetUsername(r.Context())
	requestID := r.PathValue("requestId")

	if err := h.exchangeService.AcceptRequest(r.Context(), userID, username, requestID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}

// RejectRequest handles POST /v1/requests/{requestId}/reject
func (h *ExchangeHandler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	username := middleware.GetUsername(r.Context())
	requestID := r.PathValue("requestId")

	if err := h.exchangeService.RejectRequest(r.Context(), userID, username, requestID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
