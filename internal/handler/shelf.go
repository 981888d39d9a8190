package handler

import (
	"net/http"

	"github.com/bararan/swapandread/internal/middleware"
	"github.com/bararan/swapandread/internal/model"
	"github.com/bararan/swapandread/internal/service"
)

// ShelfHandler handles book shelf and catalog endpoints
type ShelfHandler struct {
	shelfService *service.ShelfService
}

// NewShelfHandler creates a new shelf handler
func NewShelfHandler(shelfService *service.ShelfService) *ShelfHandler {
	return &ShelfHandler{
		shelfService: shelfService,
	}
}

// ListCatalog handles GET /v1/books
func (h *ShelfHandler) ListCatalog(w http.ResponseWriter, r *http.Request) {
	books, err := h.shelfService.ListCatalog(r.Context())
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list books"))
		return
	}

	WriteCollection(w, http.StatusOK, books, nil)
}

// ListOwned handles GET /v1/profile/books
func (h *ShelfHandler) ListOwned(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	books, err := h.shelfService.ListOwned(r.Context(), userID)
	if err != nil {
		WriteError(w, MapServiceErrorWithContext(err, "list owned books"))
		return
	}

	WriteCollection(w, http.StatusOK, books, map[string]string{
		"catalog": "/v1/books",
	})
}

// AddBook handles POST /v1/profile/books
func (h *ShelfHandler) AddBook(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var req model.AddBookRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, model.NewBadRequestError("invalid request body"))
		return
	}

	book, err := h.shelfService.AddBook(r.Context(), userID, &req)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteData(w, http.StatusCreated, book, map[string]string{
		"self": "/v1/profile/books",
	})
}

// RemoveBook handles DELETE /v1/profile/books/{bookId}
func (h *ShelfHandler) RemoveBook(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	bookID := r.PathValue("bookId")

	if err := h.shelfService.RemoveBook(r.Context(), userID, bookID); err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteNoContent(w)
}
