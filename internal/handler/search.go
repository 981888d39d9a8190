package handler

import (
	"net/http"

	"github.com/bararan/swapandread/internal/service"
)

// SearchHandler handles external catalog search endpoints
type SearchHandler struct {
	catalogService *service.CatalogService
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(catalogService *service.CatalogService) *SearchHandler {
	return &SearchHandler{
		catalogService: catalogService,
	}
}

// Search handles GET /v1/search?title=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	title := r.URL.Query().Get("title")

	results, err := h.catalogService.Search(r.Context(), title)
	if err != nil {
		WriteError(w, MapServiceError(err))
		return
	}

	WriteCollection(w, http.StatusOK, results, nil)
}
