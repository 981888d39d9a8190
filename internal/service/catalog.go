package service

import (
	"context"
	"strings"

	"github.com/bararan/swapandread/internal/model"
)

// Searcher defines the interface for external book search
type Searcher interface {
	Search(ctx context.Context, title string) ([]model.CatalogResult, error)
}

// CatalogService looks up book metadata in the external catalog so users can
// add books by picking a search result rather than typing metadata by hand.
type CatalogService struct {
	searcher Searcher
}

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	Searcher Searcher
}

// NewCatalogService creates a new catalog service
func NewCatalogService(cfg CatalogServiceConfig) *CatalogService {
	return &CatalogService{searcher: cfg.Searcher}
}

// Search queries the external catalog by title. No matches is an empty
// result, not an error; an unreachable or misbehaving catalog is
// ErrCatalogUnavailable.
func (s *CatalogService) Search(ctx context.Context, title string) ([]model.CatalogResult, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrSearchTitleRequired
	}
	results, err := s.searcher.Search(ctx, title)
	if err != nil {
		return nil, ErrCatalogUnavailable
	}
	return results, nil
}
