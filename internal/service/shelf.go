package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/model"
)

// BookShelf defines the interface for book ownership storage
type BookShelf interface {
	UpsertOwnership(ctx context.Context, book *model.Book, ownerID string) error
	RemoveOwnership(ctx context.Context, bookID, ownerID string) error
	FindByOwner(ctx context.Context, userID string) ([]*model.Book, error)
	FindAll(ctx context.Context) ([]*model.Book, error)
}

// ShelfService manages which books a user has on offer. Books are shared
// records: adding a book another user already listed joins its owner set
// rather than creating a duplicate, and dropping the last copy removes the
// record from the catalog entirely.
type ShelfService struct {
	shelf BookShelf
}

// ShelfServiceConfig holds configuration for the shelf service
type ShelfServiceConfig struct {
	Shelf BookShelf
}

// NewShelfService creates a new shelf service
func NewShelfService(cfg ShelfServiceConfig) *ShelfService {
	return &ShelfService{shelf: cfg.Shelf}
}

// AddBook puts the book on the user's shelf, creating the catalog record if
// this is the first copy. Adding a book already on the shelf is a no-op.
func (s *ShelfService) AddBook(ctx context.Context, userID string, req *model.AddBookRequest) (*model.Book, error) {
	if strings.TrimSpace(req.BookID) == "" {
		return nil, ErrBookIDRequired
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrBookTitleRequired
	}

	book := &model.Book{
		ID:      req.BookID,
		Title:   req.Title,
		Author:  req.Author,
		PubYear: req.PubYear,
		ImgURL:  req.ImgURL,
	}
	if err := s.shelf.UpsertOwnership(ctx, book, userID); err != nil {
		return nil, err
	}
	return book, nil
}

// RemoveBook takes the book off the user's shelf. Removing a book the user
// does not own, or one that does not exist, succeeds without effect.
func (s *ShelfService) RemoveBook(ctx context.Context, userID, bookID string) error {
	if strings.TrimSpace(bookID) == "" {
		return ErrBookIDRequired
	}
	if err := s.shelf.RemoveOwnership(ctx, bookID, userID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// ListOwned returns the books currently on the user's shelf.
func (s *ShelfService) ListOwned(ctx context.Context, userID string) ([]*model.Book, error) {
	return s.shelf.FindByOwner(ctx, userID)
}

// ListCatalog returns every book with at least one owner.
func (s *ShelfService) ListCatalog(ctx context.Context) ([]*model.Book, error) {
	return s.shelf.FindAll(ctx)
}
