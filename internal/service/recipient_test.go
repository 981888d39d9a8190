package service

import (
	"errors"
	"testing"

	"github.com/bararan/swapandread/internal/model"
)

func TestFirstOwnerPolicy_PicksFirstOwner(t *testing.T) {
	t.Parallel()
	book := &model.Book{
		ID:     "book:dune",
		Owners: []string{"book_user:bob", "book_user:carol"},
	}

	recipient, err := FirstOwnerPolicy{}.SelectRecipient(book)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if recipient != "book_user:bob" {
		t.Errorf("expected first owner, got %s", recipient)
	}
}

func TestFirstOwnerPolicy_NoOwners_ReturnsUnavailable(t *testing.T) {
	t.Parallel()
	book := &model.Book{ID: "book:dune"}

	_, err := FirstOwnerPolicy{}.SelectRecipient(book)
	if !errors.Is(err, ErrBookUnavailable) {
		t.Errorf("expected ErrBookUnavailable, got %v", err)
	}
}
