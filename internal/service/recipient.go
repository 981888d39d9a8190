package service

import "github.com/bararan/swapandread/internal/model"

// RecipientPolicy selects which of a book's current owners receives a swap
// request. The state machine is policy-agnostic: swapping in a fan-out or
// requester-chooses policy does not touch the transitions.
type RecipientPolicy interface {
	SelectRecipient(book *model.Book) (string, error)
}

// FirstOwnerPolicy addresses the request to the first owner in the book's
// owner set. This mirrors the single-recipient behavior the product shipped
// with; whether requests should instead fan out to every owner is an open
// product question.
type FirstOwnerPolicy struct{}

// SelectRecipient returns the first owner of the book.
func (FirstOwnerPolicy) SelectRecipient(book *model.Book) (string, error) {
	if !book.HasOwners() {
		return "", ErrBookUnavailable
	}
	return book.Owners[0], nil
}
