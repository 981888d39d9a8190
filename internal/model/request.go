package model

import "time"

// SwapRequest is a pending request for a book, addressed to exactly one of
// its current owners. Requests are terminal: resolution (accept, reject,
// cancel) removes the record, nothing is updated in place and no history is
// kept. FromUsername and BookTitle are denormalized so resolution messages
// can be composed without extra lookups.
type SwapRequest struct {
	ID           string    `json:"id"`
	FromID       string    `json:"from_id"`
	FromUsername string    `json:"from_username"`
	ToID         string    `json:"to_id"`
	BookID       string    `json:"book_id"`
	BookTitle    string    `json:"book_title"`
	CreatedOn    time.Time `json:"created_on"`
}

// RequestList partitions a user's requests by direction.
type RequestList struct {
	// Incoming holds requests where the user is the recipient (owner being asked).
	Incoming []*SwapRequest `json:"incoming"`
	// Outgoing holds requests the user has sent.
	Outgoing []*SwapRequest `json:"outgoing"`
}
