package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/model"
)

// BookRegistry is the slice of the book store the exchange coordinator needs.
type BookRegistry interface {
	Get(ctx context.Context, bookID string) (*model.Book, error)
	TransferOwnership(ctx context.Context, bookID, fromID, toID string) error
}

// RequestLedger defines the interface for swap request storage
type RequestLedger interface {
	Create(ctx context.Context, req *model.SwapRequest) error
	Remove(ctx context.Context, requestID string) (*model.SwapRequest, error)
	Get(ctx context.Context, requestID string) (*model.SwapRequest, error)
	FindForUser(ctx context.Context, userID string) ([]*model.SwapRequest, error)
}

// MessageOutbox defines the interface for notification delivery
type MessageOutbox interface {
	DeliverMany(ctx context.Context, msgs []*model.Message) error
}

// ExchangeService coordinates the swap request state machine. It holds no
// state of its own; every transition validates against the stores, applies
// the change, and emits notifications. Resolution of a request that no
// longer exists is treated as already-resolved and succeeds as a no-op,
// which makes every transition safe to retry and double-submission races
// harmless.
type ExchangeService struct {
	books  BookRegistry
	ledger RequestLedger
	outbox MessageOutbox
	policy RecipientPolicy
}

// ExchangeServiceConfig holds configuration for the exchange service
type ExchangeServiceConfig struct {
	Books  BookRegistry
	Ledger RequestLedger
	Outbox MessageOutbox
	// Policy selects the request recipient; defaults to FirstOwnerPolicy.
	Policy RecipientPolicy
}

// NewExchangeService creates a new exchange service
func NewExchangeService(cfg ExchangeServiceConfig) *ExchangeService {
	policy := cfg.Policy
	if policy == nil {
		policy = FirstOwnerPolicy{}
	}
	return &ExchangeService{
		books:  cfg.Books,
		ledger: cfg.Ledger,
		outbox: cfg.Outbox,
		policy: policy,
	}
}

// RequestBook creates a pending swap request for the book on behalf of the
// user. The book must exist with at least one owner, and the requester must
// not already own it. The recipient is chosen by the configured policy.
func (s *ExchangeService) RequestBook(ctx context.Context, userID, username, bookID string) (*model.SwapRequest, error) {
	if bookID == "" {
		return nil, ErrBookIDRequired
	}

	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	if book.OwnedBy(userID) {
		return nil, ErrAlreadyOwned
	}
	if !book.HasOwners() {
		return nil, ErrBookUnavailable
	}

	toID, err := s.policy.SelectRecipient(book)
	if err != nil {
		return nil, err
	}

	req := &model.SwapRequest{
		FromID:       userID,
		FromUsername: username,
		ToID:         toID,
		BookID:       book.ID,
		BookTitle:    book.Title,
	}

	if err := s.ledger.Create(ctx, req); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}

	return req, nil
}

// CancelRequest withdraws a pending request. Only the original sender may
// cancel. A request that is already gone counts as resolved and the call
// succeeds without effect.
func (s *ExchangeService) CancelRequest(ctx context.Context, requesterID, requestID string) error {
	req, err := s.ledger.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}
	if req.FromID != requesterID {
		return ErrNotRequestSender
	}

	if _, err := s.ledger.Remove(ctx, requestID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

// AcceptRequest resolves a pending request by handing the book over. Only
// the stored recipient may accept, and the book and requester identities are
// taken from the stored request, never from the caller's payload.
//
// The transition runs in three steps, in this order:
//
//  1. Atomically remove the ledger entry. The loser of a concurrent double
//     accept gets NotFound here and returns success as a no-op, so the
//     transfer and notifications below happen exactly once.
//  2. Transfer ownership from accepter to requester.
//  3. Notify both parties. Delivery is best-effort; a failure is logged and
//     never rolls back the completed transfer.
func (s *ExchangeService) AcceptRequest(ctx context.Context, accepterID, accepterUsername, requestID string) error {
	req, err := s.ledger.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}
	if req.ToID != accepterID {
		return ErrNotRequestTarget
	}

	stored, err := s.ledger.Remove(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// A concurrent resolution won the race.
			return nil
		}
		return err
	}

	if err := s.books.TransferOwnership(ctx, stored.BookID, accepterID, stored.FromID); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			// The book vanished while the request was pending. The request
			// is gone either way; the requester can always re-request.
			slog.Warn("accepted request for missing book",
				slog.String("request_id", requestID),
				slog.String("book_id", stored.BookID),
			)
		} else {
			return err
		}
	}

	msgs := []*model.Message{
		{
			ToID: stored.FromID,
			Text: fmt.Sprintf("%s has accepted your request for %s.", accepterUsername, stored.BookTitle),
		},
		{
			ToID: accepterID,
			Text: fmt.Sprintf("You have accepted %s's request for %s.", stored.FromUsername, stored.BookTitle),
		},
	}
	if err := s.outbox.DeliverMany(ctx, msgs); err != nil {
		slog.Warn("notification delivery failed after accept",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// RejectRequest resolves a pending request by declining it. The book's owner
// set does not change. Like accept, a missing request is already-resolved
// success, and notifications are best-effort.
func (s *ExchangeService) RejectRequest(ctx context.Context, rejecterID, rejecterUsername, requestID string) error {
	req, err := s.ledger.Get(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return nil
	}
	if req.ToID != rejecterID {
		return ErrNotRequestTarget
	}

	stored, err := s.ledger.Remove(ctx, requestID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil
		}
		return err
	}

	msgs := []*model.Message{
		{
			ToID: stored.FromID,
			Text: fmt.Sprintf("%s has rejected your request for %s.", rejecterUsername, stored.BookTitle),
		},
		{
			ToID: rejecterID,
			Text: fmt.Sprintf("You have rejected %s's request for %s.", stored.FromUsername, stored.BookTitle),
		},
	}
	if err := s.outbox.DeliverMany(ctx, msgs); err != nil {
		slog.Warn("notification delivery failed after reject",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
	}

	return nil
}

// ListRequests returns the user's requests partitioned into incoming
// (addressed to them) and outgoing (sent by them).
func (s *ExchangeService) ListRequests(ctx context.Context, userID string) (*model.RequestList, error) {
	requests, err := s.ledger.FindForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	list := &model.RequestList{
		Incoming: make([]*model.SwapRequest, 0),
		Outgoing: make([]*model.SwapRequest, 0),
	}
	for _, req := range requests {
		if req.ToID == userID {
			list.Incoming = append(list.Incoming, req)
		} else {
			list.Outgoing = append(list.Outgoing, req)
		}
	}
	return list, nil
}
