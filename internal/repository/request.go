package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/model"
)

// RequestRepository is the swap-request ledger. Requests are only ever
// created and deleted; resolution of any kind removes the record.
type RequestRepository struct {
	db database.Database
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db database.Database) *RequestRepository {
	return &RequestRepository{db: db}
}

// Create inserts a pending request. An identical pending request (same
// sender, recipient and book) already in the ledger aborts the insert with
// database.ErrDuplicate. Check and insert run in one transaction so two
// concurrent identical creates cannot both land.
func (r *RequestRepository) Create(ctx context.Context, req *model.SwapRequest) error {
	query := `
		BEGIN TRANSACTION;
		LET $existing = (
			SELECT * FROM swap_request
			WHERE from_id = type::record($from_id)
			AND to_id = type::record($to_id)
			AND book_id = type::record($book_id)
		);
		IF array::len($existing) > 0 {
			THROW "duplicate pending request";
		};
		CREATE swap_request CONTENT {
			from_id: type::record($from_id),
			from_username: $from_username,
			to_id: type::record($to_id),
			book_id: type::record($book_id),
			book_title: $book_title,
			created_on: time::now()
		};
		COMMIT TRANSACTION;
	`
	vars := map[string]interface{}{
		"from_id":       ensureRecordID("book_user", req.FromID),
		"from_username": req.FromUsername,
		"to_id":         ensureRecordID("book_user", req.ToID),
		"book_id":       ensureRecordID("book", req.BookID),
		"book_title":    req.BookTitle,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}

	records := extractQueryResults(result)
	for _, item := range records {
		created, err := parseRequestResult(item)
		if err != nil {
			continue
		}
		if created.ID != "" {
			req.ID = created.ID
			req.CreatedOn = created.CreatedOn
			return nil
		}
	}

	return fmt.Errorf("%w: create returned no record", database.ErrQuery)
}

// Remove atomically deletes the request and returns its stored content.
// A missing request yields database.ErrNotFound: when two resolutions race,
// exactly one caller gets the record back and the loser gets ErrNotFound.
func (r *RequestRepository) Remove(ctx context.Context, requestID string) (*model.SwapRequest, error) {
	query := `DELETE type::record($request_id) RETURN BEFORE`
	vars := map[string]interface{}{"request_id": ensureRecordID("swap_request", requestID)}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseRequestResult(result)
}

// Get retrieves a request by ID, returning nil when it does not exist.
func (r *RequestRepository) Get(ctx context.Context, requestID string) (*model.SwapRequest, error) {
	query := `SELECT * FROM type::record($request_id)`
	vars := map[string]interface{}{"request_id": ensureRecordID("swap_request", requestID)}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseRequestResult(result)
}

// FindForUser returns all requests where the user is sender or recipient.
func (r *RequestRepository) FindForUser(ctx context.Context, userID string) ([]*model.SwapRequest, error) {
	query := `
		SELECT * FROM swap_request
		WHERE from_id = type::record($user_id) OR to_id = type::record($user_id)
		ORDER BY created_on ASC
	`
	vars := map[string]interface{}{"user_id": ensureRecordID("book_user", userID)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := extractQueryResults(result)
	requests := make([]*model.SwapRequest, 0, len(records))
	for _, item := range records {
		req, err := parseRequestResult(item)
		if err != nil {
			continue
		}
		requests = append(requests, req)
	}
	return requests, nil
}

func parseRequestResult(result interface{}) (*model.SwapRequest, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	return &model.SwapRequest{
		ID:           convertSurrealID(data["id"]),
		FromID:       convertSurrealID(data["from_id"]),
		FromUsername: getString(data, "from_username"),
		ToID:         convertSurrealID(data["to_id"]),
		BookID:       convertSurrealID(data["book_id"]),
		BookTitle:    getString(data, "book_title"),
		CreatedOn:    getTime(data, "created_on"),
	}, nil
}
