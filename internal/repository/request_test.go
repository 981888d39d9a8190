package repository

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/model"
)

func requestRecord(id string) map[string]interface{} {
	return map[string]interface{}{
		"id":            id,
		"from_id":       "book_user:alice",
		"from_username": "alice",
		"to_id":         "book_user:bob",
		"book_id":       "book:123",
		"book_title":    "Dune",
	}
}

func pendingRequest() *model.SwapRequest {
	return &model.SwapRequest{
		FromID:       "book_user:alice",
		FromUsername: "alice",
		ToID:         "book_user:bob",
		BookID:       "book:123",
		BookTitle:    "Dune",
	}
}

// ============================================================================
// Create Tests
// ============================================================================

func TestCreate_GuardsOnFullTriple(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
			return queryResult(requestRecord("swap_request:1")), nil
		},
	}
	repo := NewRequestRepository(db)

	req := pendingRequest()
	if err := repo.Create(context.Background(), req); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	query := db.lastQuery(t)
	// The duplicate check keys on sender AND recipient AND book, and runs in
	// the same transaction as the insert so two identical creates cannot race
	if !strings.Contains(query, "BEGIN TRANSACTION;") {
		t.Errorf("expected check and insert in one transaction, got %q", query)
	}
	for _, clause := range []string{"from_id = type::record($from_id)", "to_id = type::record($to_id)", "book_id = type::record($book_id)"} {
		if !strings.Contains(query, clause) {
			t.Errorf("expected duplicate guard clause %q, got %q", clause, query)
		}
	}
	if !strings.Contains(query, "THROW") {
		t.Errorf("expected THROW on existing pending request, got %q", query)
	}

	if req.ID != "swap_request:1" {
		t.Errorf("expected created id reflected onto request, got %q", req.ID)
	}
}

func TestCreate_DuplicatePending_ReturnsErrDuplicate(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
			return nil, errors.New("query error: An error occurred: duplicate pending request")
		},
	}
	repo := NewRequestRepository(db)

	err := repo.Create(context.Background(), pendingRequest())
	if !errors.Is(err, database.ErrDuplicate) {
		t.Errorf("expected database.ErrDuplicate, got %v", err)
	}
}

func TestCreate_NoRecordReturned_ReturnsQueryError(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
			return queryResult(), nil
		},
	}
	repo := NewRequestRepository(db)

	err := repo.Create(context.Background(), pendingRequest())
	if !errors.Is(err, database.ErrQuery) {
		t.Errorf("expected database.ErrQuery, got %v", err)
	}
}

// ============================================================================
// Remove Tests
// ============================================================================

func TestRemove_AtomicDeleteReturnsStoredContent(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryOneFunc: func(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
			return requestRecord("swap_request:1"), nil
		},
	}
	repo := NewRequestRepository(db)

	stored, err := repo.Remove(context.Background(), "swap_request:1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Delete and read-back are one statement; the winner of a race gets the
	// record, the loser gets nothing
	query := db.lastQuery(t)
	if !strings.Contains(query, "DELETE") || !strings.Contains(query, "RETURN BEFORE") {
		t.Errorf("expected atomic DELETE RETURN BEFORE, got %q", query)
	}
	if stored.FromID != "book_user:alice" || stored.BookTitle != "Dune" {
		t.Errorf("expected stored content returned, got %+v", stored)
	}
}

func TestRemove_MissingRequest_ReturnsNotFound(t *testing.T) {
	t.Parallel()
	repo := NewRequestRepository(&scriptedDB{})

	_, err := repo.Remove(context.Background(), "swap_request:gone")
	if !errors.Is(err, database.ErrNotFound) {
		t.Errorf("expected database.ErrNotFound, got %v", err)
	}
}

// ============================================================================
// Lookup Tests
// ============================================================================

func TestRequestGet_Missing_ReturnsNil(t *testing.T) {
	t.Parallel()
	repo := NewRequestRepository(&scriptedDB{})

	req, err := repo.Get(context.Background(), "swap_request:gone")
	if err != nil {
		t.Fatalf("expected no error for missing request, got %v", err)
	}
	if req != nil {
		t.Errorf("expected nil request, got %v", req)
	}
}

func TestFindForUser_MatchesEitherDirection(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
			return queryResult(requestRecord("swap_request:1")), nil
		},
	}
	repo := NewRequestRepository(db)

	requests, err := repo.FindForUser(context.Background(), "book_user:bob")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	query := db.lastQuery(t)
	if !strings.Contains(query, "from_id = type::record($user_id) OR to_id = type::record($user_id)") {
		t.Errorf("expected sender-or-recipient filter, got %q", query)
	}
	if len(requests) != 1 {
		t.Errorf("expected 1 request parsed, got %d", len(requests))
	}
}
