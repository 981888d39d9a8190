package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/bararan/swapandread/internal/model"
)

// ============================================================================
// Deliver Tests
// ============================================================================

func TestDeliver_AppendsOneMessage(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{}
	repo := NewMessageRepository(db)

	if err := repo.Deliver(context.Background(), "book_user:alice", "bob has accepted your request for Dune."); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	query := db.lastQuery(t)
	if !strings.Contains(query, "CREATE message") {
		t.Errorf("expected message insert, got %q", query)
	}
	vars := db.lastVars(t)
	found := false
	for _, v := range vars {
		if v == "book_user:alice" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected recipient bound in vars, got %v", vars)
	}
}

func TestDeliverMany_AllOrNothing(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{}
	repo := NewMessageRepository(db)

	msgs := []*model.Message{
		{ToID: "book_user:alice", Text: "bob has accepted your request for Dune."},
		{ToID: "book_user:bob", Text: "You have accepted alice's request for Dune."},
	}
	if err := repo.DeliverMany(context.Background(), msgs); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(db.queries) != 1 {
		t.Fatalf("expected both inserts in one round trip, got %d", len(db.queries))
	}
	query := db.lastQuery(t)
	if !strings.HasPrefix(query, "BEGIN TRANSACTION;") || !strings.Contains(query, "COMMIT TRANSACTION;") {
		t.Errorf("expected transaction wrapping, got %q", query)
	}
	if strings.Count(query, "CREATE message") != 2 {
		t.Errorf("expected 2 message inserts, got %q", query)
	}
}

func TestDeliverMany_Empty_DoesNotQuery(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{}
	repo := NewMessageRepository(db)

	if err := repo.DeliverMany(context.Background(), nil); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(db.queries) != 0 {
		t.Errorf("expected no round trip for empty batch, got %d", len(db.queries))
	}
}

// ============================================================================
// DeleteMany Tests
// ============================================================================

func TestDeleteMany_ScopedToRecipient(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
			return queryResult(
				map[string]interface{}{"id": "message:1"},
				map[string]interface{}{"id": "message:2"},
			), nil
		},
	}
	repo := NewMessageRepository(db)

	deleted, err := repo.DeleteMany(context.Background(), "book_user:alice", []string{"message:1", "message:2", "message:foreign"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// The recipient filter keeps users out of each other's inboxes
	query := db.lastQuery(t)
	if !strings.Contains(query, "to_id = type::record($user_id)") {
		t.Errorf("expected recipient scoping in delete, got %q", query)
	}
	if !strings.Contains(query, "RETURN BEFORE") {
		t.Errorf("expected deleted records read back for counting, got %q", query)
	}

	// The count reflects what the database actually removed, not what was asked
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
}

func TestDeleteMany_EmptyIDs_DoesNotQuery(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{}
	repo := NewMessageRepository(db)

	deleted, err := repo.DeleteMany(context.Background(), "book_user:alice", nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if deleted != 0 || len(db.queries) != 0 {
		t.Errorf("expected no-op for empty ids, got %d deleted, %d queries", deleted, len(db.queries))
	}
}
