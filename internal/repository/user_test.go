package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/model"
)

// ============================================================================
// Create Tests
// ============================================================================

func TestUserCreate_UsernameCollision_ReturnsErrDuplicate(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
			return nil, errors.New("query error: An error occurred: username already exists")
		},
	}
	repo := NewUserRepository(db)

	err := repo.Create(context.Background(), &model.User{Username: "alice"})
	if !errors.Is(err, database.ErrDuplicate) {
		t.Errorf("expected database.ErrDuplicate, got %v", err)
	}
}

func TestUserCreate_NoRecordReturned_ReturnsQueryError(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryFunc: func(ctx context.Context, query string, vars map[string]interface{}) ([]interface{}, error) {
			return queryResult(), nil
		},
	}
	repo := NewUserRepository(db)

	err := repo.Create(context.Background(), &model.User{Username: "alice"})
	if !errors.Is(err, database.ErrQuery) {
		t.Errorf("expected database.ErrQuery, got %v", err)
	}
}

// ============================================================================
// Lookup Tests
// ============================================================================

func TestGetByUsername_Missing_ReturnsNil(t *testing.T) {
	t.Parallel()
	repo := NewUserRepository(&scriptedDB{})

	user, err := repo.GetByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("expected no error for missing user, got %v", err)
	}
	if user != nil {
		t.Errorf("expected nil user, got %v", user)
	}
}

func TestGetByID_ParsesProfileAndHash(t *testing.T) {
	t.Parallel()
	db := &scriptedDB{
		queryOneFunc: func(ctx context.Context, query string, vars map[string]interface{}) (interface{}, error) {
			return map[string]interface{}{
				"id":       "book_user:1",
				"username": "alice",
				"hash":     "$2a$12$fakehash",
				"profile": map[string]interface{}{
					"full_name": "Alice Smith",
					"city":      "Izmir",
				},
			}, nil
		},
	}
	repo := NewUserRepository(db)

	user, err := repo.GetByID(context.Background(), "book_user:1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "alice" || user.Profile.FullName != "Alice Smith" || user.Profile.City != "Izmir" {
		t.Errorf("unexpected user: %+v", user)
	}
	if user.Hash == nil || *user.Hash != "$2a$12$fakehash" {
		t.Error("expected stored hash parsed")
	}
}
