package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/model"
)

// UserRepository handles user account storage
type UserRepository struct {
	db database.Database
}

// NewUserRepository creates a new user repository
func NewUserRepository(db database.Database) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user. A username collision surfaces as
// database.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		BEGIN TRANSACTION;
		LET $existing = (SELECT * FROM book_user WHERE username = $username);
		IF array::len($existing) > 0 {
			THROW "username already exists";
		};
		CREATE book_user CONTENT {
			username: $username,
			hash: $hash,
			profile: {
				full_name: $full_name,
				city: $city,
				region: $region
			},
			created_on: time::now(),
			updated_on: time::now()
		};
		COMMIT TRANSACTION;
	`
	var hash string
	if user.Hash != nil {
		hash = *user.Hash
	}
	vars := map[string]interface{}{
		"username":  user.Username,
		"hash":      hash,
		"full_name": user.Profile.FullName,
		"city":      user.Profile.City,
		"region":    user.Profile.Region,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		if isUniqueConstraintError(err) {
			return database.ErrDuplicate
		}
		return err
	}

	for _, item := range extractQueryResults(result) {
		created, err := parseUserResult(item)
		if err != nil {
			continue
		}
		if created.ID != "" {
			user.ID = created.ID
			user.CreatedOn = created.CreatedOn
			user.UpdatedOn = created.UpdatedOn
			return nil
		}
	}

	return fmt.Errorf("%w: create returned no record", database.ErrQuery)
}

// GetByID retrieves a user by ID, returning nil when absent.
func (r *UserRepository) GetByID(ctx context.Context, userID string) (*model.User, error) {
	query := `SELECT * FROM type::record($user_id)`
	vars := map[string]interface{}{"user_id": ensureRecordID("book_user", userID)}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

// GetByUsername retrieves a user by username, returning nil when absent.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	query := `SELECT * FROM book_user WHERE username = $username LIMIT 1`
	vars := map[string]interface{}{"username": username}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseUserResult(result)
}

// UpdateProfile overwrites the user's display profile.
func (r *UserRepository) UpdateProfile(ctx context.Context, userID string, profile model.Profile) (*model.User, error) {
	query := `
		UPDATE type::record($user_id) SET
			profile = {
				full_name: $full_name,
				city: $city,
				region: $region
			},
			updated_on = time::now()
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"user_id":   ensureRecordID("book_user", userID),
		"full_name": profile.FullName,
		"city":      profile.City,
		"region":    profile.Region,
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseUserResult(result)
}

func parseUserResult(result interface{}) (*model.User, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	user := &model.User{
		ID:        convertSurrealID(data["id"]),
		Username:  getString(data, "username"),
		CreatedOn: getTime(data, "created_on"),
		UpdatedOn: getTime(data, "updated_on"),
	}

	if h, ok := data["hash"].(string); ok && h != "" {
		user.Hash = &h
	}

	if p, ok := data["profile"].(map[string]interface{}); ok {
		user.Profile = model.Profile{
			FullName: getString(p, "full_name"),
			City:     getString(p, "city"),
			Region:   getString(p, "region"),
		}
	}

	return user, nil
}
