package repository

import (
	"context"
	"errors"

	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/model"
)

// BookRepository is the book registry: metadata plus the current owner set.
// The owner set has set semantics (no duplicates) and a book whose last owner
// leaves is deleted, so an ownerless book is never observable.
type BookRepository struct {
	db database.Database
}

// NewBookRepository creates a new book repository
func NewBookRepository(db database.Database) *BookRepository {
	return &BookRepository{db: db}
}

// UpsertOwnership inserts the book if absent and adds ownerID to its owner
// set. Metadata is set-on-insert: an existing record keeps its title, author,
// year and cover, whatever the caller supplied. Adding an owner who is
// already in the set is a no-op.
func (r *BookRepository) UpsertOwnership(ctx context.Context, book *model.Book, ownerID string) error {
	query := `
		UPSERT type::record($book_id) SET
			title = title ?? $title,
			author = author ?? $author,
			pub_year = pub_year ?? $pub_year,
			img_url = img_url ?? $img_url,
			created_on = created_on ?? time::now(),
			owners = array::union(owners ?? [], [type::record($owner_id)])
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"book_id":  ensureRecordID("book", book.ID),
		"title":    book.Title,
		"author":   book.Author,
		"pub_year": book.PubYear,
		"img_url":  book.ImgURL,
		"owner_id": ensureRecordID("book_user", ownerID),
	}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		return err
	}

	stored, err := parseBookResult(result)
	if err != nil {
		return err
	}
	*book = *stored
	return nil
}

// RemoveOwnership removes ownerID from the owner set and deletes the book
// when the set becomes empty. Both statements run in one transaction so an
// ownerless record never survives. Removing a non-owner is a no-op.
func (r *BookRepository) RemoveOwnership(ctx context.Context, bookID, ownerID string) error {
	recordID := ensureRecordID("book", bookID)

	batch := database.NewAtomicBatch()
	batch.Add(
		`UPDATE type::record($book_id) SET owners = array::difference(owners, [type::record($owner_id)])`,
		map[string]interface{}{
			"book_id":  recordID,
			"owner_id": ensureRecordID("book_user", ownerID),
		},
	)
	batch.Add(
		`DELETE type::record($book_id) WHERE array::len(owners) = 0`,
		map[string]interface{}{"book_id": recordID},
	)

	return batch.Execute(ctx, r.db)
}

// TransferOwnership moves the book from one owner to another in a single
// statement, so no reader can observe the book without fromID yet without
// toID, and the book is never ownerless mid-transfer.
func (r *BookRepository) TransferOwnership(ctx context.Context, bookID, fromID, toID string) error {
	query := `
		UPDATE type::record($book_id) SET
			owners = array::union(array::difference(owners, [type::record($from_id)]), [type::record($to_id)])
		RETURN AFTER
	`
	vars := map[string]interface{}{
		"book_id": ensureRecordID("book", bookID),
		"from_id": ensureRecordID("book_user", fromID),
		"to_id":   ensureRecordID("book_user", toID),
	}

	_, err := r.db.QueryOne(ctx, query, vars)
	if errors.Is(err, database.ErrNotFound) {
		// Book vanished between resolution steps; nothing to transfer.
		return database.ErrNotFound
	}
	return err
}

// Get retrieves a book by ID, returning nil when it does not exist.
func (r *BookRepository) Get(ctx context.Context, bookID string) (*model.Book, error) {
	query := `SELECT * FROM type::record($book_id)`
	vars := map[string]interface{}{"book_id": ensureRecordID("book", bookID)}

	result, err := r.db.QueryOne(ctx, query, vars)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return parseBookResult(result)
}

// FindByOwner returns all books where userID is in the owner set.
func (r *BookRepository) FindByOwner(ctx context.Context, userID string) ([]*model.Book, error) {
	query := `SELECT * FROM book WHERE type::record($user_id) IN owners`
	vars := map[string]interface{}{"user_id": ensureRecordID("book_user", userID)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	return parseBooksResult(result)
}

// FindAll returns the full catalog, insertion order.
func (r *BookRepository) FindAll(ctx context.Context) ([]*model.Book, error) {
	result, err := r.db.Query(ctx, `SELECT * FROM book`, nil)
	if err != nil {
		return nil, err
	}

	return parseBooksResult(result)
}

// Helper functions

func parseBookResult(result interface{}) (*model.Book, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	book := &model.Book{
		ID:        convertSurrealID(data["id"]),
		Title:     getString(data, "title"),
		Author:    getString(data, "author"),
		PubYear:   getString(data, "pub_year"),
		ImgURL:    getString(data, "img_url"),
		Owners:    getIDSlice(data, "owners"),
		CreatedOn: getTime(data, "created_on"),
	}
	if book.Owners == nil {
		book.Owners = []string{}
	}

	return book, nil
}

func parseBooksResult(result []interface{}) ([]*model.Book, error) {
	records := extractQueryResults(result)
	books := make([]*model.Book, 0, len(records))
	for _, item := range records {
		book, err := parseBookResult(item)
		if err != nil {
			continue
		}
		books = append(books, book)
	}
	return books, nil
}
