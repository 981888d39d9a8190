package repository

import (
	"context"
	"errors"

	"github.com/bararan/swapandread/internal/database"
	"github.com/bararan/swapandread/internal/model"
)

// MessageRepository is the notification outbox. Messages are append-only and
// never deduplicated; deletion by the recipient is the only state change.
type MessageRepository struct {
	db database.Database
}

// NewMessageRepository creates a new message repository
func NewMessageRepository(db database.Database) *MessageRepository {
	return &MessageRepository{db: db}
}

// Deliver appends one message to the recipient's inbox.
func (r *MessageRepository) Deliver(ctx context.Context, toID, text string) error {
	return r.DeliverMany(ctx, []*model.Message{{ToID: toID, Text: text}})
}

// DeliverMany appends a batch of messages in a single transaction: either
// every message lands or none do.
func (r *MessageRepository) DeliverMany(ctx context.Context, msgs []*model.Message) error {
	if len(msgs) == 0 {
		return nil
	}

	batch := database.NewAtomicBatch()
	for _, m := range msgs {
		batch.Add(
			`CREATE message CONTENT {
				to_id: type::record($to_id),
				text: $text,
				created_on: time::now()
			}`,
			map[string]interface{}{
				"to_id": ensureRecordID("book_user", m.ToID),
				"text":  m.Text,
			},
		)
	}

	return batch.Execute(ctx, r.db)
}

// ListForUser returns all undeleted messages for the recipient.
func (r *MessageRepository) ListForUser(ctx context.Context, userID string) ([]*model.Message, error) {
	query := `
		SELECT * FROM message
		WHERE to_id = type::record($user_id)
		ORDER BY created_on ASC
	`
	vars := map[string]interface{}{"user_id": ensureRecordID("book_user", userID)}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return nil, err
	}

	records := extractQueryResults(result)
	messages := make([]*model.Message, 0, len(records))
	for _, item := range records {
		msg, err := parseMessageResult(item)
		if err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages, nil
}

// DeleteMany removes the given messages, scoped to the recipient so users
// cannot delete each other's mail. Absent or foreign ids are skipped.
// Returns the number of messages actually deleted.
func (r *MessageRepository) DeleteMany(ctx context.Context, userID string, messageIDs []string) (int, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}

	ids := make([]interface{}, 0, len(messageIDs))
	for _, id := range messageIDs {
		ids = append(ids, ensureRecordID("message", id))
	}

	query := `
		DELETE message
		WHERE to_id = type::record($user_id) AND <string>id IN $message_ids
		RETURN BEFORE
	`
	vars := map[string]interface{}{
		"user_id":     ensureRecordID("book_user", userID),
		"message_ids": ids,
	}

	result, err := r.db.Query(ctx, query, vars)
	if err != nil {
		return 0, err
	}

	return len(extractQueryResults(result)), nil
}

func parseMessageResult(result interface{}) (*model.Message, error) {
	if result == nil {
		return nil, database.ErrNotFound
	}

	data, ok := result.(map[string]interface{})
	if !ok {
		return nil, errors.New("unexpected result format")
	}

	return &model.Message{
		ID:        convertSurrealID(data["id"]),
		ToID:      convertSurrealID(data["to_id"]),
		Text:      getString(data, "text"),
		CreatedOn: getTime(data, "created_on"),
	}, nil
}
