package model

import "time"

// Message is a notification delivered to a user as a side effect of request
// resolution. Delivery state is binary: a message that exists is unread, a
// consumed message is deleted. There is no read flag and no deduplication.
type Message struct {
	ID        string    `json:"id"`
	ToID      string    `json:"to_id"`
	Text      string    `json:"text"`
	CreatedOn time.Time `json:"created_on"`
}

// DeleteMessagesRequest is the payload for bulk message deletion.
type DeleteMessagesRequest struct {
	MessageIDs []string `json:"message_ids"`
}

// DeleteMessagesResponse reports how many messages were actually removed.
// IDs that were absent or belonged to another user are skipped silently.
type DeleteMessagesResponse struct {
	Deleted int `json:"deleted"`
}
