package service

import (
	"context"

	"github.com/bararan/swapandread/internal/model"
)

// MessageStore defines the interface for message storage
type MessageStore interface {
	ListForUser(ctx context.Context, userID string) ([]*model.Message, error)
	DeleteMany(ctx context.Context, userID string, messageIDs []string) (int, error)
}

// InboxService manages a user's notification messages.
type InboxService struct {
	store MessageStore
}

// InboxServiceConfig holds configuration for the inbox service
type InboxServiceConfig struct {
	Store MessageStore
}

// NewInboxService creates a new inbox service
func NewInboxService(cfg InboxServiceConfig) *InboxService {
	return &InboxService{store: cfg.Store}
}

// ListMessages returns the user's messages, oldest first.
func (s *InboxService) ListMessages(ctx context.Context, userID string) ([]*model.Message, error) {
	return s.store.ListForUser(ctx, userID)
}

// DeleteMessages removes the given messages from the user's inbox and
// reports how many were deleted. IDs that do not exist, or that belong to
// another user's inbox, are skipped, so retries are harmless.
func (s *InboxService) DeleteMessages(ctx context.Context, userID string, messageIDs []string) (*model.DeleteMessagesResponse, error) {
	if len(messageIDs) == 0 {
		return &model.DeleteMessagesResponse{Deleted: 0}, nil
	}
	deleted, err := s.store.DeleteMany(ctx, userID, messageIDs)
	if err != nil {
		return nil, err
	}
	return &model.DeleteMessagesResponse{Deleted: deleted}, nil
}
