package chat

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// MessageStore is the persistence boundary of the relay. The hub takes
// it by injection so relay behavior is testable without a database.
type MessageStore interface {
	// History returns a room's messages ordered by timestamp ascending.
	History(ctx context.Context, roomID string) ([]ChatMessage, error)

	// Save persists one message.
	Save(ctx context.Context, msg *ChatMessage) error
}

type gormStore struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewStore wraps a gorm handle with bounded per-operation timeouts.
func NewStore(db *gorm.DB, timeout time.Duration) MessageStore {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &gormStore{db: db, timeout: timeout}
}

func (s *gormStore) History(ctx context.Context, roomID string) ([]ChatMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var messages []ChatMessage
	err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("timestamp ASC").
		Find(&messages).Error
	return messages, err
}

func (s *gormStore) Save(ctx context.Context, msg *ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.db.WithContext(ctx).Create(msg).Error
}
