package history

import (
	"fmt"

	"gorm.io/gorm"
)

// Repository provides access to message storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new message repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Append saves a new message to the database.
func (r *Repository) Append(msg *Message) error {
	if err := r.db.Create(msg).Error; err != nil {
		return fmt.Errorf("failed to append message: %w", err)
	}
	return nil
}

// Recent returns the most recent limit messages for a room, oldest
// first. The query fetches newest-first bounded by limit and reverses
// in memory, so replay cost is O(limit) regardless of how much history
// the room has accumulated.
func (r *Repository) Recent(roomKey string, limit int) ([]*Message, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	var messages []*Message
	err := r.db.
		Where("room_key = ?", roomKey).
		Order("ts DESC").
		Order("id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}

	// Reverse newest-first to oldest-first for replay.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
