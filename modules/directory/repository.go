package directory

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository provides access to room storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new room repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create saves a new room to the database.
func (r *Repository) Create(room *Room) error {
	if err := r.db.Create(room).Error; err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// FindByKey retrieves a room by its normalized key.
func (r *Repository) FindByKey(key string) (*Room, error) {
	var room Room
	if err := r.db.First(&room, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find room: %w", err)
	}
	return &room, nil
}

// Exists checks whether a room exists for the normalized key.
func (r *Repository) Exists(key string) (bool, error) {
	var count int64
	if err := r.db.Model(&Room{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check room existence: %w", err)
	}
	return count > 0, nil
}
