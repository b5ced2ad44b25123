package directory

import "time"

// Room represents a chat room record. Rooms are immutable after creation
// and are never deleted during normal operation.
type Room struct {
	Key       string    `gorm:"primarykey;size:6" json:"key"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the table name for the Room model.
func (Room) TableName() string {
	return "rooms"
}
