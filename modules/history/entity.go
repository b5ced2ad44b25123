package history

import "time"

// DefaultLimit is the number of messages replayed to a joining
// connection when no explicit limit is given.
const DefaultLimit = 30

// Message represents a persisted chat message. The integer primary key
// preserves insertion order and breaks timestamp ties between
// concurrent senders.
type Message struct {
	ID        uint      `gorm:"primarykey" json:"-"`
	MessageID string    `gorm:"size:36;uniqueIndex;not null" json:"id"`
	RoomKey   string    `gorm:"size:6;index:idx_messages_room_ts,priority:1;not null" json:"room_key"`
	Username  string    `gorm:"size:200" json:"username"`
	Text      string    `json:"text"`
	Ts        time.Time `gorm:"index:idx_messages_room_ts,priority:2" json:"ts"`
}

// TableName returns the table name for the Message model.
func (Message) TableName() string {
	return "messages"
}
