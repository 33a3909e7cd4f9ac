package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Message represents a private message between two users. Every message is
// tagged with a conversation ID derived from its two participants, so all
// traffic between the same pair of users lands in one thread no matter who
// sent first. Messages are append-only: the only mutation ever applied is
// flipping IsRead to true.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	SenderID       uint      `gorm:"not null;index" json:"sender_id"`
	Sender         User      `gorm:"foreignKey:SenderID" json:"sender"`
	ReceiverID     uint      `gorm:"not null;index:idx_messages_receiver_read" json:"receiver_id"`
	Receiver       User      `gorm:"foreignKey:ReceiverID" json:"receiver"`
	Content        string    `gorm:"type:text;not null" json:"content"`
	IsRead         bool      `gorm:"not null;default:false;index:idx_messages_receiver_read" json:"is_read"`
	ConversationID string    `gorm:"not null;index:idx_messages_conversation_created" json:"conversation_id"`
	CreatedAt      time.Time `gorm:"index:idx_messages_conversation_created" json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Message model
func (Message) TableName() string {
	return "messages"
}

// BeforeCreate derives the conversation ID from the participant pair when the
// caller did not resolve it already
func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ConversationID == "" {
		m.ConversationID = ConversationIDFor(m.SenderID, m.ReceiverID)
	}
	return nil
}

// ConversationIDFor maps an unordered pair of user IDs to the canonical
// conversation identifier: the decimal forms sorted lexicographically and
// joined with "_". Symmetric in its arguments, and collision-free across
// distinct pairs since "_" never appears inside a decimal ID.
func ConversationIDFor(a, b uint) string {
	x := strconv.FormatUint(uint64(a), 10)
	y := strconv.FormatUint(uint64(b), 10)
	if y < x {
		x, y = y, x
	}
	return x + "_" + y
}
