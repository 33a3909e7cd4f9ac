package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/supplyline/supplyline-api/models"
	"gorm.io/gorm"
)

// MaxMessageLength is the longest message content we accept
const MaxMessageLength = 1000

// MessageService is the message store: it owns all reads and writes of
// message rows. Conversation-level behavior (grouping, authorization,
// read receipts) lives in ConversationService on top of this.
type MessageService struct {
	db *gorm.DB
}

// NewMessageService creates a new message service backed by db
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

// Append validates and persists a new message from sender to receiver.
// The conversation ID is derived from the participant pair; IsRead starts
// false. Returns the stored record with both participants loaded.
func (s *MessageService) Append(senderID, receiverID uint, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ValidationError("Message content is required")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return nil, ValidationError(fmt.Sprintf("Message cannot be more than %d characters", MaxMessageLength))
	}

	message := models.Message{
		SenderID:       senderID,
		ReceiverID:     receiverID,
		Content:        content,
		ConversationID: models.ConversationIDFor(senderID, receiverID),
	}

	if err := s.db.Create(&message).Error; err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	if err := s.db.Preload("Sender").Preload("Receiver").First(&message, message.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to load message details: %w", err)
	}

	return &message, nil
}

// ListByConversation returns all messages in a conversation, oldest first
func (s *MessageService) ListByConversation(conversationID string) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.Where("conversation_id = ?", conversationID).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// ListForParticipant returns every message where the user is sender or
// receiver, newest first. Used for conversation aggregation.
func (s *MessageService) ListForParticipant(userID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := s.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Preload("Sender").
		Preload("Receiver").
		Order("created_at DESC, id DESC").
		Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	return messages, nil
}

// MarkReadBulk sets IsRead on the given messages in a single update. The
// "is_read = false" predicate makes it idempotent and safe under concurrent
// fetches of the same conversation. Returns the number of rows updated.
func (s *MessageService) MarkReadBulk(messageIDs []uint) (int64, error) {
	if len(messageIDs) == 0 {
		return 0, nil
	}

	result := s.db.Model(&models.Message{}).
		Where("id IN ? AND is_read = ?", messageIDs, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", result.Error)
	}

	return result.RowsAffected, nil
}

// MarkOneRead marks a single message read on behalf of its receiver.
// Idempotent: marking an already-read message is a no-op, not an error.
func (s *MessageService) MarkOneRead(messageID, callerID uint) (*models.Message, error) {
	var message models.Message
	if err := s.db.Preload("Sender").Preload("Receiver").First(&message, messageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFoundError("Message not found")
		}
		return nil, fmt.Errorf("failed to fetch message: %w", err)
	}

	if message.ReceiverID != callerID {
		return nil, ForbiddenError("Not authorized to mark this message as read")
	}

	if !message.IsRead {
		if err := s.db.Model(&message).Update("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("failed to mark message read: %w", err)
		}
		message.IsRead = true
	}

	return &message, nil
}
