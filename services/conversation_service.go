package services

import (
	"fmt"

	"github.com/supplyline/supplyline-api/models"
	"gorm.io/gorm"
)

// ConversationSummary is the per-counterpart view of a message thread. It is
// a projection computed per request, never persisted.
type ConversationSummary struct {
	ID           string          `json:"id"`
	Participants []models.User   `json:"participants"`
	LastMessage  *models.Message `json:"last_message,omitempty"`
	UnreadCount  int             `json:"unread_count"`
}

// ConversationService exposes conversation-scoped operations: listing
// summaries, fetching a thread (which doubles as the read receipt), and
// sending. Authorization is by participation: a caller only ever sees
// conversations that contain at least one of their own messages.
type ConversationService struct {
	db       *gorm.DB
	messages *MessageService
}

// NewConversationService creates a new conversation service backed by db
func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db, messages: NewMessageService(db)}
}

// ListConversations builds a summary for every conversation the caller
// participates in. Participants and last message come from the most recent
// message of each thread; the unread count only counts messages where the
// caller is the receiver. Output order is not significant.
func (s *ConversationService) ListConversations(callerID uint) ([]ConversationSummary, error) {
	messages, err := s.messages.ListForParticipant(callerID)
	if err != nil {
		return nil, err
	}

	// messages are newest-first, so the first one seen per conversation is
	// its most recent
	summaries := make([]ConversationSummary, 0)
	index := make(map[string]int)
	for i := range messages {
		message := messages[i]
		pos, seen := index[message.ConversationID]
		if !seen {
			pos = len(summaries)
			index[message.ConversationID] = pos
			summaries = append(summaries, ConversationSummary{
				ID:           message.ConversationID,
				Participants: []models.User{message.Sender, message.Receiver},
				LastMessage:  &messages[i],
			})
		}
		if message.ReceiverID == callerID && !message.IsRead {
			summaries[pos].UnreadCount++
		}
	}

	return summaries, nil
}

// GetConversation returns all messages of a conversation, oldest first, and
// as a side effect marks every message where the caller is the receiver as
// read. Fetching a conversation is the only path by which unread counts
// decrease. Callers who are not a participant get the same NotFound as for a
// conversation that does not exist.
func (s *ConversationService) GetConversation(conversationID string, callerID uint) ([]models.Message, error) {
	if err := s.requireParticipant(conversationID, callerID); err != nil {
		return nil, err
	}

	messages, err := s.messages.ListByConversation(conversationID)
	if err != nil {
		return nil, err
	}

	var unreadIDs []uint
	for _, message := range messages {
		if message.ReceiverID == callerID && !message.IsRead {
			unreadIDs = append(unreadIDs, message.ID)
		}
	}
	if _, err := s.messages.MarkReadBulk(unreadIDs); err != nil {
		return nil, err
	}

	return messages, nil
}

// SendInConversation appends a message to an existing conversation. The
// receiver is resolved as the other party of any prior message in the thread,
// so the thread must already exist; use StartConversation to open a new one.
func (s *ConversationService) SendInConversation(conversationID string, senderID uint, content string) (*models.Message, error) {
	var prior models.Message
	if err := s.db.Where("conversation_id = ? AND (sender_id = ? OR receiver_id = ?)",
		conversationID, senderID, senderID).
		First(&prior).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFoundError("Conversation not found")
		}
		return nil, fmt.Errorf("failed to fetch conversation: %w", err)
	}

	receiverID := prior.SenderID
	if prior.SenderID == senderID {
		receiverID = prior.ReceiverID
	}

	return s.messages.Append(senderID, receiverID, content)
}

// StartConversation opens a thread with another user by sending its first
// message. The receiver must be an active account; the conversation itself
// has no row of its own, it exists once the first message does.
func (s *ConversationService) StartConversation(senderID, receiverID uint, content string) (*models.Message, error) {
	if receiverID == senderID {
		return nil, ValidationError("Cannot start a conversation with yourself")
	}

	var receiver models.User
	if err := s.db.Where("id = ? AND is_active = ?", receiverID, true).First(&receiver).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, NotFoundError("Recipient not found")
		}
		return nil, fmt.Errorf("failed to fetch recipient: %w", err)
	}

	return s.messages.Append(senderID, receiverID, content)
}

// MarkMessageRead marks a single message read on behalf of its receiver
func (s *ConversationService) MarkMessageRead(messageID, callerID uint) (*models.Message, error) {
	return s.messages.MarkOneRead(messageID, callerID)
}

// requireParticipant fails with NotFound unless at least one message in the
// conversation involves the caller. The same error masks both a missing
// conversation and one the caller has no business seeing.
func (s *ConversationService) requireParticipant(conversationID string, callerID uint) error {
	var probe models.Message
	err := s.db.Where("conversation_id = ? AND (sender_id = ? OR receiver_id = ?)",
		conversationID, callerID, callerID).
		First(&probe).Error
	if err == gorm.ErrRecordNotFound {
		return NotFoundError("Conversation not found")
	}
	if err != nil {
		return fmt.Errorf("failed to fetch conversation: %w", err)
	}
	return nil
}
