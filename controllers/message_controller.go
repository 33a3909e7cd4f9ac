package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/supplyline/supplyline-api/config"
	"github.com/supplyline/supplyline-api/services"
)

// SendMessageRequest represents the request body for sending a message
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// StartConversationRequest represents the request body for opening a new conversation
type StartConversationRequest struct {
	ReceiverID uint   `json:"receiver_id" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// ListConversations handles GET /api/v1/messages/conversations - lists the
// caller's conversation summaries
func ListConversations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	svc := services.NewConversationService(config.GetDB())
	conversations, err := svc.ListConversations(user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    conversations,
	})
}

// GetConversation handles GET /api/v1/messages/conversations/:conversationId -
// returns the messages of one conversation, oldest first. Fetching marks every
// message addressed to the caller as read.
func GetConversation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	conversationID := c.Param("conversationId")

	svc := services.NewConversationService(config.GetDB())
	messages, err := svc.GetConversation(conversationID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    messages,
	})
}

// SendMessage handles POST /api/v1/messages/conversations/:conversationId -
// sends a message into an existing conversation
func SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	conversationID := c.Param("conversationId")

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message content is required")
		return
	}

	svc := services.NewConversationService(config.GetDB())
	message, err := svc.SendInConversation(conversationID, user.ID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Message sent successfully",
		"data":    message,
	})
}

// StartConversation handles POST /api/v1/messages/conversations - opens a
// conversation with another user by sending its first message
func StartConversation(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Receiver and message content are required")
		return
	}

	svc := services.NewConversationService(config.GetDB())
	message, err := svc.StartConversation(user.ID, req.ReceiverID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Message sent successfully",
		"data":    message,
	})
}

// MarkMessageRead handles PUT /api/v1/messages/:messageId/read - marks a
// single message as read (receiver only)
func MarkMessageRead(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	messageID, ok := idParam(c, "messageId")
	if !ok {
		return
	}

	svc := services.NewConversationService(config.GetDB())
	message, err := svc.MarkMessageRead(messageID, user.ID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Message marked as read",
		"data":    message,
	})
}
