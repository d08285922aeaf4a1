package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mitmail/internal/service/messaging"
)

type MessageHandler struct {
	messagingService *messaging.Service
}

func NewMessageHandler(messagingService *messaging.Service) *MessageHandler {
	return &MessageHandler{
		messagingService: messagingService,
	}
}

// List handles GET /emails: every message the caller received or sent.
func (h *MessageHandler) List(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	messages, err := h.messagingService.List(c.Request.Context(), caller.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// Send handles POST /emails.
func (h *MessageHandler) Send(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req struct {
		Text          string `json:"text"`
		SenderEmail   string `json:"sender_email"`
		ReceiverEmail string `json:"receiver_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.messagingService.Send(c.Request.Context(), caller, req.SenderEmail, req.ReceiverEmail, req.Text)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email sent successfully"})
}

// Delete handles DELETE /emails/:id. Sender or receiver only.
func (h *MessageHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.messagingService.Delete(c.Request.Context(), caller.Email, c.Param("id")); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Email deleted successfully"})
}
