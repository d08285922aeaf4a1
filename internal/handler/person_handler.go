package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mitmail/internal/service/identity"
	"mitmail/internal/service/messaging"
)

type PersonHandler struct {
	identityService  *identity.Service
	messagingService *messaging.Service
}

func NewPersonHandler(identityService *identity.Service, messagingService *messaging.Service) *PersonHandler {
	return &PersonHandler{
		identityService:  identityService,
		messagingService: messagingService,
	}
}

// CreateOrUpdate handles POST /people. Creates the person for a new
// handle, appends new emails for an existing one.
func (h *PersonHandler) CreateOrUpdate(c *gin.Context) {
	var req struct {
		MitIDUsername string   `json:"mitid_username"`
		UserEmails    []string `json:"user_emails"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.identityService.CreateOrUpdatePerson(c.Request.Context(), req.MitIDUsername, req.UserEmails)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Person saved successfully"})
}

// Get handles GET /people/:handle.
func (h *PersonHandler) Get(c *gin.Context) {
	p, err := h.identityService.GetPerson(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, p)
}

// ListMessages handles GET /people/:handle/emails. No auth: kept for
// parity with the original API, a documented access-control gap.
func (h *PersonHandler) ListMessages(c *gin.Context) {
	messages, err := h.messagingService.ListByHandle(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}
