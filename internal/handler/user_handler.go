package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mitmail/internal/model"
	"mitmail/internal/service/identity"
)

type UserHandler struct {
	identityService *identity.Service
}

func NewUserHandler(identityService *identity.Service) *UserHandler {
	return &UserHandler{
		identityService: identityService,
	}
}

// userResponse is the user record without the password hash.
type userResponse struct {
	Email         string            `json:"email"`
	AccountType   model.AccountType `json:"account_type"`
	EmailPurpose  model.EmailTag    `json:"email_purpose"`
	MitIDUsername string            `json:"mitid_username"`
}

func newUserResponse(u *model.User) userResponse {
	return userResponse{
		Email:         u.Email,
		AccountType:   u.AccountType,
		EmailPurpose:  u.EmailPurpose,
		MitIDUsername: u.MitIDUsername,
	}
}

// Create handles POST /users. No auth: this is the registration entry.
func (h *UserHandler) Create(c *gin.Context) {
	var req struct {
		Email         string `json:"email"`
		Password      string `json:"password"`
		AccountType   string `json:"account_type"`
		EmailPurpose  string `json:"email_purpose"`
		MitIDUsername string `json:"mitid_username"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	_, err := h.identityService.CreateUser(c.Request.Context(), identity.CreateUserParams{
		Email:         req.Email,
		Password:      req.Password,
		AccountType:   model.AccountType(req.AccountType),
		EmailPurpose:  model.EmailTag(req.EmailPurpose),
		MitIDUsername: req.MitIDUsername,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created successfully"})
}

// Get handles GET /users, returning the authenticated caller's own record.
func (h *UserHandler) Get(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	u, err := h.identityService.GetUser(c.Request.Context(), caller.Email)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, newUserResponse(u))
}

// Delete handles DELETE /users, removing the caller's own record.
func (h *UserHandler) Delete(c *gin.Context) {
	caller, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	if err := h.identityService.DeleteUser(c.Request.Context(), caller.Email); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
