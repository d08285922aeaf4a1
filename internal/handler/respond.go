package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mitmail/internal/model"
	"mitmail/internal/service/identity"
	"mitmail/internal/service/messaging"
	"mitmail/internal/store"
)

// ContextUserKey is where the auth middleware stores the resolved caller.
const ContextUserKey = "current_user"

// currentUser returns the caller resolved by the auth middleware.
func currentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*model.User)
	return u, ok
}

// writeError maps service and store errors onto the HTTP error taxonomy.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, messaging.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, identity.ErrEmailExists):
		c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
	case errors.Is(err, identity.ErrInvalidArgument),
		errors.Is(err, messaging.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
