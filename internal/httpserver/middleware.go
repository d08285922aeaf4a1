package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"mitmail/internal/handler"
	"mitmail/internal/service/identity"
	"mitmail/pkg/metrics"
)

// AuthMiddleware re-authenticates every request from the email and
// password headers. No session or token is involved: the resolved user
// record is stored in the request context for the handlers.
func AuthMiddleware(identityService *identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetHeader("email")
		password := c.GetHeader("password")
		if email == "" || password == "" {
			metrics.IncrementAuthFailure()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			c.Abort()
			return
		}

		u, err := identityService.Authenticate(c.Request.Context(), email, password)
		if err != nil {
			metrics.IncrementAuthFailure()
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			c.Abort()
			return
		}

		c.Set(handler.ContextUserKey, u)
		c.Next()
	}
}

// RequestMetrics records request durations per method, route and status.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequestDuration(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
		)
	}
}

// CORS allows browser clients on other origins, including the credential
// headers the auth middleware reads.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, email, password")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
