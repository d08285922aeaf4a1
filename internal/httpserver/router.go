package httpserver

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mitmail/internal/handler"
	"mitmail/internal/mq"
	"mitmail/internal/service/identity"
	"mitmail/internal/store"
)

type Router struct {
	Engine *gin.Engine
}

func NewRouter(
	userHandler *handler.UserHandler,
	personHandler *handler.PersonHandler,
	messageHandler *handler.MessageHandler,
	identityService *identity.Service,
	st store.Store,
	publisher *mq.Publisher,
) *Router {
	r := gin.Default()
	r.Use(CORS())
	r.Use(RequestMetrics())

	// Health endpoints
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c, 1*time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(500, gin.H{"status": "store_not_ready", "error": err.Error()})
			return
		}

		if publisher != nil && !publisher.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public
	r.POST("/users", userHandler.Create)
	r.POST("/people", personHandler.CreateOrUpdate)
	r.GET("/people/:handle", personHandler.Get)
	r.GET("/people/:handle/emails", personHandler.ListMessages)

	// Protected: every request re-authenticates from raw credentials
	auth := r.Group("/")
	auth.Use(AuthMiddleware(identityService))
	{
		auth.GET("/users", userHandler.Get)
		auth.DELETE("/users", userHandler.Delete)
		auth.GET("/emails", messageHandler.List)
		auth.POST("/emails", messageHandler.Send)
		auth.DELETE("/emails/:id", messageHandler.Delete)
	}

	return &Router{Engine: r}
}

func (r *Router) Run(port string) error {
	return r.Engine.Run(port)
}
