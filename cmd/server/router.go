package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/classroom-chat/internal/handlers"
	"github.com/thereayou/classroom-chat/internal/metrics"
	"github.com/thereayou/classroom-chat/internal/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Messages  *handlers.HTTPMessageHandler
	Users     *handlers.UserHandler
	Audit     *handlers.AuditHandler
	WebSocket *handlers.WebSocketHandler
}

func APIEndpoints(r *gin.Engine, h Handlers, authn *middleware.Authenticator, m *metrics.Metrics) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(m.Handler()))

	// Auth endpoints
	auth := r.Group("/auth")
	{
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", authn.Optional(), h.Auth.Logout)
	}

	messages := r.Group("/messages", authn.Required())
	{
		messages.GET("", h.Messages.GetMessages)
		messages.POST("/filter", h.Messages.FilterMessages)
		messages.POST("/add", h.Messages.SendMessage)
		messages.PUT("/edit", h.Messages.UpdateMessage)
		messages.DELETE("/:id", h.Messages.DeleteMessage)
	}

	r.GET("/users", authn.Required(), h.Users.GetUsers)
	r.GET("/audit", authn.Required(), middleware.RequireAdmin(), h.Audit.GetAuditLogs)

	r.GET("/ws", authn.WebSocket(), h.WebSocket.HandleWebSocket)
}
