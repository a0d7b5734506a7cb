package routes

import (
	"github.com/osa911/contactrelay/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupEmailRoutes configures the contact relay endpoint
func SetupEmailRoutes(router *gin.RouterGroup, email *handlers.EmailHandler, m *Middleware) {
	// Public endpoint with its own token bucket so health checks never use up the send budget
	router.POST("/send-email", m.SendRateLimit, email.SendEmail)
}
