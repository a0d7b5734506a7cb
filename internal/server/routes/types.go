package routes

import (
	"github.com/osa911/contactrelay/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// Handlers contains all the route handlers
type Handlers struct {
	Email  *handlers.EmailHandler
	Health *handlers.HealthHandler
}

// Middleware contains the middleware that is attached per route rather than globally
type Middleware struct {
	SendRateLimit gin.HandlerFunc
}
