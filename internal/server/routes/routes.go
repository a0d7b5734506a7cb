package routes

import (
	"net/http"

	"github.com/osa911/contactrelay/internal/api/middleware"
	"github.com/osa911/contactrelay/internal/logging"

	"github.com/gin-gonic/gin"
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	api := router.Group("/api")

	SetupHealthRoutes(api, h.Health)
	SetupEmailRoutes(api, h.Email, m)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Not found"})
	})
}

// GlobalConfig is what the middleware shared by every route needs
type GlobalConfig struct {
	AllowedOrigins []string
	Production     bool
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, logger *logging.Logger, cfg GlobalConfig) {
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Strict:         cfg.Production,
	}))
	router.Use(middleware.SecurityHeaders(cfg.Production))
	router.Use(middleware.LimitRequestBody(middleware.DefaultMaxBodySize))
}
