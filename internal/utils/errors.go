package utils

import (
	"github.com/osa911/contactrelay/internal/api/dto/common"
	"github.com/osa911/contactrelay/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError logs err and answers with the failure envelope.
// Raw error details are only exposed when debug is set, i.e. outside production.
func HandleAPIError(c *gin.Context, logger *logging.Logger, status int, message string, err error, debug bool) {
	if logger != nil {
		logger.LogHTTPError(
			c.Request.Method,
			c.Request.URL.Path,
			GetRealIP(c),
			status,
			message,
			err,
		)
	}

	c.JSON(status, common.NewErrorResponse(message, err, debug))
}
