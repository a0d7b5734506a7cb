package utils

import (
	"net/http"

	"github.com/osa911/contactrelay/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleSuccess sends a 200 response with data
func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// HandleBadRequest rejects a request whose content the relay will not process
func HandleBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, common.NewErrorResponse(message, nil, false))
}
