package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/osa911/contactrelay/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HealthHandler serves the liveness and configuration checks.
type HealthHandler struct {
	user      string
	secretSet bool
	now       func() time.Time
}

// NewHealthHandler creates the health handler for the mailbox identified by
// user. secretSet reports whether its password or API key is present.
func NewHealthHandler(user string, secretSet bool) *HealthHandler {
	return &HealthHandler{
		user:      user,
		secretSet: secretSet,
		now:       time.Now,
	}
}

func (h *HealthHandler) Check(c *gin.Context) {
	c.JSON(http.StatusOK, common.HealthResponse{
		Status:    "OK",
		Message:   "Email server is running",
		Timestamp: h.now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) TestConfig(c *gin.Context) {
	password := common.ValueNotSet
	if h.secretSet {
		password = common.ValueSet
	}

	c.JSON(http.StatusOK, common.ConfigResponse{
		Configured: h.user != "" && h.secretSet,
		User:       MaskUser(h.user),
		Password:   password,
	})
}

// MaskUser hides the local part of a mailbox address.
func MaskUser(user string) string {
	if user == "" {
		return common.ValueNotSet
	}
	_, domain, ok := strings.Cut(user, "@")
	if !ok {
		return "***"
	}
	return "***@" + domain
}
