package handlers

import (
	"net/http"
	"time"

	"github.com/osa911/contactrelay/internal/api/dto/v1/contact"
	domain "github.com/osa911/contactrelay/internal/contact"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mailer"
	"github.com/osa911/contactrelay/internal/utils"

	"github.com/gin-gonic/gin"
)

// Response messages of the send-email endpoint
const (
	MsgInvalidBody    = "Invalid request body"
	MsgFieldsRequired = "All fields are required"
	MsgInvalidEmail   = "Invalid email format"
	MsgSent           = "Email sent successfully!"
	MsgAuthFailed     = "Email authentication failed. Please check credentials."
	MsgConnectFailed  = "Failed to connect to email server. Please try again later."
	MsgGenericFailure = "Failed to send email. Please try again."
)

// failureMessages maps transport error kinds to what the caller is told.
var failureMessages = map[mailer.ErrorKind]string{
	mailer.KindAuth:       MsgAuthFailed,
	mailer.KindConnection: MsgConnectFailed,
	mailer.KindUnknown:    MsgGenericFailure,
}

func failureMessage(err error) string {
	if msg, ok := failureMessages[mailer.KindOf(err)]; ok {
		return msg
	}
	return MsgGenericFailure
}

type EmailHandler struct {
	transport mailer.Transport
	identity  mailer.Identity
	logger    *logging.Logger
	debug     bool
	now       func() time.Time
}

// NewEmailHandler creates the send-email handler. debug exposes raw transport
// errors to callers and must be off in production.
func NewEmailHandler(transport mailer.Transport, identity mailer.Identity, logger *logging.Logger, debug bool) *EmailHandler {
	return &EmailHandler{
		transport: transport,
		identity:  identity,
		logger:    logger,
		debug:     debug,
		now:       time.Now,
	}
}

func (h *EmailHandler) SendEmail(c *gin.Context) {
	var req contact.SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleAPIError(c, h.logger, http.StatusBadRequest, MsgInvalidBody, err, h.debug)
		return
	}

	sub := req.Trimmed()
	if sub.Name == "" || sub.Email == "" || sub.Subject == "" || sub.Message == "" {
		utils.HandleBadRequest(c, MsgFieldsRequired)
		return
	}

	if !domain.IsValidEmail(sub.Email) {
		utils.HandleBadRequest(c, MsgInvalidEmail)
		return
	}

	msg, err := mailer.NewContactMessage(h.identity, sub, h.now())
	if err != nil {
		utils.HandleAPIError(c, h.logger, http.StatusInternalServerError, MsgGenericFailure, err, h.debug)
		return
	}

	messageID, err := h.transport.Send(c.Request.Context(), msg)
	if err != nil {
		utils.HandleAPIError(c, h.logger, http.StatusInternalServerError, failureMessage(err), err, h.debug)
		return
	}

	if h.logger != nil {
		h.logger.Info("Contact email relayed: %s", messageID)
	}

	utils.HandleSuccess(c, contact.SendEmailResponse{
		Success:   true,
		Message:   MsgSent,
		MessageID: messageID,
	})
}
