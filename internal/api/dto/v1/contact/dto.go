package contact

import (
	"strings"

	domain "github.com/osa911/contactrelay/internal/contact"
)

// SendEmailRequest is the body of POST /api/send-email
type SendEmailRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Trimmed converts the request into a submission with surrounding whitespace removed.
func (r SendEmailRequest) Trimmed() domain.Submission {
	return domain.Submission{
		Name:    strings.TrimSpace(r.Name),
		Email:   strings.TrimSpace(r.Email),
		Subject: strings.TrimSpace(r.Subject),
		Message: strings.TrimSpace(r.Message),
	}
}

// SendEmailResponse is returned when the email was accepted by the transport
type SendEmailResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}
