package mailer

import (
	"context"
	"strings"
	"time"

	"github.com/osa911/contactrelay/internal/contact"
)

const (
	// DefaultFromName is the display name used on relayed contact emails.
	DefaultFromName = "Portfolio Contact Form"
	// SubjectPrefix is prepended to the visitor's subject.
	SubjectPrefix = "Portfolio Contact: "

	tracerName = "github.com/osa911/contactrelay/internal/mailer"
)

// Transport delivers a fully rendered message and returns the transport's message ID.
type Transport interface {
	Send(ctx context.Context, msg *Message) (string, error)
}

// Identity describes who relayed contact emails come from and go to.
type Identity struct {
	FromName    string
	FromAddress string
	To          string
}

// Message is a rendered email ready for a Transport.
type Message struct {
	FromName    string
	FromAddress string
	To          string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Date        time.Time
}

var headerBreaks = strings.NewReplacer("\r", "", "\n", " ")

// NewContactMessage renders a contact submission into a Message addressed
// from the relay's own mailbox, with replies going to the visitor.
func NewContactMessage(id Identity, sub contact.Submission, receivedAt time.Time) (*Message, error) {
	if id.To == "" {
		return nil, ErrNoRecipient
	}
	if id.FromAddress == "" {
		return nil, ErrNoSender
	}

	fromName := id.FromName
	if fromName == "" {
		fromName = DefaultFromName
	}

	data := contactData{
		Name:       sub.Name,
		Email:      sub.Email,
		Subject:    sub.Subject,
		Message:    sub.Message,
		ReceivedAt: FormatReceived(receivedAt),
	}

	html, text, err := renderContact(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		FromName:    fromName,
		FromAddress: id.FromAddress,
		To:          id.To,
		ReplyTo:     sub.Email,
		Subject:     SubjectPrefix + headerBreaks.Replace(sub.Subject),
		HTML:        html,
		Text:        text,
		Date:        receivedAt,
	}, nil
}

// FormatReceived renders the human-readable received timestamp.
func FormatReceived(t time.Time) string {
	return t.Format("Monday, January 2, 2006 at 03:04 PM MST")
}
