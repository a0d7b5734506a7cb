package mailer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/resend/resend-go/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

// ResendConfig holds Resend API settings.
type ResendConfig struct {
	APIKey string
	// BaseURL points the client at a different API host; nil uses the Resend default.
	BaseURL    *url.URL
	HTTPClient *http.Client
}

// ResendTransport delivers messages through the Resend HTTP API instead of SMTP.
type ResendTransport struct {
	client *resend.Client
}

// NewResendTransport creates a new Resend transport
func NewResendTransport(cfg ResendConfig) *ResendTransport {
	client := resend.NewCustomClient(cfg.HTTPClient, cfg.APIKey)
	if cfg.BaseURL != nil {
		client.BaseURL = cfg.BaseURL
	}
	return &ResendTransport{client: client}
}

// Send implements Transport.
func (t *ResendTransport) Send(ctx context.Context, msg *Message) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "resend.send")
	defer span.End()

	req := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", msg.FromName, msg.FromAddress),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
		ReplyTo: msg.ReplyTo,
	}

	sent, err := t.client.Emails.SendWithContext(ctx, req)
	if err != nil {
		sendErr := &SendError{Kind: classifyHTTPError(err), Op: "resend", Err: err}
		span.RecordError(sendErr)
		span.SetStatus(codes.Error, sendErr.Kind.String())
		return "", sendErr
	}
	return sent.Id, nil
}

func classifyHTTPError(err error) ErrorKind {
	if isNetworkError(err) {
		return KindConnection
	}
	return KindUnknown
}
