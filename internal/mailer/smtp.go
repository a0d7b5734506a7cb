package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// TLSMode selects how the SMTP session is secured.
type TLSMode string

const (
	TLSImplicit TLSMode = "implicit"
	TLSStartTLS TLSMode = "starttls"
	TLSNone     TLSMode = "none"
)

const defaultSMTPTimeout = 15 * time.Second

// SMTPConfig holds the outbound mailbox settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	TLS       TLSMode
	Timeout   time.Duration
	// TLSConfig overrides the default client TLS settings, e.g. to trust a private CA.
	TLSConfig *tls.Config
}

// SMTPTransport sends each message over a fresh authenticated SMTP session.
type SMTPTransport struct {
	cfg SMTPConfig
}

// NewSMTPTransport creates a new SMTP transport
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultSMTPTimeout
	}
	if cfg.TLS == "" {
		cfg.TLS = TLSImplicit
	}
	return &SMTPTransport{cfg: cfg}
}

// Send implements Transport.
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) (string, error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "smtp.send")
	defer span.End()
	span.SetAttributes(
		attribute.String("smtp.host", t.cfg.Host),
		attribute.Int("smtp.port", t.cfg.Port),
		attribute.String("smtp.tls", string(t.cfg.TLS)),
	)

	messageID, err := t.send(ctx, msg)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, KindOf(err).String())
		return "", err
	}
	span.SetAttributes(attribute.String("mail.message_id", messageID))
	return messageID, nil
}

func (t *SMTPTransport) send(ctx context.Context, msg *Message) (string, error) {
	raw, messageID, err := compose(msg)
	if err != nil {
		return "", &SendError{Kind: KindUnknown, Op: "compose", Err: err}
	}

	client, err := t.dial(ctx)
	if err != nil {
		return "", &SendError{Kind: KindConnection, Op: "dial", Err: err}
	}
	defer client.Close()

	if t.cfg.Username != "" {
		auth := sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password)
		if err := client.Auth(auth); err != nil {
			return "", &SendError{Kind: classifySMTPError(err, true), Op: "auth", Err: err}
		}
	}

	if err := client.SendMail(msg.FromAddress, []string{msg.To}, bytes.NewReader(raw)); err != nil {
		return "", &SendError{Kind: classifySMTPError(err, false), Op: "send", Err: err}
	}

	// The server has accepted the message at this point; a failed QUIT doesn't undo that.
	_ = client.Quit()

	return messageID, nil
}

func (t *SMTPTransport) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
	dialer := &net.Dialer{Timeout: t.cfg.Timeout}
	tlsConfig := t.tlsConfig()

	var (
		conn net.Conn
		err  error
	)
	if t.cfg.TLS == TLSImplicit {
		conn, err = (&tls.Dialer{NetDialer: dialer, Config: tlsConfig}).DialContext(ctx, "tcp", addr)
	} else {
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, err
	}

	deadline := time.Now().Add(t.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return nil, err
	}

	if t.cfg.TLS != TLSStartTLS {
		return smtp.NewClient(conn), nil
	}

	client, err := smtp.NewClientStartTLS(conn, tlsConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("starttls: %w", err)
	}
	return client, nil
}

func (t *SMTPTransport) tlsConfig() *tls.Config {
	if t.cfg.TLSConfig == nil {
		return &tls.Config{ServerName: t.cfg.Host, MinVersion: tls.VersionTLS12}
	}
	cfg := t.cfg.TLSConfig.Clone()
	if cfg.ServerName == "" {
		cfg.ServerName = t.cfg.Host
	}
	return cfg
}

// authReplyCodes are server replies that mean the credentials are the problem,
// whichever command they answer.
var authReplyCodes = map[int]bool{
	530: true, // authentication required
	534: true, // mechanism too weak / web login required
	535: true, // credentials invalid
	538: true, // encryption required for mechanism
}

func classifySMTPError(err error, duringAuth bool) ErrorKind {
	if isNetworkError(err) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return KindConnection
	}

	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		switch {
		case smtpErr.Code == 421:
			return KindConnection
		case duringAuth, authReplyCodes[smtpErr.Code]:
			return KindAuth
		}
	}
	return KindUnknown
}

// compose builds the MIME message and returns it with its Message-ID header value.
func compose(msg *Message) ([]byte, string, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.FromAddress); err != nil {
		return nil, "", fmt.Errorf("set from: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, "", fmt.Errorf("set to: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return nil, "", fmt.Errorf("set reply-to: %w", err)
		}
	}
	m.Subject(msg.Subject)

	date := msg.Date
	if date.IsZero() {
		date = time.Now()
	}
	m.SetDateWithValue(date)

	id := newMessageID(msg.FromAddress)
	m.SetMessageIDWithValue(id)

	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)

	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return nil, "", fmt.Errorf("write message: %w", err)
	}
	return buf.Bytes(), "<" + id + ">", nil
}

func newMessageID(from string) string {
	domain := "localhost"
	if at := strings.LastIndex(from, "@"); at >= 0 && at < len(from)-1 {
		domain = from[at+1:]
	}
	return uuid.NewString() + "@" + domain
}
