package mailer

import (
	"context"
	"errors"
	"fmt"
	"net"
)

var (
	// ErrNoRecipient indicates the message has no destination mailbox.
	ErrNoRecipient = errors.New("message must have a recipient")

	// ErrNoSender indicates the message has no sender mailbox.
	ErrNoSender = errors.New("message must have a sender")

	// ErrRenderFailed indicates template rendering failed.
	ErrRenderFailed = errors.New("failed to render email template")
)

// ErrorKind classifies a transport failure for the caller.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	// KindAuth means the mail server rejected the relay's credentials.
	KindAuth
	// KindConnection means the mail server could not be reached or dropped the session.
	KindConnection
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth"
	case KindConnection:
		return "connection"
	default:
		return "unknown"
	}
}

// SendError is returned by transports when delivery fails.
type SendError struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind of err, KindUnknown when err is not a SendError.
func KindOf(err error) ErrorKind {
	var sendErr *SendError
	if errors.As(err, &sendErr) {
		return sendErr.Kind
	}
	return KindUnknown
}

// isNetworkError reports failures below the mail protocol: refused, DNS, timeouts.
func isNetworkError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	// *net.OpError, *net.DNSError and *url.Error all satisfy net.Error.
	var netErr net.Error
	return errors.As(err, &netErr)
}
