package dispatch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/contact"
	"github.com/osa911/contactrelay/internal/logging"
)

// Dispatcher delivers a contact submission. Implementations never panic or
// return errors: every outcome, including misconfiguration, is a Result.
type Dispatcher interface {
	Dispatch(ctx context.Context, sub contact.Submission) Result
	Available(ctx context.Context) bool
}

type options struct {
	httpClient *http.Client
	logger     *logging.Logger
	debug      bool
}

// Option configures a dispatcher.
type Option func(*options)

// WithHTTPClient overrides the HTTP client used for network calls.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithLogger logs failures to l.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithDebug includes raw error details in failed Results.
func WithDebug(debug bool) Option {
	return func(o *options) { o.debug = debug }
}

func newOptions(opts []Option) options {
	o := options{httpClient: &http.Client{Timeout: 15 * time.Second}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) logError(format string, v ...interface{}) {
	if o.logger != nil {
		o.logger.Error(format, v...)
	}
}

// New returns the dispatcher selected by cfg.Dispatch. The relay is the
// primary path; EmailJS and Formspree serve deployments without a relay.
func New(cfg *config.ClientConfig, opts ...Option) (Dispatcher, error) {
	opts = append([]Option{
		WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		WithDebug(!cfg.IsProduction()),
	}, opts...)

	switch cfg.Dispatch {
	case config.DispatchRelay:
		return NewRelay(cfg.RelayURL, cfg.FallbackEmail, opts...), nil
	case config.DispatchEmailJS:
		o := newOptions(opts)
		provider := NewRESTProvider(cfg.EmailJS.APIURL, cfg.EmailJS.PrivateKey, o.httpClient)
		return NewEmailJS(cfg.EmailJS, cfg.FallbackEmail, provider, opts...), nil
	case config.DispatchFormspree:
		return NewFormspree(cfg.Formspree, cfg.FallbackEmail, opts...), nil
	default:
		return nil, fmt.Errorf("%w: unknown dispatch %q", config.ErrInvalid, cfg.Dispatch)
	}
}

// recoverResult turns a panic below Dispatch into a failed Result.
func recoverResult(res *Result, fallback string, o options) {
	if r := recover(); r != nil {
		o.logError("Dispatch panicked: %v", r)
		*res = failure(genericFailureMessage(fallback), fmt.Errorf("panic: %v", r), o.debug)
	}
}
