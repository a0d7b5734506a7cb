package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/contact"
)

// TemplateParams are the variables handed to the provider's email template.
type TemplateParams map[string]string

// ProviderResponse is the provider's reply to a send call.
type ProviderResponse struct {
	Status int
	Text   string
}

// Provider is a transactional-email service addressed by service and template IDs.
type Provider interface {
	// Init registers the account's public key. EmailJS calls it once before the first Send.
	Init(publicKey string)
	Send(ctx context.Context, serviceID, templateID string, params TemplateParams) (ProviderResponse, error)
}

// ProviderError is a non-200 reply from the provider.
type ProviderError struct {
	Status int
	Text   string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("email provider returned status %d: %s", e.Status, e.Text)
}

// IsConfiguration reports whether the provider rejected the service or template
// identifiers rather than the message itself. The provider only reports this
// in its response text.
func (e *ProviderError) IsConfiguration() bool {
	return strings.Contains(e.Text, "template ID not found") || strings.Contains(e.Text, "service ID")
}

// EmailJS dispatches submissions straight to the EmailJS provider.
type EmailJS struct {
	cfg      config.EmailJSConfig
	fallback string
	provider Provider
	initOnce sync.Once
	opts     options
}

// NewEmailJS creates a direct provider dispatcher
func NewEmailJS(cfg config.EmailJSConfig, fallbackEmail string, provider Provider, opts ...Option) *EmailJS {
	return &EmailJS{
		cfg:      cfg,
		fallback: fallbackEmail,
		provider: provider,
		opts:     newOptions(opts),
	}
}

// Available reports whether all provider identifiers are configured.
func (c *EmailJS) Available(context.Context) bool {
	return c.cfg.Configured()
}

// Dispatch implements Dispatcher.
func (c *EmailJS) Dispatch(ctx context.Context, sub contact.Submission) (res Result) {
	defer recoverResult(&res, c.fallback, c.opts)

	if missing := c.cfg.Missing(); len(missing) > 0 {
		return failure(notConfiguredMessage(c.fallback), &config.MissingError{Vars: missing}, c.opts.debug)
	}

	clean := contact.Sanitize(sub)
	if v := contact.Validate(clean); !v.IsValid {
		return validationFailure(v.Errors)
	}

	c.initOnce.Do(func() {
		c.provider.Init(c.cfg.PublicKey)
	})

	params := TemplateParams{
		"from_name":  clean.Name,
		"from_email": clean.Email,
		"subject":    clean.Subject,
		"message":    clean.Message,
		"to_email":   c.fallback,
		"reply_to":   clean.Email,
	}

	resp, err := c.provider.Send(ctx, c.cfg.ServiceID, c.cfg.TemplateID, params)
	if err == nil && resp.Status != http.StatusOK {
		err = &ProviderError{Status: resp.Status, Text: resp.Text}
	}
	if err != nil {
		c.opts.logError("Email sending error: %v", err)

		var perr *ProviderError
		if errors.As(err, &perr) && perr.IsConfiguration() {
			return failure(configErrorMessage(c.fallback), err, c.opts.debug)
		}
		return failure(genericFailureMessage(c.fallback), err, c.opts.debug)
	}

	return Result{Success: true, Message: SuccessMessage}
}

// RESTProvider talks to the EmailJS REST API.
type RESTProvider struct {
	baseURL    string
	privateKey string
	client     *http.Client

	mu        sync.RWMutex
	publicKey string
}

// NewRESTProvider creates a provider for the EmailJS API at baseURL
func NewRESTProvider(baseURL, privateKey string, client *http.Client) *RESTProvider {
	if client == nil {
		client = http.DefaultClient
	}
	return &RESTProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		privateKey: privateKey,
		client:     client,
	}
}

type emailJSRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	AccessToken    string         `json:"accessToken,omitempty"`
	TemplateParams TemplateParams `json:"template_params"`
}

// Init implements Provider.
func (p *RESTProvider) Init(publicKey string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publicKey = publicKey
}

// Send implements Provider.
func (p *RESTProvider) Send(ctx context.Context, serviceID, templateID string, params TemplateParams) (ProviderResponse, error) {
	p.mu.RLock()
	publicKey := p.publicKey
	p.mu.RUnlock()

	if publicKey == "" {
		return ProviderResponse{}, errors.New("email provider public key not initialized")
	}

	payload, err := json.Marshal(emailJSRequest{
		ServiceID:      serviceID,
		TemplateID:     templateID,
		UserID:         publicKey,
		AccessToken:    p.privateKey,
		TemplateParams: params,
	})
	if err != nil {
		return ProviderResponse{}, fmt.Errorf("failed to marshal provider request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/v1.0/email/send", bytes.NewReader(payload))
	if err != nil {
		return ProviderResponse{}, fmt.Errorf("failed to create provider request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return ProviderResponse{}, fmt.Errorf("failed to reach email provider: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	if err != nil {
		return ProviderResponse{}, fmt.Errorf("failed to read provider response: %w", err)
	}

	return ProviderResponse{Status: resp.StatusCode, Text: strings.TrimSpace(string(text))}, nil
}
