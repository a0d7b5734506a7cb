package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/osa911/contactrelay/internal/contact"
)

// Relay dispatches submissions to the self-hosted relay endpoint.
type Relay struct {
	baseURL  string
	fallback string
	opts     options
}

// NewRelay creates a relay dispatcher for the API rooted at baseURL (for example http://localhost:3001/api).
func NewRelay(baseURL, fallbackEmail string, opts ...Option) *Relay {
	return &Relay{
		baseURL:  strings.TrimRight(baseURL, "/"),
		fallback: fallbackEmail,
		opts:     newOptions(opts),
	}
}

type relayResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
	Error     string `json:"error"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type configResponse struct {
	Configured bool `json:"configured"`
}

// Dispatch implements Dispatcher. The submission is sanitized and validated
// again here whatever the caller already did.
func (r *Relay) Dispatch(ctx context.Context, sub contact.Submission) (res Result) {
	defer recoverResult(&res, r.fallback, r.opts)

	clean := contact.Sanitize(sub)
	if v := contact.Validate(clean); !v.IsValid {
		return validationFailure(v.Errors)
	}

	payload, err := json.Marshal(clean)
	if err != nil {
		return failure(genericFailureMessage(r.fallback), err, r.opts.debug)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/send-email", bytes.NewReader(payload))
	if err != nil {
		return failure(genericFailureMessage(r.fallback), err, r.opts.debug)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.opts.httpClient.Do(req)
	if err != nil {
		// Refused, DNS and timeouts all surface here, before any HTTP status exists.
		r.opts.logError("Relay unreachable: %v", err)
		return failure(unreachableMessage(r.fallback), err, r.opts.debug)
	}
	defer resp.Body.Close()

	var body relayResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 || decodeErr != nil || !body.Success {
		msg := body.Message
		if msg == "" {
			msg = genericFailureMessage(r.fallback)
		}
		cause := fmt.Errorf("relay responded with status %d", resp.StatusCode)
		if body.Error != "" {
			cause = fmt.Errorf("%w: %s", cause, body.Error)
		} else if decodeErr != nil {
			cause = fmt.Errorf("%w: %v", cause, decodeErr)
		}
		r.opts.logError("Email sending error: %v", cause)
		return failure(msg, cause, r.opts.debug)
	}

	msg := body.Message
	if msg == "" {
		msg = SuccessMessage
	}
	return Result{Success: true, Message: msg, MessageID: body.MessageID}
}

// Available runs a health round trip against the relay.
func (r *Relay) Available(ctx context.Context) bool {
	var body healthResponse
	if err := r.getJSON(ctx, "/health", &body); err != nil {
		return false
	}
	return body.Status == "OK"
}

// Configured asks the relay whether its mailbox credentials are set.
func (r *Relay) Configured(ctx context.Context) (bool, error) {
	var body configResponse
	if err := r.getJSON(ctx, "/test-config", &body); err != nil {
		return false, err
	}
	return body.Configured, nil
}

func (r *Relay) getJSON(ctx context.Context, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.opts.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("relay %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(v)
}
