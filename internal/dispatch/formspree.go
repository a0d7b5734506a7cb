package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/contact"
)

// Formspree dispatches submissions to a hosted Formspree form.
type Formspree struct {
	cfg      config.FormspreeConfig
	fallback string
	opts     options
}

// NewFormspree creates a dispatcher posting to the form named by cfg
func NewFormspree(cfg config.FormspreeConfig, fallbackEmail string, opts ...Option) *Formspree {
	return &Formspree{
		cfg:      cfg,
		fallback: fallbackEmail,
		opts:     newOptions(opts),
	}
}

type formspreeResponse struct {
	OK     bool   `json:"ok"`
	Error  string `json:"error"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (r formspreeResponse) cause(status int) error {
	err := fmt.Errorf("formspree responded with status %d", status)
	switch {
	case r.Error != "":
		return fmt.Errorf("%w: %s", err, r.Error)
	case len(r.Errors) > 0:
		return fmt.Errorf("%w: %s", err, r.Errors[0].Message)
	default:
		return err
	}
}

// Available reports whether a form ID is configured.
func (f *Formspree) Available(context.Context) bool {
	return f.cfg.Configured()
}

// Dispatch implements Dispatcher.
func (f *Formspree) Dispatch(ctx context.Context, sub contact.Submission) (res Result) {
	defer recoverResult(&res, f.fallback, f.opts)

	if !f.cfg.Configured() {
		return failure(notConfiguredMessage(f.fallback), &config.MissingError{Vars: []string{"FORMSPREE_FORM_ID"}}, f.opts.debug)
	}

	clean := contact.Sanitize(sub)
	if v := contact.Validate(clean); !v.IsValid {
		return validationFailure(v.Errors)
	}

	payload, err := json.Marshal(clean)
	if err != nil {
		return failure(genericFailureMessage(f.fallback), err, f.opts.debug)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.cfg.Endpoint(), bytes.NewReader(payload))
	if err != nil {
		return failure(genericFailureMessage(f.fallback), err, f.opts.debug)
	}
	req.Header.Set("Content-Type", "application/json")
	// Without it Formspree answers with an HTML redirect page.
	req.Header.Set("Accept", "application/json")

	resp, err := f.opts.httpClient.Do(req)
	if err != nil {
		f.opts.logError("Formspree unreachable: %v", err)
		return failure(unreachableMessage(f.fallback), err, f.opts.debug)
	}
	defer resp.Body.Close()

	var body formspreeResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := body.cause(resp.StatusCode)
		f.opts.logError("Email sending error: %v", cause)
		if resp.StatusCode == http.StatusNotFound {
			return failure(configErrorMessage(f.fallback), cause, f.opts.debug)
		}
		return failure(genericFailureMessage(f.fallback), cause, f.opts.debug)
	}

	return Result{Success: true, Message: SuccessMessage}
}
