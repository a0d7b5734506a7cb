package dispatch

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/osa911/contactrelay/internal/contact"
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission is still being dispatched.
var ErrSubmissionInFlight = errors.New("a submission is already being sent")

// Form is the submitting side of the contact form: it sanitizes and validates
// locally and lets at most one dispatch run at a time.
type Form struct {
	dispatcher Dispatcher
	fallback   string
	inFlight   atomic.Bool
}

// NewForm creates a form that submits through d.
func NewForm(d Dispatcher, fallbackEmail string) *Form {
	return &Form{dispatcher: d, fallback: fallbackEmail}
}

// Submit sanitizes, validates and dispatches sub. Invalid submissions are
// rejected locally and never reach the dispatcher.
func (f *Form) Submit(ctx context.Context, sub contact.Submission) (Result, error) {
	if !f.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrSubmissionInFlight
	}
	defer f.inFlight.Store(false)

	clean := contact.Sanitize(sub)
	if v := contact.Validate(clean); !v.IsValid {
		return validationFailure(v.Errors), nil
	}

	return f.dispatcher.Dispatch(ctx, clean), nil
}

// Busy reports whether a submission is in flight.
func (f *Form) Busy() bool {
	return f.inFlight.Load()
}

// Available reports whether the active dispatch path can be used.
func (f *Form) Available(ctx context.Context) bool {
	return f.dispatcher.Available(ctx)
}

// MailtoURL is the direct-contact fallback shown alongside failures.
func (f *Form) MailtoURL() string {
	return "mailto:" + f.fallback
}
