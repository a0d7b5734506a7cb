package dispatch

import "fmt"

// Result is the outcome of one dispatch attempt.
type Result struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	MessageID string   `json:"messageId,omitempty"`
	Error     string   `json:"error,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

const (
	SuccessMessage    = "Email sent successfully!"
	ValidationMessage = "Please correct the following errors before sending."
)

func notConfiguredMessage(fallback string) string {
	return fmt.Sprintf("Email service is not configured. Please contact me directly at %s", fallback)
}

func configErrorMessage(fallback string) string {
	return fmt.Sprintf("Email service configuration error. Please contact me directly at %s", fallback)
}

func genericFailureMessage(fallback string) string {
	return fmt.Sprintf("Failed to send email. Please try again or contact me directly at %s", fallback)
}

func unreachableMessage(fallback string) string {
	return fmt.Sprintf("Email service is unreachable. Please contact me directly at %s", fallback)
}

func validationFailure(errs []string) Result {
	return Result{
		Success: false,
		Message: ValidationMessage,
		Errors:  errs,
	}
}

// failure builds a failed Result; err is only surfaced when debug is set.
func failure(message string, err error, debug bool) Result {
	res := Result{Success: false, Message: message}
	if debug && err != nil {
		res.Error = err.Error()
	}
	return res
}
