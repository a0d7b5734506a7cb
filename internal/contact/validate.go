package contact

import (
	"errors"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// EmailPattern is the syntactic check shared by the client side and the relay:
// something@something.something with no whitespace. RE2's \s is ASCII-only, so
// IsValidEmail also rejects Unicode spaces.
var EmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// fieldOrder fixes the order in which field errors are reported.
var fieldOrder = []string{"Name", "Email", "Subject", "Message"}

var fieldMessages = map[string]map[string]string{
	"Name": {
		"required": "Name is required",
		"min":      "Name must be at least 2 characters long",
		"max":      "Name must be at most 100 characters long",
	},
	"Email": {
		"required":     "Email is required",
		"contactemail": "Please enter a valid email address",
		"max":          "Email must be at most 100 characters long",
	},
	"Subject": {
		"required": "Subject is required",
		"min":      "Subject must be at least 5 characters long",
		"max":      "Subject must be at most 200 characters long",
	},
	"Message": {
		"required": "Message is required",
		"min":      "Message must be at least 10 characters long",
		"max":      "Message must be at most 2000 characters long",
	},
}

// ValidationResult reports every violated field, one message per field.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		RegisterValidators(validate)
	})
	return validate
}

// RegisterValidators registers the contact-specific rules on v.
func RegisterValidators(v *validator.Validate) {
	// Registration only fails on an empty tag name.
	_ = v.RegisterValidation("contactemail", validateEmail)
}

func validateEmail(fl validator.FieldLevel) bool {
	return IsValidEmail(fl.Field().String())
}

// IsValidEmail reports whether s looks like an email address.
func IsValidEmail(s string) bool {
	return strings.IndexFunc(s, isSpace) < 0 && EmailPattern.MatchString(s)
}

// isSpace matches what browsers treat as whitespace in a pattern, including
// \v, NBSP, the line/paragraph separators and the BOM.
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || r == '\uFEFF'
}

// Validate checks the trimmed fields of s. It never fails: a rule violation is
// reported in the result, never as an error.
func Validate(s Submission) ValidationResult {
	trimmed := trimFields(s)

	result := ValidationResult{IsValid: true, Errors: []string{}}

	err := validatorInstance().Struct(trimmed)
	if err == nil {
		return result
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		// Only reachable with a non-struct argument.
		result.IsValid = false
		result.Errors = append(result.Errors, "Submission could not be validated")
		return result
	}

	byField := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := byField[fe.Field()]; seen {
			continue
		}
		msg, ok := fieldMessages[fe.Field()][fe.Tag()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		byField[fe.Field()] = msg
	}

	for _, field := range fieldOrder {
		if msg, ok := byField[field]; ok {
			result.Errors = append(result.Errors, msg)
		}
	}
	result.IsValid = len(result.Errors) == 0
	return result
}
