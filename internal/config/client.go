package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

const (
	DispatchRelay     = "relay"
	DispatchEmailJS   = "emailjs"
	DispatchFormspree = "formspree"
)

// ClientConfig configures the submitting side of the contact form.
type ClientConfig struct {
	Environment   string        `env:"ENV" envDefault:"development"`
	Dispatch      string        `env:"CONTACT_DISPATCH" envDefault:"relay"`
	RelayURL      string        `env:"RELAY_URL" envDefault:"http://localhost:3001/api"`
	FallbackEmail string        `env:"CONTACT_FALLBACK_EMAIL"`
	Timeout       time.Duration `env:"CLIENT_TIMEOUT" envDefault:"15s"`
	EmailJS       EmailJSConfig
	Formspree     FormspreeConfig
}

// EmailJSConfig holds the identifiers for direct provider dispatch.
type EmailJSConfig struct {
	ServiceID  string `env:"EMAILJS_SERVICE_ID"`
	TemplateID string `env:"EMAILJS_TEMPLATE_ID"`
	PublicKey  string `env:"EMAILJS_PUBLIC_KEY"`
	PrivateKey string `env:"EMAILJS_PRIVATE_KEY"`
	APIURL     string `env:"EMAILJS_API_URL" envDefault:"https://api.emailjs.com"`
}

// FormspreeConfig addresses a hosted Formspree form.
type FormspreeConfig struct {
	FormID  string `env:"FORMSPREE_FORM_ID"`
	BaseURL string `env:"FORMSPREE_URL" envDefault:"https://formspree.io/f"`
}

// Endpoint returns the form's submission URL.
func (c FormspreeConfig) Endpoint() string {
	return strings.TrimRight(c.BaseURL, "/") + "/" + strings.TrimSpace(c.FormID)
}

// Configured reports whether a real form ID is set.
func (c FormspreeConfig) Configured() bool {
	return !IsPlaceholder(c.FormID)
}

// LoadClient loads the client configuration from environment variables and .env files.
// EmailJS and Formspree identifiers are not checked here: an unconfigured provider is a
// runtime state reported to the user, not a startup failure.
func LoadClient() (*ClientConfig, error) {
	loadDotEnv()

	cfg := &ClientConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings every dispatch path needs.
func (c *ClientConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.FallbackEmail) == "" {
		missing = append(missing, "CONTACT_FALLBACK_EMAIL")
	}

	switch c.Dispatch {
	case DispatchRelay:
		if strings.TrimSpace(c.RelayURL) == "" {
			missing = append(missing, "RELAY_URL")
		}
	case DispatchEmailJS, DispatchFormspree:
	default:
		return fmt.Errorf("%w: CONTACT_DISPATCH must be relay, emailjs or formspree, got %q", ErrInvalid, c.Dispatch)
	}

	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}
	return nil
}

// IsProduction reports whether diagnostic error details should be withheld.
func (c *ClientConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// Missing lists the provider identifiers that are absent or still placeholders.
func (c EmailJSConfig) Missing() []string {
	var missing []string
	if IsPlaceholder(c.ServiceID) {
		missing = append(missing, "EMAILJS_SERVICE_ID")
	}
	if IsPlaceholder(c.TemplateID) {
		missing = append(missing, "EMAILJS_TEMPLATE_ID")
	}
	if IsPlaceholder(c.PublicKey) {
		missing = append(missing, "EMAILJS_PUBLIC_KEY")
	}
	return missing
}

// Configured reports whether all three provider identifiers are usable.
func (c EmailJSConfig) Configured() bool {
	return len(c.Missing()) == 0
}

// IsPlaceholder reports an empty value or a template value such as
// "your_public_key_here" copied from an example env file.
func IsPlaceholder(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	return v == "" ||
		strings.HasPrefix(v, "your_") ||
		strings.HasPrefix(v, "your-") ||
		strings.HasSuffix(v, "_here") ||
		strings.HasPrefix(v, "<")
}
