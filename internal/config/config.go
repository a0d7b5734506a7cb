package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	TransportSMTP   = "smtp"
	TransportResend = "resend"
)

// RelayConfig holds all configuration for the relay server
type RelayConfig struct {
	// Server Configuration
	Environment string `env:"ENV" envDefault:"development"`
	Port        string `env:"PORT" envDefault:"3001"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFile     string `env:"LOG_FILE"`
	LogRequests bool   `env:"LOG_REQUESTS" envDefault:"false"`

	// CORS Configuration
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`

	// Rate limiting for the send-email route
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"1"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"5"`

	// Mail Configuration
	ContactEmail  string `env:"CONTACT_EMAIL"`
	MailTransport string `env:"MAIL_TRANSPORT" envDefault:"smtp"` // smtp or resend
	MailFromName  string `env:"MAIL_FROM_NAME" envDefault:"Portfolio Contact Form"`
	MailFrom      string `env:"MAIL_FROM"`
	SMTP          SMTPConfig
	ResendAPIKey  string `env:"RESEND_API_KEY"`

	// Telemetry Configuration
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// SMTPConfig is the relay's outbound mailbox.
type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port     int           `env:"SMTP_PORT" envDefault:"465"`
	User     string        `env:"SMTP_USER"`
	Password string        `env:"SMTP_PASSWORD"`
	TLS      string        `env:"SMTP_TLS" envDefault:"implicit"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"15s"`
}

// LoadRelay loads the relay configuration from environment variables and .env files
func LoadRelay() (*RelayConfig, error) {
	loadDotEnv()

	cfg := &RelayConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Older deployments use the Gmail-specific names
	if cfg.SMTP.User == "" {
		cfg.SMTP.User = os.Getenv("GMAIL_USER")
	}
	if cfg.SMTP.Password == "" {
		cfg.SMTP.Password = os.Getenv("GMAIL_APP_PASSWORD")
	}

	if cfg.LogFile == "" {
		if cfg.IsProduction() {
			cfg.LogFile = "/app/logs/relay.log"
		} else {
			cfg.LogFile = "./logs/relay.log"
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports configuration the relay cannot start without.
// Missing SMTP credentials are not fatal: the relay starts and reports them
// through its configuration check.
func (c *RelayConfig) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ContactEmail) == "" {
		missing = append(missing, "CONTACT_EMAIL")
	}

	switch c.MailTransport {
	case TransportSMTP:
		switch c.SMTP.TLS {
		case "implicit", "starttls", "none":
		default:
			return fmt.Errorf("%w: SMTP_TLS must be implicit, starttls or none, got %q", ErrInvalid, c.SMTP.TLS)
		}
	case TransportResend:
		if c.ResendAPIKey == "" {
			missing = append(missing, "RESEND_API_KEY")
		}
		if c.SenderAddress() == "" {
			missing = append(missing, "MAIL_FROM")
		}
	default:
		return fmt.Errorf("%w: MAIL_TRANSPORT must be smtp or resend, got %q", ErrInvalid, c.MailTransport)
	}

	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("%w: RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive", ErrInvalid)
	}

	if len(missing) > 0 {
		return &MissingError{Vars: missing}
	}
	return nil
}

// IsProduction reports whether raw error details must be hidden from callers.
func (c *RelayConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}

// CredentialsConfigured reports whether both mailbox credentials are present.
func (c *RelayConfig) CredentialsConfigured() bool {
	return c.SMTP.User != "" && c.SMTP.Password != ""
}

// SenderAddress is the mailbox relayed emails are sent from.
func (c *RelayConfig) SenderAddress() string {
	if c.MailFrom != "" {
		return c.MailFrom
	}
	return c.SMTP.User
}

// loadDotEnv loads the first .env file found. Existing variables always win.
func loadDotEnv() {
	envLocations := []string{".env"}

	if envName := os.Getenv("ENV"); envName != "" {
		envLocations = append([]string{fmt.Sprintf(".env.%s", envName)}, envLocations...)
	}

	for _, loc := range envLocations {
		if err := godotenv.Load(loc); err == nil {
			break
		}
	}
}
