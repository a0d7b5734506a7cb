package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mailer"
	"github.com/osa911/contactrelay/internal/server"
	"github.com/osa911/contactrelay/internal/telemetry"
	"github.com/osa911/contactrelay/internal/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadRelay()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logConfig := logging.DefaultConfig(cfg.LogFile, cfg.LogLevel)
	logConfig.LogRequests = cfg.LogRequests
	logging.Configure(logConfig)
	logger := logging.GetLogger()
	defer logger.Close()

	logger.Info("Starting relay %s in %s mode", version.Info(), cfg.Environment)
	logger.Info("Relaying contact emails to %s via %s", cfg.ContactEmail, cfg.MailTransport)
	if cfg.MailTransport == config.TransportSMTP && !cfg.CredentialsConfigured() {
		logger.Warn("SMTP_USER or SMTP_PASSWORD is not set; sends will fail until they are configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, "contact-relay", version.Version, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			logger.Warn("Failed to flush traces: %v", err)
		}
	}()

	srv := server.NewServer(cfg, newTransport(cfg), logger)
	if err := srv.Start(ctx); err != nil {
		logger.Error("Relay stopped with error: %v", err)
		return err
	}

	logger.Info("Relay stopped")
	return nil
}

// newTransport selects the outbound transport named by MAIL_TRANSPORT.
func newTransport(cfg *config.RelayConfig) mailer.Transport {
	if cfg.MailTransport == config.TransportResend {
		return mailer.NewResendTransport(mailer.ResendConfig{APIKey: cfg.ResendAPIKey})
	}

	return mailer.NewSMTPTransport(mailer.SMTPConfig{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.User,
		Password: cfg.SMTP.Password,
		TLS:      mailer.TLSMode(cfg.SMTP.TLS),
		Timeout:  cfg.SMTP.Timeout,
	})
}
