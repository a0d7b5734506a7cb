package server

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/osa911/contactrelay/internal/api/handlers"
	"github.com/osa911/contactrelay/internal/api/middleware"
	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mailer"
	"github.com/osa911/contactrelay/internal/server/routes"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
)

const (
	serviceName     = "contact-relay"
	shutdownTimeout = 10 * time.Second
)

// Server represents the relay HTTP server
type Server struct {
	router *gin.Engine
	cfg    *config.RelayConfig
	logger *logging.Logger
}

// NewServer creates a server that relays submissions through transport
func NewServer(cfg *config.RelayConfig, transport mailer.Transport, logger *logging.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	// Gin's own logger is replaced by the RequestLogger middleware
	gin.DisableConsoleColor()
	gin.DefaultWriter = io.Discard

	router := gin.New()
	router.Use(otelgin.Middleware(serviceName))
	routes.SetupGlobalMiddleware(router, logger, routes.GlobalConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Production:     cfg.IsProduction(),
	})

	identity := mailer.Identity{
		FromName:    cfg.MailFromName,
		FromAddress: cfg.SenderAddress(),
		To:          cfg.ContactEmail,
	}

	user, secretSet := cfg.SMTP.User, cfg.CredentialsConfigured()
	if cfg.MailTransport == config.TransportResend {
		user, secretSet = cfg.SenderAddress(), cfg.ResendAPIKey != ""
	}

	routes.Setup(router,
		&routes.Handlers{
			Email:  handlers.NewEmailHandler(transport, identity, logger, !cfg.IsProduction()),
			Health: handlers.NewHealthHandler(user, secretSet),
		},
		&routes.Middleware{
			SendRateLimit: middleware.RateLimitMiddleware(middleware.RateLimitConfig{
				RPS:   cfg.RateLimitRPS,
				Burst: cfg.RateLimitBurst,
			}),
		},
	)

	return &Server{
		router: router,
		cfg:    cfg,
		logger: logger,
	}
}

// Handler exposes the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens on the configured port until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+s.cfg.Port)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Long enough for a slow SMTP session to finish
		WriteTimeout: s.cfg.SMTP.Timeout + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Relay listening on %s (%s)", ln.Addr(), s.cfg.Environment)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down relay")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
