package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contactrelay/internal/config"
	"github.com/osa911/contactrelay/internal/logging"
	"github.com/osa911/contactrelay/internal/mailer"
)

type stubTransport struct {
	sent []*mailer.Message
}

func (s *stubTransport) Send(_ context.Context, msg *mailer.Message) (string, error) {
	s.sent = append(s.sent, msg)
	return "<stub@example.com>", nil
}

func testConfig() *config.RelayConfig {
	return &config.RelayConfig{
		Environment:    config.EnvProduction,
		Port:           "0",
		AllowedOrigins: []string{"https://portfolio.example.com"},
		RateLimitRPS:   0.001,
		RateLimitBurst: 2,
		ContactEmail:   "owner@example.com",
		MailTransport:  config.TransportSMTP,
		MailFromName:   mailer.DefaultFromName,
		SMTP: config.SMTPConfig{
			User:     "relay@gmail.com",
			Password: "app-password",
			Timeout:  time.Second,
		},
	}
}

func newTestServer(t *testing.T, cfg *config.RelayConfig, tr mailer.Transport) *Server {
	t.Helper()
	logger, err := logging.NewLogger(logging.DefaultConfig(filepath.Join(t.TempDir(), "relay.log"), logging.LevelError))
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return NewServer(cfg, tr, logger)
}

func request(h http.Handler, method, path, body string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

const submission = `{"name":"Jane Doe","email":"jane@example.com","subject":"Project inquiry","message":"I would like to talk."}`

func TestServer_Routes(t *testing.T) {
	tr := &stubTransport{}
	h := newTestServer(t, testConfig(), tr).Handler()

	rec := request(h, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = request(h, http.MethodGet, "/api/test-config", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"configured":true,"user":"***@gmail.com","password":"Set"}`, rec.Body.String())

	rec = request(h, http.MethodPost, "/api/send-email", submission, map[string]string{"Origin": "https://portfolio.example.com"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "https://portfolio.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	var resp struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "<stub@example.com>", resp.MessageID)

	require.Len(t, tr.sent, 1)
	assert.Equal(t, "relay@gmail.com", tr.sent[0].FromAddress)
	assert.Equal(t, "owner@example.com", tr.sent[0].To)

	rec = request(h, http.MethodGet, "/api/unknown", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RejectsUnlistedOriginInProduction(t *testing.T) {
	tr := &stubTransport{}
	h := newTestServer(t, testConfig(), tr).Handler()

	rec := request(h, http.MethodPost, "/api/send-email", submission, map[string]string{"Origin": "https://evil.example"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, tr.sent)
}

func TestServer_RateLimitsSendOnly(t *testing.T) {
	tr := &stubTransport{}
	h := newTestServer(t, testConfig(), tr).Handler()

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, request(h, http.MethodPost, "/api/send-email", submission, nil).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, request(h, http.MethodPost, "/api/send-email", submission, nil).Code)

	// Health checks have no limiter of their own
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, request(h, http.MethodGet, "/api/health", "", nil).Code)
	}
	assert.Len(t, tr.sent, 2)
}

func TestServer_ResendConfigCheckReportsAPIKey(t *testing.T) {
	cfg := testConfig()
	cfg.MailTransport = config.TransportResend
	cfg.MailFrom = "contact@portfolio.example.com"
	cfg.SMTP = config.SMTPConfig{}

	h := newTestServer(t, cfg, &stubTransport{}).Handler()
	rec := request(h, http.MethodGet, "/api/test-config", "", nil)
	assert.JSONEq(t, `{"configured":false,"user":"***@portfolio.example.com","password":"Not set"}`, rec.Body.String())
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, testConfig(), &stubTransport{})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
