package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa911/contactrelay/internal/api/constants"
	"github.com/osa911/contactrelay/internal/logging"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	r.POST("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	logger, err := logging.NewLogger(logging.DefaultConfig(filepath.Join(t.TempDir(), "test.log"), logging.LevelError))
	require.NoError(t, err)
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}

func TestCORS(t *testing.T) {
	allowList := []string{"https://portfolio.example.com", "http://localhost:5173"}

	tests := []struct {
		name       string
		strict     bool
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{name: "development echoes any origin", origin: "https://evil.example", method: http.MethodGet, wantStatus: http.StatusOK, wantOrigin: "https://evil.example"},
		{name: "strict allows listed origin", strict: true, origin: "https://portfolio.example.com", method: http.MethodGet, wantStatus: http.StatusOK, wantOrigin: "https://portfolio.example.com"},
		{name: "strict rejects unlisted origin", strict: true, origin: "https://evil.example", method: http.MethodGet, wantStatus: http.StatusForbidden},
		{name: "strict allows requests without origin", strict: true, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "preflight", strict: true, origin: "http://localhost:5173", method: http.MethodOptions, wantStatus: http.StatusNoContent, wantOrigin: "http://localhost:5173"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(CORS(CORSConfig{AllowedOrigins: allowList, Strict: tt.strict}))
			r.OPTIONS("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

			header := map[string]string{}
			if tt.origin != "" {
				header["Origin"] = tt.origin
			}
			rec := do(r, tt.method, "/ping", header)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := newRouter(RateLimitMiddleware(RateLimitConfig{RPS: 0.001, Burst: 2}))

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ping", nil).Code)

	rec := do(r, http.MethodPost, "/ping", nil)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.NotEmpty(t, body.Message)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(constants.ContextKeyRequestID)) })

	rec := do(r, http.MethodGet, "/ping", nil)
	generated := rec.Header().Get(constants.HeaderRequestID)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)
	assert.Equal(t, generated, rec.Body.String())

	rec = do(r, http.MethodGet, "/ping", map[string]string{constants.HeaderRequestID: "upstream-id"})
	assert.Equal(t, "upstream-id", rec.Header().Get(constants.HeaderRequestID))

	rec = do(r, http.MethodGet, "/ping", map[string]string{constants.HeaderRequestID: strings.Repeat("x", 500)})
	assert.NotEqual(t, strings.Repeat("x", 500), rec.Header().Get(constants.HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(testLogger(t)))
	r.GET("/boom", func(c *gin.Context) { panic("handler exploded") })
	r.GET("/boom-err", func(c *gin.Context) { panic(http.ErrBodyNotAllowed) })

	for _, path := range []string{"/boom", "/boom-err"} {
		rec := do(r, http.MethodGet, path, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"success":false,"message":"Internal server error"}`, rec.Body.String())
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := do(newRouter(SecurityHeaders(true)), http.MethodGet, "/ping", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = do(newRouter(SecurityHeaders(false)), http.MethodGet, "/ping", nil)
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestLimitRequestBody(t *testing.T) {
	r := newRouter(LimitRequestBody(16))

	req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(strings.Repeat("a", 32)))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader("small"))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestLogger_Disabled(t *testing.T) {
	r := newRouter(RequestLogger(testLogger(t)))
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ping", nil).Code)
}
