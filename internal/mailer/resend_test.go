package mailer

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resendTransportFor(t *testing.T, rawURL string) *ResendTransport {
	t.Helper()
	base, err := url.Parse(rawURL + "/")
	require.NoError(t, err)
	return NewResendTransport(ResendConfig{
		APIKey:     "re_test",
		BaseURL:    base,
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	})
}

func TestResendTransport_Send(t *testing.T) {
	var got map[string]any
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/emails", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"4ef9a417-02e9-4d39-ad75-9611e0fcc33c"}`))
	}))
	defer srv.Close()

	messageID, err := resendTransportFor(t, srv.URL).Send(context.Background(), testMessage(t))
	require.NoError(t, err)

	assert.Equal(t, "4ef9a417-02e9-4d39-ad75-9611e0fcc33c", messageID)
	assert.Equal(t, "Bearer re_test", auth)
	assert.Equal(t, DefaultFromName+" <relay@example.com>", got["from"])
	assert.Equal(t, []any{"owner@example.com"}, got["to"])
	assert.Equal(t, "jo@example.org", got["reply_to"])
	assert.Equal(t, "Portfolio Contact: Hello there", got["subject"])
	assert.Contains(t, got["text"], "with two lines")
	assert.Contains(t, got["html"], "Jo Doe")
}

func TestResendTransport_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"Invalid from field"}`))
	}))
	defer srv.Close()

	_, err := resendTransportFor(t, srv.URL).Send(context.Background(), testMessage(t))
	require.Error(t, err)
	assert.Equal(t, KindUnknown, KindOf(err))
	assert.Contains(t, err.Error(), "Invalid from field")
}

func TestResendTransport_ConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = resendTransportFor(t, "http://"+addr).Send(context.Background(), testMessage(t))
	require.Error(t, err)
	assert.Equal(t, KindConnection, KindOf(err))
}
