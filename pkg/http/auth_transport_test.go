package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestWithAuthToken_SetsBearerHeader(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewConnector(
		&ConnectorConfig{BaseURL: srv.URL, Logger: zap.NewNop()},
		WithAuthToken("secret-token"),
	)

	_, err := c.DoRawRequest(context.Background(), http.MethodGet, "/")
	require.NoError(t, err)
	assert.Equal(t, "Bearer secret-token", gotAuth)
}

func TestWithAuthToken_EmptyTokenSendsNoHeader(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewConnector(
		&ConnectorConfig{BaseURL: srv.URL, Logger: zap.NewNop()},
		WithAuthToken(""),
	)

	_, err := c.DoRawRequest(context.Background(), http.MethodGet, "/")
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.False(t, sawHeader)
}
