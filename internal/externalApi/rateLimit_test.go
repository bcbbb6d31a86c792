package externalApi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWithRateLimit(t *testing.T) {
	srv := newServer(t)
	client := WithRateLimit(resty.New().SetBaseURL(srv.URL), 20)

	start := time.Now()
	for range 3 {
		_, err := client.R().Get("/")
		require.NoError(t, err)
	}

	// первый запрос сразу, следующие два через 50мс каждый
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestWithRateLimit_Disabled(t *testing.T) {
	srv := newServer(t)
	client := WithRateLimit(resty.New().SetBaseURL(srv.URL), 0)

	for range 5 {
		_, err := client.R().Get("/")
		require.NoError(t, err)
	}
}

func TestWithRateLimit_ContextCanceled(t *testing.T) {
	srv := newServer(t)
	client := WithRateLimit(resty.New().SetBaseURL(srv.URL), 0.001)

	_, err := client.R().Get("/")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = client.R().SetContext(ctx).Get("/")
	assert.Error(t, err)
}
