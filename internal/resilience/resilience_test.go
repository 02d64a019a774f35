package resilience

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getter(url string) func() (*http.Request, error) {
	return func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, url, nil)
	}
}

func TestDo_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := Client{
		HTTP:    srv.Client(),
		Breaker: NewBreaker("test"),
		Backoff: Backoff{MaxRetries: 3, InitialInterval: time.Millisecond, MaxInterval: 5 * time.Millisecond},
	}
	resp, err := c.Do(context.Background(), getter(srv.URL))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_SingleAttemptWithoutRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := Client{HTTP: srv.Client(), Breaker: NewBreaker("test")}
	_, err := c.Do(context.Background(), getter(srv.URL))
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_StatusMapping(t *testing.T) {
	assert.ErrorIs(t, checkStatus(http.StatusTooManyRequests), ErrRateLimited)
	assert.ErrorIs(t, checkStatus(http.StatusServiceUnavailable), ErrServerError)
	assert.ErrorIs(t, checkStatus(http.StatusNoContent+100), ErrUnexpectedStatus)
	assert.NoError(t, checkStatus(http.StatusOK))
}

func TestDo_Configuration(t *testing.T) {
	_, err := Client{Breaker: NewBreaker("test")}.Do(context.Background(), getter("http://example.invalid"))
	assert.ErrorIs(t, err, ErrNoHTTPClient)

	c := Client{HTTP: http.DefaultClient, Breaker: NewBreaker("test"), Backoff: Backoff{MaxRetries: 2}}
	_, err = c.Do(context.Background(), getter("http://example.invalid"))
	assert.ErrorIs(t, err, ErrInvalidBackoff)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := Client{HTTP: http.DefaultClient, Breaker: NewBreaker("test")}
	_, err := c.Do(ctx, getter("http://example.invalid"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDelay_Capped(t *testing.T) {
	c := Client{Backoff: Backoff{InitialInterval: 100 * time.Millisecond, MaxInterval: 300 * time.Millisecond}}
	assert.Equal(t, 100*time.Millisecond, c.delay(0))
	assert.Equal(t, 200*time.Millisecond, c.delay(1))
	assert.Equal(t, 300*time.Millisecond, c.delay(2))
}
