// Package resilience wraps outbound HTTP calls in a circuit breaker with
// optional exponential backoff between attempts.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// Backoff controls retries. MaxRetries of 0 means a single attempt.
type Backoff struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// Client bundles the HTTP client, its breaker and the retry policy.
type Client struct {
	HTTP    *http.Client
	Breaker *gobreaker.CircuitBreaker
	Backoff Backoff
}

var (
	ErrRateLimited      = errors.New("rate limited")
	ErrServerError      = errors.New("server error")
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrCircuitOpen      = errors.New("circuit breaker open")
	ErrNoHTTPClient     = errors.New("http client not configured")
	ErrInvalidBackoff   = errors.New("invalid backoff configuration")
)

// NewBreaker returns a breaker with the settings used for every upstream.
func NewBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// Do executes the request built by buildRequest until it returns a 2xx
// response, the retries run out, the breaker opens or ctx is done.
// The caller closes the returned body.
func (c Client) Do(ctx context.Context, buildRequest func() (*http.Request, error)) (*http.Response, error) {
	if c.HTTP == nil {
		return nil, ErrNoHTTPClient
	}
	if c.Backoff.MaxRetries < 0 || (c.Backoff.MaxRetries > 0 && c.Backoff.InitialInterval <= 0) {
		return nil, ErrInvalidBackoff
	}

	var attempt int
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		req, err := buildRequest()
		if err != nil {
			return nil, err
		}
		req = req.WithContext(ctx)

		result, err := c.Breaker.Execute(func() (interface{}, error) {
			resp, execErr := c.HTTP.Do(req)
			if execErr != nil {
				return nil, execErr
			}
			if statusErr := checkStatus(resp.StatusCode); statusErr != nil {
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				return nil, statusErr
			}
			return resp, nil
		})
		if err == nil {
			resp, ok := result.(*http.Response)
			if !ok {
				return nil, fmt.Errorf("unexpected result type from circuit breaker")
			}
			return resp, nil
		}

		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
		if attempt >= c.Backoff.MaxRetries {
			return nil, err
		}

		timer := time.NewTimer(c.delay(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}

func (c Client) delay(attempt int) time.Duration {
	d := c.Backoff.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
	if c.Backoff.MaxInterval > 0 && d > c.Backoff.MaxInterval {
		d = c.Backoff.MaxInterval
	}
	return d
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusTooManyRequests:
		return ErrRateLimited
	case code >= 500:
		return ErrServerError
	case code < 200 || code >= 300:
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}
	return nil
}
