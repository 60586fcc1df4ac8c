package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// RetryPolicy controls exponential backoff for upstream calls.
type RetryPolicy struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func defaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

var (
	errRateLimited = errors.New("rate limited")
	errServerError = errors.New("server error")
	errBadStatus   = errors.New("unexpected status code")
	errCircuitOpen = errors.New("circuit breaker open")
)

// getJSON fetches url and decodes the JSON body into out, retrying transient
// failures with exponential backoff behind a circuit breaker. 4xx responses
// other than 429 are not retried.
func getJSON(
	ctx context.Context,
	client *http.Client,
	cb *gobreaker.CircuitBreaker,
	retry RetryPolicy,
	url string,
	header http.Header,
	out any,
) error {
	if client == nil {
		client = http.DefaultClient
	}

	var attempt int
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		_, err := cb.Execute(func() (interface{}, error) {
			req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
			if reqErr != nil {
				return nil, reqErr
			}
			for k, vs := range header {
				for _, v := range vs {
					req.Header.Add(k, v)
				}
			}
			resp, doErr := client.Do(req)
			if doErr != nil {
				return nil, doErr
			}
			defer resp.Body.Close()

			switch {
			case resp.StatusCode == http.StatusTooManyRequests:
				return nil, errRateLimited
			case resp.StatusCode >= 500:
				return nil, errServerError
			case resp.StatusCode < 200 || resp.StatusCode >= 300:
				return nil, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
			}

			if decErr := json.NewDecoder(resp.Body).Decode(out); decErr != nil {
				return nil, fmt.Errorf("decode response: %w", decErr)
			}
			return nil, nil
		})

		if err == nil {
			return nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		// Client errors will not improve on retry.
		if errors.Is(err, errBadStatus) {
			return err
		}
		if attempt >= retry.MaxRetries {
			return err
		}

		delay := retry.InitialInterval * time.Duration(math.Pow(2, float64(attempt)))
		if retry.MaxInterval > 0 && delay > retry.MaxInterval {
			delay = retry.MaxInterval
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		attempt++
	}
}
