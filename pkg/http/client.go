package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/exp/rand"
)

//go:generate mockgen -source=client.go -destination=mocks/mock_http.go -package=mocks HTTPClient

const (
	DefaultMaxAttempts = 3
	DefaultBaseBackoff = time.Millisecond * 500
	DefaultTimeout     = time.Second * 30
)

// HTTPClient is the part of *http.Client the download clients depend on
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RetryClient retries requests a download client answered with 429 or 503.
// It is safe for concurrent use.
type RetryClient struct {
	client      HTTPClient
	baseBackoff time.Duration
	maxAttempts int
}

type ClientOption func(*RetryClient)

func NewRetryClient(opts ...ClientOption) *RetryClient {
	c := &RetryClient{
		client:      &http.Client{Timeout: DefaultTimeout},
		maxAttempts: DefaultMaxAttempts,
		baseBackoff: DefaultBaseBackoff,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func WithMaxAttempts(attempts int) ClientOption {
	return func(c *RetryClient) {
		c.maxAttempts = attempts
	}
}

func WithBaseBackoff(baseBackoff time.Duration) ClientOption {
	return func(c *RetryClient) {
		c.baseBackoff = baseBackoff
	}
}

func WithHTTPClient(client HTTPClient) ClientOption {
	return func(c *RetryClient) {
		c.client = client
	}
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}

// Do sends the request, waiting out retryable responses until the attempts are used up or the
// request context is done. After the last attempt the final response is returned with an error.
func (c *RetryClient) Do(req *http.Request) (*http.Response, error) {
	var resp *http.Response

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, err
			}
			req.Body = body
		}

		var err error
		resp, err = c.client.Do(req)
		if err != nil {
			return nil, err
		}

		if !retryable(resp.StatusCode) {
			return resp, nil
		}

		if attempt == c.maxAttempts-1 {
			break
		}

		wait := c.backoff(resp, attempt)
		resp.Body.Close()

		timer := time.NewTimer(wait)
		select {
		case <-req.Context().Done():
			timer.Stop()
			return nil, req.Context().Err()
		case <-timer.C:
		}
	}

	return resp, fmt.Errorf("giving up after %d attempts: status %d", c.maxAttempts, resp.StatusCode)
}

// backoff honors Retry-After when given in seconds, otherwise doubles the base backoff per attempt with jitter
func (c *RetryClient) backoff(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	exp := time.Duration(1<<attempt) * c.baseBackoff
	if c.baseBackoff <= 0 {
		return exp
	}

	return exp + time.Duration(rand.Int63n(int64(c.baseBackoff)))
}
