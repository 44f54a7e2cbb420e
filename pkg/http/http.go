// Package http provides a fluent, retry-aware HTTP client for outgoing calls.
//
// Usage:
//
//	resp, err := http.Get("https://fakestoreapi.com/products").
//	    WithContext(ctx).
//	    Timeout(10 * time.Second).
//	    Retry(3, time.Second).
//	    Send()
//
//	var descriptors []Descriptor
//	err = resp.JSON(&descriptors)
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	gohttp "net/http"
	"time"

	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/reqid"
)

// maxResponseBytes caps how much of a response body is buffered.
const maxResponseBytes = 16 << 20

// ErrResponseTooLarge is returned when a body exceeds maxResponseBytes.
var ErrResponseTooLarge = errors.New("http: response body too large")

var defaultTransport = &gohttp.Transport{
	Proxy:               gohttp.ProxyFromEnvironment,
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 10,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared client used by every outgoing request.
// Tests swap its Transport to intercept calls:
//
//	http.DefaultClient.Transport = mock
//	defer http.ResetTransport()
var DefaultClient = &gohttp.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// Request is a fluent HTTP request builder.
type Request struct {
	method    string
	url       string
	headers   map[string]string
	timeout   time.Duration
	attempts  int
	retryWait time.Duration
	ctx       context.Context
}

// Get starts a GET request.
func Get(url string) *Request { return newRequest(gohttp.MethodGet, url) }

func newRequest(method, url string) *Request {
	return &Request{
		method:    method,
		url:       url,
		headers:   map[string]string{"Accept": "application/json"},
		timeout:   30 * time.Second,
		attempts:  1,
		retryWait: 500 * time.Millisecond,
		ctx:       context.Background(),
	}
}

// Header adds a single header to the request.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// Retry configures automatic retries on transport failures. n is the total
// number of attempts (1 = no retry); wait doubles after every attempt.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	if n < 1 {
		n = 1
	}
	r.attempts = n
	r.retryWait = wait
	return r
}

// WithContext bounds every attempt, and the waits between them, by ctx. The
// request ID in ctx is forwarded as X-Request-ID.
func (r *Request) WithContext(ctx context.Context) *Request {
	r.ctx = ctx
	if id := reqid.FromCtx(ctx); id != "" {
		r.headers[reqid.Header] = id
	}
	return r
}

// Send executes the request. Only transport-level failures are retried; any
// HTTP status is returned to the caller as a Response.
func (r *Request) Send() (*Response, error) {
	var lastErr error
	wait := r.retryWait

	for attempt := 1; attempt <= r.attempts; attempt++ {
		resp, err := r.do()
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if attempt == r.attempts || errors.Is(err, ErrResponseTooLarge) {
			break
		}
		logger.WithCtx(r.ctx).Warn("http: request failed, retrying",
			"url", r.url, "attempt", attempt, "backoff", wait, "error", err)

		select {
		case <-r.ctx.Done():
			return nil, fmt.Errorf("http: %s %s: %w", r.method, r.url, r.ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}

	return nil, fmt.Errorf("http: %s %s failed after %d attempt(s): %w", r.method, r.url, r.attempts, lastErr)
}

func (r *Request) do() (*Response, error) {
	ctx, cancel := context.WithTimeout(r.ctx, r.timeout)
	defer cancel()

	req, err := gohttp.NewRequestWithContext(ctx, r.method, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("http: build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: send: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, fmt.Errorf("http: read body: %w", err)
	}
	if len(raw) > maxResponseBytes {
		return nil, ErrResponseTooLarge
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Raw:        raw,
	}, nil
}

// Response is a fully buffered HTTP response.
type Response struct {
	StatusCode int
	Headers    gohttp.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest interface{}) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("http: decode JSON: %w", err)
	}
	return nil
}

// Throw returns an error if the response status is not 2xx.
func (r *Response) Throw() error {
	if !r.OK() {
		body := r.Raw
		if len(body) > 256 {
			body = body[:256]
		}
		return fmt.Errorf("http: unexpected status %d: %s", r.StatusCode, body)
	}
	return nil
}
