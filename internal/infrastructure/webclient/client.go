// Package webclient issues the GET requests used to talk to storefront APIs.
package webclient

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/skuprice/backend/internal/domain"
	"github.com/skuprice/backend/internal/infrastructure/logging"
)

// Options configures a Client
type Options struct {
	Timeout time.Duration
	// Retries is the number of extra attempts after the first one
	Retries int
	// Backoff is multiplied by the attempt number between attempts
	Backoff time.Duration
	// InsecureTLSFallback retries a request once without certificate
	// verification when the verified attempt fails on the certificate.
	InsecureTLSFallback bool
	// RequestsPerSecond throttles outgoing requests; 0 means unlimited
	RequestsPerSecond float64
	UserAgent         string
	Accept            string
	AcceptLanguage    string
}

// Response is a fully read HTTP response
type Response struct {
	URL        string
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 200
func (r *Response) OK() bool {
	return r != nil && r.StatusCode == http.StatusOK
}

// Client is a GET-only HTTP client with browser-like headers, linear backoff
// retries and an optional insecure TLS fallback.
type Client struct {
	httpClient       *http.Client
	insecureClient   *http.Client
	headers          http.Header
	retries          int
	backoff          time.Duration
	insecureFallback bool
	rateLimiter      *rate.Limiter
	sleep            func(ctx context.Context, d time.Duration) error
	logger           zerolog.Logger
}

// NewClient creates a new Client
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	headers := http.Header{}
	setHeader(headers, "User-Agent", opts.UserAgent)
	setHeader(headers, "Accept", opts.Accept)
	setHeader(headers, "Accept-Language", opts.AcceptLanguage)

	verified := http.DefaultTransport.(*http.Transport).Clone()

	insecure := http.DefaultTransport.(*http.Transport).Clone()
	insecure.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in fallback only

	retries := opts.Retries
	if retries < 0 {
		retries = 0
	}

	return &Client{
		httpClient:       &http.Client{Timeout: timeout, Transport: verified},
		insecureClient:   &http.Client{Timeout: timeout, Transport: insecure},
		headers:          headers,
		retries:          retries,
		backoff:          opts.Backoff,
		insecureFallback: opts.InsecureTLSFallback,
		rateLimiter:      rate.NewLimiter(limit, 1),
		sleep:            sleepContext,
		logger:           logging.Component("webclient"),
	}
}

func setHeader(h http.Header, key, value string) {
	if value != "" {
		h.Set(key, value)
	}
}

// Get fetches url, retrying transport failures up to Retries more times.
// Any HTTP status is returned as a Response; only exhausted transport
// failures produce an error, which wraps domain.ErrNetwork and the last cause.
func (c *Client) Get(ctx context.Context, url string) (*Response, error) {
	attempts := c.retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		resp, err := c.do(ctx, c.httpClient, url)
		if err != nil && c.insecureFallback && isCertificateError(err) {
			c.logger.Warn().Str("url", url).Err(err).
				Msg("certificate verification failed, retrying without verification")
			resp, err = c.do(ctx, c.insecureClient, url)
		}
		if err == nil {
			c.logger.Debug().Str("url", url).Int("status", resp.StatusCode).Int("attempt", attempt).Msg("GET")
			return resp, nil
		}

		lastErr = err
		c.logger.Warn().Str("url", url).Int("attempt", attempt).Int("attempts", attempts).Err(err).Msg("request failed")

		if ctx.Err() != nil {
			break
		}
		if attempt < attempts {
			if err := c.sleep(ctx, linearBackoff(c.backoff, attempt)); err != nil {
				break
			}
		}
	}

	if isCertificateError(lastErr) {
		return nil, fmt.Errorf("%w: %w: GET %s: %w", domain.ErrNetwork, domain.ErrTLSVerification, url, lastErr)
	}
	return nil, fmt.Errorf("%w: GET %s: %w", domain.ErrNetwork, url, lastErr)
}

// do executes a single GET request and reads the whole body
func (c *Client) do(ctx context.Context, client *http.Client, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &Response{URL: url, StatusCode: resp.StatusCode, Body: body}, nil
}

// linearBackoff returns the wait before the attempt following attempt (1-based)
func linearBackoff(base time.Duration, attempt int) time.Duration {
	return base * time.Duration(attempt)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isCertificateError reports whether err is a TLS certificate verification failure
func isCertificateError(err error) bool {
	var verifyErr *tls.CertificateVerificationError
	if errors.As(err, &verifyErr) {
		return true
	}
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}
	var invalid x509.CertificateInvalidError
	return errors.As(err, &invalid)
}
