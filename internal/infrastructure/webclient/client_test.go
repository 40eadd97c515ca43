package webclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skuprice/backend/internal/domain"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// newTestClient returns a client whose sleeps are recorded instead of performed
func newTestClient(opts Options) (*Client, *[]time.Duration) {
	client := NewClient(opts)
	var sleeps []time.Duration
	client.sleep = func(ctx context.Context, d time.Duration) error {
		sleeps = append(sleeps, d)
		return nil
	}
	return client, &sleeps
}

func TestNewClient(t *testing.T) {
	client := NewClient(Options{
		Retries:        2,
		Backoff:        1200 * time.Millisecond,
		UserAgent:      "Mozilla/5.0",
		AcceptLanguage: "es-CO",
	})

	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.insecureClient)
	assert.Equal(t, 30*time.Second, client.httpClient.Timeout)
	assert.Equal(t, 2, client.retries)
	assert.False(t, client.insecureFallback)
	assert.Equal(t, "Mozilla/5.0", client.headers.Get("User-Agent"))
	assert.Empty(t, client.headers.Get("Accept"))
}

func TestLinearBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 1200 * time.Millisecond},
		{2, 2400 * time.Millisecond},
		{3, 3600 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run("", func(t *testing.T) {
			assert.Equal(t, tt.expected, linearBackoff(1200*time.Millisecond, tt.attempt))
		})
	}
}

func TestGet_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.Equal(t, "es-CO,es;q=0.9", r.Header.Get("Accept-Language"))
		w.Write([]byte(`[{"productName":"Leche"}]`))
	}))
	defer server.Close()

	client, sleeps := newTestClient(Options{
		UserAgent:      "Mozilla/5.0",
		Accept:         "application/json",
		AcceptLanguage: "es-CO,es;q=0.9",
	})

	resp, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, `[{"productName":"Leche"}]`, string(resp.Body))
	assert.Empty(t, *sleeps)
}

func TestGet_ErrorStatusIsNotRetried(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, _ := newTestClient(Options{Retries: 2})

	resp, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, resp.OK())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGet_TransportFailures_ExhaustRetries(t *testing.T) {
	client, sleeps := newTestClient(Options{Retries: 2, Backoff: 1200 * time.Millisecond})

	attempts := 0
	transportErr := errors.New("connection reset by peer")
	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		return nil, transportErr
	})

	resp, err := client.Get(context.Background(), "http://catalog.test/api")

	assert.Nil(t, resp)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.ErrorIs(t, err, transportErr)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, []time.Duration{1200 * time.Millisecond, 2400 * time.Millisecond}, *sleeps)
}

func TestGet_RecoversAfterTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client, sleeps := newTestClient(Options{Retries: 2, Backoff: time.Second})

	attempts := 0
	base := client.httpClient.Transport
	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		if attempts == 1 {
			return nil, errors.New("timeout")
		}
		return base.RoundTrip(r)
	})

	resp, err := client.Get(context.Background(), server.URL)

	require.NoError(t, err)
	assert.True(t, resp.OK())
	assert.Equal(t, 2, attempts)
	assert.Equal(t, []time.Duration{time.Second}, *sleeps)
}

func TestGet_ZeroRetries(t *testing.T) {
	client, sleeps := newTestClient(Options{Retries: 0, Backoff: time.Second})

	attempts := 0
	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		return nil, errors.New("refused")
	})

	_, err := client.Get(context.Background(), "http://catalog.test/api")

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}

func TestGet_InsecureTLSFallback(t *testing.T) {
	var hits int32
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	t.Run("disabled by default: certificate failure exhausts retries", func(t *testing.T) {
		client, sleeps := newTestClient(Options{Retries: 1, Backoff: time.Millisecond})

		_, err := client.Get(context.Background(), server.URL)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrNetwork)
		assert.ErrorIs(t, err, domain.ErrTLSVerification)
		assert.True(t, isCertificateError(err))
		assert.Len(t, *sleeps, 1)
		assert.Equal(t, int32(0), atomic.LoadInt32(&hits))
	})

	t.Run("enabled: retries once without verification", func(t *testing.T) {
		client, sleeps := newTestClient(Options{Retries: 1, InsecureTLSFallback: true})

		resp, err := client.Get(context.Background(), server.URL)

		require.NoError(t, err)
		assert.True(t, resp.OK())
		assert.Empty(t, *sleeps)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
	})
}

func TestGet_FallbackNotUsedForOtherErrors(t *testing.T) {
	client, _ := newTestClient(Options{Retries: 0, InsecureTLSFallback: true})

	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("no route to host")
	})
	insecureCalls := 0
	client.insecureClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		insecureCalls++
		return nil, errors.New("unexpected")
	})

	_, err := client.Get(context.Background(), "https://catalog.test/api")

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.NotErrorIs(t, err, domain.ErrTLSVerification)
	assert.Zero(t, insecureCalls)
}

func TestGet_CanceledContextStopsRetrying(t *testing.T) {
	client, sleeps := newTestClient(Options{Retries: 5})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	client.httpClient.Transport = roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		attempts++
		cancel()
		return nil, context.Canceled
	})

	_, err := client.Get(ctx, "http://catalog.test/api")

	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Equal(t, 1, attempts)
	assert.Empty(t, *sleeps)
}
