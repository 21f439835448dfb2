package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/verification/metrics"
	"verigate/internal/verification/models"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fastPolicy() Policy {
	return Policy{Attempts: 3, BaseDelay: 5 * time.Millisecond, PerAttemptTimeout: time.Second}
}

func countingServer(t *testing.T, handler func(n int32, w http.ResponseWriter)) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler(hits.Add(1), w)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestExecute_RetryBound(t *testing.T) {
	srv, hits := countingServer(t, func(_ int32, w http.ResponseWriter) {
		w.WriteHeader(http.StatusBadGateway)
	})

	var (
		mu     sync.Mutex
		delays []time.Duration
	)
	exec := NewExecutor(srv.Client(), fastPolicy(), quietLogger(),
		WithMetrics(metrics.New(prometheus.NewRegistry())),
		WithRetryObserver(func(ev RetryEvent) {
			mu.Lock()
			delays = append(delays, ev.Delay)
			mu.Unlock()
		}),
	)

	_, err := exec.Execute(context.Background(), Request{Method: http.MethodGet, URL: srv.URL + "/x"})
	require.Error(t, err)

	assert.Equal(t, int32(3), hits.Load(), "exactly Attempts calls")

	var exhausted *ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 3, exhausted.Attempts)
	assert.Equal(t, http.StatusBadGateway, StatusCode(err))
	assert.Equal(t, models.KindHTTP, models.ErrorKindOf(err))

	require.Len(t, delays, 2)
	assert.Equal(t, 5*time.Millisecond, delays[0])
	assert.Equal(t, 10*time.Millisecond, delays[1])
	for i := 1; i < len(delays); i++ {
		assert.GreaterOrEqual(t, delays[i], delays[i-1], "delays must not decrease")
	}
}

func TestExecute_SucceedsAfterTransientFailures(t *testing.T) {
	srv, hits := countingServer(t, func(n int32, w http.ResponseWriter) {
		if n < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	exec := NewExecutor(srv.Client(), fastPolicy(), quietLogger())

	resp, err := exec.Execute(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())

	var body struct{ OK bool }
	require.NoError(t, resp.DecodeJSON(&body))
	assert.True(t, body.OK)
}

func TestExecute_ClientErrors(t *testing.T) {
	t.Run("retried by default", func(t *testing.T) {
		srv, hits := countingServer(t, func(_ int32, w http.ResponseWriter) {
			w.WriteHeader(http.StatusBadRequest)
		})
		exec := NewExecutor(srv.Client(), fastPolicy(), quietLogger())

		_, err := exec.Execute(context.Background(), Request{Method: http.MethodPost, URL: srv.URL})
		require.Error(t, err)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("fail fast when enabled", func(t *testing.T) {
		srv, hits := countingServer(t, func(_ int32, w http.ResponseWriter) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		})
		p := fastPolicy()
		p.FailFastOnClientError = true
		exec := NewExecutor(srv.Client(), p, quietLogger())

		_, err := exec.Execute(context.Background(), Request{Method: http.MethodPost, URL: srv.URL})
		require.Error(t, err)
		assert.Equal(t, int32(1), hits.Load())

		var exhausted *ExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, 1, exhausted.Attempts)
		assert.Equal(t, http.StatusUnprocessableEntity, StatusCode(err))
	})

	t.Run("fail fast still retries 5xx", func(t *testing.T) {
		srv, hits := countingServer(t, func(_ int32, w http.ResponseWriter) {
			w.WriteHeader(http.StatusInternalServerError)
		})
		p := fastPolicy()
		p.FailFastOnClientError = true
		exec := NewExecutor(srv.Client(), p, quietLogger())

		_, err := exec.Execute(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
		require.Error(t, err)
		assert.Equal(t, int32(3), hits.Load())
	})
}

func TestExecute_PerAttemptTimeout(t *testing.T) {
	srv, hits := countingServer(t, func(_ int32, w http.ResponseWriter) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	exec := NewExecutor(srv.Client(), Policy{Attempts: 2, BaseDelay: time.Millisecond, PerAttemptTimeout: 20 * time.Millisecond}, quietLogger())

	_, err := exec.Execute(context.Background(), Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)

	var te *TimeoutError
	assert.ErrorAs(t, err, &te)
	assert.Equal(t, models.KindTimeout, models.ErrorKindOf(err))
	assert.Equal(t, int32(2), hits.Load())
}

func TestExecute_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	exec := NewExecutor(http.DefaultClient, Policy{Attempts: 2, BaseDelay: time.Millisecond, PerAttemptTimeout: time.Second}, quietLogger())
	_, err := exec.Execute(context.Background(), Request{Method: http.MethodGet, URL: url})
	require.Error(t, err)

	var ne *NetworkError
	assert.ErrorAs(t, err, &ne)
	assert.Equal(t, models.KindNetwork, models.ErrorKindOf(err))
}

func TestExecute_CallerCancellationStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	srv, hits := countingServer(t, func(_ int32, w http.ResponseWriter) {
		cancel()
		w.WriteHeader(http.StatusBadGateway)
	})
	exec := NewExecutor(srv.Client(), Policy{Attempts: 5, BaseDelay: 50 * time.Millisecond, PerAttemptTimeout: time.Second}, quietLogger())

	_, err := exec.Execute(ctx, Request{Method: http.MethodGet, URL: srv.URL})
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.True(t, errors.Is(err, context.Canceled) || models.ErrorKindOf(err) == models.KindHTTP)
}

func TestJSONRequestSetsHeaders(t *testing.T) {
	req, err := JSONRequest(http.MethodPost, "http://provider/auth", map[string]string{"a": "b"}, http.Header{"X-Session-Token": {"t"}})
	require.NoError(t, err)
	assert.Equal(t, "application/json", req.Headers.Get("Content-Type"))
	assert.Equal(t, "t", req.Headers.Get("X-Session-Token"))
	assert.JSONEq(t, `{"a":"b"}`, string(req.Body))
}

func TestResponseEmpty(t *testing.T) {
	assert.True(t, (&Response{Body: []byte("  ")}).Empty())
	assert.True(t, (&Response{Body: []byte("{}")}).Empty())
	assert.True(t, (&Response{Body: []byte("null")}).Empty())
	assert.False(t, (&Response{Body: []byte(`{"a":1}`)}).Empty())
}

func TestPolicyDeadline(t *testing.T) {
	assert.Equal(t, 93*time.Second, DefaultPolicy().Deadline())
	assert.Equal(t, 3*time.Second, Policy{Attempts: 2, BaseDelay: 2 * time.Second, PerAttemptTimeout: 500 * time.Millisecond}.Deadline())
}
