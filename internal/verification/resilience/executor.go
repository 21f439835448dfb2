package resilience

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"verigate/internal/verification/metrics"
)

const defaultMaxResponseBytes int64 = 4 << 20

// HTTPDoer is the transport used by the executor; *http.Client satisfies it.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Request describes one outbound call. Body is resent on every attempt.
type Request struct {
	Method  string
	URL     string
	Body    []byte
	Headers http.Header
}

// JSONRequest encodes v as the request body.
func JSONRequest(method, rawURL string, v any, headers http.Header) (Request, error) {
	var body []byte
	if v != nil {
		b, err := json.Marshal(v)
		if err != nil {
			return Request{}, fmt.Errorf("encode request body: %w", err)
		}
		body = b
	}
	h := headers.Clone()
	if h == nil {
		h = http.Header{}
	}
	if body != nil {
		h.Set("Content-Type", "application/json")
	}
	h.Set("Accept", "application/json")
	return Request{Method: method, URL: rawURL, Body: body, Headers: h}, nil
}

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// DecodeJSON unmarshals the body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Empty reports whether the body carries no content.
func (r *Response) Empty() bool {
	trimmed := bytes.TrimSpace(r.Body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

// RetryEvent is reported before each wait between attempts.
type RetryEvent struct {
	Attempt int
	Delay   time.Duration
	Err     error
}

// Executor issues outbound calls under a Policy.
type Executor struct {
	client   HTTPDoer
	policy   Policy
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	maxBody  int64
	observer func(RetryEvent)
}

// Option configures an Executor.
type Option func(*Executor)

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Executor) { e.metrics = m }
}

func WithMaxResponseBytes(n int64) Option {
	return func(e *Executor) {
		if n > 0 {
			e.maxBody = n
		}
	}
}

// WithRetryObserver registers a hook called before every backoff wait.
func WithRetryObserver(fn func(RetryEvent)) Option {
	return func(e *Executor) { e.observer = fn }
}

// NewExecutor builds an executor. A nil client uses http.DefaultClient.
func NewExecutor(client HTTPDoer, policy Policy, logger *slog.Logger, opts ...Option) *Executor {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Executor{
		client:  client,
		policy:  policy.normalized(),
		logger:  logger,
		tracer:  otel.Tracer("verigate/resilience"),
		maxBody: defaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Policy returns the executor's effective policy.
func (e *Executor) Policy() Policy {
	return e.policy
}

// WithPolicy returns a copy of the executor using p.
func (e *Executor) WithPolicy(p Policy) *Executor {
	cp := *e
	cp.policy = p.normalized()
	return &cp
}

// Execute performs req, retrying failures per the policy. On failure the
// returned error is always an *ExhaustedError wrapping the last attempt's error.
func (e *Executor) Execute(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	host := hostOf(req.URL)

	ctx, cancel := context.WithTimeout(ctx, e.policy.Deadline())
	defer cancel()

	ctx, span := e.tracer.Start(ctx, "resilience.Execute", trace.WithAttributes(
		attribute.String("http.method", req.Method),
		attribute.String("net.peer.name", host),
	))
	defer span.End()

	var (
		resp     *Response
		lastErr  error
		attempts int
	)

	operation := func() error {
		attempts++
		r, err := e.attempt(ctx, req)
		if err == nil {
			resp = r
			e.metrics.IncAttempt(host, "ok")
			return nil
		}
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			lastErr = perm.Err
			e.metrics.IncAttempt(host, resultLabel(perm.Err))
			return err
		}
		lastErr = err
		e.metrics.IncAttempt(host, resultLabel(err))

		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		var he *HTTPError
		if e.policy.FailFastOnClientError && errors.As(err, &he) && he.IsClientError() {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, delay time.Duration) {
		e.logger.WarnContext(ctx, "outbound request failed, retrying",
			"method", req.Method,
			"host", host,
			"attempt", attempts,
			"delay", delay,
			"error", err,
		)
		if e.observer != nil {
			e.observer(RetryEvent{Attempt: attempts, Delay: delay, Err: err})
		}
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(e.policy.backOff(), ctx), notify)
	span.SetAttributes(attribute.Int("retry.attempts", attempts))
	if err == nil {
		return resp, nil
	}

	if lastErr == nil {
		lastErr = err
	}
	exhausted := &ExhaustedError{Attempts: attempts, Elapsed: time.Since(start), Last: lastErr}
	e.metrics.IncExhausted(host)
	span.RecordError(exhausted)
	span.SetStatus(codes.Error, string(exhausted.Kind()))
	e.logger.ErrorContext(ctx, "outbound request exhausted",
		"method", req.Method,
		"host", host,
		"attempts", attempts,
		"elapsed", exhausted.Elapsed,
		"error", lastErr,
	)
	return nil, exhausted
}

func (e *Executor) attempt(ctx context.Context, req Request) (*Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, e.policy.PerAttemptTimeout)
	defer cancel()

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, req.URL, body)
	if err != nil {
		return nil, backoff.Permanent(&NetworkError{URL: req.URL, Err: err})
	}
	for k, vs := range req.Headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, e.classify(ctx, attemptCtx, req.URL, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, e.maxBody))
	if err != nil {
		return nil, e.classify(ctx, attemptCtx, req.URL, err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &HTTPError{URL: req.URL, StatusCode: httpResp.StatusCode, Body: data}
	}
	return &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: data}, nil
}

func (e *Executor) classify(parent, attemptCtx context.Context, rawURL string, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if errors.Is(attemptCtx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{URL: rawURL, Timeout: e.policy.PerAttemptTimeout}
	}
	return &NetworkError{URL: rawURL, Err: err}
}

func resultLabel(err error) string {
	var (
		he *HTTPError
		te *TimeoutError
	)
	switch {
	case errors.As(err, &he):
		return "http"
	case errors.As(err, &te):
		return "timeout"
	default:
		return "network"
	}
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid"
	}
	return u.Host
}
