package resilience

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	DefaultAttempts          = 3
	DefaultBaseDelay         = time.Second
	DefaultPerAttemptTimeout = 30 * time.Second
)

// Policy bounds one outbound call: how many attempts, how long each may take,
// and how long to wait between them. Attempt k waits k*BaseDelay before the
// next try.
type Policy struct {
	Attempts          int
	BaseDelay         time.Duration
	PerAttemptTimeout time.Duration

	// FailFastOnClientError stops retrying on 4xx responses. Off by default:
	// every non-2xx status is retried until attempts run out.
	FailFastOnClientError bool
}

// DefaultPolicy returns 3 attempts, 1s linear backoff and a 30s per-attempt timeout.
func DefaultPolicy() Policy {
	return Policy{
		Attempts:          DefaultAttempts,
		BaseDelay:         DefaultBaseDelay,
		PerAttemptTimeout: DefaultPerAttemptTimeout,
	}
}

func (p Policy) normalized() Policy {
	if p.Attempts < 1 {
		p.Attempts = DefaultAttempts
	}
	if p.BaseDelay < 0 {
		p.BaseDelay = 0
	}
	if p.PerAttemptTimeout <= 0 {
		p.PerAttemptTimeout = DefaultPerAttemptTimeout
	}
	return p
}

// Delay is the wait after failed attempt k (1-based).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return time.Duration(attempt) * p.BaseDelay
}

// Deadline is the logical ceiling shared by all attempts.
func (p Policy) Deadline() time.Duration {
	p = p.normalized()
	total := time.Duration(p.Attempts) * p.PerAttemptTimeout
	for k := 1; k < p.Attempts; k++ {
		total += p.Delay(k)
	}
	return total
}

// backOff returns the retry schedule for this policy.
func (p Policy) backOff() backoff.BackOff {
	p = p.normalized()
	return backoff.WithMaxRetries(&linearBackOff{base: p.BaseDelay}, uint64(p.Attempts-1))
}

// linearBackOff yields base, 2*base, 3*base, ...
type linearBackOff struct {
	base time.Duration
	n    int
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.n++
	return time.Duration(l.n) * l.base
}

func (l *linearBackOff) Reset() {
	l.n = 0
}
