package notify

import (
	"context"
	"fmt"
	"log/slog"

	"verigate/pkg/platform/circuit"
	"verigate/pkg/platform/sentinel"
)

// Breaker stops calling a failing gateway until it recovers.
type Breaker struct {
	next    Gateway
	breaker *circuit.Breaker
	logger  *slog.Logger
}

func NewBreaker(next Gateway, breaker *circuit.Breaker, logger *slog.Logger) *Breaker {
	if breaker == nil {
		breaker = circuit.New("notify")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Breaker{next: next, breaker: breaker, logger: logger}
}

func (b *Breaker) Send(ctx context.Context, to Recipient, templateID string, data map[string]any) (bool, error) {
	if !b.breaker.Allow() {
		return false, fmt.Errorf("circuit %s open: %w", b.breaker.Name(), sentinel.ErrUnavailable)
	}
	ok, err := b.next.Send(ctx, to, templateID, data)
	if err != nil || !ok {
		if _, change := b.breaker.RecordFailure(); change.Opened {
			b.logger.WarnContext(ctx, "circuit opened", "circuit", b.breaker.Name(), "error", err)
		}
		return ok, err
	}
	if _, change := b.breaker.RecordSuccess(); change.Closed {
		b.logger.InfoContext(ctx, "circuit closed", "circuit", b.breaker.Name())
	}
	return true, nil
}
