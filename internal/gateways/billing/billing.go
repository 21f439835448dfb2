// Package billing meters usage against a tenant's subscription.
package billing

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"verigate/internal/verification/resilience"
	"verigate/pkg/platform/sentinel"
)

// Metric names accepted by the usage endpoint.
const (
	MetricAPICalls      = "api_calls"
	MetricStorage       = "storage"
	MetricVerifications = "verifications"
)

// Gateway records metered usage. The bool reports acceptance upstream.
type Gateway interface {
	RecordUsage(ctx context.Context, subscriptionID, metric string, quantity int) (bool, error)
}

// Unavailable is used when billing is not configured.
type Unavailable struct{}

func (Unavailable) RecordUsage(context.Context, string, string, int) (bool, error) {
	return false, fmt.Errorf("billing not configured: %w", sentinel.ErrUnavailable)
}

const DefaultRazorpayBaseURL = "https://api.razorpay.com/v1"

type RazorpayConfig struct {
	KeyID     string
	KeySecret string
	BaseURL   string
}

// Razorpay posts usage records with basic auth.
type Razorpay struct {
	cfg    RazorpayConfig
	exec   *resilience.Executor
	logger *slog.Logger
	now    func() time.Time
}

func NewRazorpay(cfg RazorpayConfig, exec *resilience.Executor, logger *slog.Logger) *Razorpay {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultRazorpayBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if logger == nil {
		logger = slog.Default()
	}
	return &Razorpay{cfg: cfg, exec: exec, logger: logger, now: time.Now}
}

type usageRecord struct {
	SubscriptionID string `json:"subscription_id"`
	Metric         string `json:"metric"`
	Quantity       int    `json:"quantity"`
	Timestamp      int64  `json:"timestamp"`
}

func (r *Razorpay) RecordUsage(ctx context.Context, subscriptionID, metric string, quantity int) (bool, error) {
	if subscriptionID == "" {
		return false, fmt.Errorf("record usage: subscription id is required")
	}
	switch metric {
	case MetricAPICalls, MetricStorage, MetricVerifications:
	default:
		return false, fmt.Errorf("record usage: unknown metric %q", metric)
	}

	h := http.Header{}
	h.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(r.cfg.KeyID+":"+r.cfg.KeySecret)))
	req, err := resilience.JSONRequest(http.MethodPost, r.cfg.BaseURL+"/usage", usageRecord{
		SubscriptionID: subscriptionID,
		Metric:         metric,
		Quantity:       quantity,
		Timestamp:      r.now().Unix(),
	}, h)
	if err != nil {
		return false, err
	}
	if _, err := r.exec.Execute(ctx, req); err != nil {
		return false, fmt.Errorf("razorpay usage: %w", err)
	}
	r.logger.DebugContext(ctx, "usage recorded",
		"subscription_id", subscriptionID,
		"metric", metric,
		"quantity", quantity,
	)
	return true, nil
}
