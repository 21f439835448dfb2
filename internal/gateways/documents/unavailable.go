package documents

import (
	"context"
	"fmt"
	"time"

	"verigate/pkg/platform/sentinel"
)

// Unavailable is used when no bucket is configured. Every call fails.
type Unavailable struct{}

func (Unavailable) Upload(context.Context, []byte, Metadata) (Stored, error) {
	return Stored{}, fmt.Errorf("document storage not configured: %w", sentinel.ErrUnavailable)
}

func (Unavailable) GetDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", fmt.Errorf("document storage not configured: %w", sentinel.ErrUnavailable)
}

func (Unavailable) Delete(context.Context, string) (bool, error) {
	return false, fmt.Errorf("document storage not configured: %w", sentinel.ErrUnavailable)
}
