// Package notify sends templated status emails.
package notify

import (
	"context"
	"fmt"

	"verigate/pkg/platform/sentinel"
)

// TemplateVerificationStatus is sent when a verification reaches a final state.
const TemplateVerificationStatus = "verification_status"

// Recipient is one addressee. An empty Name is derived from the address.
type Recipient struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Gateway delivers one templated message. The bool reports acceptance by
// the upstream service.
type Gateway interface {
	Send(ctx context.Context, to Recipient, templateID string, data map[string]any) (bool, error)
}

// Unavailable is used when no mail service is configured.
type Unavailable struct{}

func (Unavailable) Send(context.Context, Recipient, string, map[string]any) (bool, error) {
	return false, fmt.Errorf("notifications not configured: %w", sentinel.ErrUnavailable)
}
