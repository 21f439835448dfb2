// Package events publishes verification lifecycle events.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"verigate/internal/verification/models"
)

const TypeVerificationCompleted = "verification.completed"

// DefaultTopic receives every verification event.
const DefaultTopic = "verigate.verifications"

// Event is the JSON value written for one verification.
type Event struct {
	ID         string                    `json:"id"`
	Type       string                    `json:"type"`
	TenantID   string                    `json:"tenant_id"`
	RequestID  string                    `json:"request_id"`
	ProviderID string                    `json:"provider_id"`
	SubjectID  string                    `json:"subject_id"`
	Status     models.OutcomeStatus      `json:"status"`
	Verdict    models.VerificationStatus `json:"verdict,omitempty"`
	ErrorKind  models.ErrorKind          `json:"error_kind,omitempty"`
	OccurredAt time.Time                 `json:"occurred_at"`
}

// Completed builds the event for a finished outcome.
func Completed(tenantID string, o models.VerificationOutcome) Event {
	ev := Event{
		ID:         uuid.NewString(),
		Type:       TypeVerificationCompleted,
		TenantID:   tenantID,
		RequestID:  o.RequestID,
		ProviderID: o.ProviderID,
		SubjectID:  o.SubjectID,
		Status:     o.Status,
		Verdict:    o.Verdict(),
		OccurredAt: o.CompletedAt,
	}
	if o.Error != nil {
		ev.ErrorKind = o.Error.Kind
	}
	return ev
}

// Publisher delivers events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Noop drops every event. Used when no brokers are configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
