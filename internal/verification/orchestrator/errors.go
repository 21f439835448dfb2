package orchestrator

import (
	"fmt"

	"verigate/internal/verification/models"
)

// UnsupportedProviderError is returned for a provider id with no registered adapter.
type UnsupportedProviderError struct {
	ProviderID string
}

func (e *UnsupportedProviderError) Error() string {
	return fmt.Sprintf("unsupported provider %q", e.ProviderID)
}

func (e *UnsupportedProviderError) Kind() models.ErrorKind { return models.KindUnsupportedProvider }

// UnsupportedCapabilityError is returned when a provider cannot serve the
// requested operation, such as student results from a regulator.
type UnsupportedCapabilityError struct {
	ProviderID string
	Capability string
}

func (e *UnsupportedCapabilityError) Error() string {
	return fmt.Sprintf("provider %q does not support %s", e.ProviderID, e.Capability)
}

func (e *UnsupportedCapabilityError) Kind() models.ErrorKind {
	return models.KindUnsupportedCapability
}

// CancelledError marks a batch item that was never scheduled.
type CancelledError struct {
	Err error
}

func (e *CancelledError) Error() string {
	return fmt.Sprintf("not scheduled: %v", e.Err)
}

func (e *CancelledError) Unwrap() error          { return e.Err }
func (e *CancelledError) Kind() models.ErrorKind { return models.KindCancelled }
