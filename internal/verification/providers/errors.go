package providers

import (
	"errors"
	"fmt"
	"net/http"

	"verigate/internal/verification/models"
	"verigate/internal/verification/resilience"
)

// Category classifies a provider-level failure.
type Category string

const (
	CategoryTimeout          Category = "timeout"
	CategoryUnavailable      Category = "unavailable"
	CategoryBadData          Category = "bad_data"
	CategoryAuthentication   Category = "authentication"
	CategoryNotFound         Category = "not_found"
	CategoryContractMismatch Category = "contract_mismatch"
	CategoryInternal         Category = "internal"
)

// ProviderError reports a failure signalled by the provider itself, such as
// an error envelope on a 2xx response.
type ProviderError struct {
	Category   Category
	ProviderID string
	Message    string
	Underlying error
	Retryable  bool
}

func (e *ProviderError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.ProviderID, e.Message, e.Category, e.Underlying)
	}
	return fmt.Sprintf("%s: %s (%s)", e.ProviderID, e.Message, e.Category)
}

func (e *ProviderError) Unwrap() error          { return e.Underlying }
func (e *ProviderError) Kind() models.ErrorKind { return models.KindProvider }

// NewProviderError builds a ProviderError. Unavailable and timeout
// failures are marked retryable.
func NewProviderError(providerID string, category Category, message string, underlying error) *ProviderError {
	return &ProviderError{
		Category:   category,
		ProviderID: providerID,
		Message:    message,
		Underlying: underlying,
		Retryable:  category == CategoryUnavailable || category == CategoryTimeout,
	}
}

// NormalizationError reports a payload that could not be mapped to the
// canonical model.
type NormalizationError struct {
	ProviderID string
	Field      string
	Reason     string
	Err        error
}

func (e *NormalizationError) Error() string {
	msg := fmt.Sprintf("%s: cannot normalize payload", e.ProviderID)
	if e.Field != "" {
		msg += fmt.Sprintf(": field %q", e.Field)
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *NormalizationError) Unwrap() error          { return e.Err }
func (e *NormalizationError) Kind() models.ErrorKind { return models.KindNormalization }

// Category reports NormalizationError as bad data.
func (e *NormalizationError) Category() Category { return CategoryBadData }

// IsNotFound reports whether err means the subject does not exist at the
// provider, either as a 404 or an explicit not_found envelope.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if resilience.StatusCode(err) == http.StatusNotFound {
		return true
	}
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Category == CategoryNotFound
}

// CategoryOf maps any adapter error to a Category.
func CategoryOf(err error) Category {
	var (
		pe *ProviderError
		ne *NormalizationError
		te *resilience.TimeoutError
		he *resilience.HTTPError
		nw *resilience.NetworkError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return pe.Category
	case errors.As(err, &ne):
		return CategoryBadData
	case models.ErrorKindOf(err) == models.KindAuthentication:
		return CategoryAuthentication
	case errors.As(err, &te):
		return CategoryTimeout
	case errors.As(err, &he):
		switch {
		case he.StatusCode == http.StatusNotFound:
			return CategoryNotFound
		case he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden:
			return CategoryAuthentication
		case he.StatusCode >= 500:
			return CategoryUnavailable
		}
		return CategoryContractMismatch
	case errors.As(err, &nw):
		return CategoryUnavailable
	}
	return CategoryInternal
}
