package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ErrInvalidRequest marks a malformed verification request.
var ErrInvalidRequest = errors.New("invalid verification request")

// VerificationRequest asks one provider to verify one subject. RequestID is
// the correlation key for result lookup and idempotent retries.
type VerificationRequest struct {
	RequestID   string        `json:"request_id"`
	ProviderID  string        `json:"provider_id"`
	SubjectID   string        `json:"subject_id"`
	SubjectKind SubjectKind   `json:"subject_kind"`
	Priority    int           `json:"priority,omitempty"`
	Student     *StudentQuery `json:"student,omitempty"`
}

// NewVerificationRequest builds an institution request with a fresh id.
func NewVerificationRequest(providerID, subjectID string) VerificationRequest {
	return VerificationRequest{
		RequestID:   uuid.NewString(),
		ProviderID:  strings.TrimSpace(providerID),
		SubjectID:   strings.TrimSpace(subjectID),
		SubjectKind: SubjectInstitution,
	}
}

// NewStudentVerificationRequest builds a student result request with a fresh id.
// SubjectID is derived from the query for logging and audit only.
func NewStudentVerificationRequest(providerID string, q StudentQuery) VerificationRequest {
	q.RollNumber = strings.TrimSpace(q.RollNumber)
	return VerificationRequest{
		RequestID:   uuid.NewString(),
		ProviderID:  strings.TrimSpace(providerID),
		SubjectID:   fmt.Sprintf("%s/%d", q.RollNumber, q.Year),
		SubjectKind: SubjectStudent,
		Student:     &q,
	}
}

// Validate checks the request is well formed.
func (r VerificationRequest) Validate() error {
	if r.RequestID == "" {
		return fmt.Errorf("%w: request_id is required", ErrInvalidRequest)
	}
	if r.ProviderID == "" {
		return fmt.Errorf("%w: provider_id is required", ErrInvalidRequest)
	}
	switch r.SubjectKind {
	case SubjectInstitution:
		if r.SubjectID == "" {
			return fmt.Errorf("%w: subject_id is required", ErrInvalidRequest)
		}
	case SubjectStudent:
		if r.Student == nil || r.Student.RollNumber == "" || r.Student.Year <= 0 {
			return fmt.Errorf("%w: student roll_number and year are required", ErrInvalidRequest)
		}
	default:
		return fmt.Errorf("%w: unknown subject_kind %q", ErrInvalidRequest, r.SubjectKind)
	}
	return nil
}
