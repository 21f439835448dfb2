package models

import (
	"errors"
	"time"
)

// ErrorKind names the class of a verification failure.
type ErrorKind string

const (
	KindUnsupportedProvider   ErrorKind = "UnsupportedProviderError"
	KindUnsupportedCapability ErrorKind = "UnsupportedCapabilityError"
	KindInvalidRequest        ErrorKind = "InvalidRequestError"
	KindAuthentication        ErrorKind = "AuthenticationError"
	KindNetwork               ErrorKind = "NetworkError"
	KindTimeout               ErrorKind = "TimeoutError"
	KindHTTP                  ErrorKind = "HttpError"
	KindNormalization         ErrorKind = "NormalizationError"
	KindProvider              ErrorKind = "ProviderError"
	KindCancelled             ErrorKind = "Cancelled"
	KindInternal              ErrorKind = "InternalError"
)

// Kinded is implemented by typed verification errors.
type Kinded interface {
	error
	Kind() ErrorKind
}

// ErrorKindOf returns the kind of the outermost typed error in err's chain.
func ErrorKindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	if errors.Is(err, ErrInvalidRequest) {
		return KindInvalidRequest
	}
	return KindInternal
}

// OutcomeError is the serializable failure carried by a failed outcome.
type OutcomeError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

// VerificationOutcome is the result of one request. When Status is not
// pending exactly one of the payloads or Error is set.
type VerificationOutcome struct {
	RequestID   string                  `json:"request_id"`
	ProviderID  string                  `json:"provider_id"`
	SubjectID   string                  `json:"subject_id"`
	Status      OutcomeStatus           `json:"status"`
	Institution *CanonicalInstitution   `json:"institution,omitempty"`
	Student     *CanonicalStudentRecord `json:"student,omitempty"`
	Error       *OutcomeError           `json:"error,omitempty"`
	CompletedAt time.Time               `json:"completed_at"`
}

// InstitutionOutcome wraps a completed institution snapshot. A pending
// canonical status keeps the outcome pending.
func InstitutionOutcome(req VerificationRequest, inst *CanonicalInstitution, now time.Time) VerificationOutcome {
	status := OutcomeVerified
	if inst.VerificationStatus == StatusPending {
		status = OutcomePending
	}
	return VerificationOutcome{
		RequestID:   req.RequestID,
		ProviderID:  req.ProviderID,
		SubjectID:   req.SubjectID,
		Status:      status,
		Institution: inst,
		CompletedAt: now,
	}
}

// StudentOutcome wraps a student record. An incomplete record keeps the
// outcome pending.
func StudentOutcome(req VerificationRequest, rec *CanonicalStudentRecord, now time.Time) VerificationOutcome {
	status := OutcomeVerified
	if rec.Incomplete {
		status = OutcomePending
	}
	return VerificationOutcome{
		RequestID:   req.RequestID,
		ProviderID:  req.ProviderID,
		SubjectID:   req.SubjectID,
		Status:      status,
		Student:     rec,
		CompletedAt: now,
	}
}

// FailedOutcome converts err into a failed outcome.
func FailedOutcome(req VerificationRequest, err error, now time.Time) VerificationOutcome {
	return VerificationOutcome{
		RequestID:  req.RequestID,
		ProviderID: req.ProviderID,
		SubjectID:  req.SubjectID,
		Status:     OutcomeFailed,
		Error: &OutcomeError{
			Kind:    ErrorKindOf(err),
			Message: err.Error(),
		},
		CompletedAt: now,
	}
}

// Verdict returns the canonical status of the payload, if any.
func (o VerificationOutcome) Verdict() VerificationStatus {
	switch {
	case o.Institution != nil:
		return o.Institution.VerificationStatus
	case o.Student != nil:
		if o.Student.Incomplete {
			return StatusPending
		}
		if o.Student.IsAuthentic {
			return StatusVerified
		}
		return StatusRejected
	}
	return ""
}

// Completed reports whether the outcome reached a terminal verdict.
func (o VerificationOutcome) Completed() bool {
	return o.Status == OutcomeVerified
}

// Warnings returns the payload's warnings, if any.
func (o VerificationOutcome) Warnings() []string {
	switch {
	case o.Institution != nil:
		return o.Institution.Warnings
	case o.Student != nil:
		return o.Student.Warnings
	}
	return nil
}
