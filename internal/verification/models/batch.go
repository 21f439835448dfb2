package models

import (
	"github.com/google/uuid"
)

// BatchJob collects outcomes for a set of requests. Outcomes only grow; the
// job is complete once every request has an outcome.
type BatchJob struct {
	JobID     string                `json:"job_id"`
	Requests  []VerificationRequest `json:"requests"`
	Outcomes  []VerificationOutcome `json:"outcomes"`
	Succeeded []VerificationOutcome `json:"succeeded"`
	Failed    []VerificationOutcome `json:"failed"`
}

// NewBatchJob starts an empty job for reqs.
func NewBatchJob(reqs []VerificationRequest) *BatchJob {
	requests := make([]VerificationRequest, len(reqs))
	copy(requests, reqs)
	return &BatchJob{
		JobID:     uuid.NewString(),
		Requests:  requests,
		Outcomes:  make([]VerificationOutcome, 0, len(reqs)),
		Succeeded: []VerificationOutcome{},
		Failed:    []VerificationOutcome{},
	}
}

// Append records an outcome and files it under Succeeded or Failed.
func (j *BatchJob) Append(o VerificationOutcome) {
	j.Outcomes = append(j.Outcomes, o)
	if o.Status == OutcomeFailed {
		j.Failed = append(j.Failed, o)
		return
	}
	j.Succeeded = append(j.Succeeded, o)
}

// Complete reports whether every request has an outcome.
func (j *BatchJob) Complete() bool {
	return len(j.Outcomes) == len(j.Requests)
}
