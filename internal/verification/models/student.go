package models

import (
	"time"
)

// StudentQuery carries the structured keys of a student result lookup.
type StudentQuery struct {
	RollNumber  string `json:"roll_number"`
	Year        int    `json:"year"`
	ClassLevel  int    `json:"class_level"`
	ExamSession string `json:"exam_session,omitempty"`
}

// CanonicalStudentRecord is the provider-independent snapshot of a result.
// Incomplete marks a record built from an empty provider response; it is
// never authentic.
type CanonicalStudentRecord struct {
	StudentID         string        `json:"student_id"`
	InstitutionID     string        `json:"institution_id"`
	ProviderID        string        `json:"provider_id"`
	RollNumber        string        `json:"roll_number"`
	Year              int           `json:"year"`
	ClassLevel        int           `json:"class_level"`
	Result            ExamResult    `json:"result"`
	Subjects          []SubjectMark `json:"subjects"`
	CertificateNumber string        `json:"certificate_number"`
	IsAuthentic       bool          `json:"is_authentic"`
	Incomplete        bool          `json:"incomplete,omitempty"`
	Warnings          []string      `json:"warnings"`
	VerifiedAt        time.Time     `json:"verified_at"`
}

// NewCanonicalStudentRecord finalizes a mapped student record at time now.
func NewCanonicalStudentRecord(in CanonicalStudentRecord, now time.Time) *CanonicalStudentRecord {
	out := in
	out.Subjects = cloneOrEmpty(in.Subjects)
	out.Warnings = cloneOrEmpty(in.Warnings)
	if out.Incomplete {
		out.IsAuthentic = false
	}
	out.VerifiedAt = now
	return &out
}

// PendingStudentRecord is the record for a 2xx response with no content.
func PendingStudentRecord(providerID string, q StudentQuery, warning string, now time.Time) *CanonicalStudentRecord {
	return NewCanonicalStudentRecord(CanonicalStudentRecord{
		ProviderID: providerID,
		RollNumber: q.RollNumber,
		Year:       q.Year,
		ClassLevel: q.ClassLevel,
		Incomplete: true,
		Warnings:   []string{warning},
	}, now)
}
