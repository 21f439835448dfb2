package handler

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"verigate/internal/verification/models"
	dErrors "verigate/pkg/domain-errors"
)

// MaxBatchSize bounds the requests accepted in one batch call.
const MaxBatchSize = 100

// VerifyRequest is the HTTP body for POST /v1/verifications.
type VerifyRequest struct {
	RequestID  string        `json:"request_id,omitempty"`
	ProviderID string        `json:"provider_id"`
	SubjectID  string        `json:"subject_id,omitempty"`
	Priority   int           `json:"priority,omitempty"`
	Student    *StudentQuery `json:"student,omitempty"`
}

// StudentQuery selects a student result instead of an institution.
type StudentQuery struct {
	RollNumber  string `json:"roll_number"`
	Year        int    `json:"year"`
	ClassLevel  int    `json:"class_level"`
	ExamSession string `json:"exam_session,omitempty"`
}

// Validate checks shape only; provider-specific identifier rules are
// enforced by the adapters.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.ProviderID = strings.ToLower(strings.TrimSpace(r.ProviderID))
	r.SubjectID = strings.TrimSpace(r.SubjectID)
	r.RequestID = strings.TrimSpace(r.RequestID)

	if r.ProviderID == "" {
		return dErrors.New(dErrors.CodeValidation, "provider_id is required")
	}
	if len(r.RequestID) > 64 {
		return dErrors.New(dErrors.CodeValidation, "request_id must be at most 64 characters")
	}
	if r.Student == nil {
		if r.SubjectID == "" {
			return dErrors.New(dErrors.CodeValidation, "subject_id or student is required")
		}
		return nil
	}

	r.Student.RollNumber = strings.TrimSpace(r.Student.RollNumber)
	switch {
	case r.Student.RollNumber == "":
		return dErrors.New(dErrors.CodeValidation, "student.roll_number is required")
	case r.Student.Year < 1990 || r.Student.Year > 2100:
		return dErrors.New(dErrors.CodeValidation, "student.year is out of range")
	case r.Student.ClassLevel != 10 && r.Student.ClassLevel != 12:
		return dErrors.New(dErrors.CodeValidation, "student.class_level must be 10 or 12")
	}
	return nil
}

// Domain converts the validated body into a verification request.
func (r *VerifyRequest) Domain() models.VerificationRequest {
	var req models.VerificationRequest
	if r.Student != nil {
		req = models.NewStudentVerificationRequest(r.ProviderID, models.StudentQuery{
			RollNumber:  r.Student.RollNumber,
			Year:        r.Student.Year,
			ClassLevel:  r.Student.ClassLevel,
			ExamSession: r.Student.ExamSession,
		})
	} else {
		req = models.NewVerificationRequest(r.ProviderID, r.SubjectID)
	}
	if r.RequestID != "" {
		req.RequestID = r.RequestID
	}
	req.Priority = r.Priority
	return req
}

// BatchVerifyRequest is the HTTP body for POST /v1/verifications/batch.
type BatchVerifyRequest struct {
	Requests []VerifyRequest `json:"requests"`
}

func (r *BatchVerifyRequest) Validate() error {
	if r == nil || len(r.Requests) == 0 {
		return dErrors.New(dErrors.CodeValidation, "requests must not be empty")
	}
	if len(r.Requests) > MaxBatchSize {
		return dErrors.New(dErrors.CodeValidation, "at most "+strconv.Itoa(MaxBatchSize)+" requests per batch")
	}
	for i := range r.Requests {
		if err := r.Requests[i].Validate(); err != nil {
			return dErrors.Wrap(err, dErrors.CodeOf(err), "requests["+strconv.Itoa(i)+"]: "+err.Error())
		}
	}
	return nil
}

func (r *BatchVerifyRequest) Domain() []models.VerificationRequest {
	out := make([]models.VerificationRequest, len(r.Requests))
	for i := range r.Requests {
		out[i] = r.Requests[i].Domain()
	}
	return out
}

// TenantRequest is the HTTP body for PUT /v1/tenants/{tenantID}.
type TenantRequest struct {
	Name           string `json:"name"`
	SubscriptionID string `json:"subscription_id,omitempty"`
	ContactEmail   string `json:"contact_email,omitempty"`
	ContactName    string `json:"contact_name,omitempty"`
}

func (r *TenantRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if len(r.Name) > 200 {
		return dErrors.New(dErrors.CodeValidation, "name must be at most 200 characters")
	}
	return nil
}

func (r *TenantRequest) Domain(tenantID string) models.Tenant {
	return models.Tenant{
		ID:             tenantID,
		Name:           r.Name,
		SubscriptionID: strings.TrimSpace(r.SubscriptionID),
		ContactEmail:   strings.TrimSpace(r.ContactEmail),
		ContactName:    strings.TrimSpace(r.ContactName),
	}
}

// ParseSearchFilters reads search filters from the query string.
func ParseSearchFilters(q url.Values) (models.SearchFilters, error) {
	f := models.SearchFilters{
		State:      strings.TrimSpace(q.Get("state")),
		District:   strings.TrimSpace(q.Get("district")),
		Type:       strings.TrimSpace(q.Get("type")),
		Status:     strings.TrimSpace(q.Get("status")),
		Management: strings.TrimSpace(q.Get("management")),
	}
	for _, p := range []struct {
		name string
		dst  *int
	}{
		{"year_from", &f.YearFrom},
		{"year_to", &f.YearTo},
		{"page", &f.Page},
		{"limit", &f.Limit},
	} {
		n, err := intParam(q, p.name)
		if err != nil {
			return models.SearchFilters{}, err
		}
		*p.dst = n
	}
	if f.YearFrom > 0 && f.YearTo > 0 && f.YearFrom > f.YearTo {
		return models.SearchFilters{}, dErrors.New(dErrors.CodeValidation, "year_from must not be after year_to")
	}
	return f.Normalized(), nil
}

// ParseWindow reads optional RFC 3339 from and to parameters.
func ParseWindow(q url.Values) (from, to time.Time, err error) {
	if from, err = timeParam(q, "from"); err != nil {
		return
	}
	to, err = timeParam(q, "to")
	return
}

func timeParam(q url.Values, name string) (time.Time, error) {
	raw := q.Get(name)
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if d, dErr := time.Parse(time.DateOnly, raw); dErr == nil {
			return d, nil
		}
		return time.Time{}, dErrors.New(dErrors.CodeValidation, name+" must be an RFC 3339 timestamp or a date")
	}
	return t, nil
}

func intParam(q url.Values, name string) (int, error) {
	raw := q.Get(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, dErrors.New(dErrors.CodeValidation, name+" must be a non-negative integer")
	}
	return n, nil
}
