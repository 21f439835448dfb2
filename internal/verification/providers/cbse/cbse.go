// Package cbse adapts the CBSE school affiliation and results API.
package cbse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"
	"time"

	"verigate/internal/verification/credentials"
	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
	"verigate/internal/verification/resilience"
)

const (
	ID             = "cbse"
	DefaultBaseURL = "https://api.cbse.gov.in"

	authority = "CBSE"
	scope     = "cbse_school cbse_result"
)

type Config struct {
	BaseURL string
	APIKey  string
}

// Adapter implements providers.Provider and providers.StudentVerifier for CBSE.
type Adapter struct {
	cfg    Config
	client *providers.Client
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Adapter)

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func New(cfg Config, store *credentials.Store, exec *resilience.Executor, logger *slog.Logger, opts ...Option) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Adapter{
		cfg: cfg,
		client: providers.NewClient(providers.ClientConfig{
			ProviderID:  ID,
			BaseURL:     cfg.BaseURL,
			Credentials: store,
			Executor:    exec,
			Auth:        providers.BearerAuth,
			Logger:      logger,
		}),
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	store.Register(ID, a.exchange)
	return a
}

func (a *Adapter) ID() string { return ID }

func (a *Adapter) Capabilities() providers.Capabilities {
	return providers.Capabilities{Students: true, Search: true}
}

func (a *Adapter) exchange(ctx context.Context) (credentials.Credential, error) {
	resp, err := a.client.Exchange(ctx, "/auth/token", map[string]string{
		"grant_type": "client_credentials",
		"client_id":  a.cfg.APIKey,
		"scope":      scope,
	})
	if err != nil {
		return credentials.Credential{}, err
	}
	var tok tokenResponse
	if err := resp.DecodeJSON(&tok); err != nil {
		return credentials.Credential{}, fmt.Errorf("decode token response: %w", err)
	}
	if tok.AccessToken == "" {
		return credentials.Credential{}, errors.New("token response has no access_token")
	}
	now := a.now()
	cred := credentials.Credential{Token: tok.AccessToken, IssuedAt: now}
	if tok.ExpiresIn > 0 {
		cred.ExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return cred, nil
}

// VerifyInstitution checks the affiliation of a school by affiliation number.
func (a *Adapter) VerifyInstitution(ctx context.Context, affiliationNumber string) (*models.CanonicalInstitution, error) {
	if !ValidAffiliationNumber(affiliationNumber) {
		return nil, fmt.Errorf("%w: CBSE affiliation number must have 10 digits", models.ErrInvalidRequest)
	}
	resp, err := a.client.Get(ctx, "/schools/affiliation/"+url.PathEscape(affiliationNumber), nil)
	if err != nil {
		return nil, err
	}
	now := a.now()
	if resp.Empty() {
		return providers.PendingInstitution(ID, FormatAffiliationNumber(affiliationNumber), now), nil
	}
	var s school
	warnings, err := providers.DecodePayload(ID, resp.Body, &s)
	if err != nil {
		return nil, err
	}
	if s.AffiliationNumber == "" && s.SchoolID == "" {
		return nil, providers.MissingKey(ID, "affiliationNumber")
	}
	return normalizeSchool(s, warnings, now), nil
}

func normalizeSchool(s school, warnings []string, now time.Time) *models.CanonicalInstitution {
	id := s.AffiliationNumber
	if id == "" {
		id = s.SchoolID
	}
	out := models.CanonicalInstitution{
		InstitutionID:     FormatAffiliationNumber(id),
		ProviderID:        ID,
		Name:              s.SchoolName,
		Address:           s.Address.Canonical(),
		EstablishmentYear: s.YearOfEstablishment,
		Approval: models.Approval{
			Authority:     authority,
			ApplicationID: s.UDISECode,
			Status:        s.AffiliationStatus,
		},
		Warnings: warnings,
	}

	switch status := providers.Normalize(s.AffiliationStatus); status {
	case "affiliated":
		out.VerificationStatus = models.StatusVerified
	case "temporary_affiliation":
		out.VerificationStatus = models.StatusVerified
		out.Warnings = append(out.Warnings, "School has temporary affiliation - verify renewal status")
		out.Recommendations = append(out.Recommendations, "Check for permanent affiliation upgrade")
	case "upgradation_pending":
		out.VerificationStatus = models.StatusVerified
		out.Warnings = append(out.Warnings, "Upgradation to higher level is pending")
		out.Recommendations = append(out.Recommendations, "Verify upgradation status with CBSE regional office")
	case "deaffiliated", "closed":
		out.VerificationStatus = models.StatusRejected
		out.Warnings = append(out.Warnings, "School is no longer affiliated with CBSE")
		out.Recommendations = append(out.Recommendations, "Contact CBSE regional office for current status")
	case "pending":
		out.VerificationStatus = models.StatusPending
		out.Warnings = append(out.Warnings, "CBSE affiliation decision is pending")
	case "":
		providers.MarkIncomplete(&out)
	default:
		out.VerificationStatus = models.StatusUnverified
		out.Warnings = append(out.Warnings,
			"Unable to determine affiliation status",
			providers.UnknownStatusWarning("affiliationStatus", s.AffiliationStatus))
		out.Recommendations = append(out.Recommendations, "Contact CBSE directly for verification")
	}

	out.Programs = s.AffiliationLevel.Programs(out.VerificationStatus == models.StatusVerified, s.Streams)
	return models.NewCanonicalInstitution(out, now)
}

// GetDetails accepts a UDISE code or an affiliation number.
func (a *Adapter) GetDetails(ctx context.Context, code string) (*models.CanonicalInstitution, error) {
	path := "/schools/udise/" + url.PathEscape(code)
	if ValidAffiliationNumber(code) {
		path = "/schools/affiliation/" + url.PathEscape(code)
	}
	resp, err := a.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return nil, providers.NewProviderError(ID, providers.CategoryNotFound, "empty school profile", nil)
	}
	var s school
	warnings, err := providers.DecodePayload(ID, resp.Body, &s)
	if err != nil {
		return nil, err
	}
	if s.AffiliationNumber == "" && s.SchoolID == "" {
		return nil, providers.MissingKey(ID, "affiliationNumber")
	}
	return normalizeSchool(s, warnings, a.now()), nil
}

// Search lists CBSE schools. Status filters on affiliation status.
func (a *Adapter) Search(ctx context.Context, filters models.SearchFilters) (*models.Page[models.CanonicalInstitution], error) {
	f := filters.Normalized()
	q := url.Values{}
	providers.SetQuery(q, "state", f.State)
	providers.SetQuery(q, "district", f.District)
	providers.SetQuery(q, "status", f.Status)
	providers.SetQuery(q, "management", f.Management)
	q.Set("board", ID)
	providers.PageQuery(q, f)

	resp, err := a.client.Get(ctx, "/schools/search", q)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return models.NewPage[models.CanonicalInstitution](nil, 0, f.Page, f.Limit), nil
	}
	var sr searchResponse
	if _, err := providers.DecodePayload(ID, resp.Body, &sr); err != nil {
		return nil, err
	}
	now := a.now()
	items := make([]models.CanonicalInstitution, 0, len(sr.Schools))
	for _, s := range sr.Schools {
		if s.AffiliationNumber == "" && s.SchoolID == "" {
			a.logger.WarnContext(ctx, "skipping search result without id", "provider_id", ID)
			continue
		}
		items = append(items, *normalizeSchool(s, nil, now))
	}
	return models.NewPage(items, sr.Total, f.Page, f.Limit), nil
}

// VerifyStudent checks a class 10 or class 12 result.
func (a *Adapter) VerifyStudent(ctx context.Context, q models.StudentQuery) (*models.CanonicalStudentRecord, error) {
	if !ValidRollNumber(q.RollNumber) {
		return nil, fmt.Errorf("%w: CBSE roll number must have 7 digits", models.ErrInvalidRequest)
	}
	var segment string
	switch q.ClassLevel {
	case 10:
		segment = "class10"
	case 12:
		segment = "class12"
	default:
		return nil, fmt.Errorf("%w: class_level must be 10 or 12", models.ErrInvalidRequest)
	}

	path := fmt.Sprintf("/results/%s/%s/%d", segment, url.PathEscape(q.RollNumber), q.Year)
	resp, err := a.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	now := a.now()
	if resp.Empty() {
		return models.PendingStudentRecord(ID, q, providers.WarnEmptyResponse, now), nil
	}
	var r studentResult
	warnings, err := providers.DecodePayload(ID, resp.Body, &r)
	if err != nil {
		return nil, err
	}
	if r.RollNumber == "" {
		return nil, providers.MissingKey(ID, "rollNumber")
	}
	return normalizeResult(r, q, warnings, now), nil
}

func normalizeResult(r studentResult, q models.StudentQuery, warnings []string, now time.Time) *models.CanonicalStudentRecord {
	status := providers.Normalize(r.OverallResult.ResultStatus)
	out := models.CanonicalStudentRecord{
		StudentID:     "cbse_" + r.RollNumber + "_" + strconv.Itoa(q.Year),
		InstitutionID: r.SchoolNumber,
		ProviderID:    ID,
		RollNumber:    r.RollNumber,
		Year:          q.Year,
		ClassLevel:    q.ClassLevel,
		Result: models.ExamResult{
			Percentage: r.OverallResult.Percentage,
			Grade:      r.OverallResult.Grade,
		},
		CertificateNumber: r.CertificateNo,
		IsAuthentic:       status == "pass" || status == "compartment",
		Warnings:          warnings,
	}
	switch status {
	case "pass":
	case "compartment":
		out.Warnings = append(out.Warnings, "candidate passed with compartment")
	case "fail":
		out.Warnings = append(out.Warnings, "candidate did not pass")
	default:
		out.Warnings = append(out.Warnings, providers.UnknownStatusWarning("resultStatus", strings.TrimSpace(r.OverallResult.ResultStatus)))
	}
	for _, s := range r.Subjects {
		out.Subjects = append(out.Subjects, models.SubjectMark{Name: s.SubjectName, Marks: s.TotalMarks, Grade: s.Grade})
	}
	return models.NewCanonicalStudentRecord(out, now)
}

func (a *Adapter) Health(ctx context.Context) error {
	return a.client.Ping(ctx, "/schools/search", url.Values{"limit": {"1"}})
}
