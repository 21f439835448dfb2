// Package icse adapts the CISCE (ICSE/ISC) school and results API.
package icse

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"slices"
	"strconv"
	"time"

	"verigate/internal/verification/credentials"
	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
	"verigate/internal/verification/resilience"
)

const (
	ID             = "icse"
	DefaultBaseURL = "https://api.icse.org.in"

	authority      = "CISCE"
	clientID       = "verification-portal"
	ministry       = "Ministry of Education"
	evaluationSpan = 5 * 365 * 24 * time.Hour
)

type Config struct {
	BaseURL string
	APIKey  string
}

// Adapter implements providers.Provider and providers.StudentVerifier for ICSE.
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
			Auth:        providers.SessionTokenAuth,
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
	resp, err := a.client.Exchange(ctx, "/auth/session", map[string]string{
		"apiKey":   a.cfg.APIKey,
		"clientId": clientID,
	})
	if err != nil {
		return credentials.Credential{}, err
	}
	data, err := providers.UnwrapCodeEnvelope(ID, resp)
	if err != nil {
		return credentials.Credential{}, err
	}
	if providers.EmptyPayload(data) {
		return credentials.Credential{}, errors.New("session response has no data")
	}
	var s session
	if _, err := providers.DecodePayload(ID, data, &s); err != nil {
		return credentials.Credential{}, fmt.Errorf("decode session: %w", err)
	}
	if s.SessionToken == "" {
		return credentials.Credential{}, errors.New("session response has no sessionToken")
	}
	now := a.now()
	cred := credentials.Credential{Token: s.SessionToken, IssuedAt: now}
	if s.ExpiresIn > 0 {
		cred.ExpiresAt = now.Add(time.Duration(s.ExpiresIn) * time.Second)
	}
	return cred, nil
}

// VerifyInstitution checks a school's affiliation by council number.
func (a *Adapter) VerifyInstitution(ctx context.Context, councilNumber string) (*models.CanonicalInstitution, error) {
	councilNumber = FormatCouncilNumber(councilNumber)
	if !ValidCouncilNumber(councilNumber) {
		return nil, fmt.Errorf("%w: ICSE council number must have 6 digits", models.ErrInvalidRequest)
	}
	return a.fetchSchool(ctx, "/schools/affiliation/"+url.PathEscape(councilNumber), councilNumber, true)
}

// GetDetails fetches the school profile by council number.
func (a *Adapter) GetDetails(ctx context.Context, councilNumber string) (*models.CanonicalInstitution, error) {
	councilNumber = FormatCouncilNumber(councilNumber)
	return a.fetchSchool(ctx, "/schools/"+url.PathEscape(councilNumber), councilNumber, false)
}

func (a *Adapter) fetchSchool(ctx context.Context, path, councilNumber string, verify bool) (*models.CanonicalInstitution, error) {
	resp, err := a.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	data, err := providers.UnwrapCodeEnvelope(ID, resp)
	if err != nil {
		return nil, err
	}
	now := a.now()
	if providers.EmptyPayload(data) {
		if verify {
			return providers.PendingInstitution(ID, councilNumber, now), nil
		}
		return nil, providers.NewProviderError(ID, providers.CategoryNotFound, "empty school profile", nil)
	}
	var s school
	warnings, err := providers.DecodePayload(ID, data, &s)
	if err != nil {
		return nil, err
	}
	if s.CouncilNumber == "" {
		return nil, providers.MissingKey(ID, "councilNumber")
	}
	return normalizeSchool(s, warnings, now), nil
}

func normalizeSchool(s school, warnings []string, now time.Time) *models.CanonicalInstitution {
	out := models.CanonicalInstitution{
		InstitutionID:     s.CouncilNumber,
		ProviderID:        ID,
		Name:              s.SchoolName,
		Address:           s.Address.Canonical(),
		EstablishmentYear: s.EstablishedYear,
		Approval: models.Approval{
			Authority:     authority,
			ApplicationID: s.SchoolIndexNumber,
			Status:        s.AffiliationType,
			ApprovedAt:    providers.ParseDate(s.LastEvaluationDate),
		},
		Warnings: warnings,
	}

	switch providers.Normalize(s.AffiliationStatus) {
	case "deaffiliated", "closed":
		out.VerificationStatus = models.StatusRejected
		out.Warnings = append(out.Warnings, "School is no longer affiliated with CISCE")
		out.Recommendations = append(out.Recommendations, "Contact CISCE for current status")
		return finish(out, s, now)
	}

	switch providers.Normalize(s.AffiliationType) {
	case "constituent":
		out.VerificationStatus = models.StatusVerified
	case "affiliated":
		var checks []string
		if last := providers.ParseDate(s.LastEvaluationDate); last != nil && now.Sub(*last) > evaluationSpan {
			checks = append(checks, "School evaluation is overdue")
			out.Recommendations = append(out.Recommendations, "Verify current evaluation status with ICSE")
		}
		if !slices.Contains(s.RecognisedBy, ministry) {
			checks = append(checks, "Check Ministry of Education recognition status")
		}
		if len(checks) == 0 {
			out.VerificationStatus = models.StatusVerified
		} else {
			out.VerificationStatus = models.StatusPending
			out.Warnings = append(out.Warnings, checks...)
		}
	case "":
		providers.MarkIncomplete(&out)
	default:
		out.VerificationStatus = models.StatusUnverified
		out.Warnings = append(out.Warnings, providers.UnknownStatusWarning("affiliationType", s.AffiliationType))
	}
	return finish(out, s, now)
}

func finish(out models.CanonicalInstitution, s school, now time.Time) *models.CanonicalInstitution {
	providers.ApplyExpiry(&out, "nextEvaluationDue", s.NextEvaluationDue)
	level := providers.AffiliationLevel{
		Primary:         true,
		UpperPrimary:    true,
		Secondary:       true,
		SeniorSecondary: providers.Normalize(s.BoardType) == "isc",
	}
	var streams []string
	if level.SeniorSecondary {
		streams = []string{"science", "commerce", "arts"}
	}
	out.Programs = level.Programs(out.VerificationStatus == models.StatusVerified, streams)
	return models.NewCanonicalInstitution(out, now)
}

// Search lists ICSE schools.
func (a *Adapter) Search(ctx context.Context, filters models.SearchFilters) (*models.Page[models.CanonicalInstitution], error) {
	f := filters.Normalized()
	q := url.Values{}
	providers.SetQuery(q, "state", f.State)
	providers.SetQuery(q, "district", f.District)
	providers.SetQuery(q, "status", f.Status)
	q.Set("board", ID)
	providers.PageQuery(q, f)

	resp, err := a.client.Get(ctx, "/schools/search", q)
	if err != nil {
		return nil, err
	}
	data, err := providers.UnwrapCodeEnvelope(ID, resp)
	if err != nil {
		return nil, err
	}
	if providers.EmptyPayload(data) {
		return models.NewPage[models.CanonicalInstitution](nil, 0, f.Page, f.Limit), nil
	}
	var sr searchResponse
	if _, err := providers.DecodePayload(ID, data, &sr); err != nil {
		return nil, err
	}
	now := a.now()
	items := make([]models.CanonicalInstitution, 0, len(sr.Schools))
	for _, s := range sr.Schools {
		if s.CouncilNumber == "" {
			a.logger.WarnContext(ctx, "skipping search result without id", "provider_id", ID)
			continue
		}
		items = append(items, *normalizeSchool(s, nil, now))
	}
	return models.NewPage(items, sr.Total, f.Page, f.Limit), nil
}

// VerifyStudent checks an ICSE (class 10) or ISC (class 12) result. The exam
// session defaults to march; october covers private candidates.
func (a *Adapter) VerifyStudent(ctx context.Context, q models.StudentQuery) (*models.CanonicalStudentRecord, error) {
	if !ValidIndexNumber(q.RollNumber) {
		return nil, fmt.Errorf("%w: ICSE index number must have 6 or 7 digits", models.ErrInvalidRequest)
	}
	session := providers.Normalize(q.ExamSession)
	switch session {
	case "":
		session = "march"
	case "march", "october":
	default:
		return nil, fmt.Errorf("%w: exam_session must be march or october", models.ErrInvalidRequest)
	}

	path := fmt.Sprintf("/results/%s/%d/%s", url.PathEscape(q.RollNumber), q.Year, session)
	resp, err := a.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	data, err := providers.UnwrapCodeEnvelope(ID, resp)
	if err != nil {
		return nil, err
	}
	now := a.now()
	if providers.EmptyPayload(data) {
		return models.PendingStudentRecord(ID, q, providers.WarnEmptyResponse, now), nil
	}
	var r studentResult
	warnings, err := providers.DecodePayload(ID, data, &r)
	if err != nil {
		return nil, err
	}
	if r.IndexNumber == "" {
		return nil, providers.MissingKey(ID, "indexNumber")
	}
	return normalizeResult(r, q, warnings, now), nil
}

func normalizeResult(r studentResult, q models.StudentQuery, warnings []string, now time.Time) *models.CanonicalStudentRecord {
	status := providers.Normalize(r.OverallResult.ResultStatus)
	out := models.CanonicalStudentRecord{
		StudentID:     "icse_" + r.IndexNumber + "_" + strconv.Itoa(q.Year),
		InstitutionID: r.SchoolCode,
		ProviderID:    ID,
		RollNumber:    r.IndexNumber,
		Year:          q.Year,
		ClassLevel:    q.ClassLevel,
		Result: models.ExamResult{
			Percentage: r.OverallResult.Percentage,
			Grade:      r.OverallResult.Grade,
		},
		CertificateNumber: r.CertificateNumber,
		IsAuthentic:       status == "pass",
		Warnings:          warnings,
	}
	switch status {
	case "pass":
	case "fail":
		out.Warnings = append(out.Warnings, "candidate did not pass")
	default:
		out.Warnings = append(out.Warnings, providers.UnknownStatusWarning("resultStatus", r.OverallResult.ResultStatus))
	}
	for _, group := range r.SubjectOptions {
		for _, s := range group.Subjects {
			out.Subjects = append(out.Subjects, models.SubjectMark{Name: s.SubjectName, Marks: s.Marks, Grade: s.Grade})
		}
	}
	return models.NewCanonicalStudentRecord(out, now)
}

func (a *Adapter) Health(ctx context.Context) error {
	return a.client.Ping(ctx, "/schools/search", url.Values{"limit": {"1"}})
}
