// Package stateboard adapts the state education board APIs. All boards share
// one wire contract; each board runs as its own provider instance.
package stateboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"verigate/internal/verification/credentials"
	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
	"verigate/internal/verification/resilience"
)

type Config struct {
	BaseURL string
	APIKey  string
}

// Adapter implements providers.Provider and providers.StudentVerifier for
// one state board.
type Adapter struct {
	board  Board
	cfg    Config
	client *providers.Client
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Adapter)

func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

func New(board Board, cfg Config, store *credentials.Store, exec *resilience.Executor, logger *slog.Logger, opts ...Option) *Adapter {
	if cfg.BaseURL == "" {
		cfg.BaseURL = board.DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &Adapter{
		board: board,
		cfg:   cfg,
		client: providers.NewClient(providers.ClientConfig{
			ProviderID:  board.Code,
			BaseURL:     cfg.BaseURL,
			Credentials: store,
			Executor:    exec,
			Auth:        providers.BearerAuth,
			Logger:      logger,
		}),
		logger: logger.With("board", board.Code),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	store.Register(board.Code, a.exchange)
	return a
}

func (a *Adapter) ID() string { return a.board.Code }

func (a *Adapter) Board() Board { return a.board }

func (a *Adapter) Capabilities() providers.Capabilities {
	return providers.Capabilities{Students: true, Search: true}
}

func (a *Adapter) exchange(ctx context.Context) (credentials.Credential, error) {
	resp, err := a.client.Exchange(ctx, "/auth/token", map[string]string{
		"grant_type": "client_credentials",
		"client_id":  a.cfg.APIKey,
	})
	if err != nil {
		return credentials.Credential{}, err
	}
	data, err := providers.UnwrapStatusEnvelope(a.board.Code, resp)
	if err != nil {
		return credentials.Credential{}, err
	}
	if providers.EmptyPayload(data) {
		return credentials.Credential{}, errors.New("token response has no data")
	}
	var tok tokenResponse
	if _, err := providers.DecodePayload(a.board.Code, data, &tok); err != nil {
		return credentials.Credential{}, fmt.Errorf("decode token response: %w", err)
	}
	if tok.Token == "" {
		return credentials.Credential{}, errors.New("token response has no token")
	}
	now := a.now()
	cred := credentials.Credential{Token: tok.Token, IssuedAt: now}
	if tok.ExpiresIn > 0 {
		cred.ExpiresAt = now.Add(time.Duration(tok.ExpiresIn) * time.Second)
	}
	return cred, nil
}

// VerifyInstitution checks a school's recognition by board school code.
func (a *Adapter) VerifyInstitution(ctx context.Context, code string) (*models.CanonicalInstitution, error) {
	if !a.board.ValidSchoolCode(code) {
		return nil, fmt.Errorf("%w: malformed %s school code %q", models.ErrInvalidRequest, a.board.Name, code)
	}
	s, warnings, empty, err := a.fetchSchool(ctx, code)
	if err != nil {
		return nil, err
	}
	if empty {
		return providers.PendingInstitution(a.board.Code, code, a.now()), nil
	}
	return a.normalizeSchool(s, warnings, a.now()), nil
}

// GetDetails returns the school record. Boards expose a single school
// endpoint, so details carry the same recognition verdict.
func (a *Adapter) GetDetails(ctx context.Context, code string) (*models.CanonicalInstitution, error) {
	s, warnings, empty, err := a.fetchSchool(ctx, code)
	if err != nil {
		return nil, err
	}
	if empty {
		return nil, providers.NewProviderError(a.board.Code, providers.CategoryNotFound, "empty school profile", nil)
	}
	return a.normalizeSchool(s, warnings, a.now()), nil
}

func (a *Adapter) fetchSchool(ctx context.Context, code string) (school, []string, bool, error) {
	resp, err := a.client.Get(ctx, "/schools/"+url.PathEscape(code), nil)
	if err != nil {
		return school{}, nil, false, err
	}
	data, err := providers.UnwrapStatusEnvelope(a.board.Code, resp)
	if err != nil {
		return school{}, nil, false, err
	}
	if providers.EmptyPayload(data) {
		return school{}, nil, true, nil
	}
	var s school
	warnings, err := providers.DecodePayload(a.board.Code, data, &s)
	if err != nil {
		return school{}, nil, false, err
	}
	if s.BoardRegistrationNumber == "" && s.SchoolID == "" {
		return school{}, nil, false, providers.MissingKey(a.board.Code, "boardRegistrationNumber")
	}
	return s, warnings, false, nil
}

func (a *Adapter) normalizeSchool(s school, warnings []string, now time.Time) *models.CanonicalInstitution {
	id := s.BoardRegistrationNumber
	if id == "" {
		id = s.SchoolID
	}
	addr := s.Address.Canonical()
	if addr.State == "" {
		addr.State = a.board.State
	}
	out := models.CanonicalInstitution{
		InstitutionID:     id,
		ProviderID:        a.board.Code,
		Name:              s.SchoolName,
		Address:           addr,
		EstablishmentYear: s.YearOfEstablishment,
		Approval: models.Approval{
			Authority:     a.board.Name,
			ApplicationID: s.UDISECode,
			Status:        s.RecognitionStatus,
		},
		Warnings: warnings,
	}

	switch providers.Normalize(s.RecognitionStatus) {
	case "recognized":
		out.VerificationStatus = models.StatusVerified
	case "unrecognized":
		out.VerificationStatus = models.StatusRejected
		out.Warnings = append(out.Warnings, "School is not recognized by the state board")
		out.Recommendations = append(out.Recommendations,
			"Verify with District Education Office",
			"Check if recognition is pending")
	case "pending":
		out.VerificationStatus = models.StatusPending
		out.Warnings = append(out.Warnings, "School recognition is pending approval")
		out.Recommendations = append(out.Recommendations, "Check back after recognition is approved")
	case "":
		providers.MarkIncomplete(&out)
	default:
		out.VerificationStatus = models.StatusUnverified
		out.Warnings = append(out.Warnings,
			"Unable to determine recognition status",
			providers.UnknownStatusWarning("recognitionStatus", s.RecognitionStatus))
		out.Recommendations = append(out.Recommendations, "Contact the state board directly")
	}

	out.Programs = levelFor(s.SchoolCategory).Programs(out.VerificationStatus == models.StatusVerified, s.Streams)
	return models.NewCanonicalInstitution(out, now)
}

func levelFor(category string) providers.AffiliationLevel {
	c := providers.Normalize(category)
	return providers.AffiliationLevel{
		Primary:         c == "primary" || c == "upper_primary",
		UpperPrimary:    c == "upper_primary" || c == "secondary",
		Secondary:       c == "secondary" || c == "higher_secondary",
		SeniorSecondary: c == "higher_secondary",
	}
}

// Search lists the board's schools.
func (a *Adapter) Search(ctx context.Context, filters models.SearchFilters) (*models.Page[models.CanonicalInstitution], error) {
	f := filters.Normalized()
	q := url.Values{}
	providers.SetQuery(q, "state", f.State)
	providers.SetQuery(q, "district", f.District)
	providers.SetQuery(q, "status", f.Status)
	providers.SetQuery(q, "management", f.Management)
	providers.PageQuery(q, f)

	resp, err := a.client.Get(ctx, "/schools/search", q)
	if err != nil {
		return nil, err
	}
	data, err := providers.UnwrapStatusEnvelope(a.board.Code, resp)
	if err != nil {
		return nil, err
	}
	if providers.EmptyPayload(data) {
		return models.NewPage[models.CanonicalInstitution](nil, 0, f.Page, f.Limit), nil
	}
	var sr searchResponse
	if _, err := providers.DecodePayload(a.board.Code, data, &sr); err != nil {
		return nil, err
	}
	now := a.now()
	items := make([]models.CanonicalInstitution, 0, len(sr.Schools))
	for _, s := range sr.Schools {
		if s.BoardRegistrationNumber == "" && s.SchoolID == "" {
			a.logger.WarnContext(ctx, "skipping search result without id", "provider_id", a.board.Code)
			continue
		}
		items = append(items, *a.normalizeSchool(s, nil, now))
	}
	return models.NewPage(items, sr.Total, f.Page, f.Limit), nil
}

// VerifyStudent checks a 10th or 12th result.
func (a *Adapter) VerifyStudent(ctx context.Context, q models.StudentQuery) (*models.CanonicalStudentRecord, error) {
	if !ValidRollNumber(q.RollNumber) {
		return nil, fmt.Errorf("%w: roll number must have 4 to 7 digits", models.ErrInvalidRequest)
	}
	var segment string
	switch q.ClassLevel {
	case 10:
		segment = "10th"
	case 12:
		segment = "12th"
	default:
		return nil, fmt.Errorf("%w: class_level must be 10 or 12", models.ErrInvalidRequest)
	}

	path := fmt.Sprintf("/results/%s/%s/%d", segment, url.PathEscape(q.RollNumber), q.Year)
	resp, err := a.client.Get(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	data, err := providers.UnwrapStatusEnvelope(a.board.Code, resp)
	if err != nil {
		return nil, err
	}
	now := a.now()
	if providers.EmptyPayload(data) {
		return models.PendingStudentRecord(a.board.Code, q, providers.WarnEmptyResponse, now), nil
	}
	var r result
	warnings, err := providers.DecodePayload(a.board.Code, data, &r)
	if err != nil {
		return nil, err
	}
	if r.RollNumber == "" {
		return nil, providers.MissingKey(a.board.Code, "rollNumber")
	}
	return a.normalizeResult(r, q, warnings, now), nil
}

func (a *Adapter) normalizeResult(r result, q models.StudentQuery, warnings []string, now time.Time) *models.CanonicalStudentRecord {
	status := providers.Normalize(r.Result.ResultStatus)
	out := models.CanonicalStudentRecord{
		StudentID:     a.board.Code + "_" + r.RollNumber + "_" + strconv.Itoa(q.Year),
		InstitutionID: r.SchoolCode,
		ProviderID:    a.board.Code,
		RollNumber:    r.RollNumber,
		Year:          q.Year,
		ClassLevel:    q.ClassLevel,
		Result: models.ExamResult{
			Percentage: r.Result.Percentage,
			Grade:      r.Result.Division,
		},
		CertificateNumber: r.PassCertificateNumber,
		IsAuthentic:       status == "pass",
		Warnings:          warnings,
	}
	switch status {
	case "pass":
	case "compartment":
		out.Warnings = append(out.Warnings, "candidate has compartment subjects")
	case "fail":
		out.Warnings = append(out.Warnings, "candidate did not pass")
	default:
		out.Warnings = append(out.Warnings, providers.UnknownStatusWarning("resultStatus", r.Result.ResultStatus))
	}
	for _, s := range r.Subjects {
		grade := s.Grade
		if grade == "" {
			grade = providers.GradeFromMarks(s.TotalMarks)
		}
		out.Subjects = append(out.Subjects, models.SubjectMark{Name: s.SubjectName, Marks: s.TotalMarks, Grade: grade})
	}
	return models.NewCanonicalStudentRecord(out, now)
}

func (a *Adapter) Health(ctx context.Context) error {
	return a.client.Ping(ctx, "/schools/search", url.Values{"limit": {"1"}})
}
