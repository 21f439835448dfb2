// Package ncte adapts the NCTE teacher-education recognition API.
package ncte

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"verigate/internal/verification/credentials"
	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
	"verigate/internal/verification/resilience"
)

const (
	ID             = "ncte"
	DefaultBaseURL = "https://api.ncte-india.org"

	// RefreshWindow is wider than the default; NCTE sessions are renewed
	// 10 minutes ahead of expiry.
	RefreshWindow = 10 * time.Minute

	authority = "NCTE"
	clientID  = "verification-portal"
)

type Config struct {
	BaseURL   string
	APIKey    string
	SecretKey string
}

// Adapter implements providers.Provider for NCTE.
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

// New builds the adapter and registers its session exchange with store.
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
	store.Register(ID, a.exchange, credentials.WithRefreshWindow(RefreshWindow))
	return a
}

func (a *Adapter) ID() string { return ID }

func (a *Adapter) Capabilities() providers.Capabilities {
	return providers.Capabilities{Search: true, Regulated: true}
}

func (a *Adapter) exchange(ctx context.Context) (credentials.Credential, error) {
	resp, err := a.client.Exchange(ctx, "/auth/session", map[string]string{
		"apiKey":    a.cfg.APIKey,
		"secretKey": a.cfg.SecretKey,
		"clientId":  clientID,
	})
	if err != nil {
		return credentials.Credential{}, err
	}
	data, err := providers.UnwrapCodeEnvelope(ID, resp)
	if err != nil {
		return credentials.Credential{}, err
	}
	var s session
	if providers.EmptyPayload(data) {
		return credentials.Credential{}, errors.New("session response has no data")
	}
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

// VerifyInstitution checks the recognition of institutionID.
func (a *Adapter) VerifyInstitution(ctx context.Context, institutionID string) (*models.CanonicalInstitution, error) {
	resp, err := a.client.Get(ctx, "/institution/verify/"+url.PathEscape(institutionID), nil)
	if err != nil {
		return nil, err
	}
	data, err := providers.UnwrapCodeEnvelope(ID, resp)
	if err != nil {
		return nil, err
	}
	now := a.now()
	if providers.EmptyPayload(data) {
		return providers.PendingInstitution(ID, institutionID, now), nil
	}
	var vr verificationResult
	warnings, err := providers.DecodePayload(ID, data, &vr)
	if err != nil {
		return nil, err
	}
	return normalizeVerification(vr, warnings, now)
}

func normalizeVerification(vr verificationResult, warnings []string, now time.Time) (*models.CanonicalInstitution, error) {
	if vr.InstitutionID == "" {
		return nil, providers.MissingKey(ID, "institutionId")
	}
	out := baseInstitution(vr.Details, now)
	out.InstitutionID = vr.InstitutionID
	out.Warnings = append(warnings, vr.Warnings...)
	out.Approval.ApprovedAt = providers.ParseDate(vr.VerificationDate)

	first := ""
	if len(vr.Details.Courses) > 0 {
		first = providers.Normalize(vr.Details.Courses[0].Status)
		out.Approval.Status = vr.Details.Courses[0].Status
	}

	switch {
	case vr.IsVerified:
		out.VerificationStatus = models.StatusVerified
		if out.Approval.Status == "" {
			out.Approval.Status = "verified"
		}
	case first == "pending":
		out.VerificationStatus = models.StatusPending
		out.Warnings = append(out.Warnings, "NCTE recognition is pending")
	case first == "rejected":
		out.VerificationStatus = models.StatusRejected
		out.Warnings = append(out.Warnings, "NCTE rejected the recognition application")
	case first == "expired":
		out.VerificationStatus = models.StatusExpired
		out.Warnings = append(out.Warnings, "NCTE recognition has expired")
		out.Recommendations = append(out.Recommendations, "Request renewed approval from the authority")
	case first == "":
		providers.MarkIncomplete(&out)
	case first == "approved" || first == "reduced_intake":
		out.VerificationStatus = models.StatusUnverified
		out.Warnings = append(out.Warnings, "courses are approved but NCTE did not verify the institution")
	default:
		out.VerificationStatus = models.StatusUnverified
		out.Warnings = append(out.Warnings, providers.UnknownStatusWarning("course status", first))
	}

	providers.ApplyExpiry(&out, "expiryDate", vr.ExpiryDate)

	for _, c := range vr.Details.Courses {
		if providers.Normalize(c.Status) == "reduced_intake" {
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("course %s approved with reduced intake of %d", c.CourseName, c.ApprovedIntake))
		}
	}
	return models.NewCanonicalInstitution(out, now), nil
}

// baseInstitution maps the profile part of a payload; status is left unverified.
func baseInstitution(d institution, now time.Time) models.CanonicalInstitution {
	out := models.CanonicalInstitution{
		InstitutionID: d.InstitutionID,
		ProviderID:    ID,
		Name:          d.InstitutionName,
		Address: models.Address{
			Street:   d.Address,
			District: d.District,
			State:    d.State,
			Pincode:  d.Pincode,
		},
		EstablishmentYear:  d.EstablishmentYear,
		Regulated:          true,
		VerificationStatus: models.StatusUnverified,
		Approval: models.Approval{
			Authority:     authority,
			ApplicationID: d.ApplicationNumber,
		},
	}
	for _, c := range d.Courses {
		status := providers.Normalize(c.Status)
		intake := c.ApprovedIntake
		if intake == 0 {
			intake = c.Intake
		}
		approved := status == "approved" || status == "reduced_intake"
		if exp := providers.ParseDate(c.ExpiryDate); exp != nil && !now.Before(*exp) {
			approved = false
		}
		out.Programs = append(out.Programs, models.Program{
			Name:     c.CourseName,
			Level:    c.CourseCode,
			Intake:   intake,
			Approved: approved,
		})
	}
	return out
}

// GetDetails fetches the institution profile.
func (a *Adapter) GetDetails(ctx context.Context, institutionID string) (*models.CanonicalInstitution, error) {
	resp, err := a.client.Get(ctx, "/institution/"+url.PathEscape(institutionID), nil)
	if err != nil {
		return nil, err
	}
	data, err := providers.UnwrapCodeEnvelope(ID, resp)
	if err != nil {
		return nil, err
	}
	if providers.EmptyPayload(data) {
		return nil, providers.NewProviderError(ID, providers.CategoryNotFound, "empty institution profile", nil)
	}
	var inst institution
	warnings, err := providers.DecodePayload(ID, data, &inst)
	if err != nil {
		return nil, err
	}
	if inst.InstitutionID == "" {
		return nil, providers.MissingKey(ID, "institutionId")
	}
	now := a.now()
	out := baseInstitution(inst, now)
	out.Warnings = warnings
	return models.NewCanonicalInstitution(out, now), nil
}

// Search lists institutions matching filters. Status filters on course status.
func (a *Adapter) Search(ctx context.Context, filters models.SearchFilters) (*models.Page[models.CanonicalInstitution], error) {
	f := filters.Normalized()
	q := url.Values{}
	providers.SetQuery(q, "state", f.State)
	providers.SetQuery(q, "district", f.District)
	providers.SetQuery(q, "type", f.Type)
	providers.SetQuery(q, "courseStatus", f.Status)
	providers.SetQueryInt(q, "yearFrom", f.YearFrom)
	providers.SetQueryInt(q, "yearTo", f.YearTo)
	providers.PageQuery(q, f)

	resp, err := a.client.Get(ctx, "/institution/search", q)
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
	var sr searchResult
	if _, err := providers.DecodePayload(ID, data, &sr); err != nil {
		return nil, err
	}

	now := a.now()
	items := make([]models.CanonicalInstitution, 0, len(sr.Data))
	for _, inst := range sr.Data {
		if inst.InstitutionID == "" {
			a.logger.WarnContext(ctx, "skipping search result without id", "provider_id", ID)
			continue
		}
		items = append(items, *models.NewCanonicalInstitution(baseInstitution(inst, now), now))
	}
	page := models.NewPage(items, sr.Total, f.Page, f.Limit)
	if sr.TotalPages > 0 {
		page.TotalPages = sr.TotalPages
	}
	return page, nil
}

func (a *Adapter) Health(ctx context.Context) error {
	return a.client.Ping(ctx, "/institution/search", url.Values{"limit": {"1"}})
}
