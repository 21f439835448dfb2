// Package aicte adapts the AICTE technical-institution approval API.
package aicte

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
	ID             = "aicte"
	DefaultBaseURL = "https://api.aicte-india.org"

	authority = "AICTE"
	scope     = "aicte_read aicte_write"
)

// Config holds AICTE client credentials.
type Config struct {
	BaseURL   string
	APIKey    string
	SecretKey string
}

// Adapter implements providers.Provider for AICTE.
type Adapter struct {
	cfg    Config
	client *providers.Client
	logger *slog.Logger
	now    func() time.Time
}

type Option func(*Adapter)

// WithClock overrides the time source used for normalization.
func WithClock(now func() time.Time) Option {
	return func(a *Adapter) { a.now = now }
}

// New builds the adapter and registers its token exchange with store.
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
	return providers.Capabilities{Search: true, Regulated: true}
}

func (a *Adapter) exchange(ctx context.Context) (credentials.Credential, error) {
	resp, err := a.client.Exchange(ctx, "/auth/token", map[string]string{
		"grant_type":    "client_credentials",
		"client_id":     a.cfg.APIKey,
		"client_secret": a.cfg.SecretKey,
		"scope":         scope,
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

// VerifyInstitution fetches the approval status of institutionID.
func (a *Adapter) VerifyInstitution(ctx context.Context, institutionID string) (*models.CanonicalInstitution, error) {
	resp, err := a.client.Get(ctx, "/institutions/"+url.PathEscape(institutionID)+"/approval-status", nil)
	if err != nil {
		return nil, err
	}
	now := a.now()
	if resp.Empty() {
		return providers.PendingInstitution(ID, institutionID, now), nil
	}
	var st approvalStatus
	warnings, err := providers.DecodePayload(ID, resp.Body, &st)
	if err != nil {
		return nil, err
	}
	return normalizeApproval(st, warnings, now)
}

func normalizeApproval(st approvalStatus, warnings []string, now time.Time) (*models.CanonicalInstitution, error) {
	if st.InstitutionID == "" {
		return nil, providers.MissingKey(ID, "institutionId")
	}

	out := models.CanonicalInstitution{
		InstitutionID: st.InstitutionID,
		ProviderID:    ID,
		Regulated:     true,
		Approval: models.Approval{
			Authority:     authority,
			ApplicationID: st.ApplicationID,
			Status:        st.ApprovalStatus,
			ApprovedAt:    providers.ParseDate(st.ApprovalDate),
		},
		Warnings: warnings,
	}

	status := providers.Normalize(st.ApprovalStatus)
	switch status {
	case "approved":
		out.VerificationStatus = models.StatusVerified
	case "conditional_approval":
		out.VerificationStatus = models.StatusVerified
		if len(st.SpecialConditions) == 0 {
			out.Warnings = append(out.Warnings, "approval is conditional")
		}
		for _, c := range st.SpecialConditions {
			out.Warnings = append(out.Warnings, "conditional approval: "+c)
			out.Recommendations = append(out.Recommendations, "Confirm compliance with condition: "+c)
		}
	case "pending":
		out.VerificationStatus = models.StatusPending
		out.Warnings = append(out.Warnings, "AICTE approval decision is pending")
	case "expired":
		out.VerificationStatus = models.StatusExpired
		out.Warnings = append(out.Warnings, "AICTE approval has expired")
		out.Recommendations = append(out.Recommendations, "Request renewed approval from the authority")
	case "not_approved":
		out.VerificationStatus = models.StatusRejected
	case "withdrawn":
		out.VerificationStatus = models.StatusRejected
		out.Warnings = append(out.Warnings, "AICTE approval was withdrawn")
	case "":
		providers.MarkIncomplete(&out)
	default:
		out.VerificationStatus = models.StatusUnverified
		out.Warnings = append(out.Warnings, providers.UnknownStatusWarning("approvalStatus", st.ApprovalStatus))
	}

	providers.ApplyExpiry(&out, "expiryDate", st.ExpiryDate)

	approved := out.VerificationStatus == models.StatusVerified
	for _, p := range st.ApprovedPrograms {
		out.Programs = append(out.Programs, models.Program{
			Name:     p.ProgramName,
			Level:    p.Level,
			Intake:   p.Intake,
			Approved: approved,
		})
	}
	return models.NewCanonicalInstitution(out, now), nil
}

// GetDetails fetches the institution profile. Profiles carry no approval
// verdict and are reported as unverified.
func (a *Adapter) GetDetails(ctx context.Context, institutionID string) (*models.CanonicalInstitution, error) {
	resp, err := a.client.Get(ctx, "/institutions/"+url.PathEscape(institutionID), nil)
	if err != nil {
		return nil, err
	}
	if resp.Empty() {
		return nil, providers.NewProviderError(ID, providers.CategoryNotFound, "empty institution profile", nil)
	}
	var inst institution
	warnings, err := providers.DecodePayload(ID, resp.Body, &inst)
	if err != nil {
		return nil, err
	}
	if inst.InstitutionID == "" {
		return nil, providers.MissingKey(ID, "institutionId")
	}
	return normalizeProfile(inst, warnings, a.now()), nil
}

func normalizeProfile(inst institution, warnings []string, now time.Time) *models.CanonicalInstitution {
	out := models.CanonicalInstitution{
		InstitutionID: inst.InstitutionID,
		ProviderID:    ID,
		Name:          inst.Name,
		Address: models.Address{
			Street:   inst.Address,
			District: inst.District,
			State:    inst.State,
			Pincode:  inst.Pincode,
		},
		EstablishmentYear:  inst.EstablishmentYear,
		Regulated:          true,
		VerificationStatus: models.StatusUnverified,
		Approval:           models.Approval{Authority: authority},
		Warnings:           warnings,
	}
	for _, c := range inst.CoursesOffered {
		out.Programs = append(out.Programs, models.Program{Name: c})
	}
	return models.NewCanonicalInstitution(out, now)
}

// Search lists institutions matching filters.
func (a *Adapter) Search(ctx context.Context, filters models.SearchFilters) (*models.Page[models.CanonicalInstitution], error) {
	f := filters.Normalized()
	q := url.Values{}
	providers.SetQuery(q, "state", f.State)
	providers.SetQuery(q, "district", f.District)
	providers.SetQuery(q, "type", f.Type)
	providers.SetQuery(q, "status", f.Status)
	providers.SetQueryInt(q, "year_from", f.YearFrom)
	providers.SetQueryInt(q, "year_to", f.YearTo)
	providers.PageQuery(q, f)

	resp, err := a.client.Get(ctx, "/institutions/search", q)
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
	items := make([]models.CanonicalInstitution, 0, len(sr.Institutions))
	for _, inst := range sr.Institutions {
		if inst.InstitutionID == "" {
			a.logger.WarnContext(ctx, "skipping search result without id", "provider_id", ID)
			continue
		}
		items = append(items, *normalizeProfile(inst, nil, now))
	}
	page := models.NewPage(items, sr.Total, f.Page, f.Limit)
	if sr.TotalPages > 0 {
		page.TotalPages = sr.TotalPages
	}
	return page, nil
}

// Health runs a one-row search.
func (a *Adapter) Health(ctx context.Context) error {
	return a.client.Ping(ctx, "/institutions/search", url.Values{"limit": {"1"}})
}
