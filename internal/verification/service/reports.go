package service

import (
	"context"
	"time"

	"verigate/internal/verification/models"
	"verigate/internal/verification/orchestrator"
	"verigate/internal/verification/scoring"
	dErrors "verigate/pkg/domain-errors"
)

// DefaultSummaryWindow applies when a summary is requested without a start.
const DefaultSummaryWindow = 30 * 24 * time.Hour

// UnifiedEntity merges a provider's approval and profile views of subjectID.
func (s *Service) UnifiedEntity(ctx context.Context, providerID, subjectID string) (*models.CanonicalInstitution, error) {
	entity, err := s.orchestrator.GetUnifiedEntity(ctx, providerID, subjectID)
	if err != nil {
		return nil, translate(err, "failed to resolve entity")
	}
	if entity == nil {
		return nil, dErrors.New(dErrors.CodeNotFound, "entity not found")
	}
	return entity, nil
}

// Score resolves the unified entity and recommends a subscription tier for it.
func (s *Service) Score(ctx context.Context, providerID, subjectID string) (models.TierRecommendation, error) {
	entity, err := s.UnifiedEntity(ctx, providerID, subjectID)
	if err != nil {
		return models.TierRecommendation{}, err
	}
	return scoring.Score(*entity), nil
}

// Search queries one provider, or every search-capable provider when
// providerID is empty.
func (s *Service) Search(ctx context.Context, providerID string, filters models.SearchFilters) (*orchestrator.CombinedResults, error) {
	if providerID == "" {
		return s.orchestrator.SearchAll(ctx, filters), nil
	}
	page, err := s.orchestrator.Search(ctx, providerID, filters)
	if err != nil {
		return nil, translate(err, "search failed")
	}
	return &orchestrator.CombinedResults{
		Pages: []orchestrator.ProviderPage{{ProviderID: providerID, Page: page}},
		Total: page.Total,
	}, nil
}

func (s *Service) SystemStatus(ctx context.Context) models.SystemStatus {
	return s.orchestrator.SystemStatus(ctx)
}

// Summary counts tenantID's verifications completed in [from, to). A zero
// to means now; a zero from means DefaultSummaryWindow before to.
func (s *Service) Summary(ctx context.Context, tenantID string, from, to time.Time) (*models.VerificationSummary, error) {
	if _, err := s.tenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-DefaultSummaryWindow)
	}
	if !from.Before(to) {
		return nil, dErrors.New(dErrors.CodeValidation, "from must be before to")
	}
	sum, err := s.store.SummarizeVerifications(ctx, tenantID, from, to)
	if err != nil {
		return nil, translate(err, "failed to summarize verifications")
	}
	return sum, nil
}

// Verification returns the stored outcome of requestID.
func (s *Service) Verification(ctx context.Context, requestID string) (*models.VerificationOutcome, error) {
	o, err := s.store.FindVerificationSnapshot(ctx, requestID)
	if err != nil {
		return nil, translate(err, "verification not found")
	}
	return o, nil
}

// BatchJob returns a stored batch job.
func (s *Service) BatchJob(ctx context.Context, jobID string) (*models.BatchJob, error) {
	job, err := s.store.FindBatchJob(ctx, jobID)
	if err != nil {
		return nil, translate(err, "batch job not found")
	}
	return job, nil
}

// AuditLog returns up to limit of tenantID's most recent audit entries.
func (s *Service) AuditLog(ctx context.Context, tenantID string, limit int) ([]models.AuditEntry, error) {
	if _, err := s.tenant(ctx, tenantID); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	entries, err := s.store.ListAuditLog(ctx, tenantID, limit)
	if err != nil {
		return nil, translate(err, "failed to load audit log")
	}
	return entries, nil
}
