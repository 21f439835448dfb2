// Package service runs verifications for tenants and carries out their
// side effects: persistence, audit, events, metering and notifications.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"verigate/internal/gateways/billing"
	"verigate/internal/gateways/documents"
	"verigate/internal/gateways/events"
	"verigate/internal/gateways/notify"
	"verigate/internal/verification/metrics"
	"verigate/internal/verification/models"
	"verigate/pkg/attrs"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/sentinel"
	"verigate/pkg/requestcontext"
)

const (
	ActionVerify           = "verify"
	ActionBatchVerify      = "batch_verify"
	ActionEvidenceAttached = "evidence_attached"
	ActionEvidenceDeleted  = "evidence_deleted"
)

// Service orchestrates verifications on behalf of tenants.
type Service struct {
	orchestrator Orchestrator
	store        Datastore
	documents    DocumentStore
	notifier     Notifier
	meter        UsageMeter
	publisher    EventPublisher
	logger       *slog.Logger
	metrics      *metrics.Metrics
	now          func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithDocuments(d DocumentStore) Option {
	return func(s *Service) {
		if d != nil {
			s.documents = d
		}
	}
}

func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

func WithUsageMeter(m UsageMeter) Option {
	return func(s *Service) {
		if m != nil {
			s.meter = m
		}
	}
}

func WithEventPublisher(p EventPublisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a Service. Gateways left unset report sentinel.ErrUnavailable
// (documents, notifications, billing) or drop events.
func New(orch Orchestrator, store Datastore, opts ...Option) *Service {
	s := &Service{
		orchestrator: orch,
		store:        store,
		documents:    documents.Unavailable{},
		notifier:     notify.Unavailable{},
		meter:        billing.Unavailable{},
		publisher:    events.Noop{},
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Providers lists the registered provider ids.
func (s *Service) Providers() []string {
	return s.orchestrator.Providers()
}

// Verify runs one verification for tenantID. Only caller errors are
// returned; provider failures come back as a failed outcome.
func (s *Service) Verify(ctx context.Context, tenantID string, req models.VerificationRequest) (models.VerificationOutcome, error) {
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return models.VerificationOutcome{}, err
	}

	outcome, err := s.orchestrator.VerifyStrict(ctx, req)
	if err != nil {
		return outcome, translate(err, "verification rejected")
	}

	s.afterVerification(context.WithoutCancel(ctx), tenant, outcome, ActionVerify)
	return outcome, nil
}

// BatchVerify runs reqs in order and applies the per-item side effects to
// every outcome, including those cancelled before they ran.
func (s *Service) BatchVerify(ctx context.Context, tenantID string, reqs []models.VerificationRequest) (*models.BatchJob, error) {
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if len(reqs) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one request is required")
	}

	job := s.orchestrator.BatchVerify(ctx, reqs, func(completed, total int) {
		s.logger.DebugContext(ctx, "batch progress",
			attrs.TenantID, tenantID,
			"completed", completed,
			"total", total,
		)
	})

	detached := context.WithoutCancel(ctx)
	for _, outcome := range job.Outcomes {
		s.afterVerification(detached, tenant, outcome, ActionBatchVerify)
	}
	if err := s.store.SaveBatchJob(detached, tenant.ID, job); err != nil {
		s.sideEffectFailed(detached, "batch_job", err, attrs.JobID, job.JobID)
	}

	s.logger.InfoContext(ctx, "batch verification finished",
		attrs.TenantID, tenant.ID,
		attrs.JobID, job.JobID,
		"succeeded", len(job.Succeeded),
		"failed", len(job.Failed),
	)
	return job, nil
}

// afterVerification runs every side effect of one outcome. None of them
// can change the outcome.
func (s *Service) afterVerification(ctx context.Context, tenant *models.Tenant, outcome models.VerificationOutcome, action string) {
	billable := outcome.Completed() && !s.alreadyBilled(ctx, outcome.RequestID)

	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.store.UpsertVerificationSnapshot(ctx, tenant.ID, outcome); err != nil {
			return err
		}
		return s.store.AppendAuditLog(ctx, s.auditEntry(tenant.ID, outcome, action))
	})
	if err != nil {
		s.sideEffectFailed(ctx, "persist", err, attrs.RequestID, outcome.RequestID)
	}

	if err := s.publisher.Publish(ctx, events.Completed(tenant.ID, outcome)); err != nil {
		s.sideEffectFailed(ctx, "event", err, attrs.RequestID, outcome.RequestID)
	}

	if billable {
		s.recordUsage(ctx, tenant, outcome)
	}
	if verdict := outcome.Verdict(); verdict == models.StatusVerified || verdict == models.StatusRejected {
		s.notifyStatus(ctx, tenant, outcome)
	}
}

// alreadyBilled reports whether an earlier run of the same request id
// completed, so re-verification is metered once.
func (s *Service) alreadyBilled(ctx context.Context, requestID string) bool {
	prev, err := s.store.FindVerificationSnapshot(ctx, requestID)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "snapshot lookup failed", attrs.RequestID, requestID, attrs.Error, err)
		}
		return false
	}
	return prev.Completed()
}

func (s *Service) recordUsage(ctx context.Context, tenant *models.Tenant, outcome models.VerificationOutcome) {
	if tenant.SubscriptionID == "" {
		return
	}
	ok, err := s.meter.RecordUsage(ctx, tenant.SubscriptionID, billing.MetricVerifications, 1)
	if err != nil || !ok {
		s.sideEffectFailed(ctx, "billing", err, attrs.RequestID, outcome.RequestID)
	}
}

func (s *Service) notifyStatus(ctx context.Context, tenant *models.Tenant, outcome models.VerificationOutcome) {
	if tenant.ContactEmail == "" {
		s.logger.DebugContext(ctx, "tenant has no contact, skipping notification", attrs.TenantID, tenant.ID)
		return
	}
	data := map[string]any{
		"requestId":  outcome.RequestID,
		"providerId": outcome.ProviderID,
		"subjectId":  outcome.SubjectID,
		"status":     string(outcome.Verdict()),
		"tenantName": tenant.Name,
	}
	if outcome.Institution != nil {
		data["institutionName"] = outcome.Institution.Name
		data["warnings"] = outcome.Institution.Warnings
	}
	to := notify.Recipient{Email: tenant.ContactEmail, Name: tenant.ContactName}
	ok, err := s.notifier.Send(ctx, to, notify.TemplateVerificationStatus, data)
	if err != nil || !ok {
		s.sideEffectFailed(ctx, "notify", err, attrs.RequestID, outcome.RequestID)
	}
}

func (s *Service) auditEntry(tenantID string, outcome models.VerificationOutcome, action string) models.AuditEntry {
	entry := models.AuditEntry{
		ID:         uuid.NewString(),
		TenantID:   tenantID,
		RequestID:  outcome.RequestID,
		ProviderID: outcome.ProviderID,
		SubjectID:  outcome.SubjectID,
		Action:     action,
		Status:     outcome.Status,
		CreatedAt:  s.now(),
	}
	if outcome.Error != nil {
		entry.ErrorKind = outcome.Error.Kind
	}
	return entry
}

func (s *Service) sideEffectFailed(ctx context.Context, kind string, err error, kv ...any) {
	if err == nil {
		err = errors.New("rejected by upstream")
	}
	s.metrics.IncSideEffectFailure(kind)
	args := append([]any{"side_effect", kind, attrs.Error, err}, kv...)
	if id := requestcontext.RequestID(ctx); id != "" && attrs.ExtractString(kv, attrs.RequestID) == "" {
		args = append(args, attrs.RequestID, id)
	}
	s.logger.WarnContext(ctx, "side effect failed", args...)
}

func (s *Service) tenant(ctx context.Context, tenantID string) (*models.Tenant, error) {
	if tenantID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}
	t, err := s.store.FindTenantByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "tenant not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load tenant")
	}
	return t, nil
}
