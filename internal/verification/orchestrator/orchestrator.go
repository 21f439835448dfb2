// Package orchestrator routes verification requests to provider adapters,
// runs batches, and probes provider health.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"verigate/internal/verification/metrics"
	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
)

const defaultProbeTimeout = 10 * time.Second

// Orchestrator is the single entry point to every provider adapter.
type Orchestrator struct {
	registry     *providers.Registry
	logger       *slog.Logger
	metrics      *metrics.Metrics
	tracer       trace.Tracer
	now          func() time.Time
	probeTimeout time.Duration
}

type Option func(*Orchestrator)

func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithProbeTimeout bounds each provider health probe.
func WithProbeTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.probeTimeout = d
		}
	}
}

// New builds an orchestrator over registry.
func New(registry *providers.Registry, opts ...Option) (*Orchestrator, error) {
	if registry == nil {
		return nil, errors.New("provider registry is required")
	}
	o := &Orchestrator{
		registry:     registry,
		logger:       slog.Default(),
		tracer:       otel.Tracer("verigate/orchestrator"),
		now:          time.Now,
		probeTimeout: defaultProbeTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Providers returns the registered provider ids.
func (o *Orchestrator) Providers() []string {
	return o.registry.IDs()
}

// Verify runs one request. It never returns an error: every failure,
// including an unknown provider, becomes a failed outcome.
func (o *Orchestrator) Verify(ctx context.Context, req models.VerificationRequest) models.VerificationOutcome {
	outcome, _ := o.VerifyStrict(ctx, req)
	return outcome
}

// VerifyStrict is Verify for callers that want caller mistakes surfaced. A
// malformed request, an unknown provider or an unsupported capability is
// returned as an error alongside the failed outcome. Provider failures are
// still reported only through the outcome.
func (o *Orchestrator) VerifyStrict(ctx context.Context, req models.VerificationRequest) (models.VerificationOutcome, error) {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "orchestrator.Verify", trace.WithAttributes(
		attribute.String("verification.provider_id", req.ProviderID),
		attribute.String("verification.request_id", req.RequestID),
		attribute.String("verification.subject_kind", string(req.SubjectKind)),
	))
	defer span.End()

	outcome, err := o.dispatch(ctx, req)

	span.SetAttributes(attribute.String("verification.status", string(outcome.Status)))
	if outcome.Error != nil {
		span.SetStatus(codes.Error, string(outcome.Error.Kind))
	}
	o.metrics.ObserveVerification(req.ProviderID, string(outcome.Status), time.Since(start))

	logger := o.logger.With("provider_id", req.ProviderID, "request_id", req.RequestID)
	if outcome.Status == models.OutcomeFailed {
		logger.WarnContext(ctx, "verification failed",
			"error_kind", outcome.Error.Kind,
			"error", outcome.Error.Message,
		)
	} else {
		logger.InfoContext(ctx, "verification completed",
			"status", outcome.Status,
			"verdict", outcome.Verdict(),
			"duration", time.Since(start),
		)
	}
	return outcome, err
}

func (o *Orchestrator) dispatch(ctx context.Context, req models.VerificationRequest) (models.VerificationOutcome, error) {
	p, ok := o.registry.Get(req.ProviderID)
	if !ok && req.ProviderID != "" {
		err := &UnsupportedProviderError{ProviderID: req.ProviderID}
		return models.FailedOutcome(req, err, o.now()), err
	}
	if err := req.Validate(); err != nil {
		return models.FailedOutcome(req, err, o.now()), err
	}

	if req.SubjectKind == models.SubjectStudent {
		sv, ok := p.(providers.StudentVerifier)
		if !ok || !p.Capabilities().Students {
			err := &UnsupportedCapabilityError{ProviderID: req.ProviderID, Capability: "student verification"}
			return models.FailedOutcome(req, err, o.now()), err
		}
		rec, err := sv.VerifyStudent(ctx, *req.Student)
		if err != nil {
			return models.FailedOutcome(req, err, o.now()), callerError(err)
		}
		return models.StudentOutcome(req, rec, o.now()), nil
	}

	inst, err := p.VerifyInstitution(ctx, req.SubjectID)
	if err != nil {
		return models.FailedOutcome(req, err, o.now()), callerError(err)
	}
	return models.InstitutionOutcome(req, inst, o.now()), nil
}

// callerError passes through adapter errors that blame the request itself.
func callerError(err error) error {
	if errors.Is(err, models.ErrInvalidRequest) {
		return err
	}
	return nil
}

// BatchVerify runs reqs one at a time in order. Item failures never stop the
// batch. Once ctx is cancelled no further items are started; the rest are
// recorded as cancelled so the job still holds one outcome per request.
// onProgress, when set, is called after every item.
func (o *Orchestrator) BatchVerify(ctx context.Context, reqs []models.VerificationRequest, onProgress func(completed, total int)) *models.BatchJob {
	job := models.NewBatchJob(reqs)
	total := len(job.Requests)
	o.logger.InfoContext(ctx, "batch started", "job_id", job.JobID, "total", total)

	for i, req := range job.Requests {
		var outcome models.VerificationOutcome
		if err := ctx.Err(); err != nil {
			outcome = models.FailedOutcome(req, &CancelledError{Err: err}, o.now())
		} else {
			// A started item runs to completion; the executor deadline bounds it.
			outcome = o.Verify(context.WithoutCancel(ctx), req)
		}
		job.Append(outcome)
		o.metrics.IncBatchItem(string(outcome.Status))
		if onProgress != nil {
			onProgress(i+1, total)
		}
	}

	o.logger.InfoContext(ctx, "batch finished",
		"job_id", job.JobID,
		"succeeded", len(job.Succeeded),
		"failed", len(job.Failed),
	)
	return job
}

// GetUnifiedEntity merges a provider's profile with its approval verdict:
// the profile supplies identity and address, the approval snapshot supplies
// status, approval and programs. It returns nil, nil when the provider has
// nothing for subjectID. When neither lookup succeeds for any other reason
// the profile failure is returned, or the approval failure if the profile
// was merely absent.
func (o *Orchestrator) GetUnifiedEntity(ctx context.Context, providerID, subjectID string) (*models.CanonicalInstitution, error) {
	p, ok := o.registry.Get(providerID)
	if !ok {
		return nil, &UnsupportedProviderError{ProviderID: providerID}
	}
	logger := o.logger.With("provider_id", providerID, "subject_id", subjectID)

	details, detailsErr := p.GetDetails(ctx, subjectID)
	if detailsErr != nil {
		if providers.IsNotFound(detailsErr) {
			return nil, nil
		}
		logger.WarnContext(ctx, "profile lookup failed", "error", detailsErr)
	}

	approval, approvalErr := p.VerifyInstitution(ctx, subjectID)
	if approvalErr != nil {
		if providers.IsNotFound(approvalErr) {
			approvalErr = nil
		} else {
			logger.WarnContext(ctx, "approval lookup failed", "error", approvalErr)
		}
	}

	if details == nil && approval == nil {
		switch {
		case detailsErr != nil:
			return nil, detailsErr
		case approvalErr != nil:
			return nil, approvalErr
		}
		return nil, nil
	}
	return merge(details, approval, o.now()), nil
}

func merge(details, approval *models.CanonicalInstitution, now time.Time) *models.CanonicalInstitution {
	switch {
	case details == nil && approval == nil:
		return nil
	case details == nil:
		return approval
	case approval == nil:
		return details
	}
	merged := *approval
	if details.Name != "" {
		merged.Name = details.Name
	}
	if details.Address != (models.Address{}) {
		merged.Address = details.Address
	}
	if details.EstablishmentYear != 0 {
		merged.EstablishmentYear = details.EstablishmentYear
	}
	if len(merged.Programs) == 0 {
		merged.Programs = details.Programs
	}
	merged.Regulated = approval.Regulated || details.Regulated
	return models.NewCanonicalInstitution(merged, now)
}
