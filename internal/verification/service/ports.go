package service

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"verigate/internal/gateways/documents"
	"verigate/internal/gateways/events"
	"verigate/internal/gateways/notify"
	"verigate/internal/verification/models"
	"verigate/internal/verification/orchestrator"
)

// Orchestrator is the subset of *orchestrator.Orchestrator the service drives.
type Orchestrator interface {
	Providers() []string
	VerifyStrict(ctx context.Context, req models.VerificationRequest) (models.VerificationOutcome, error)
	BatchVerify(ctx context.Context, reqs []models.VerificationRequest, onProgress func(completed, total int)) *models.BatchJob
	GetUnifiedEntity(ctx context.Context, providerID, subjectID string) (*models.CanonicalInstitution, error)
	Search(ctx context.Context, providerID string, filters models.SearchFilters) (*models.Page[models.CanonicalInstitution], error)
	SearchAll(ctx context.Context, filters models.SearchFilters) *orchestrator.CombinedResults
	SystemStatus(ctx context.Context) models.SystemStatus
}

// Datastore persists tenants, snapshots and the audit trail. Lookups return
// sentinel.ErrNotFound when the record does not exist.
type Datastore interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	SaveTenant(ctx context.Context, t models.Tenant) error
	FindTenantByID(ctx context.Context, id string) (*models.Tenant, error)
	UpsertVerificationSnapshot(ctx context.Context, tenantID string, outcome models.VerificationOutcome) error
	FindVerificationSnapshot(ctx context.Context, requestID string) (*models.VerificationOutcome, error)
	AppendAuditLog(ctx context.Context, entry models.AuditEntry) error
	ListAuditLog(ctx context.Context, tenantID string, limit int) ([]models.AuditEntry, error)
	SaveBatchJob(ctx context.Context, tenantID string, job *models.BatchJob) error
	FindBatchJob(ctx context.Context, jobID string) (*models.BatchJob, error)
	SummarizeVerifications(ctx context.Context, tenantID string, from, to time.Time) (*models.VerificationSummary, error)
}

// DocumentStore keeps evidence files.
type DocumentStore interface {
	Upload(ctx context.Context, content []byte, meta documents.Metadata) (documents.Stored, error)
	GetDownloadURL(ctx context.Context, documentID string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, documentID string) (bool, error)
}

// Notifier sends templated messages to tenant contacts.
type Notifier interface {
	Send(ctx context.Context, to notify.Recipient, templateID string, data map[string]any) (bool, error)
}

// UsageMeter records billable usage.
type UsageMeter interface {
	RecordUsage(ctx context.Context, subscriptionID, metric string, quantity int) (bool, error)
}

// EventPublisher emits verification events.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.Event) error
}
