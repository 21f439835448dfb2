package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"verigate/internal/gateways/documents"
	"verigate/internal/gateways/events"
	"verigate/internal/gateways/notify"
	"verigate/internal/store/memory"
	"verigate/internal/verification/metrics"
	"verigate/internal/verification/models"
	"verigate/internal/verification/orchestrator"
	"verigate/internal/verification/resilience"
	"verigate/internal/verification/service/mocks"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/platform/sentinel"
)

// =============================================================================
// Service Test Suite
// =============================================================================
// The orchestrator and gateways are mocked; the datastore is the in-memory
// implementation so persisted state can be asserted directly.

type ServiceSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	orch      *mocks.MockOrchestrator
	docs      *mocks.MockDocumentStore
	notifier  *mocks.MockNotifier
	meter     *mocks.MockUsageMeter
	publisher *mocks.MockEventPublisher
	store     *memory.Store
	metrics   *metrics.Metrics
	service   *Service
	now       time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.orch = mocks.NewMockOrchestrator(s.ctrl)
	s.docs = mocks.NewMockDocumentStore(s.ctrl)
	s.notifier = mocks.NewMockNotifier(s.ctrl)
	s.meter = mocks.NewMockUsageMeter(s.ctrl)
	s.publisher = mocks.NewMockEventPublisher(s.ctrl)
	s.store = memory.New()
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.now = time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.SaveTenant(context.Background(), models.Tenant{
		ID:             "tenant-1",
		Name:           "Green Valley School",
		SubscriptionID: "sub_1",
		ContactEmail:   "admin@greenvalley.edu.in",
		ContactName:    "Asha Rao",
	}))

	s.service = s.newService(s.store)
}

func (s *ServiceSuite) newService(store Datastore) *Service {
	return New(s.orch, store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithDocuments(s.docs),
		WithNotifier(s.notifier),
		WithUsageMeter(s.meter),
		WithEventPublisher(s.publisher),
		WithClock(func() time.Time { return s.now }),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) institutionOutcome(req models.VerificationRequest, status models.VerificationStatus) models.VerificationOutcome {
	expires := s.now.AddDate(1, 0, 0)
	inst := models.NewCanonicalInstitution(models.CanonicalInstitution{
		InstitutionID:      req.SubjectID,
		ProviderID:         req.ProviderID,
		Name:               "Green Valley College",
		VerificationStatus: status,
		Approval:           models.Approval{Authority: "AICTE", ExpiresAt: &expires},
	}, s.now)
	return models.InstitutionOutcome(req, inst, s.now)
}

func (s *ServiceSuite) sideEffectFailures(kind string) float64 {
	return testutil.ToFloat64(s.metrics.SideEffectFailures.WithLabelValues(kind))
}

// =============================================================================
// Verify
// =============================================================================

func (s *ServiceSuite) TestVerify() {
	ctx := context.Background()

	s.Run("verified outcome runs every side effect", func() {
		req := models.NewVerificationRequest("aicte", "1-1234567890")
		outcome := s.institutionOutcome(req, models.StatusVerified)

		s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(outcome, nil)
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, ev events.Event) error {
				s.Equal(events.TypeVerificationCompleted, ev.Type)
				s.Equal("tenant-1", ev.TenantID)
				s.Equal(models.StatusVerified, ev.Verdict)
				return nil
			})
		s.meter.EXPECT().RecordUsage(gomock.Any(), "sub_1", "verifications", 1).Return(true, nil)
		s.notifier.EXPECT().Send(gomock.Any(), notify.Recipient{Email: "admin@greenvalley.edu.in", Name: "Asha Rao"},
			notify.TemplateVerificationStatus, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ notify.Recipient, _ string, data map[string]any) (bool, error) {
				s.Equal("verified", data["status"])
				s.Equal("Green Valley College", data["institutionName"])
				return true, nil
			})

		got, err := s.service.Verify(ctx, "tenant-1", req)
		s.Require().NoError(err)
		s.Equal(models.OutcomeVerified, got.Status)

		stored, err := s.store.FindVerificationSnapshot(ctx, req.RequestID)
		s.Require().NoError(err)
		s.Equal(models.OutcomeVerified, stored.Status)

		audit, err := s.store.ListAuditLog(ctx, "tenant-1", 10)
		s.Require().NoError(err)
		s.Require().Len(audit, 1)
		s.Equal(ActionVerify, audit[0].Action)
		s.Equal(req.RequestID, audit[0].RequestID)
	})

	s.Run("pending outcome is neither billed nor notified", func() {
		req := models.NewVerificationRequest("aicte", "1-2")
		outcome := s.institutionOutcome(req, models.StatusPending)

		s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(outcome, nil)
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		got, err := s.service.Verify(ctx, "tenant-1", req)
		s.Require().NoError(err)
		s.Equal(models.OutcomePending, got.Status)
	})

	s.Run("expired verdict is billed but not notified", func() {
		req := models.NewVerificationRequest("ncte", "ERO-1")
		outcome := s.institutionOutcome(req, models.StatusExpired)

		s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(outcome, nil)
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)
		s.meter.EXPECT().RecordUsage(gomock.Any(), "sub_1", "verifications", 1).Return(true, nil)

		_, err := s.service.Verify(ctx, "tenant-1", req)
		s.Require().NoError(err)
	})

	s.Run("provider failure is persisted but not billed", func() {
		req := models.NewVerificationRequest("cbse", "1234567")
		outcome := models.FailedOutcome(req, errors.New("upstream down"), s.now)

		s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(outcome, nil)
		s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		got, err := s.service.Verify(ctx, "tenant-1", req)
		s.Require().NoError(err)
		s.Equal(models.OutcomeFailed, got.Status)

		stored, err := s.store.FindVerificationSnapshot(ctx, req.RequestID)
		s.Require().NoError(err)
		s.Equal(models.KindInternal, stored.Error.Kind)
	})
}

func (s *ServiceSuite) TestVerifyCallerErrors() {
	ctx := context.Background()

	s.Run("unknown tenant", func() {
		_, err := s.service.Verify(ctx, "ghost", models.NewVerificationRequest("aicte", "x"))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("missing tenant id", func() {
		_, err := s.service.Verify(ctx, "", models.NewVerificationRequest("aicte", "x"))
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("unsupported provider", func() {
		req := models.NewVerificationRequest("cisce-legacy", "x")
		s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(
			models.VerificationOutcome{Status: models.OutcomeFailed},
			&orchestrator.UnsupportedProviderError{ProviderID: "cisce-legacy"})

		_, err := s.service.Verify(ctx, "tenant-1", req)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

		_, lookupErr := s.store.FindVerificationSnapshot(ctx, req.RequestID)
		s.ErrorIs(lookupErr, sentinel.ErrNotFound, "caller errors are not persisted")
	})

	s.Run("invalid request", func() {
		req := models.VerificationRequest{RequestID: "r", ProviderID: "aicte"}
		s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(
			models.VerificationOutcome{Status: models.OutcomeFailed},
			fmt.Errorf("%w: subject_id is required", models.ErrInvalidRequest))

		_, err := s.service.Verify(ctx, "tenant-1", req)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("student request to a provider without student support", func() {
		req := models.NewStudentVerificationRequest("aicte", models.StudentQuery{RollNumber: "1234567", Year: 2024})
		s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(
			models.VerificationOutcome{Status: models.OutcomeFailed},
			&orchestrator.UnsupportedCapabilityError{ProviderID: "aicte", Capability: "students"})

		_, err := s.service.Verify(ctx, "tenant-1", req)
		s.True(dErrors.HasCode(err, dErrors.CodeUnsupported))
	})
}

func (s *ServiceSuite) TestSideEffectFailuresNeverChangeOutcome() {
	ctx := context.Background()
	req := models.NewVerificationRequest("aicte", "1-99")
	outcome := s.institutionOutcome(req, models.StatusRejected)

	s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(outcome, nil)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))
	s.meter.EXPECT().RecordUsage(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, sentinel.ErrUnavailable)
	s.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(false, errors.New("smtp 550"))

	got, err := s.service.Verify(ctx, "tenant-1", req)
	s.Require().NoError(err)
	s.Equal(outcome, got)

	s.Equal(1.0, s.sideEffectFailures("event"))
	s.Equal(1.0, s.sideEffectFailures("billing"))
	s.Equal(1.0, s.sideEffectFailures("notify"))
}

func (s *ServiceSuite) TestPersistenceFailureIsBestEffort() {
	ctx := context.Background()
	store := mocks.NewMockDatastore(s.ctrl)
	svc := s.newService(store)

	req := models.NewVerificationRequest("aicte", "1-5")
	outcome := s.institutionOutcome(req, models.StatusPending)

	store.EXPECT().FindTenantByID(gomock.Any(), "tenant-1").Return(&models.Tenant{ID: "tenant-1"}, nil)
	s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(outcome, nil)
	store.EXPECT().RunInTx(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.Verify(ctx, "tenant-1", req)
	s.Require().NoError(err)
	s.Equal(models.OutcomePending, got.Status)
	s.Equal(1.0, s.sideEffectFailures("persist"))
}

func (s *ServiceSuite) TestReverificationIsBilledOnce() {
	ctx := context.Background()
	req := models.NewVerificationRequest("aicte", "1-7")
	outcome := s.institutionOutcome(req, models.StatusVerified)

	s.orch.EXPECT().VerifyStrict(gomock.Any(), req).Return(outcome, nil).Times(2)
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(2)
	s.notifier.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil).Times(2)
	s.meter.EXPECT().RecordUsage(gomock.Any(), "sub_1", "verifications", 1).Return(true, nil).Times(1)

	for range 2 {
		_, err := s.service.Verify(ctx, "tenant-1", req)
		s.Require().NoError(err)
	}
}

// =============================================================================
// BatchVerify
// =============================================================================

func (s *ServiceSuite) TestBatchVerify() {
	ctx := context.Background()
	reqs := []models.VerificationRequest{
		models.NewVerificationRequest("aicte", "1-1"),
		models.NewVerificationRequest("aicte", "1-2"),
		models.NewVerificationRequest("ncte", "ERO-3"),
	}

	s.orch.EXPECT().BatchVerify(gomock.Any(), reqs, gomock.Any()).DoAndReturn(
		func(_ context.Context, reqs []models.VerificationRequest, onProgress func(int, int)) *models.BatchJob {
			job := models.NewBatchJob(reqs)
			job.Append(s.institutionOutcome(reqs[0], models.StatusPending))
			job.Append(s.institutionOutcome(reqs[1], models.StatusPending))
			job.Append(models.FailedOutcome(reqs[2], &orchestrator.CancelledError{Err: context.Canceled}, s.now))
			for i := range reqs {
				onProgress(i+1, len(reqs))
			}
			return job
		})
	s.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).Times(3)

	job, err := s.service.BatchVerify(ctx, "tenant-1", reqs)
	s.Require().NoError(err)
	s.True(job.Complete())
	s.Len(job.Succeeded, 2)
	s.Len(job.Failed, 1)

	saved, err := s.store.FindBatchJob(ctx, job.JobID)
	s.Require().NoError(err)
	s.Equal(job.JobID, saved.JobID)

	audit, err := s.store.ListAuditLog(ctx, "tenant-1", 10)
	s.Require().NoError(err)
	s.Len(audit, 3)
	s.Equal(models.KindCancelled, audit[0].ErrorKind)
	s.Equal(ActionBatchVerify, audit[0].Action)
}

func (s *ServiceSuite) TestBatchVerifyRejectsEmpty() {
	_, err := s.service.BatchVerify(context.Background(), "tenant-1", nil)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

// =============================================================================
// Evidence
// =============================================================================

func (s *ServiceSuite) seedVerification(requestID string) {
	s.Require().NoError(s.store.UpsertVerificationSnapshot(context.Background(), "tenant-1",
		models.VerificationOutcome{RequestID: requestID, ProviderID: "aicte", Status: models.OutcomePending, CompletedAt: s.now}))
}

func (s *ServiceSuite) TestAttachEvidence() {
	ctx := context.Background()
	s.seedVerification("req-1")

	s.Run("stores under the tenant and request", func() {
		s.docs.EXPECT().Upload(gomock.Any(), []byte("%PDF"), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ []byte, meta documents.Metadata) (documents.Stored, error) {
				s.Equal("tenant-1", meta.TenantID)
				s.Equal("req-1", meta.RequestID)
				s.Equal(documents.CategoryCompliance, meta.Category)
				return documents.Stored{DocumentID: "doc_1", Location: "s3://b/k"}, nil
			})

		stored, err := s.service.AttachEvidence(ctx, "tenant-1", "req-1", []byte("%PDF"), documents.Metadata{
			TenantID: "spoofed", FileName: "a.pdf", MimeType: "application/pdf", Category: documents.CategoryCompliance,
		})
		s.Require().NoError(err)
		s.Equal("doc_1", stored.DocumentID)

		audit, err := s.store.ListAuditLog(ctx, "tenant-1", 1)
		s.Require().NoError(err)
		s.Equal(ActionEvidenceAttached, audit[0].Action)
		s.Equal("doc_1", audit[0].SubjectID)
	})

	s.Run("unknown verification", func() {
		_, err := s.service.AttachEvidence(ctx, "tenant-1", "req-missing", []byte("x"), documents.Metadata{})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("storage unavailable", func() {
		s.docs.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).Return(documents.Stored{}, sentinel.ErrUnavailable)
		_, err := s.service.AttachEvidence(ctx, "tenant-1", "req-1", []byte("x"), documents.Metadata{})
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	})

	s.Run("invalid document", func() {
		s.docs.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any()).Return(documents.Stored{}, documents.ErrInvalidDocument)
		_, err := s.service.AttachEvidence(ctx, "tenant-1", "req-1", []byte("x"), documents.Metadata{})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func (s *ServiceSuite) TestDefaultGatewaysAreUnavailable() {
	ctx := context.Background()
	s.seedVerification("req-1")
	svc := New(s.orch, s.store)

	_, err := svc.AttachEvidence(ctx, "tenant-1", "req-1", []byte("%PDF"), documents.Metadata{MimeType: "application/pdf"})
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
	s.ErrorIs(err, sentinel.ErrUnavailable)
}

func (s *ServiceSuite) TestEvidenceURLAndDelete() {
	ctx := context.Background()

	s.docs.EXPECT().GetDownloadURL(gomock.Any(), "doc_1", time.Hour).Return("https://signed", nil)
	u, err := s.service.EvidenceURL(ctx, "doc_1", time.Hour)
	s.Require().NoError(err)
	s.Equal("https://signed", u)

	_, err = s.service.EvidenceURL(ctx, "doc_1", 8*24*time.Hour)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	s.docs.EXPECT().GetDownloadURL(gomock.Any(), "doc_x", gomock.Any()).Return("", sentinel.ErrNotFound)
	_, err = s.service.EvidenceURL(ctx, "doc_x", 0)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	s.docs.EXPECT().Delete(gomock.Any(), "doc_1").Return(true, nil)
	s.Require().NoError(s.service.DeleteEvidence(ctx, "tenant-1", "doc_1"))

	s.docs.EXPECT().Delete(gomock.Any(), "doc_1").Return(false, nil)
	err = s.service.DeleteEvidence(ctx, "tenant-1", "doc_1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// =============================================================================
// Reports
// =============================================================================

func (s *ServiceSuite) TestScore() {
	ctx := context.Background()

	s.Run("scores the unified entity", func() {
		programs := make([]models.Program, 12)
		for i := range programs {
			programs[i] = models.Program{Name: "P", Intake: 300, Approved: true}
		}
		expires := s.now.AddDate(1, 0, 0)
		entity := models.NewCanonicalInstitution(models.CanonicalInstitution{
			InstitutionID:      "1-1",
			Regulated:          true,
			VerificationStatus: models.StatusVerified,
			Approval:           models.Approval{ExpiresAt: &expires},
			Programs:           programs,
		}, s.now)
		s.orch.EXPECT().GetUnifiedEntity(gomock.Any(), "aicte", "1-1").Return(entity, nil)

		rec, err := s.service.Score(ctx, "aicte", "1-1")
		s.Require().NoError(err)
		s.Equal(models.TierEnterprise, rec.RecommendedTier)
		s.GreaterOrEqual(rec.Score, 8)
	})

	s.Run("unknown entity", func() {
		s.orch.EXPECT().GetUnifiedEntity(gomock.Any(), "aicte", "1-404").Return(nil, nil)
		_, err := s.service.Score(ctx, "aicte", "1-404")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("provider outage is unavailable", func() {
		outage := &resilience.ExhaustedError{Attempts: 3, Last: &resilience.HTTPError{StatusCode: 503}}
		s.orch.EXPECT().GetUnifiedEntity(gomock.Any(), "aicte", "1-503").Return(nil, outage)
		_, err := s.service.Score(ctx, "aicte", "1-503")
		s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
		s.False(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("provider timeout", func() {
		s.orch.EXPECT().GetUnifiedEntity(gomock.Any(), "aicte", "1-504").
			Return(nil, &resilience.TimeoutError{})
		_, err := s.service.Score(ctx, "aicte", "1-504")
		s.True(dErrors.HasCode(err, dErrors.CodeTimeout))
	})
}

func (s *ServiceSuite) TestSearch() {
	ctx := context.Background()
	filters := models.SearchFilters{State: "Delhi"}

	page := models.NewPage([]models.CanonicalInstitution{{InstitutionID: "1-1"}}, 1, 1, 20)
	s.orch.EXPECT().Search(gomock.Any(), "aicte", filters).Return(page, nil)
	res, err := s.service.Search(ctx, "aicte", filters)
	s.Require().NoError(err)
	s.Equal(1, res.Total)
	s.Equal("aicte", res.Pages[0].ProviderID)

	s.orch.EXPECT().SearchAll(gomock.Any(), filters).Return(&orchestrator.CombinedResults{Total: 4})
	res, err = s.service.Search(ctx, "", filters)
	s.Require().NoError(err)
	s.Equal(4, res.Total)
}

func (s *ServiceSuite) TestSummary() {
	ctx := context.Background()
	s.seedVerification("req-1")

	sum, err := s.service.Summary(ctx, "tenant-1", time.Time{}, time.Time{})
	s.Require().NoError(err)
	s.Equal(s.now.Add(-DefaultSummaryWindow), sum.From)
	s.Equal(0, sum.Total, "the window is half-open and excludes now")

	sum, err = s.service.Summary(ctx, "tenant-1", s.now.Add(-time.Hour), s.now.Add(time.Hour))
	s.Require().NoError(err)
	s.Equal(1, sum.Total)
	s.Equal(1, sum.Pending)

	_, err = s.service.Summary(ctx, "tenant-1", s.now, s.now.Add(-time.Hour))
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.Summary(ctx, "ghost", time.Time{}, time.Time{})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

// =============================================================================
// Tenants
// =============================================================================

func (s *ServiceSuite) TestRegisterTenant() {
	ctx := context.Background()

	s.Run("stores a trimmed tenant", func() {
		t, err := s.service.RegisterTenant(ctx, models.Tenant{ID: " tenant-2 ", Name: "Sunrise Academy", ContactEmail: "desk@sunrise.in"})
		s.Require().NoError(err)
		s.Equal("tenant-2", t.ID)

		stored, err := s.store.FindTenantByID(ctx, "tenant-2")
		s.Require().NoError(err)
		s.Equal("Sunrise Academy", stored.Name)
	})

	s.Run("rejects a malformed contact", func() {
		_, err := s.service.RegisterTenant(ctx, models.Tenant{ID: "t", Name: "n", ContactEmail: "not-an-email"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("requires an id", func() {
		_, err := s.service.RegisterTenant(ctx, models.Tenant{Name: "n"})
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
