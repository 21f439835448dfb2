//go:build integration

package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"verigate/internal/store/postgres"
	"verigate/internal/verification/models"
	"verigate/pkg/platform/sentinel"
	"verigate/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *postgres.Store
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.store = postgres.New(s.postgres.DB)
	s.Require().NoError(s.store.Migrate(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	ctx := context.Background()
	err := s.postgres.TruncateTables(ctx, "batch_jobs", "verification_audit_log", "verification_snapshots", "tenants")
	s.Require().NoError(err)
	s.Require().NoError(s.store.SaveTenant(ctx, models.Tenant{
		ID:             "tenant-1",
		Name:           "Sunrise Public School",
		SubscriptionID: "sub_1",
		ContactEmail:   "office@sunrise.edu.in",
	}))
}

func (s *PostgresStoreSuite) TestTenantLookup() {
	ctx := context.Background()

	t, err := s.store.FindTenantByID(ctx, "tenant-1")
	s.Require().NoError(err)
	s.Equal("sub_1", t.SubscriptionID)

	_, err = s.store.FindTenantByID(ctx, "ghost")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.store.SaveTenant(ctx, models.Tenant{ID: "tenant-1", Name: "Renamed"}))
	t, err = s.store.FindTenantByID(ctx, "tenant-1")
	s.Require().NoError(err)
	s.Equal("Renamed", t.Name)
}

func (s *PostgresStoreSuite) TestSnapshotUpsertAndSummary() {
	ctx := context.Background()
	base := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	inst := &models.CanonicalInstitution{
		InstitutionID:      "1-1234567890",
		ProviderID:         "aicte",
		VerificationStatus: models.StatusPending,
		Warnings:           []string{"Approval documents under review"},
	}
	pending := models.VerificationOutcome{
		RequestID: "req-1", ProviderID: "aicte", SubjectID: "1-1234567890",
		Status: models.OutcomePending, Institution: inst, CompletedAt: base.Add(time.Hour),
	}
	s.Require().NoError(s.store.UpsertVerificationSnapshot(ctx, "tenant-1", pending))

	verified := pending
	verified.Status = models.OutcomeVerified
	verified.Institution = &models.CanonicalInstitution{InstitutionID: "1-1234567890", VerificationStatus: models.StatusVerified}
	s.Require().NoError(s.store.UpsertVerificationSnapshot(ctx, "tenant-1", verified))

	failed := models.FailedOutcome(models.VerificationRequest{RequestID: "req-2", ProviderID: "cbse", SubjectID: "1234567"},
		errors.New("boom"), base.Add(2*time.Hour))
	s.Require().NoError(s.store.UpsertVerificationSnapshot(ctx, "tenant-1", failed))

	got, err := s.store.FindVerificationSnapshot(ctx, "req-1")
	s.Require().NoError(err)
	s.Equal(models.OutcomeVerified, got.Status)
	s.Equal(models.StatusVerified, got.Verdict())

	sum, err := s.store.SummarizeVerifications(ctx, "tenant-1", base, base.Add(24*time.Hour))
	s.Require().NoError(err)
	s.Equal(2, sum.Total)
	s.Equal(1, sum.Verified)
	s.Equal(1, sum.Failed)
	s.Equal(map[string]int{"aicte": 1, "cbse": 1}, sum.ByProvider)

	empty, err := s.store.SummarizeVerifications(ctx, "tenant-1", base.Add(48*time.Hour), base.Add(72*time.Hour))
	s.Require().NoError(err)
	s.Zero(empty.Total)
}

func (s *PostgresStoreSuite) TestAuditLogOrdering() {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Second)
	for i := range 3 {
		s.Require().NoError(s.store.AppendAuditLog(ctx, models.AuditEntry{
			ID:         uuid.NewString(),
			TenantID:   "tenant-1",
			RequestID:  "req-" + string(rune('a'+i)),
			ProviderID: "ncte",
			SubjectID:  "ERO123",
			Action:     "verify",
			Status:     models.OutcomeVerified,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}))
	}

	entries, err := s.store.ListAuditLog(ctx, "tenant-1", 2)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal("req-c", entries[0].RequestID)
	s.Equal("req-b", entries[1].RequestID)
}

func (s *PostgresStoreSuite) TestRunInTxRollsBack() {
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.store.RunInTx(ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.UpsertVerificationSnapshot(ctx, "tenant-1", models.VerificationOutcome{
			RequestID: "req-tx", ProviderID: "aicte", SubjectID: "x",
			Status: models.OutcomePending, CompletedAt: time.Now(),
		}))
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.FindVerificationSnapshot(ctx, "req-tx")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestBatchJobRoundTrip() {
	ctx := context.Background()
	job := models.NewBatchJob([]models.VerificationRequest{models.NewVerificationRequest("aicte", "1-1")})
	job.Append(models.VerificationOutcome{RequestID: job.Requests[0].RequestID, Status: models.OutcomePending})
	s.Require().NoError(s.store.SaveBatchJob(ctx, "tenant-1", job))

	got, err := s.store.FindBatchJob(ctx, job.JobID)
	s.Require().NoError(err)
	s.True(got.Complete())
	s.Len(got.Succeeded, 1)
}
