// Package memory is an in-process datastore for tests and local runs.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"verigate/internal/verification/models"
	"verigate/pkg/platform/sentinel"
)

type snapshot struct {
	tenantID string
	outcome  models.VerificationOutcome
}

// Store keeps tenants, snapshots, audit entries and batch jobs in maps.
type Store struct {
	mu        sync.RWMutex
	tenants   map[string]models.Tenant
	snapshots map[string]snapshot
	audit     []models.AuditEntry
	jobs      map[string]models.BatchJob
}

func New() *Store {
	return &Store{
		tenants:   make(map[string]models.Tenant),
		snapshots: make(map[string]snapshot),
		jobs:      make(map[string]models.BatchJob),
	}
}

// RunInTx calls fn directly; each call on the store is already atomic.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// SaveTenant inserts or replaces a tenant.
func (s *Store) SaveTenant(_ context.Context, t models.Tenant) error {
	if t.ID == "" {
		return fmt.Errorf("save tenant: id is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[t.ID] = t
	return nil
}

func (s *Store) FindTenantByID(_ context.Context, id string) (*models.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, fmt.Errorf("tenant %s: %w", id, sentinel.ErrNotFound)
	}
	return &t, nil
}

// UpsertVerificationSnapshot keeps the latest outcome per request id.
func (s *Store) UpsertVerificationSnapshot(_ context.Context, tenantID string, outcome models.VerificationOutcome) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[outcome.RequestID] = snapshot{tenantID: tenantID, outcome: outcome}
	return nil
}

// FindVerificationSnapshot returns the stored outcome for a request id.
func (s *Store) FindVerificationSnapshot(_ context.Context, requestID string) (*models.VerificationOutcome, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[requestID]
	if !ok {
		return nil, fmt.Errorf("verification %s: %w", requestID, sentinel.ErrNotFound)
	}
	o := snap.outcome
	return &o, nil
}

func (s *Store) AppendAuditLog(_ context.Context, entry models.AuditEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audit = append(s.audit, entry)
	return nil
}

// ListAuditLog returns up to limit of a tenant's entries, newest first.
func (s *Store) ListAuditLog(_ context.Context, tenantID string, limit int) ([]models.AuditEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.AuditEntry{}
	for i := len(s.audit) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if s.audit[i].TenantID == tenantID {
			out = append(out, s.audit[i])
		}
	}
	return out, nil
}

func (s *Store) SaveBatchJob(_ context.Context, _ string, job *models.BatchJob) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = *job
	return nil
}

func (s *Store) FindBatchJob(_ context.Context, jobID string) (*models.BatchJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("batch job %s: %w", jobID, sentinel.ErrNotFound)
	}
	return &job, nil
}

// SummarizeVerifications counts snapshots completed in [from, to).
func (s *Store) SummarizeVerifications(_ context.Context, tenantID string, from, to time.Time) (*models.VerificationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := &models.VerificationSummary{TenantID: tenantID, From: from, To: to, ByProvider: map[string]int{}}
	for _, snap := range s.snapshots {
		o := snap.outcome
		if snap.tenantID != tenantID || o.CompletedAt.Before(from) || !o.CompletedAt.Before(to) {
			continue
		}
		sum.Total++
		sum.ByProvider[o.ProviderID]++
		switch o.Status {
		case models.OutcomeVerified:
			sum.Verified++
		case models.OutcomePending:
			sum.Pending++
		case models.OutcomeFailed:
			sum.Failed++
		}
	}
	return sum, nil
}
