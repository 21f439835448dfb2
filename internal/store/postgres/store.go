// Package postgres is the PostgreSQL datastore.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"verigate/internal/verification/models"
	"verigate/pkg/platform/sentinel"
)

//go:embed schema.sql
var schema string

const defaultTxTimeout = 5 * time.Second

// Store persists tenants, verification snapshots, audit entries and batch jobs.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates missing tables and indexes.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

func txFrom(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txFrom(ctx); ok {
		return tx
	}
	return s.db
}

// RunInTx runs fn with a transaction carried in its context. Store calls
// made with that context join the transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFrom(ctx); ok {
		return fn(ctx)
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// SaveTenant inserts a tenant or updates it in place.
func (s *Store) SaveTenant(ctx context.Context, t models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, subscription_id, contact_email, contact_name)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			subscription_id = EXCLUDED.subscription_id,
			contact_email = EXCLUDED.contact_email,
			contact_name = EXCLUDED.contact_name,
			updated_at = now()
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, t.ID, t.Name, t.SubscriptionID, t.ContactEmail, t.ContactName); err != nil {
		return fmt.Errorf("save tenant: %w", err)
	}
	return nil
}

func (s *Store) FindTenantByID(ctx context.Context, id string) (*models.Tenant, error) {
	query := `SELECT id, name, subscription_id, contact_email, contact_name FROM tenants WHERE id = $1`
	var t models.Tenant
	err := s.execer(ctx).QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.SubscriptionID, &t.ContactEmail, &t.ContactName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tenant %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find tenant: %w", err)
	}
	return &t, nil
}

// UpsertVerificationSnapshot keeps the latest outcome per request id.
func (s *Store) UpsertVerificationSnapshot(ctx context.Context, tenantID string, outcome models.VerificationOutcome) error {
	payload, err := json.Marshal(outcome)
	if err != nil {
		return fmt.Errorf("marshal outcome: %w", err)
	}
	var errorKind string
	if outcome.Error != nil {
		errorKind = string(outcome.Error.Kind)
	}
	warnings := outcome.Warnings()
	if warnings == nil {
		warnings = []string{}
	}

	query := `
		INSERT INTO verification_snapshots (
			request_id, tenant_id, provider_id, subject_id, status,
			verdict, error_kind, warnings, payload, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (request_id) DO UPDATE SET
			status = EXCLUDED.status,
			verdict = EXCLUDED.verdict,
			error_kind = EXCLUDED.error_kind,
			warnings = EXCLUDED.warnings,
			payload = EXCLUDED.payload,
			completed_at = EXCLUDED.completed_at
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		outcome.RequestID,
		tenantID,
		outcome.ProviderID,
		outcome.SubjectID,
		string(outcome.Status),
		string(outcome.Verdict()),
		errorKind,
		pq.Array(warnings),
		payload,
		outcome.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert verification snapshot: %w", err)
	}
	return nil
}

func (s *Store) FindVerificationSnapshot(ctx context.Context, requestID string) (*models.VerificationOutcome, error) {
	var payload []byte
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT payload FROM verification_snapshots WHERE request_id = $1`, requestID,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("verification %s: %w", requestID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find verification snapshot: %w", err)
	}
	var outcome models.VerificationOutcome
	if err := json.Unmarshal(payload, &outcome); err != nil {
		return nil, fmt.Errorf("decode verification snapshot: %w", err)
	}
	return &outcome, nil
}

func (s *Store) AppendAuditLog(ctx context.Context, entry models.AuditEntry) error {
	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}
	createdAt := entry.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	query := `
		INSERT INTO verification_audit_log (
			id, tenant_id, request_id, provider_id, subject_id,
			action, status, error_kind, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		id,
		entry.TenantID,
		entry.RequestID,
		entry.ProviderID,
		entry.SubjectID,
		entry.Action,
		string(entry.Status),
		string(entry.ErrorKind),
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// ListAuditLog returns up to limit of a tenant's entries, newest first.
func (s *Store) ListAuditLog(ctx context.Context, tenantID string, limit int) ([]models.AuditEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `
		SELECT id, tenant_id, request_id, provider_id, subject_id,
			   action, status, error_kind, created_at
		FROM verification_audit_log
		WHERE tenant_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	entries := []models.AuditEntry{}
	for rows.Next() {
		var (
			e         models.AuditEntry
			status    string
			errorKind string
		)
		if err := rows.Scan(&e.ID, &e.TenantID, &e.RequestID, &e.ProviderID, &e.SubjectID,
			&e.Action, &status, &errorKind, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.Status = models.OutcomeStatus(status)
		e.ErrorKind = models.ErrorKind(errorKind)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit log: %w", err)
	}
	return entries, nil
}

func (s *Store) SaveBatchJob(ctx context.Context, tenantID string, job *models.BatchJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal batch job: %w", err)
	}
	query := `
		INSERT INTO batch_jobs (job_id, tenant_id, total, succeeded, failed, payload)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (job_id) DO UPDATE SET
			succeeded = EXCLUDED.succeeded,
			failed = EXCLUDED.failed,
			payload = EXCLUDED.payload
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		job.JobID, tenantID, len(job.Requests), len(job.Succeeded), len(job.Failed), payload)
	if err != nil {
		return fmt.Errorf("save batch job: %w", err)
	}
	return nil
}

func (s *Store) FindBatchJob(ctx context.Context, jobID string) (*models.BatchJob, error) {
	var payload []byte
	err := s.execer(ctx).QueryRowContext(ctx, `SELECT payload FROM batch_jobs WHERE job_id = $1`, jobID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("batch job %s: %w", jobID, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find batch job: %w", err)
	}
	var job models.BatchJob
	if err := json.Unmarshal(payload, &job); err != nil {
		return nil, fmt.Errorf("decode batch job: %w", err)
	}
	return &job, nil
}

// SummarizeVerifications counts snapshots completed in [from, to).
func (s *Store) SummarizeVerifications(ctx context.Context, tenantID string, from, to time.Time) (*models.VerificationSummary, error) {
	query := `
		SELECT provider_id, status, COUNT(*)
		FROM verification_snapshots
		WHERE tenant_id = $1 AND completed_at >= $2 AND completed_at < $3
		GROUP BY provider_id, status
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, fmt.Errorf("summarize verifications: %w", err)
	}
	defer rows.Close()

	sum := &models.VerificationSummary{TenantID: tenantID, From: from, To: to, ByProvider: map[string]int{}}
	for rows.Next() {
		var (
			providerID string
			status     string
			count      int
		)
		if err := rows.Scan(&providerID, &status, &count); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		sum.Total += count
		sum.ByProvider[providerID] += count
		switch models.OutcomeStatus(status) {
		case models.OutcomeVerified:
			sum.Verified += count
		case models.OutcomePending:
			sum.Pending += count
		case models.OutcomeFailed:
			sum.Failed += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summary: %w", err)
	}
	return sum, nil
}
