package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"verigate/internal/gateways/documents"
	"verigate/internal/verification/models"
	"verigate/pkg/attrs"
	dErrors "verigate/pkg/domain-errors"
)

// MaxEvidenceURLTTL is the longest lifetime of a presigned download link.
const MaxEvidenceURLTTL = 7 * 24 * time.Hour

// AttachEvidence stores a document against an existing verification of tenantID.
func (s *Service) AttachEvidence(ctx context.Context, tenantID, requestID string, content []byte, meta documents.Metadata) (documents.Stored, error) {
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return documents.Stored{}, err
	}
	if _, err := s.store.FindVerificationSnapshot(ctx, requestID); err != nil {
		return documents.Stored{}, translate(err, "verification not found")
	}

	meta.TenantID = tenant.ID
	meta.RequestID = requestID
	stored, err := s.documents.Upload(ctx, content, meta)
	if err != nil {
		return documents.Stored{}, translate(err, "failed to store document")
	}

	s.logger.InfoContext(ctx, "evidence attached",
		attrs.TenantID, tenant.ID,
		attrs.RequestID, requestID,
		attrs.DocumentID, stored.DocumentID,
	)
	s.auditDocument(ctx, tenant.ID, requestID, stored.DocumentID, ActionEvidenceAttached)
	return stored, nil
}

// EvidenceURL returns a time-limited download link.
func (s *Service) EvidenceURL(ctx context.Context, documentID string, ttl time.Duration) (string, error) {
	if documentID == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "document id is required")
	}
	if ttl < 0 || ttl > MaxEvidenceURLTTL {
		return "", dErrors.New(dErrors.CodeValidation, "ttl must be between 0 and 168h")
	}
	u, err := s.documents.GetDownloadURL(ctx, documentID, ttl)
	if err != nil {
		return "", translate(err, "document not found")
	}
	return u, nil
}

// DeleteEvidence removes a document. Unknown ids are reported as not found.
func (s *Service) DeleteEvidence(ctx context.Context, tenantID, documentID string) error {
	if documentID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "document id is required")
	}
	deleted, err := s.documents.Delete(ctx, documentID)
	if err != nil {
		return translate(err, "failed to delete document")
	}
	if !deleted {
		return dErrors.New(dErrors.CodeNotFound, "document not found")
	}
	if tenantID != "" {
		s.auditDocument(ctx, tenantID, "", documentID, ActionEvidenceDeleted)
	}
	return nil
}

func (s *Service) auditDocument(ctx context.Context, tenantID, requestID, documentID, action string) {
	entry := models.AuditEntry{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		RequestID: requestID,
		SubjectID: documentID,
		Action:    action,
		CreatedAt: s.now(),
	}
	if err := s.store.AppendAuditLog(context.WithoutCancel(ctx), entry); err != nil {
		s.sideEffectFailed(ctx, "audit", err, attrs.DocumentID, documentID)
	}
}
