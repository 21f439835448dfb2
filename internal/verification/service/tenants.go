package service

import (
	"context"
	"strings"

	"verigate/internal/verification/models"
	"verigate/pkg/attrs"
	dErrors "verigate/pkg/domain-errors"
	"verigate/pkg/email"
)

// RegisterTenant creates or replaces a tenant. The contact email is optional
// but must be well formed when present.
func (s *Service) RegisterTenant(ctx context.Context, t models.Tenant) (*models.Tenant, error) {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.ContactEmail = strings.TrimSpace(t.ContactEmail)
	if t.ID == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}
	if t.Name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "tenant name is required")
	}
	if t.ContactEmail != "" && !email.Valid(t.ContactEmail) {
		return nil, dErrors.New(dErrors.CodeValidation, "contact_email is not a valid address")
	}
	if err := s.store.SaveTenant(ctx, t); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save tenant")
	}
	s.logger.InfoContext(ctx, "tenant registered", attrs.TenantID, t.ID)
	return &t, nil
}
