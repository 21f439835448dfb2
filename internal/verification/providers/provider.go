// Package providers defines the adapter contract shared by every external
// verification authority, plus the HTTP plumbing the adapters build on.
package providers

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"verigate/internal/verification/models"
)

// Capabilities describes what an adapter can do beyond institution lookup.
type Capabilities struct {
	Students  bool `json:"students"`
	Search    bool `json:"search"`
	Regulated bool `json:"regulated"`
}

// Provider is one external authority. Implementations are safe for
// concurrent use.
type Provider interface {
	ID() string
	Capabilities() Capabilities
	VerifyInstitution(ctx context.Context, subjectID string) (*models.CanonicalInstitution, error)
	Search(ctx context.Context, filters models.SearchFilters) (*models.Page[models.CanonicalInstitution], error)
	GetDetails(ctx context.Context, subjectID string) (*models.CanonicalInstitution, error)
	Health(ctx context.Context) error
}

// StudentVerifier is implemented by providers that publish exam results.
type StudentVerifier interface {
	VerifyStudent(ctx context.Context, q models.StudentQuery) (*models.CanonicalStudentRecord, error)
}

// StudentProvider is a Provider that also verifies exam results.
type StudentProvider interface {
	Provider
	StudentVerifier
}
