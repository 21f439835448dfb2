// Package contract holds the behavioral checks every provider adapter must
// pass. Adapter tests call Run with a fixture wired to a fake server.
package contract

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"verigate/internal/verification/models"
	"verigate/internal/verification/providers"
	"verigate/internal/verification/providers/providertest"
	"verigate/internal/verification/resilience"
)

// Fixture describes one adapter under test.
type Fixture struct {
	Provider  providers.Provider
	Server    *providertest.Server
	SubjectID string

	// VerifyPath is the route VerifyInstitution calls for SubjectID.
	VerifyPath string

	// Bodies served on VerifyPath for each scenario.
	EmptyBody         string
	UnknownStatusBody string
	ApprovedBody      string
	// ExpiredApprovalBody is an approved record whose expiry is in the past.
	// Leave blank when the provider publishes no expiry.
	ExpiredApprovalBody string
	// MissingKeyBody is a non-empty body without the identifying key.
	MissingKeyBody string
	// PartialBody carries the identifying key but no status field.
	PartialBody string
	// UnreadableExpiryBody is an approved record whose expiry date cannot
	// be parsed. Leave blank when the provider publishes no expiry.
	UnreadableExpiryBody string

	// HealthPath is the route Health calls.
	HealthPath string
}

// Run executes the adapter contract.
func Run(t *testing.T, newFixture func(t *testing.T) Fixture) {
	t.Helper()

	verify := func(t *testing.T, f Fixture, body string) (*models.CanonicalInstitution, error) {
		t.Helper()
		f.Server.Handle(http.MethodGet, f.VerifyPath, http.StatusOK, body)
		return f.Provider.VerifyInstitution(context.Background(), f.SubjectID)
	}

	t.Run("empty body is pending, never verified", func(t *testing.T) {
		f := newFixture(t)
		inst, err := verify(t, f, f.EmptyBody)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, inst.VerificationStatus)
		assert.NotEmpty(t, inst.Warnings)
	})

	t.Run("unknown status is unverified with warning", func(t *testing.T) {
		f := newFixture(t)
		inst, err := verify(t, f, f.UnknownStatusBody)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnverified, inst.VerificationStatus)
		assert.NotEmpty(t, inst.Warnings)
	})

	t.Run("approved record is verified", func(t *testing.T) {
		f := newFixture(t)
		inst, err := verify(t, f, f.ApprovedBody)
		require.NoError(t, err)
		assert.Equal(t, models.StatusVerified, inst.VerificationStatus)
		assert.Equal(t, f.Provider.ID(), inst.ProviderID)
		assert.True(t, inst.IsApproved(time.Now()))
	})

	t.Run("lapsed approval is expired", func(t *testing.T) {
		f := newFixture(t)
		if f.ExpiredApprovalBody == "" {
			t.Skip("provider publishes no approval expiry")
		}
		inst, err := verify(t, f, f.ExpiredApprovalBody)
		require.NoError(t, err)
		assert.Equal(t, models.StatusExpired, inst.VerificationStatus)
	})

	t.Run("partial body is pending, never verified", func(t *testing.T) {
		f := newFixture(t)
		require.NotEmpty(t, f.PartialBody)
		inst, err := verify(t, f, f.PartialBody)
		require.NoError(t, err)
		assert.Equal(t, models.StatusPending, inst.VerificationStatus)
		assert.Contains(t, inst.Warnings, providers.WarnEmptyResponse)
		assert.False(t, inst.IsApproved(time.Now()))
	})

	t.Run("unreadable expiry is never verified", func(t *testing.T) {
		f := newFixture(t)
		if f.UnreadableExpiryBody == "" {
			t.Skip("provider publishes no approval expiry")
		}
		inst, err := verify(t, f, f.UnreadableExpiryBody)
		require.NoError(t, err)
		assert.Equal(t, models.StatusUnverified, inst.VerificationStatus)
		assert.Nil(t, inst.Approval.ExpiresAt)
		assert.NotEmpty(t, inst.Warnings)
	})

	t.Run("missing identifying key is a normalization error", func(t *testing.T) {
		f := newFixture(t)
		if f.MissingKeyBody == "" {
			t.Skip("no identifying key in payload")
		}
		_, err := verify(t, f, f.MissingKeyBody)
		require.Error(t, err)
		assert.Equal(t, models.KindNormalization, models.ErrorKindOf(err))
	})

	t.Run("normalization is idempotent", func(t *testing.T) {
		f := newFixture(t)
		first, err := verify(t, f, f.ApprovedBody)
		require.NoError(t, err)
		second, err := verify(t, f, f.ApprovedBody)
		require.NoError(t, err)

		a, b := *first, *second
		a.LastVerifiedAt, b.LastVerifiedAt = time.Time{}, time.Time{}
		assert.Equal(t, a, b)
	})

	t.Run("404 is reported as not found", func(t *testing.T) {
		f := newFixture(t)
		f.Server.Handle(http.MethodGet, f.VerifyPath, http.StatusNotFound, `{"error":"not found"}`)
		_, err := f.Provider.VerifyInstitution(context.Background(), f.SubjectID)
		require.Error(t, err)
		assert.True(t, providers.IsNotFound(err))
	})

	t.Run("health calls the provider", func(t *testing.T) {
		f := newFixture(t)
		require.NotEmpty(t, f.HealthPath)
		f.Server.Handle(http.MethodGet, f.HealthPath, http.StatusOK, `{}`)
		require.NoError(t, f.Provider.Health(context.Background()))

		f.Server.Handle(http.MethodGet, f.HealthPath, http.StatusServiceUnavailable, `{}`)
		err := f.Provider.Health(context.Background())
		require.Error(t, err, "a cached credential does not make an unreachable provider healthy")
		assert.Equal(t, http.StatusServiceUnavailable, resilience.StatusCode(err))
		assert.Equal(t, 2, f.Server.Hits(http.MethodGet, f.HealthPath))
	})
}
