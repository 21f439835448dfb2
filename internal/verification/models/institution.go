package models

import (
	"fmt"
	"time"
)

// CanonicalInstitution is the provider-independent snapshot of an institution
// or school. Values are never mutated after construction; re-verification
// produces a new snapshot.
type CanonicalInstitution struct {
	InstitutionID      string             `json:"institution_id"`
	ProviderID         string             `json:"provider_id"`
	Name               string             `json:"name"`
	Address            Address            `json:"address"`
	EstablishmentYear  int                `json:"establishment_year,omitempty"`
	Regulated          bool               `json:"regulated"`
	VerificationStatus VerificationStatus `json:"verification_status"`
	Approval           Approval           `json:"approval"`
	Programs           []Program          `json:"programs"`
	Warnings           []string           `json:"warnings"`
	Recommendations    []string           `json:"recommendations"`
	LastVerifiedAt     time.Time          `json:"last_verified_at"`
}

// NewCanonicalInstitution finalizes a mapped snapshot at time now.
// A verified record whose approval has lapsed is reported as expired.
func NewCanonicalInstitution(in CanonicalInstitution, now time.Time) *CanonicalInstitution {
	out := in
	out.Programs = cloneOrEmpty(in.Programs)
	out.Warnings = cloneOrEmpty(in.Warnings)
	out.Recommendations = cloneOrEmpty(in.Recommendations)
	if out.VerificationStatus == "" {
		out.VerificationStatus = StatusUnverified
	}

	if out.VerificationStatus == StatusVerified && !approvalCurrent(out.Approval, now) {
		out.VerificationStatus = StatusExpired
		out.Warnings = append(out.Warnings,
			fmt.Sprintf("approval expired on %s", out.Approval.ExpiresAt.Format(time.DateOnly)))
		out.Recommendations = append(out.Recommendations, "Request renewed approval from the authority")
	}
	out.LastVerifiedAt = now
	return &out
}

// IsApproved reports whether the snapshot is verified and its approval is current at now.
func (c *CanonicalInstitution) IsApproved(now time.Time) bool {
	return c.VerificationStatus == StatusVerified && approvalCurrent(c.Approval, now)
}

// TotalApprovedIntake sums intake over approved programs.
func (c *CanonicalInstitution) TotalApprovedIntake() int {
	total := 0
	for _, p := range c.Programs {
		if p.Approved {
			total += p.Intake
		}
	}
	return total
}

func approvalCurrent(a Approval, now time.Time) bool {
	return a.ExpiresAt == nil || now.Before(*a.ExpiresAt)
}

func cloneOrEmpty[T any](in []T) []T {
	out := make([]T, len(in))
	copy(out, in)
	return out
}
