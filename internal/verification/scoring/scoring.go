// Package scoring recommends a subscription tier from a verified entity.
package scoring

import (
	"fmt"

	"verigate/internal/verification/models"
)

// Intake at or above this is the statutory large-institution threshold.
const statutoryIntake = 1500

// Score derives a tier from program count, approved intake, regulation and
// verification status. Every factor that adds to the score explains itself.
func Score(entity models.CanonicalInstitution) models.TierRecommendation {
	var (
		score     int
		reasoning []string
	)
	add := func(points int, reason string) {
		score += points
		reasoning = append(reasoning, reason)
	}

	if entity.Regulated {
		add(1, "Institution is overseen by a statutory regulator")
	}

	switch n := len(entity.Programs); {
	case n >= 10:
		add(3, fmt.Sprintf("Large number of programs (%d) suggests enterprise needs", n))
	case n >= 5:
		add(2, fmt.Sprintf("Multiple programs (%d) indicate growth potential", n))
	default:
		add(1, fmt.Sprintf("Small program portfolio (%d)", n))
	}

	intake := entity.TotalApprovedIntake()
	switch {
	case intake >= 3000:
		add(3, fmt.Sprintf("High student intake (%d) requires enterprise capacity", intake))
	case intake >= 500:
		add(2, fmt.Sprintf("Standard intake (%d) fits growth tier", intake))
	default:
		add(1, fmt.Sprintf("Modest intake (%d)", intake))
	}
	if intake >= statutoryIntake {
		add(1, fmt.Sprintf("Approved intake meets the %d statutory threshold and benefits from scale features", statutoryIntake))
	}

	if entity.VerificationStatus == models.StatusVerified {
		add(1, "Institution is verified with its authority")
	}

	var tier models.Tier
	switch {
	case score >= 8:
		tier = models.TierEnterprise
		reasoning = append(reasoning, "Enterprise tier recommended for high complexity operations")
	case score >= 5:
		tier = models.TierScale
		reasoning = append(reasoning, "Scale tier recommended for growing institutions")
	case score >= 3:
		tier = models.TierGrowth
		reasoning = append(reasoning, "Growth tier recommended for established institutions")
	default:
		tier = models.TierStarter
		reasoning = append(reasoning, "Starter tier sufficient for current needs")
	}

	return models.TierRecommendation{RecommendedTier: tier, Score: score, Reasoning: reasoning}
}
