// Package scoring folds the component scores into the overall score and maps
// it to a validation status. Pure domain logic - no I/O, no side effects -
// driven by an injected policy value so test suites can exercise alternates.
package scoring

import (
	"math"

	"veridoc/internal/domain"
)

// Policy is the scoring configuration: component weights plus the decision
// thresholds. Weights should sum to 1.
type Policy struct {
	TechnicalWeight float64
	FormatWeight    float64
	CoherenceWeight float64

	// RejectBelow: overall scores strictly below it are rejected.
	RejectBelow int
	// ApproveAbove: overall scores strictly above it with clean flags are approved.
	ApproveAbove int
}

// DefaultPolicy returns the production weighting (0.30/0.40/0.30) and the
// 50/80 decision thresholds.
func DefaultPolicy() Policy {
	return Policy{
		TechnicalWeight: 0.30,
		FormatWeight:    0.40,
		CoherenceWeight: 0.30,
		RejectBelow:     50,
		ApproveAbove:    80,
	}
}

// Overall computes round(technical*wT + format*wF + coherence*wC).
// Coherence is 0 by definition until a paired document arrives, which means a
// single-document submission cannot clear the approval threshold.
func (p Policy) Overall(technical, format, coherence int) int {
	weighted := float64(technical)*p.TechnicalWeight +
		float64(format)*p.FormatWeight +
		float64(coherence)*p.CoherenceWeight
	return int(math.Round(weighted))
}

// Decide maps an overall score and the flag set to a status. Precedence:
// rejection threshold first, then approval (which additionally requires clean
// flags), manual review otherwise. Deterministic and re-runnable.
func (p Policy) Decide(overall int, flags domain.Flags) domain.ValidationStatus {
	if overall < p.RejectBelow {
		return domain.StatusRejected
	}
	if overall > p.ApproveAbove && flags.Clean() {
		return domain.StatusApproved
	}
	return domain.StatusManualReview
}
