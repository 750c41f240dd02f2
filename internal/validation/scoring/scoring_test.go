package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/suite"

	"veridoc/internal/domain"
)

type ScoringSuite struct {
	suite.Suite
	policy Policy
}

func (s *ScoringSuite) SetupTest() {
	s.policy = DefaultPolicy()
}

func TestScoringSuite(t *testing.T) {
	suite.Run(t, new(ScoringSuite))
}

func (s *ScoringSuite) TestOverallFormula() {
	s.Run("matches the weighted rounding formula across the input space", func() {
		for tech := 0; tech <= 100; tech += 7 {
			for format := 0; format <= 100; format += 11 {
				for coh := 0; coh <= 100; coh += 13 {
					want := int(math.Round(float64(tech)*0.30 + float64(format)*0.40 + float64(coh)*0.30))
					s.Equal(want, s.policy.Overall(tech, format, coh))
				}
			}
		}
	})

	s.Run("single-document example from the vetting flow", func() {
		// 90 technical, 100 format, no paired document yet.
		s.Equal(67, s.policy.Overall(90, 100, 0))
	})

	s.Run("alternate policy weighting", func() {
		p := Policy{TechnicalWeight: 1, FormatWeight: 0, CoherenceWeight: 0, RejectBelow: 50, ApproveAbove: 80}
		s.Equal(90, p.Overall(90, 0, 0))
	})
}

func (s *ScoringSuite) TestDecideBoundaries() {
	clean := domain.Flags{}
	tests := []struct {
		name    string
		overall int
		flags   domain.Flags
		want    domain.ValidationStatus
	}{
		{"49 is rejected", 49, clean, domain.StatusRejected},
		{"50 escapes rejection", 50, clean, domain.StatusManualReview},
		{"80 is not enough for approval", 80, clean, domain.StatusManualReview},
		{"81 with clean flags is approved", 81, clean, domain.StatusApproved},
		{"81 with a duplicate flag needs review", 81, domain.Flags{IsDuplicate: true}, domain.StatusManualReview},
		{"81 with a screenshot flag needs review", 81, domain.Flags{IsScreenshot: true}, domain.StatusManualReview},
		{"81 with an edited flag needs review", 81, domain.Flags{IsEdited: true}, domain.StatusManualReview},
		{"100 clean is approved", 100, clean, domain.StatusApproved},
		{"0 is rejected regardless of flags", 0, domain.Flags{IsDuplicate: true}, domain.StatusRejected},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.Equal(tt.want, s.policy.Decide(tt.overall, tt.flags))
		})
	}
}

// TestDeterminism: Decide is a pure function, re-runnable with the same result.
func (s *ScoringSuite) TestDeterminism() {
	flags := domain.Flags{IsEdited: true}
	first := s.policy.Decide(75, flags)
	for i := 0; i < 10; i++ {
		s.Equal(first, s.policy.Decide(75, flags))
	}
}

// TestSingleDocumentCeiling: with zero coherence the best reachable overall is
// 70, so a single-document submission can never be auto-approved.
func (s *ScoringSuite) TestSingleDocumentCeiling() {
	best := s.policy.Overall(100, 100, 0)
	s.Equal(70, best)
	s.Equal(domain.StatusManualReview, s.policy.Decide(best, domain.Flags{}))
}
