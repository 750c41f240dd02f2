package coherence

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"veridoc/internal/domain"
)

type CoherenceSuite struct {
	suite.Suite
}

func TestCoherenceSuite(t *testing.T) {
	suite.Run(t, new(CoherenceSuite))
}

func (s *CoherenceSuite) TestCheck() {
	tests := []struct {
		name       string
		a, b       domain.ExtractedFields
		wantScore  int
		wantIssues int
	}{
		{
			name:      "matching birth date and shared name",
			a:         domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"MARTIN", "JEAN"}},
			b:         domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"MARTIN"}},
			wantScore: 100,
		},
		{
			name:       "birth date mismatch",
			a:          domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"MARTIN"}},
			b:          domain.ExtractedFields{DateOfBirth: "13/03/1985", Names: []string{"MARTIN"}},
			wantScore:  50,
			wantIssues: 1,
		},
		{
			name:       "no shared name",
			a:          domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"MARTIN"}},
			b:          domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"DUPONT"}},
			wantScore:  50,
			wantIssues: 1,
		},
		{
			name:       "missing birth date leaves that half unscored",
			a:          domain.ExtractedFields{Names: []string{"MARTIN"}},
			b:          domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"MARTIN"}},
			wantScore:  50,
			wantIssues: 1,
		},
		{
			name:       "missing names leave that half unscored",
			a:          domain.ExtractedFields{DateOfBirth: "12/03/1985"},
			b:          domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"MARTIN"}},
			wantScore:  50,
			wantIssues: 1,
		},
		{
			name:       "both empty",
			a:          domain.ExtractedFields{},
			b:          domain.ExtractedFields{},
			wantScore:  0,
			wantIssues: 2,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			r := Check(tt.a, tt.b)
			s.Equal(tt.wantScore, r.Score)
			s.Len(r.Issues, tt.wantIssues)
		})
	}
}

// TestSymmetry: checkCoherence(A,B) == checkCoherence(B,A) for the score.
func (s *CoherenceSuite) TestSymmetry() {
	pairs := []struct {
		a, b domain.ExtractedFields
	}{
		{
			a: domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"MARTIN", "JEAN"}},
			b: domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"JEAN"}},
		},
		{
			a: domain.ExtractedFields{DateOfBirth: "01/01/2000"},
			b: domain.ExtractedFields{Names: []string{"DUPONT"}},
		},
		{
			a: domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"martin"}},
			b: domain.ExtractedFields{DateOfBirth: "13/03/1985", Names: []string{"MARTIN"}},
		},
	}

	for _, p := range pairs {
		s.Equal(Check(p.a, p.b).Score, Check(p.b, p.a).Score)
	}
}

func (s *CoherenceSuite) TestNameMatchingIsCaseInsensitive() {
	r := Check(
		domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"Martin"}},
		domain.ExtractedFields{DateOfBirth: "12/03/1985", Names: []string{"MARTIN"}},
	)
	s.Equal(100, r.Score)
}
