// Package coherence compares identity fields extracted from the two documents
// of one submission. The check is symmetric and advisory: issues are surfaced
// to reviewers, only the score feeds the aggregation.
package coherence

import (
	"strings"

	"veridoc/internal/domain"
)

// Result carries the coherence score and any advisory findings.
type Result struct {
	Score  int
	Issues []string
}

// Check compares dates of birth (50 points, exact string equality) and name
// candidate overlap (50 points, case-insensitive). A document missing a field
// simply leaves that half of the score unawarded.
func Check(a, b domain.ExtractedFields) Result {
	var r Result

	switch {
	case a.DateOfBirth == "" || b.DateOfBirth == "":
		r.Issues = append(r.Issues, "date of birth missing on one document")
	case a.DateOfBirth == b.DateOfBirth:
		r.Score += 50
	default:
		r.Issues = append(r.Issues, "date of birth differs between documents")
	}

	switch {
	case len(a.Names) == 0 || len(b.Names) == 0:
		r.Issues = append(r.Issues, "name candidates missing on one document")
	case namesOverlap(a.Names, b.Names):
		r.Score += 50
	default:
		r.Issues = append(r.Issues, "no shared name found between documents")
	}

	return r
}

func namesOverlap(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, name := range a {
		set[strings.ToUpper(strings.TrimSpace(name))] = struct{}{}
	}
	for _, name := range b {
		if _, ok := set[strings.ToUpper(strings.TrimSpace(name))]; ok {
			return true
		}
	}
	return false
}
