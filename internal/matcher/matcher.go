// Package matcher resolves free-form candidate strings against picklist
// collections using normalization, alias substitution, and Levenshtein
// similarity with per-type acceptance thresholds.
package matcher

import (
	"sort"
	"strings"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/normalize"
)

// Outcome classifies how a match attempt concluded.
type Outcome string

const (
	OutcomeExact   Outcome = "exact"
	OutcomeFuzzy   Outcome = "fuzzy"
	OutcomePartial Outcome = "partial"
	// OutcomeUnmatched means no entry cleared the threshold. Only this
	// outcome is eligible for mismatch recording.
	OutcomeUnmatched Outcome = "unmatched"
	// OutcomePrimaryAttribute means the candidate names a first-class
	// product field rather than a picklist member. Treated as matched
	// with no vocabulary entry.
	OutcomePrimaryAttribute Outcome = "primary_attribute"
	// OutcomeAttributeValue means the candidate looks like an attribute
	// value (a finish, a dimension) rather than an attribute name.
	OutcomeAttributeValue Outcome = "attribute_value"
)

// Result is the outcome of a single match attempt.
type Result struct {
	Matched     bool                  `json:"matched"`
	Outcome     Outcome               `json:"outcome"`
	Entry       *domain.PicklistEntry `json:"entry,omitempty"`
	Similarity  float64               `json:"similarity"`
	Suggestions []domain.ClosestMatch `json:"suggestions,omitempty"`
}

// ShouldRecord reports whether this result represents a genuine
// unresolved candidate worth recording as a mismatch. Guard sentinels
// and successful matches are never recorded.
func (r Result) ShouldRecord() bool {
	return r.Outcome == OutcomeUnmatched
}

// Acceptance thresholds per picklist type. Attribute names tolerate
// more variation than the other vocabularies.
var thresholds = map[domain.PicklistType]float64{
	domain.PicklistTypeBrand:     0.70,
	domain.PicklistTypeCategory:  0.70,
	domain.PicklistTypeStyle:     0.70,
	domain.PicklistTypeAttribute: 0.60,
}

// Fixed confidence assigned to substring fallback matches. Lower than
// any threshold acceptance so callers can tell the two apart.
const (
	partialConfidence          = 0.65
	partialConfidenceAttribute = 0.55
	containmentSimilarity      = 0.9
	maxSuggestions             = 3
)

// Threshold returns the acceptance threshold for a picklist type.
func Threshold(picklistType domain.PicklistType) float64 {
	return thresholds[picklistType]
}

type scoredEntry struct {
	entry      *domain.PicklistEntry
	normName   string
	similarity float64
}

// Match resolves candidate against the given collection. Entries are
// scanned in collection order; ties in similarity keep the
// first-encountered entry.
func Match(picklistType domain.PicklistType, candidate string, entries []domain.PicklistEntry) Result {
	if picklistType == domain.PicklistTypeAttribute {
		if IsPrimaryAttribute(candidate) {
			return Result{Matched: true, Outcome: OutcomePrimaryAttribute, Similarity: 1.0}
		}
		if LooksLikeValue(candidate) {
			return Result{Matched: false, Outcome: OutcomeAttributeValue}
		}
	}

	normalized := normalize.Value(picklistType, candidate)
	if normalized == "" {
		return Result{Matched: false, Outcome: OutcomeUnmatched}
	}

	// Alias substitution replaces the search term entirely, so a
	// registered alias always wins over raw similarity.
	effective := ResolveAlias(picklistType, normalized)

	scored := make([]scoredEntry, 0, len(entries))
	for i := range entries {
		entry := &entries[i]
		normName := normalize.Value(picklistType, entry.Name)

		if normName == effective {
			return Result{
				Matched:    true,
				Outcome:    OutcomeExact,
				Entry:      entry,
				Similarity: 1.0,
			}
		}

		sim := Similarity(effective, normName)
		if containsEither(effective, normName) && sim < containmentSimilarity {
			sim = containmentSimilarity
		}
		scored = append(scored, scoredEntry{entry: entry, normName: normName, similarity: sim})
	}

	if len(scored) == 0 {
		return Result{Matched: false, Outcome: OutcomeUnmatched}
	}

	// Stable sort preserves collection order among equal scores.
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].similarity > scored[j].similarity
	})

	best := scored[0]
	if best.similarity >= thresholds[picklistType] {
		return Result{
			Matched:     true,
			Outcome:     OutcomeFuzzy,
			Entry:       best.entry,
			Similarity:  best.similarity,
			Suggestions: suggestionsFrom(scored[1:]),
		}
	}

	// Substring fallback scans the pre-alias normalized candidate, so a
	// raw containment relationship can still rescue a candidate whose
	// alias target scored poorly.
	for i := range entries {
		entry := &entries[i]
		normName := normalize.Value(picklistType, entry.Name)
		if containsEither(normalized, normName) {
			confidence := partialConfidence
			if picklistType == domain.PicklistTypeAttribute {
				confidence = partialConfidenceAttribute
			}
			return Result{
				Matched:     true,
				Outcome:     OutcomePartial,
				Entry:       entry,
				Similarity:  confidence,
				Suggestions: suggestionsFrom(scored),
			}
		}
	}

	return Result{
		Matched:     false,
		Outcome:     OutcomeUnmatched,
		Similarity:  best.similarity,
		Suggestions: suggestionsFrom(scored),
	}
}

func suggestionsFrom(scored []scoredEntry) []domain.ClosestMatch {
	n := min(len(scored), maxSuggestions)
	if n == 0 {
		return nil
	}
	out := make([]domain.ClosestMatch, 0, n)
	for _, s := range scored[:n] {
		out = append(out, domain.ClosestMatch{
			Value:      s.entry.Name,
			ID:         s.entry.ID,
			Similarity: s.similarity,
		})
	}
	return out
}

func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Similarity calculates normalized Levenshtein similarity between two
// strings (0.0-1.0).
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	ra := []rune(a)
	rb := []rune(b)
	distance := levenshteinDistance(ra, rb)
	maxLen := max(len(ra), len(rb))

	return 1.0 - float64(distance)/float64(maxLen)
}

// levenshteinDistance calculates the edit distance between two rune slices.
func levenshteinDistance(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	matrix := make([][]int, len(a)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(b)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				matrix[i-1][j]+1,      // deletion
				matrix[i][j-1]+1,      // insertion
				matrix[i-1][j-1]+cost, // substitution
			)
		}
	}

	return matrix[len(a)][len(b)]
}
