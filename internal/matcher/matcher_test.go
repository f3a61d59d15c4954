package matcher

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
)

func brandEntries() []domain.PicklistEntry {
	return []domain.PicklistEntry{
		{ID: "B1", Name: "KOHLER"},
		{ID: "B2", Name: "MOEN"},
		{ID: "B3", Name: "DELTA"},
		{ID: "B4", Name: "AMERICAN STANDARD"},
	}
}

func categoryEntries() []domain.PicklistEntry {
	return []domain.PicklistEntry{
		{ID: "C1", Name: "Kitchen Faucet", Department: "Plumbing", Family: "Faucets"},
		{ID: "C2", Name: "Bathroom Faucet", Department: "Plumbing", Family: "Faucets"},
		{ID: "C3", Name: "Range", Department: "Appliances", Family: "Cooking"},
		{ID: "C4", Name: "Toilet", Department: "Plumbing", Family: "Fixtures"},
	}
}

func TestMatchExact(t *testing.T) {
	tests := []struct {
		name      string
		typ       domain.PicklistType
		candidate string
		entries   []domain.PicklistEntry
		wantID    string
	}{
		{"same case", domain.PicklistTypeBrand, "KOHLER", brandEntries(), "B1"},
		{"lower case", domain.PicklistTypeBrand, "kohler", brandEntries(), "B1"},
		{"mixed case", domain.PicklistTypeBrand, "Kohler", brandEntries(), "B1"},
		{"surrounding space", domain.PicklistTypeBrand, "  Moen  ", brandEntries(), "B2"},
		{"brand accent variant", domain.PicklistTypeBrand, "Köhler", brandEntries(), "B1"},
		{"category case fold", domain.PicklistTypeCategory, "KITCHEN FAUCET", categoryEntries(), "C1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Match(tt.typ, tt.candidate, tt.entries)
			require.True(t, result.Matched)
			assert.Equal(t, OutcomeExact, result.Outcome)
			assert.Equal(t, tt.wantID, result.Entry.ID)
			assert.Equal(t, 1.0, result.Similarity)
		})
	}
}

func TestMatchFuzzy(t *testing.T) {
	// "Kohlar" vs "KOHLER": distance 1 over length 6.
	result := Match(domain.PicklistTypeBrand, "Kohlar", brandEntries())

	require.True(t, result.Matched)
	assert.Equal(t, OutcomeFuzzy, result.Outcome)
	assert.Equal(t, "B1", result.Entry.ID)
	assert.InDelta(t, 1.0-1.0/6.0, result.Similarity, 1e-9)
}

func TestMatchThresholdBoundary(t *testing.T) {
	entries := []domain.PicklistEntry{{ID: "S1", Name: "0123456789"}}

	// Distance 3 over length 10 gives exactly 0.70.
	atThreshold := Match(domain.PicklistTypeStyle, "0123456xxx", entries)
	require.True(t, atThreshold.Matched)
	assert.Equal(t, OutcomeFuzzy, atThreshold.Outcome)
	assert.InDelta(t, 0.70, atThreshold.Similarity, 1e-9)

	// Distance 4 gives 0.60, below the style threshold, and no
	// substring relationship exists to rescue it.
	below := Match(domain.PicklistTypeStyle, "012345xxxx", entries)
	assert.False(t, below.Matched)
	assert.Equal(t, OutcomeUnmatched, below.Outcome)
}

func TestMatchAttributeThresholdLower(t *testing.T) {
	entries := []domain.PicklistEntry{{ID: "A1", Name: "0123456789"}}

	// 0.60 clears the attribute threshold but not the style one.
	result := Match(domain.PicklistTypeAttribute, "012345xxxx", entries)
	require.True(t, result.Matched)
	assert.Equal(t, OutcomeFuzzy, result.Outcome)
	assert.InDelta(t, 0.60, result.Similarity, 1e-9)
}

func TestMatchContainment(t *testing.T) {
	entries := []domain.PicklistEntry{{ID: "C1", Name: "Faucet"}}

	result := Match(domain.PicklistTypeCategory, "Faucet Deluxe Pro Series XL", entries)
	require.True(t, result.Matched)
	assert.Equal(t, OutcomeFuzzy, result.Outcome)
	assert.InDelta(t, 0.9, result.Similarity, 1e-9)
}

func TestMatchAliasPrecedence(t *testing.T) {
	entries := []domain.PicklistEntry{
		{ID: "A1", Name: "Drain Placement"},
		{ID: "A2", Name: "Drain Position Sensor"},
	}

	// Raw similarity would favor "Drain Position Sensor", but the
	// registered alias redirects scoring to "Drain Placement".
	result := Match(domain.PicklistTypeAttribute, "Drain Position", entries)
	require.True(t, result.Matched)
	assert.Equal(t, "A1", result.Entry.ID)
	assert.Equal(t, OutcomeExact, result.Outcome)
}

func TestMatchCategoryAlias(t *testing.T) {
	result := Match(domain.PicklistTypeCategory, "Gas Range", categoryEntries())

	require.True(t, result.Matched)
	assert.Equal(t, "C3", result.Entry.ID)
	assert.Equal(t, 1.0, result.Similarity)
}

func TestMatchPartialFallback(t *testing.T) {
	// "commode" aliases to "toilet", which scores poorly against the
	// only entry, but the raw candidate is contained in its name.
	result := Match(domain.PicklistTypeCategory, "Commode", []domain.PicklistEntry{
		{ID: "C9", Name: "Commode Seat", Department: "Plumbing", Family: "Fixtures"},
	})
	require.True(t, result.Matched)
	assert.Equal(t, OutcomePartial, result.Outcome)
	assert.Equal(t, "C9", result.Entry.ID)
	assert.Equal(t, 0.65, result.Similarity)
}

func TestMatchPartialFallbackAttributeConfidence(t *testing.T) {
	// "ada" aliases to "ada compliant"; the alias target misses the
	// threshold but the raw candidate is a substring of the entry.
	result := Match(domain.PicklistTypeAttribute, "ada", []domain.PicklistEntry{
		{ID: "A1", Name: "Ada Height"},
	})
	require.True(t, result.Matched)
	assert.Equal(t, OutcomePartial, result.Outcome)
	assert.Equal(t, "A1", result.Entry.ID)
	assert.Equal(t, 0.55, result.Similarity)
}

func TestMatchPrimaryAttributeSentinel(t *testing.T) {
	for _, candidate := range []string{"Model Number", "model_number", "SKU", "country of origin"} {
		result := Match(domain.PicklistTypeAttribute, candidate, nil)
		assert.True(t, result.Matched, "candidate %q", candidate)
		assert.Equal(t, OutcomePrimaryAttribute, result.Outcome, "candidate %q", candidate)
		assert.Nil(t, result.Entry)
		assert.False(t, result.ShouldRecord(), "candidate %q", candidate)
	}
}

func TestMatchValueSentinel(t *testing.T) {
	for _, candidate := range []string{"Brushed Nickel", "24 inches", "1.5 gpm", "yes", "30 x 20 in"} {
		result := Match(domain.PicklistTypeAttribute, candidate, nil)
		assert.False(t, result.Matched, "candidate %q", candidate)
		assert.Equal(t, OutcomeAttributeValue, result.Outcome, "candidate %q", candidate)
		assert.False(t, result.ShouldRecord(), "candidate %q", candidate)
	}
}

func TestMatchUnmatchedSuggestions(t *testing.T) {
	result := Match(domain.PicklistTypeCategory, "Random Category", categoryEntries())

	assert.False(t, result.Matched)
	assert.Equal(t, OutcomeUnmatched, result.Outcome)
	assert.True(t, result.ShouldRecord())
	require.LessOrEqual(t, len(result.Suggestions), 3)
	require.NotEmpty(t, result.Suggestions)
	for i := 1; i < len(result.Suggestions); i++ {
		assert.GreaterOrEqual(t, result.Suggestions[i-1].Similarity, result.Suggestions[i].Similarity)
	}
}

func TestMatchTieBreakKeepsCollectionOrder(t *testing.T) {
	entries := []domain.PicklistEntry{
		{ID: "S1", Name: "abcx"},
		{ID: "S2", Name: "abcy"},
	}

	// Both entries are distance 1 from the candidate.
	result := Match(domain.PicklistTypeStyle, "abcz", entries)
	require.True(t, result.Matched)
	assert.Equal(t, "S1", result.Entry.ID)
}

func TestMatchEmptyCandidate(t *testing.T) {
	result := Match(domain.PicklistTypeBrand, "   ", brandEntries())
	assert.False(t, result.Matched)
	assert.Equal(t, OutcomeUnmatched, result.Outcome)
	assert.Zero(t, result.Similarity)
}

func TestMatchEmptyCollection(t *testing.T) {
	result := Match(domain.PicklistTypeBrand, "Kohler", nil)
	assert.False(t, result.Matched)
	assert.Empty(t, result.Suggestions)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"kohler", "kohler", 1.0},
		{"kohler", "kohlar", 1.0 - 1.0/6.0},
		{"", "kohler", 0.0},
		{"kohler", "", 0.0},
		{"abc", "xyz", 0.0},
	}

	for _, tt := range tests {
		got := Similarity(tt.a, tt.b)
		if math.Abs(got-tt.expected) > 1e-9 {
			t.Errorf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.expected)
		}
	}
}

func TestLooksLikeValue(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"Brushed Nickel", true},
		{"stainless steel", true},
		{"N/A", true},
		{"24 inches", true},
		{"1.5 gpm", true},
		{"30 x 20 in", true},
		{"42", true},
		{"Flow Rate", false},
		{"Mount Type", false},
		{"", false},
	}

	for _, tt := range tests {
		if got := LooksLikeValue(tt.input); got != tt.expected {
			t.Errorf("LooksLikeValue(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}
