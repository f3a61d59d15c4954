// Package normalize provides utilities for normalizing vocabulary values
// before comparison and storage.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
)

// Value normalizes a raw value for comparison according to its picklist
// type. Brand names are uppercased with diacritics stripped so that
// "Café" and "CAFE" compare equal; all other types are lowercased.
func Value(picklistType domain.PicklistType, raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if picklistType == domain.PicklistTypeBrand {
		return strings.ToUpper(StripDiacritics(s))
	}
	return strings.ToLower(s)
}

// StripDiacritics decomposes a string to NFD form and removes combining
// marks, so accented characters fold to their base letters.
func StripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// DedupKey produces the canonical form used to deduplicate recorded
// mismatches. It lowercases, trims, collapses runs of whitespace to a
// single space, and strips characters other than letters, digits,
// underscores, spaces, and hyphens. "Stainless  Steel!" and
// "stainless steel" produce the same key.
func DedupKey(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))

	var b strings.Builder
	b.Grow(len(s))
	lastWasSpace := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			if !lastWasSpace && b.Len() > 0 {
				b.WriteByte(' ')
				lastWasSpace = true
			}
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-':
			b.WriteRune(r)
			lastWasSpace = false
		default:
			// drop punctuation and symbols
		}
	}
	return strings.TrimRight(b.String(), " ")
}

// CollapseWhitespace trims a string and replaces interior whitespace
// runs with single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
