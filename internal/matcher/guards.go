package matcher

import (
	"regexp"
	"strings"
)

// primaryAttributes lists attribute names that map to dedicated
// first-class product fields. These never live in the attribute
// picklist and must never be recorded as mismatches.
var primaryAttributes = map[string]struct{}{
	"brand":             {},
	"brand name":        {},
	"manufacturer":      {},
	"model number":      {},
	"model":             {},
	"sku":               {},
	"upc":               {},
	"mpn":               {},
	"product title":     {},
	"title":             {},
	"description":       {},
	"price":             {},
	"list price":        {},
	"category":          {},
	"collection":        {},
	"series":            {},
	"color":             {},
	"finish":            {},
	"weight":            {},
	"shipping weight":   {},
	"country of origin": {},
}

// valueTokens are known enumerated attribute values (finishes,
// materials, boolean-likes). Seeing one of these where an attribute
// name was expected means upstream sent a value, not a name.
var valueTokens = map[string]struct{}{
	// finishes
	"chrome":            {},
	"polished chrome":   {},
	"brushed nickel":    {},
	"polished nickel":   {},
	"satin nickel":      {},
	"matte black":       {},
	"oil rubbed bronze": {},
	"venetian bronze":   {},
	"brushed gold":      {},
	"polished brass":    {},
	"stainless":         {},
	"stainless steel":   {},
	// materials
	"cast iron":         {},
	"fireclay":          {},
	"porcelain":         {},
	"vitreous china":    {},
	"acrylic":           {},
	"copper":            {},
	"granite composite": {},
	"brass":             {},
	"pvc":               {},
	// boolean-likes and placeholders
	"yes":          {},
	"no":           {},
	"true":         {},
	"false":        {},
	"n/a":          {},
	"none":         {},
	"standard":     {},
	"optional":     {},
	"included":     {},
	"not included": {},
}

// bareDimensionPattern matches values that are just a measurement,
// like "24 inches", "1.5 gpm", or "30 x 20 in".
var bareDimensionPattern = regexp.MustCompile(
	`^\d+(\.\d+)?(\s*[x×]\s*\d+(\.\d+)?)*\s*("|''|in|inch|inches|cm|mm|ft|feet|gpm|gpf|lb|lbs|kg|gal|gallons|watts?|volts?|amps?)?\.?$`)

// IsPrimaryAttribute reports whether the candidate names a first-class
// product field. Both display names ("Model Number") and snake_case
// field keys ("model_number") are recognized.
func IsPrimaryAttribute(candidate string) bool {
	key := strings.ToLower(strings.TrimSpace(candidate))
	key = strings.ReplaceAll(key, "_", " ")
	_, ok := primaryAttributes[key]
	return ok
}

// LooksLikeValue reports whether the candidate is an attribute value
// rather than an attribute name.
func LooksLikeValue(candidate string) bool {
	s := strings.ToLower(strings.TrimSpace(candidate))
	if s == "" {
		return false
	}
	if _, ok := valueTokens[s]; ok {
		return true
	}
	return bareDimensionPattern.MatchString(s)
}
