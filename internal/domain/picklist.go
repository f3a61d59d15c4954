// Package domain defines the core types shared across the picklist engine.
package domain

import "strings"

// PicklistType identifies one of the four centrally-governed vocabularies.
type PicklistType string

// The four picklist collections owned by the system of record.
const (
	PicklistTypeBrand     PicklistType = "brand"
	PicklistTypeCategory  PicklistType = "category"
	PicklistTypeStyle     PicklistType = "style"
	PicklistTypeAttribute PicklistType = "attribute"
)

// AllPicklistTypes lists every collection in a stable order.
//
//nolint:gochecknoglobals // Static enumeration of the four vocabularies.
var AllPicklistTypes = []PicklistType{
	PicklistTypeBrand,
	PicklistTypeCategory,
	PicklistTypeStyle,
	PicklistTypeAttribute,
}

// ParsePicklistType converts a path/query string to a PicklistType.
// Returns false for anything outside the four known collections.
func ParsePicklistType(s string) (PicklistType, bool) {
	switch PicklistType(strings.ToLower(strings.TrimSpace(s))) {
	case PicklistTypeBrand:
		return PicklistTypeBrand, true
	case PicklistTypeCategory:
		return PicklistTypeCategory, true
	case PicklistTypeStyle:
		return PicklistTypeStyle, true
	case PicklistTypeAttribute:
		return PicklistTypeAttribute, true
	default:
		return "", false
	}
}

// IsValid reports whether t is one of the four known collections.
func (t PicklistType) IsValid() bool {
	_, ok := ParsePicklistType(string(t))
	return ok
}

// PicklistEntry is the neutral internal shape of a vocabulary member.
// Department and Family are populated for categories only; the vendor
// field names (brand_id, category_name, ...) live at the API boundary.
type PicklistEntry struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Family     string `json:"family,omitempty"`
}
