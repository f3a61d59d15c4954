package matcher

import "github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"

// categoryAliases maps normalized candidate forms to the canonical
// category name they should be scored against. Vendors and AI output
// routinely use fuel-specific or colloquial names for categories the
// system of record keeps generic.
var categoryAliases = map[string]string{
	"gas range":           "range",
	"electric range":      "range",
	"dual fuel range":     "range",
	"gas cooktop":         "cooktop",
	"electric cooktop":    "cooktop",
	"induction cooktop":   "cooktop",
	"range hood":          "ventilation hood",
	"vent hood":           "ventilation hood",
	"fridge":              "refrigerator",
	"commode":             "toilet",
	"water closet":        "toilet",
	"bath faucet":         "bathroom faucet",
	"lav faucet":          "bathroom faucet",
	"lavatory faucet":     "bathroom faucet",
	"kitchen sink faucet": "kitchen faucet",
	"shower trim":         "shower faucet",
	"light fixture":       "lighting",
	"hot water heater":    "water heater",
}

// attributeAliases maps normalized attribute-name variants to the
// canonical attribute name in the picklist.
var attributeAliases = map[string]string{
	"installation type":  "mount type",
	"install type":       "mount type",
	"mounting type":      "mount type",
	"drain position":     "drain placement",
	"drain location":     "drain placement",
	"number of handles":  "handle count",
	"handle type":        "handle style",
	"flow rate gpm":      "flow rate",
	"water flow rate":    "flow rate",
	"gallons per flush":  "flush rate",
	"water consumption":  "flush rate",
	"bowl configuration": "bowl shape",
	"spout reach":        "spout length",
	"power source":       "fuel type",
	"ada":                "ada compliant",
	"ada approved":       "ada compliant",
}

// ResolveAlias substitutes a registered alias target for the normalized
// candidate. Only category and attribute names carry aliases; brands
// and styles are matched as given.
func ResolveAlias(picklistType domain.PicklistType, normalized string) string {
	var aliases map[string]string
	switch picklistType {
	case domain.PicklistTypeCategory:
		aliases = categoryAliases
	case domain.PicklistTypeAttribute:
		aliases = attributeAliases
	default:
		return normalized
	}

	if target, ok := aliases[normalized]; ok {
		return target
	}
	return normalized
}
