package domain

import "time"

// ResolutionAction enumerates how an unresolved value can be closed out.
type ResolutionAction string

// Resolution actions. The last two are the enrichment variants used by the
// verification pipeline when a value turns out to be wrong rather than new.
const (
	ResolutionAddedToPicklist  ResolutionAction = "added_to_picklist"
	ResolutionMappedToExisting ResolutionAction = "mapped_to_existing"
	ResolutionIgnored          ResolutionAction = "ignored"
	ResolutionValueCorrected   ResolutionAction = "value_corrected"
	ResolutionFalsePositive    ResolutionAction = "false_positive"
)

// IsValid reports whether a is a known resolution action.
func (a ResolutionAction) IsValid() bool {
	switch a {
	case ResolutionAddedToPicklist, ResolutionMappedToExisting,
		ResolutionIgnored, ResolutionValueCorrected, ResolutionFalsePositive:
		return true
	default:
		return false
	}
}

// ClosestMatch is one near-candidate captured at match-failure time.
type ClosestMatch struct {
	Value      string  `json:"value"`
	ID         string  `json:"id"`
	Similarity float64 `json:"similarity"`
}

// Resolution records the terminal action taken on a mismatch.
type Resolution struct {
	Action        ResolutionAction `json:"action"`
	ResolvedValue string           `json:"resolved_value,omitempty"`
	ResolvedBy    string           `json:"resolved_by,omitempty"`
	ResolvedAt    time.Time        `json:"resolved_at"`
}

// Mismatch is the durable, deduplicated record of a candidate string that
// could not be resolved against its vocabulary. One record exists per
// distinct (type, normalized_value, source) key; repeat observations bump
// OccurrenceCount instead of inserting. Records are never physically
// deleted - resolution is a one-time mutation, not a removal.
type Mismatch struct {
	ID              string         `json:"id"`
	Type            PicklistType   `json:"type"`
	AttemptedValue  string         `json:"attempted_value"`
	NormalizedValue string         `json:"normalized_value"`
	Similarity      float64        `json:"similarity"`
	ClosestMatches  []ClosestMatch `json:"closest_matches,omitempty"`
	OccurrenceCount int            `json:"occurrence_count"`
	FirstSeen       time.Time      `json:"first_seen"`
	LastSeen        time.Time      `json:"last_seen"`
	Source          string         `json:"source"`
	ProductContext  string         `json:"product_context,omitempty"`
	AIContext       string         `json:"ai_context,omitempty"`
	RawContext      string         `json:"raw_context,omitempty"`
	Resolved        bool           `json:"resolved"`
	Resolution      *Resolution    `json:"resolution,omitempty"`
}

// MismatchStats is the aggregate view served by the mismatch stats endpoint.
type MismatchStats struct {
	Total           int                  `json:"total"`
	Unresolved      int                  `json:"unresolved"`
	ByType          map[PicklistType]int `json:"by_type"`
	BySource        map[string]int       `json:"by_source"`
	TopUnresolved   []*Mismatch          `json:"top_unresolved"`
	NearMisses      []*Mismatch          `json:"near_misses"`
	PendingInBuffer int                  `json:"pending_in_buffer"`
}
