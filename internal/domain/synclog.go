package domain

import "time"

// SyncTypeSummary is the per-collection outcome of one bulk sync.
type SyncTypeSummary struct {
	Type          PicklistType `json:"type"`
	PreviousCount int          `json:"previous_count"`
	NewCount      int          `json:"new_count"`
	Added         []string     `json:"added,omitempty"`
	Removed       []string     `json:"removed,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// SyncLog is the immutable audit record of one bulk-sync invocation.
// Snapshots hold the full pre-sync state of each touched collection so an
// operator can roll a bad push back by hand.
type SyncLog struct {
	SyncID    string                           `json:"sync_id"`
	Timestamp time.Time                        `json:"timestamp"`
	Success   bool                             `json:"success"`
	Summaries []SyncTypeSummary                `json:"summaries"`
	Snapshots map[PicklistType][]PicklistEntry `json:"snapshots,omitempty"`
}
