package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/errors"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/sqlite"
)

// SyncService applies bulk vocabulary replacements pushed by the system
// of record and writes an audit record for each push.
type SyncService struct {
	store    *picklist.Store
	auditlog *sqlite.Store
	logger   *logger.Logger

	// One mutex per collection serializes overlapping syncs on the same
	// type so two pushes cannot both diff against the same previous
	// snapshot.
	mu map[domain.PicklistType]*sync.Mutex
}

// NewSyncService creates a new sync service.
func NewSyncService(store *picklist.Store, auditlog *sqlite.Store, log *logger.Logger) *SyncService {
	mu := make(map[domain.PicklistType]*sync.Mutex, len(domain.AllPicklistTypes))
	for _, t := range domain.AllPicklistTypes {
		mu[t] = &sync.Mutex{}
	}
	return &SyncService{
		store:    store,
		auditlog: auditlog,
		logger:   log,
		mu:       mu,
	}
}

// SyncItem is one vocabulary record in a sync payload.
type SyncItem struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department,omitempty"`
	Family     string `json:"family,omitempty"`
}

// SyncRequest is a bulk replacement push. Absent collections are left
// untouched.
type SyncRequest struct {
	Brands     []SyncItem `json:"brands,omitempty"`
	Categories []SyncItem `json:"categories,omitempty"`
	Styles     []SyncItem `json:"styles,omitempty"`
	Attributes []SyncItem `json:"attributes,omitempty"`
}

// CollectionError reports a per-collection failure inside an otherwise
// accepted sync.
type CollectionError struct {
	Type  domain.PicklistType `json:"type"`
	Error string              `json:"error"`
}

// SyncResult is the caller-facing outcome of one sync call.
type SyncResult struct {
	SyncID    string                   `json:"sync_id"`
	Success   bool                     `json:"success"`
	Updated   []domain.PicklistType    `json:"updated"`
	Errors    []CollectionError        `json:"errors,omitempty"`
	Summaries []domain.SyncTypeSummary `json:"summaries"`
}

func (r SyncRequest) collections() map[domain.PicklistType][]SyncItem {
	out := make(map[domain.PicklistType][]SyncItem, 4)
	if r.Brands != nil {
		out[domain.PicklistTypeBrand] = r.Brands
	}
	if r.Categories != nil {
		out[domain.PicklistTypeCategory] = r.Categories
	}
	if r.Styles != nil {
		out[domain.PicklistTypeStyle] = r.Styles
	}
	if r.Attributes != nil {
		out[domain.PicklistTypeAttribute] = r.Attributes
	}
	return out
}

// validate checks the whole payload before any mutation. Item problems
// are aggregated into one error per collection; any invalid collection
// rejects the entire call.
func (s *SyncService) validate(req SyncRequest) error {
	collections := req.collections()
	if len(collections) == 0 {
		return errors.Validation("sync payload must include at least one collection")
	}

	fieldErrors := make(map[string]string)
	for _, t := range domain.AllPicklistTypes {
		items, ok := collections[t]
		if !ok {
			continue
		}
		var bad int
		for _, item := range items {
			if item.ID == "" || item.Name == "" {
				bad++
				continue
			}
			if t == domain.PicklistTypeCategory && (item.Department == "" || item.Family == "") {
				bad++
			}
		}
		if bad > 0 {
			fieldErrors[string(t)] = fmt.Sprintf("%d of %d items missing required fields", bad, len(items))
		}
	}
	if len(fieldErrors) > 0 {
		return errors.ValidationWithDetails("sync payload failed validation", fieldErrors)
	}
	return nil
}

// Sync validates and applies the push. Collections are applied
// independently; one collection's persistence failure never blocks the
// others, and the caller can retry just the failed types.
func (s *SyncService) Sync(ctx context.Context, req SyncRequest) (*SyncResult, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	collections := req.collections()
	result := &SyncResult{SyncID: uuid.NewString()}
	auditRecord := &domain.SyncLog{
		SyncID:    result.SyncID,
		Timestamp: time.Now(),
		Snapshots: make(map[domain.PicklistType][]domain.PicklistEntry, len(collections)),
	}

	for _, t := range domain.AllPicklistTypes {
		items, ok := collections[t]
		if !ok {
			continue
		}

		entries := make([]domain.PicklistEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, domain.PicklistEntry{
				ID:         item.ID,
				Name:       item.Name,
				Department: item.Department,
				Family:     item.Family,
			})
		}

		s.mu[t].Lock()
		previous, err := s.store.Replace(ctx, t, entries)
		s.mu[t].Unlock()

		summary := domain.SyncTypeSummary{Type: t, NewCount: len(entries)}
		if err != nil {
			summary.PreviousCount = len(s.store.Get(t))
			summary.Error = err.Error()
			result.Errors = append(result.Errors, CollectionError{Type: t, Error: err.Error()})
			s.logger.Error("sync failed for collection", "type", t, "error", err)
		} else {
			summary.PreviousCount = len(previous)
			summary.Added, summary.Removed = diffByID(previous, entries)
			auditRecord.Snapshots[t] = previous
			result.Updated = append(result.Updated, t)
		}
		result.Summaries = append(result.Summaries, summary)
	}

	result.Success = len(result.Errors) == 0
	auditRecord.Success = result.Success
	auditRecord.Summaries = result.Summaries

	// Audit durability is fire-and-forget: a failed audit write never
	// fails the sync that already happened.
	if err := s.auditlog.CreateSyncLog(ctx, auditRecord); err != nil {
		s.logger.Warn("failed to write sync audit record", "sync_id", result.SyncID, "error", err)
	}

	s.logger.Info("sync applied",
		"sync_id", result.SyncID,
		"updated", result.Updated,
		"errors", len(result.Errors),
	)
	return result, nil
}

// diffByID computes the pure id set-difference between two snapshots.
func diffByID(previous, next []domain.PicklistEntry) (added, removed []string) {
	prevIDs := make(map[string]struct{}, len(previous))
	for _, e := range previous {
		prevIDs[e.ID] = struct{}{}
	}
	nextIDs := make(map[string]struct{}, len(next))
	for _, e := range next {
		nextIDs[e.ID] = struct{}{}
	}

	for _, e := range next {
		if _, ok := prevIDs[e.ID]; !ok {
			added = append(added, e.ID)
		}
	}
	for _, e := range previous {
		if _, ok := nextIDs[e.ID]; !ok {
			removed = append(removed, e.ID)
		}
	}
	return added, removed
}

// Logs returns recent audit records without snapshots.
func (s *SyncService) Logs(ctx context.Context, limit int) ([]*domain.SyncLog, error) {
	return s.auditlog.ListSyncLogs(ctx, limit)
}

// Log returns one audit record including before-snapshots.
func (s *SyncService) Log(ctx context.Context, syncID string) (*domain.SyncLog, error) {
	return s.auditlog.GetSyncLog(ctx, syncID)
}
