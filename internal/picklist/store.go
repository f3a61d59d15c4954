// Package picklist holds the in-memory vocabulary snapshots and
// coordinates durable persistence for vocabulary mutations.
package picklist

import (
	"context"
	"strings"
	"sync"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/errors"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
)

// Storage persists vocabulary collections durably.
type Storage interface {
	// LoadAll reads every persisted collection. Types with no persisted
	// data are absent from the returned map.
	LoadAll(ctx context.Context) (map[domain.PicklistType][]domain.PicklistEntry, error)
	// Save durably replaces one collection.
	Save(ctx context.Context, picklistType domain.PicklistType, entries []domain.PicklistEntry) error
}

// Store owns the current vocabulary truth. Reads return the live
// snapshot slice; mutations persist durably first and then install a
// fresh slice under the write lock, so concurrent readers always see
// either the old or the new collection in full.
type Store struct {
	mu          sync.RWMutex
	collections map[domain.PicklistType][]domain.PicklistEntry

	storage Storage
	logger  *logger.Logger
}

// New creates an empty store backed by the given storage.
func New(storage Storage, log *logger.Logger) *Store {
	return &Store{
		collections: make(map[domain.PicklistType][]domain.PicklistEntry),
		storage:     storage,
		logger:      log,
	}
}

// Load reads all collections from durable storage, replacing whatever
// is currently in memory.
func (s *Store) Load(ctx context.Context) error {
	loaded, err := s.storage.LoadAll(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to load picklists")
	}

	collections := make(map[domain.PicklistType][]domain.PicklistEntry, len(domain.AllPicklistTypes))
	for _, t := range domain.AllPicklistTypes {
		collections[t] = loaded[t]
	}

	s.mu.Lock()
	s.collections = collections
	s.mu.Unlock()

	for _, t := range domain.AllPicklistTypes {
		s.logger.Debug("picklist loaded", "type", t, "count", len(collections[t]))
	}
	return nil
}

// Get returns the current snapshot for a type. Callers must treat the
// returned slice as read-only.
func (s *Store) Get(picklistType domain.PicklistType) []domain.PicklistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collections[picklistType]
}

// Counts reports the size of each collection.
func (s *Store) Counts() map[domain.PicklistType]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.PicklistType]int, len(s.collections))
	for t, entries := range s.collections {
		counts[t] = len(entries)
	}
	return counts
}

// Replace atomically swaps one collection for a new one, returning the
// previous snapshot for diffing. The new collection is persisted before
// the in-memory swap; on persistence failure the store is unchanged.
func (s *Store) Replace(ctx context.Context, picklistType domain.PicklistType, entries []domain.PicklistEntry) ([]domain.PicklistEntry, error) {
	if err := s.storage.Save(ctx, picklistType, entries); err != nil {
		return nil, errors.Wrapf(err, errors.CodeInternal, "failed to persist %s picklist", picklistType)
	}

	s.mu.Lock()
	previous := s.collections[picklistType]
	s.collections[picklistType] = entries
	s.mu.Unlock()

	s.logger.Info("picklist replaced",
		"type", picklistType,
		"previous_count", len(previous),
		"new_count", len(entries),
	)
	return previous, nil
}

// Add appends one entry to a collection, enforcing id and
// case-insensitive name uniqueness. The grown collection is persisted
// before the in-memory swap, so a storage failure leaves the store
// unchanged.
func (s *Store) Add(ctx context.Context, picklistType domain.PicklistType, entry domain.PicklistEntry) error {
	s.mu.RLock()
	current := s.collections[picklistType]
	s.mu.RUnlock()

	for i := range current {
		if current[i].ID == entry.ID {
			return errors.Conflict("picklist entry with this id already exists").
				WithDetails(map[string]any{"existing": current[i]})
		}
		if strings.EqualFold(current[i].Name, entry.Name) {
			return errors.Conflict("picklist entry with this name already exists").
				WithDetails(map[string]any{"existing": current[i]})
		}
	}

	grown := make([]domain.PicklistEntry, 0, len(current)+1)
	grown = append(grown, current...)
	grown = append(grown, entry)

	if err := s.storage.Save(ctx, picklistType, grown); err != nil {
		return errors.Wrapf(err, errors.CodeInternal, "failed to persist %s picklist", picklistType)
	}

	s.mu.Lock()
	// Re-check under the write lock in case a concurrent Add or Replace
	// landed between the uniqueness scan and here.
	latest := s.collections[picklistType]
	for i := range latest {
		if latest[i].ID == entry.ID || strings.EqualFold(latest[i].Name, entry.Name) {
			s.mu.Unlock()
			return errors.Conflict("picklist entry already exists").
				WithDetails(map[string]any{"existing": latest[i]})
		}
	}
	if len(latest) != len(current) {
		// Collection changed underneath us; rebuild from the latest
		// snapshot and persist again outside the fast path.
		s.mu.Unlock()
		return s.Add(ctx, picklistType, entry)
	}
	s.collections[picklistType] = grown
	s.mu.Unlock()

	s.logger.Info("picklist entry added", "type", picklistType, "id", entry.ID, "name", entry.Name)
	return nil
}
