// Package store persists vocabulary collections in a Badger database.
// Each collection is stored as a single value so a sync replaces it
// atomically in one transaction.
package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
)

// Key prefix for picklist collections.
const picklistPrefix = "picklist:"

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *logger.Logger
}

// New creates a new Store instance with the given database path.
func New(path string, log *logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: log,
	}

	if log != nil {
		log.Info("badger database opened", "path", path)
	}

	return store, nil
}

// NewInMemory creates a Store backed by an in-memory Badger instance.
// Used by tests so no temp directory cleanup is needed.
func NewInMemory(log *logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory badger db: %w", err)
	}

	return &Store{db: db, logger: log}, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("closing picklist database")
	}
	return s.db.Close()
}

// Save durably replaces one collection in a single transaction.
func (s *Store) Save(ctx context.Context, picklistType domain.PicklistType, entries []domain.PicklistEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("marshal %s picklist: %w", picklistType, err)
	}

	key := []byte(picklistPrefix + string(picklistType))
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// Load reads one collection. Returns nil with no error when the
// collection has never been persisted.
func (s *Store) Load(ctx context.Context, picklistType domain.PicklistType) ([]domain.PicklistEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var entries []domain.PicklistEntry
	key := []byte(picklistPrefix + string(picklistType))

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &entries)
		})
	})
	if err != nil {
		return nil, fmt.Errorf("load %s picklist: %w", picklistType, err)
	}

	return entries, nil
}

// LoadAll reads every persisted collection.
func (s *Store) LoadAll(ctx context.Context) (map[domain.PicklistType][]domain.PicklistEntry, error) {
	out := make(map[domain.PicklistType][]domain.PicklistEntry, len(domain.AllPicklistTypes))
	for _, t := range domain.AllPicklistTypes {
		entries, err := s.Load(ctx, t)
		if err != nil {
			return nil, err
		}
		if entries != nil {
			out[t] = entries
		}
	}
	return out, nil
}
