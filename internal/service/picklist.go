// Package service orchestrates matching, picklist, mismatch, and sync
// operations on top of the storage layers.
package service

import (
	"context"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/validation"
)

// PicklistService exposes vocabulary collections and admin mutations.
type PicklistService struct {
	store     *picklist.Store
	logger    *logger.Logger
	validator *validation.Validator
}

// NewPicklistService creates a new picklist service.
func NewPicklistService(store *picklist.Store, log *logger.Logger) *PicklistService {
	return &PicklistService{
		store:     store,
		logger:    log,
		validator: validation.New(),
	}
}

// List returns the current collection for a type.
func (s *PicklistService) List(ctx context.Context, picklistType domain.PicklistType) []domain.PicklistEntry {
	return s.store.Get(picklistType)
}

// Counts reports collection sizes for health reporting.
func (s *PicklistService) Counts() map[domain.PicklistType]int {
	return s.store.Counts()
}

// AddEntryRequest contains fields for a new picklist entry.
type AddEntryRequest struct {
	ID         string `json:"id" validate:"required,min=1,max=100"`
	Name       string `json:"name" validate:"required,min=1,max=200"`
	Department string `json:"department,omitempty" validate:"max=100"`
	Family     string `json:"family,omitempty" validate:"max=100"`
}

// Add appends one entry to a collection, rejecting duplicate ids and
// case-insensitive duplicate names.
func (s *PicklistService) Add(ctx context.Context, picklistType domain.PicklistType, req AddEntryRequest) (*domain.PicklistEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	entry := domain.PicklistEntry{
		ID:         req.ID,
		Name:       req.Name,
		Department: req.Department,
		Family:     req.Family,
	}
	if err := s.store.Add(ctx, picklistType, entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

// Reload re-reads all collections from durable storage.
func (s *PicklistService) Reload(ctx context.Context) (map[domain.PicklistType]int, error) {
	if err := s.store.Load(ctx); err != nil {
		return nil, err
	}
	counts := s.store.Counts()
	s.logger.Info("picklists reloaded", "counts", counts)
	return counts, nil
}
