package service

import (
	"context"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/errors"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/mismatch"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/normalize"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/sqlite"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/validation"
)

// MismatchService serves the mismatch review and resolution workflow.
type MismatchService struct {
	store     *sqlite.Store
	recorder  *mismatch.Recorder
	logger    *logger.Logger
	validator *validation.Validator
}

// NewMismatchService creates a new mismatch service.
func NewMismatchService(store *sqlite.Store, recorder *mismatch.Recorder, log *logger.Logger) *MismatchService {
	return &MismatchService{
		store:     store,
		recorder:  recorder,
		logger:    log,
		validator: validation.New(),
	}
}

// Query returns mismatch records matching the filter.
func (s *MismatchService) Query(ctx context.Context, filter sqlite.MismatchFilter) ([]*domain.Mismatch, error) {
	return s.store.QueryMismatches(ctx, filter)
}

// Stats aggregates the durable table and reports how many observations
// still sit in the write buffer.
func (s *MismatchService) Stats(ctx context.Context) (*domain.MismatchStats, error) {
	stats, err := s.store.MismatchStats(ctx)
	if err != nil {
		return nil, err
	}
	stats.PendingInBuffer = s.recorder.Pending()
	return stats, nil
}

// ResolveRequest is the terminal action for one mismatch.
type ResolveRequest struct {
	Action        string `json:"action" validate:"required"`
	ResolvedValue string `json:"resolved_value,omitempty" validate:"max=500"`
	ResolvedBy    string `json:"resolved_by,omitempty" validate:"max=100"`
}

// Resolve marks one record as handled. The raw value is normalized to
// its dedup key before lookup, so callers can pass the original
// attempted spelling. The buffer is drained first so an observation
// made moments ago can be resolved too.
func (s *MismatchService) Resolve(ctx context.Context, picklistType domain.PicklistType, value, source string, req ResolveRequest) (*domain.Mismatch, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	action := domain.ResolutionAction(req.Action)
	if !action.IsValid() {
		return nil, errors.Validationf("unknown resolution action %q", req.Action)
	}

	if err := s.recorder.Flush(ctx); err != nil {
		s.logger.Warn("flush before resolve failed", "error", err)
	}

	normalized := normalize.DedupKey(value)
	resolved, err := s.store.ResolveMismatch(ctx, picklistType, normalized, source, domain.Resolution{
		Action:        action,
		ResolvedValue: req.ResolvedValue,
		ResolvedBy:    req.ResolvedBy,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("mismatch resolved",
		"type", picklistType,
		"value", normalized,
		"action", action,
		"resolved_by", req.ResolvedBy,
	)
	return resolved, nil
}
