package service

import (
	"context"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/logger"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/matcher"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/mismatch"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/picklist"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/validation"
)

// MatchService resolves candidate strings against the current
// vocabulary snapshot and records what it could not resolve.
type MatchService struct {
	store     *picklist.Store
	recorder  *mismatch.Recorder
	logger    *logger.Logger
	validator *validation.Validator
}

// NewMatchService creates a new match service.
func NewMatchService(store *picklist.Store, recorder *mismatch.Recorder, log *logger.Logger) *MatchService {
	return &MatchService{
		store:     store,
		recorder:  recorder,
		logger:    log,
		validator: validation.New(),
	}
}

// MatchRequest is one candidate to resolve.
type MatchRequest struct {
	Value          string `json:"value" validate:"required,min=1,max=500"`
	Source         string `json:"source,omitempty" validate:"max=100"`
	ProductContext string `json:"product_context,omitempty" validate:"max=2000"`
	AIContext      string `json:"ai_context,omitempty" validate:"max=2000"`
	RawContext     string `json:"raw_context,omitempty" validate:"max=2000"`
}

// Match classifies one candidate. Unmatched candidates are enqueued for
// mismatch recording without blocking the caller; guard sentinels and
// successful matches are never recorded.
func (s *MatchService) Match(ctx context.Context, picklistType domain.PicklistType, req MatchRequest) (matcher.Result, error) {
	if err := s.validator.Validate(req); err != nil {
		return matcher.Result{}, err
	}

	entries := s.store.Get(picklistType)
	result := matcher.Match(picklistType, req.Value, entries)

	if result.ShouldRecord() {
		s.recorder.Record(mismatch.Input{
			Type:           picklistType,
			AttemptedValue: req.Value,
			Similarity:     result.Similarity,
			ClosestMatches: result.Suggestions,
			Source:         req.Source,
			ProductContext: req.ProductContext,
			AIContext:      req.AIContext,
			RawContext:     req.RawContext,
		})
		s.logger.Debug("unmatched candidate recorded",
			"type", picklistType,
			"value", req.Value,
			"similarity", result.Similarity,
			"source", req.Source,
		)
	}

	return result, nil
}
