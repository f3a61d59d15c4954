package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/service"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/sqlite"
)

func (s *Server) registerMismatchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMismatches",
		Method:      http.MethodGet,
		Path:        "/api/v1/mismatches",
		Summary:     "List mismatches",
		Description: "Returns recorded mismatches filtered by type, resolution state, and source",
		Tags:        []string{"Mismatches"},
	}, s.handleListMismatches)

	huma.Register(s.api, huma.Operation{
		OperationID: "mismatchStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/mismatches/stats",
		Summary:     "Mismatch statistics",
		Description: "Aggregates recorded mismatches by type and source, with the most frequent unresolved values and near misses",
		Tags:        []string{"Mismatches"},
	}, s.handleMismatchStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "resolveMismatch",
		Method:      http.MethodPost,
		Path:        "/api/v1/mismatches/{type}/{value}/resolve",
		Summary:     "Resolve mismatch",
		Description: "Marks one mismatch as handled. The value path segment is the attempted spelling; it is normalized before lookup.",
		Tags:        []string{"Mismatches"},
	}, s.handleResolveMismatch)
}

// === DTOs ===

type ListMismatchesInput struct {
	Type     string `query:"type" doc:"Filter by collection: brand, category, style, or attribute"`
	Resolved string `query:"resolved" enum:"true,false," doc:"Filter by resolution state"`
	Source   string `query:"source" doc:"Filter by recording source"`
	Limit    int    `query:"limit" default:"100" minimum:"1" maximum:"500" doc:"Maximum number of records"`
}

type ListMismatchesResponse struct {
	Count      int                `json:"count" doc:"Number of records returned"`
	Mismatches []*domain.Mismatch `json:"mismatches" doc:"Mismatch records, most recently seen first"`
}

type ListMismatchesOutput struct {
	Body ListMismatchesResponse
}

type MismatchStatsOutput struct {
	Body domain.MismatchStats
}

type ResolveMismatchInput struct {
	Type   string `path:"type" doc:"Collection: brand, category, style, or attribute"`
	Value  string `path:"value" doc:"Attempted value, raw or normalized"`
	Source string `query:"source" doc:"Recording source, required when the value was seen from several sources"`
	Body   service.ResolveRequest
}

type MismatchOutput struct {
	Body domain.Mismatch
}

// === Handlers ===

func (s *Server) handleListMismatches(ctx context.Context, input *ListMismatchesInput) (*ListMismatchesOutput, error) {
	filter := sqlite.MismatchFilter{
		Source: input.Source,
		Limit:  input.Limit,
	}

	if input.Type != "" {
		t, ok := domain.ParsePicklistType(input.Type)
		if !ok {
			return nil, huma.Error400BadRequest("unknown picklist type: " + input.Type)
		}
		filter.Type = t
	}

	switch input.Resolved {
	case "true":
		resolved := true
		filter.Resolved = &resolved
	case "false":
		resolved := false
		filter.Resolved = &resolved
	}

	mismatches, err := s.services.Mismatch.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &ListMismatchesOutput{Body: ListMismatchesResponse{
		Count:      len(mismatches),
		Mismatches: mismatches,
	}}, nil
}

func (s *Server) handleMismatchStats(ctx context.Context, _ *struct{}) (*MismatchStatsOutput, error) {
	stats, err := s.services.Mismatch.Stats(ctx)
	if err != nil {
		return nil, err
	}

	return &MismatchStatsOutput{Body: *stats}, nil
}

func (s *Server) handleResolveMismatch(ctx context.Context, input *ResolveMismatchInput) (*MismatchOutput, error) {
	t, ok := domain.ParsePicklistType(input.Type)
	if !ok {
		return nil, huma.Error404NotFound("unknown picklist type: " + input.Type)
	}

	resolved, err := s.services.Mismatch.Resolve(ctx, t, input.Value, input.Source, input.Body)
	if err != nil {
		return nil, err
	}

	return &MismatchOutput{Body: *resolved}, nil
}
