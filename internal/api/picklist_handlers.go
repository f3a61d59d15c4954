package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/matcher"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/service"
)

func (s *Server) registerPicklistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listPicklist",
		Method:      http.MethodGet,
		Path:        "/api/v1/picklists/{type}",
		Summary:     "List picklist",
		Description: "Returns every entry of one vocabulary collection",
		Tags:        []string{"Picklists"},
	}, s.handleListPicklist)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addPicklistEntry",
		Method:        http.MethodPost,
		Path:          "/api/v1/picklists/{type}",
		Summary:       "Add picklist entry",
		Description:   "Adds a single entry to a vocabulary collection",
		Tags:          []string{"Picklists"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddPicklistEntry)

	huma.Register(s.api, huma.Operation{
		OperationID: "reloadPicklists",
		Method:      http.MethodPost,
		Path:        "/api/v1/picklists/reload",
		Summary:     "Reload picklists",
		Description: "Replaces the in-memory vocabulary from durable storage",
		Tags:        []string{"Picklists"},
	}, s.handleReloadPicklists)

	huma.Register(s.api, huma.Operation{
		OperationID: "matchValue",
		Method:      http.MethodPost,
		Path:        "/api/v1/picklists/match/{type}",
		Summary:     "Match a value",
		Description: "Resolves a candidate string against one vocabulary collection",
		Tags:        []string{"Matching"},
	}, s.handleMatchValue)
}

// === DTOs ===

type ListPicklistInput struct {
	Type string `path:"type" doc:"Collection: brand, category, style, or attribute"`
}

type ListPicklistResponse struct {
	Type    domain.PicklistType    `json:"type" doc:"Collection name"`
	Count   int                    `json:"count" doc:"Number of entries"`
	Entries []domain.PicklistEntry `json:"entries" doc:"Vocabulary entries"`
}

type ListPicklistOutput struct {
	Body ListPicklistResponse
}

type AddPicklistEntryInput struct {
	Type string `path:"type" doc:"Collection: brand, category, style, or attribute"`
	Body service.AddEntryRequest
}

type PicklistEntryOutput struct {
	Body domain.PicklistEntry
}

type ReloadPicklistsResponse struct {
	Counts map[domain.PicklistType]int `json:"counts" doc:"Entry count per collection after reload"`
}

type ReloadPicklistsOutput struct {
	Body ReloadPicklistsResponse
}

type MatchValueInput struct {
	Type string `path:"type" doc:"Collection: brand, category, style, or attribute"`
	Body service.MatchRequest
}

type MatchValueOutput struct {
	Body matcher.Result
}

// === Handlers ===

func (s *Server) handleListPicklist(ctx context.Context, input *ListPicklistInput) (*ListPicklistOutput, error) {
	t, ok := domain.ParsePicklistType(input.Type)
	if !ok {
		return nil, huma.Error404NotFound("unknown picklist type: " + input.Type)
	}

	entries := s.services.Picklist.List(ctx, t)

	return &ListPicklistOutput{Body: ListPicklistResponse{
		Type:    t,
		Count:   len(entries),
		Entries: entries,
	}}, nil
}

func (s *Server) handleAddPicklistEntry(ctx context.Context, input *AddPicklistEntryInput) (*PicklistEntryOutput, error) {
	t, ok := domain.ParsePicklistType(input.Type)
	if !ok {
		return nil, huma.Error404NotFound("unknown picklist type: " + input.Type)
	}

	entry, err := s.services.Picklist.Add(ctx, t, input.Body)
	if err != nil {
		return nil, err
	}

	return &PicklistEntryOutput{Body: *entry}, nil
}

func (s *Server) handleReloadPicklists(ctx context.Context, _ *struct{}) (*ReloadPicklistsOutput, error) {
	counts, err := s.services.Picklist.Reload(ctx)
	if err != nil {
		return nil, err
	}

	return &ReloadPicklistsOutput{Body: ReloadPicklistsResponse{Counts: counts}}, nil
}

func (s *Server) handleMatchValue(ctx context.Context, input *MatchValueInput) (*MatchValueOutput, error) {
	t, ok := domain.ParsePicklistType(input.Type)
	if !ok {
		return nil, huma.Error404NotFound("unknown picklist type: " + input.Type)
	}

	result, err := s.services.Match.Match(ctx, t, input.Body)
	if err != nil {
		return nil, err
	}

	return &MatchValueOutput{Body: result}, nil
}
