package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/service"
)

func (s *Server) registerSyncRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "syncPicklists",
		Method:      http.MethodPost,
		Path:        "/api/v1/picklists/sync",
		Summary:     "Bulk sync picklists",
		Description: "Replaces whole vocabulary collections from the system of record. Returns 207 when some collections failed.",
		Tags:        []string{"Sync"},
	}, s.handleSyncPicklists)

	huma.Register(s.api, huma.Operation{
		OperationID: "listSyncLogs",
		Method:      http.MethodGet,
		Path:        "/api/v1/picklists/sync/logs",
		Summary:     "List sync logs",
		Description: "Returns recent sync audit records, newest first, without snapshots",
		Tags:        []string{"Sync"},
	}, s.handleListSyncLogs)

	huma.Register(s.api, huma.Operation{
		OperationID: "getSyncLog",
		Method:      http.MethodGet,
		Path:        "/api/v1/picklists/sync/logs/{id}",
		Summary:     "Get sync log",
		Description: "Returns one sync audit record including pre-sync snapshots",
		Tags:        []string{"Sync"},
	}, s.handleGetSyncLog)
}

// === DTOs ===

type SyncPicklistsInput struct {
	Body service.SyncRequest
}

type SyncPicklistsOutput struct {
	Status int
	Body   service.SyncResult
}

type ListSyncLogsInput struct {
	Limit int `query:"limit" default:"50" minimum:"1" maximum:"200" doc:"Maximum number of records"`
}

type ListSyncLogsResponse struct {
	Logs []*domain.SyncLog `json:"logs" doc:"Sync audit records, newest first"`
}

type ListSyncLogsOutput struct {
	Body ListSyncLogsResponse
}

type GetSyncLogInput struct {
	ID string `path:"id" doc:"Sync ID"`
}

type SyncLogOutput struct {
	Body domain.SyncLog
}

// === Handlers ===

func (s *Server) handleSyncPicklists(ctx context.Context, input *SyncPicklistsInput) (*SyncPicklistsOutput, error) {
	result, err := s.services.Sync.Sync(ctx, input.Body)
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusMultiStatus
	}

	return &SyncPicklistsOutput{Status: status, Body: *result}, nil
}

func (s *Server) handleListSyncLogs(ctx context.Context, input *ListSyncLogsInput) (*ListSyncLogsOutput, error) {
	logs, err := s.services.Sync.Logs(ctx, input.Limit)
	if err != nil {
		return nil, err
	}

	return &ListSyncLogsOutput{Body: ListSyncLogsResponse{Logs: logs}}, nil
}

func (s *Server) handleGetSyncLog(ctx context.Context, input *GetSyncLogInput) (*SyncLogOutput, error) {
	log, err := s.services.Sync.Log(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &SyncLogOutput{Body: *log}, nil
}
