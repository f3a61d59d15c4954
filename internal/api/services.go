package api

import (
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Picklist *service.PicklistService
	Match    *service.MatchService
	Mismatch *service.MismatchService
	Sync     *service.SyncService
}
