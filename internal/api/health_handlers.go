package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := make(map[string]ComponentHealth)
	overall := "healthy"

	dbHealth := s.checkMismatchDB(ctx)
	components["mismatch_db"] = dbHealth
	if dbHealth.Status != "healthy" {
		overall = "unhealthy"
	}

	vocabHealth := s.checkVocabulary()
	components["vocabulary"] = vocabHealth
	if vocabHealth.Status == "degraded" && overall == "healthy" {
		overall = "degraded"
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkMismatchDB verifies the SQLite mismatch database is reachable.
func (s *Server) checkMismatchDB(ctx context.Context) ComponentHealth {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.Ping(ctx); err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Message: err.Error(),
		}
	}

	return ComponentHealth{
		Status:  "healthy",
		Latency: time.Since(start).String(),
	}
}

// checkVocabulary reports degraded when no collection holds any entries,
// which means every match call would come back unmatched.
func (s *Server) checkVocabulary() ComponentHealth {
	total := 0
	for _, count := range s.picklists.Counts() {
		total += count
	}

	if total == 0 {
		return ComponentHealth{
			Status:  "degraded",
			Message: "no vocabulary entries loaded",
		}
	}

	return ComponentHealth{Status: "healthy"}
}
