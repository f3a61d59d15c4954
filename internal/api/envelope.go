package api

import (
	"strings"

	"github.com/danielgtaylor/huma/v2"
)

// envelopeVersion is bumped when the envelope shape changes in a way
// clients must know about.
const envelopeVersion = 1

// Envelope is the uniform wrapper around every API response body.
// Success responses carry their payload in Data; failures carry an
// APIError in Error.
type Envelope struct {
	V       int       `json:"v" doc:"Envelope version"`
	Success bool      `json:"success" doc:"Whether the request succeeded"`
	Data    any       `json:"data,omitempty" doc:"Response payload on success"`
	Error   *APIError `json:"error,omitempty" doc:"Error details on failure"`
}

// EnvelopeTransformer wraps every response body in the shared envelope.
// Registered as a huma transformer so handlers return plain payloads.
func EnvelopeTransformer(_ huma.Context, status string, v any) (any, error) {
	if env, ok := v.(*Envelope); ok {
		return env, nil
	}

	if apiErr, ok := v.(*APIError); ok {
		return &Envelope{V: envelopeVersion, Success: false, Error: apiErr}, nil
	}

	// Errors that did not come through RegisterErrorHandler.
	if statusErr, ok := v.(huma.StatusError); ok {
		return &Envelope{
			V:       envelopeVersion,
			Success: false,
			Error: &APIError{
				status:  statusErr.GetStatus(),
				Code:    statusToCode(statusErr.GetStatus()),
				Message: statusErr.Error(),
			},
		}, nil
	}

	if strings.HasPrefix(status, "4") || strings.HasPrefix(status, "5") {
		return v, nil
	}

	return &Envelope{V: envelopeVersion, Success: true, Data: v}, nil
}
