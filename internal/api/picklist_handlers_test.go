package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/matcher"
)

func TestListPicklist(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/picklists/brand")
	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[ListPicklistResponse](t, resp)
	assert.True(t, envelope.Success)
	assert.Equal(t, 2, envelope.Data.Count)
	require.Len(t, envelope.Data.Entries, 2)
	assert.Equal(t, "KOHLER", envelope.Data.Entries[0].Name)
}

func TestListPicklist_UnknownType(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/picklists/vehicles")
	assert.Equal(t, http.StatusNotFound, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp)
	assert.False(t, envelope.Success)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestAddPicklistEntry(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/picklists/brand", map[string]any{
		"id":   "B3",
		"name": "DELTA",
	})
	assert.Equal(t, http.StatusCreated, resp.Code)

	// Entry is immediately matchable.
	resp = ts.api.Get("/api/v1/picklists/brand")
	envelope := decodeEnvelope[ListPicklistResponse](t, resp)
	assert.Equal(t, 3, envelope.Data.Count)
}

func TestAddPicklistEntry_DuplicateName(t *testing.T) {
	ts := setupTestServer(t)

	// Same name, different case.
	resp := ts.api.Post("/api/v1/picklists/brand", map[string]any{
		"id":   "B9",
		"name": "Kohler",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestAddPicklistEntry_MissingName(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/picklists/brand", map[string]any{
		"id": "B9",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}

func TestReloadPicklists(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/picklists/reload", map[string]any{})
	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[ReloadPicklistsResponse](t, resp)
	assert.Equal(t, 2, envelope.Data.Counts["brand"])
	assert.Equal(t, 2, envelope.Data.Counts["category"])
}

func TestMatchValue_Exact(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/picklists/match/brand", map[string]any{
		"value": "kohler",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[matcher.Result](t, resp)
	assert.True(t, envelope.Data.Matched)
	assert.Equal(t, matcher.OutcomeExact, envelope.Data.Outcome)
	require.NotNil(t, envelope.Data.Entry)
	assert.Equal(t, "B1", envelope.Data.Entry.ID)
}

func TestMatchValue_Fuzzy(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/picklists/match/brand", map[string]any{
		"value": "Kohlar",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[matcher.Result](t, resp)
	assert.True(t, envelope.Data.Matched)
	assert.Equal(t, matcher.OutcomeFuzzy, envelope.Data.Outcome)
}

func TestMatchValue_UnmatchedCarriesSuggestions(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/picklists/match/brand", map[string]any{
		"value":  "zorbix",
		"source": "ai-verification",
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	envelope := decodeEnvelope[matcher.Result](t, resp)
	assert.False(t, envelope.Data.Matched)
	assert.Equal(t, matcher.OutcomeUnmatched, envelope.Data.Outcome)
	assert.NotEmpty(t, envelope.Data.Suggestions)
}

func TestMatchValue_EmptyValue(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/picklists/match/brand", map[string]any{
		"value": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	envelope := decodeEnvelope[struct{}](t, resp)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "VALIDATION", envelope.Error.Code)
}
