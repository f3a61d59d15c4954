package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/topmcon/Catalog-Verification-API-sub002/internal/domain"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/matcher"
	"github.com/topmcon/Catalog-Verification-API-sub002/internal/store/sqlite"
)

func TestMatchReturnsFuzzyResult(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMatchService(env.picklists, env.recorder, testLogger())

	result, err := svc.Match(context.Background(), domain.PicklistTypeBrand, MatchRequest{Value: "Kohlar"})
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.Equal(t, matcher.OutcomeFuzzy, result.Outcome)
	assert.Equal(t, "B1", result.Entry.ID)
	assert.Zero(t, env.recorder.Pending())
}

func TestMatchRecordsUnmatchedCandidate(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMatchService(env.picklists, env.recorder, testLogger())
	ctx := context.Background()

	result, err := svc.Match(ctx, domain.PicklistTypeCategory, MatchRequest{
		Value:  "Zlorp Device",
		Source: "ai-verification",
	})
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, 1, env.recorder.Pending())

	// Same key again, then flush: one row, count 2.
	_, err = svc.Match(ctx, domain.PicklistTypeCategory, MatchRequest{
		Value:  "zlorp  device!",
		Source: "ai-verification",
	})
	require.NoError(t, err)
	require.NoError(t, env.recorder.Flush(ctx))

	records, err := env.db.QueryMismatches(ctx, sqlite.MismatchFilter{Type: domain.PicklistTypeCategory})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].OccurrenceCount)
	assert.Equal(t, "zlorp device", records[0].NormalizedValue)
}

func TestMatchSentinelsAreNeverRecorded(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMatchService(env.picklists, env.recorder, testLogger())
	ctx := context.Background()

	primary, err := svc.Match(ctx, domain.PicklistTypeAttribute, MatchRequest{Value: "model_number"})
	require.NoError(t, err)
	assert.True(t, primary.Matched)
	assert.Equal(t, matcher.OutcomePrimaryAttribute, primary.Outcome)

	value, err := svc.Match(ctx, domain.PicklistTypeAttribute, MatchRequest{Value: "Brushed Nickel"})
	require.NoError(t, err)
	assert.False(t, value.Matched)
	assert.Equal(t, matcher.OutcomeAttributeValue, value.Outcome)

	assert.Zero(t, env.recorder.Pending())
}

func TestMatchValidatesRequest(t *testing.T) {
	env := newTestEnv(t)
	svc := NewMatchService(env.picklists, env.recorder, testLogger())

	_, err := svc.Match(context.Background(), domain.PicklistTypeBrand, MatchRequest{Value: ""})
	require.Error(t, err)
}
