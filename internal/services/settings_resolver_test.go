package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"claims-platform/internal/entities"
	"claims-platform/pkg/constants"
)

func strPtr(s string) *string { return &s }

func newResolver(repo *fakeSettingsRepo, cache *fakeCache) SettingsResolverInterface {
	return NewSettingsResolver(repo, cache, zap.NewNop(), 2, 30*time.Second)
}

func TestResolveZipSpecificBeatsGlobal(t *testing.T) {
	repo := &fakeSettingsRepo{rows: []*entities.AssignmentSettings{
		{ID: 1, Profession: "trocknung", Mode: constants.DispatchModeManual, Active: true},
		{ID: 2, Profession: "trocknung", ZipPrefix: strPtr("41"), Mode: constants.DispatchModeAuto, Active: true},
	}}

	settings := newResolver(repo, newFakeCache()).Resolve(context.Background(), "trocknung", "41061")
	require.NotNil(t, settings)
	assert.Equal(t, constants.DispatchModeAuto, settings.Mode)
	require.NotNil(t, settings.ZipPrefix)
	assert.Equal(t, "41", *settings.ZipPrefix)
}

func TestResolveFallsBackToGlobal(t *testing.T) {
	repo := &fakeSettingsRepo{rows: []*entities.AssignmentSettings{
		{ID: 1, Profession: "trocknung", Mode: constants.DispatchModeBroadcast, Active: true},
	}}

	settings := newResolver(repo, newFakeCache()).Resolve(context.Background(), "trocknung", "80331")
	require.NotNil(t, settings)
	assert.Equal(t, constants.DispatchModeBroadcast, settings.Mode)
	assert.Nil(t, settings.ZipPrefix)
}

func TestResolveWithoutPostalCodeUsesGlobalOnly(t *testing.T) {
	repo := &fakeSettingsRepo{rows: []*entities.AssignmentSettings{
		{ID: 1, Profession: "maler", ZipPrefix: strPtr("41"), Mode: constants.DispatchModeAuto, Active: true},
	}}

	settings := newResolver(repo, newFakeCache()).Resolve(context.Background(), "maler", "")
	assert.Nil(t, settings)
}

func TestResolveReturnsNilWhenNothingConfigured(t *testing.T) {
	settings := newResolver(&fakeSettingsRepo{}, newFakeCache()).Resolve(context.Background(), "glas", "41061")
	assert.Nil(t, settings)
}

func TestResolveStorageFailureDegradesToNil(t *testing.T) {
	repo := &fakeSettingsRepo{fail: true}
	settings := newResolver(repo, newFakeCache()).Resolve(context.Background(), "trocknung", "41061")
	assert.Nil(t, settings)
}

func TestResolveServesFromCache(t *testing.T) {
	repo := &fakeSettingsRepo{rows: []*entities.AssignmentSettings{
		{ID: 1, Profession: "trocknung", ZipPrefix: strPtr("41"), Mode: constants.DispatchModeAuto, Active: true},
	}}
	cache := newFakeCache()
	resolver := newResolver(repo, cache)

	first := resolver.Resolve(context.Background(), "trocknung", "41061")
	require.NotNil(t, first)

	// Flip the stored mode; the cached copy must still be served.
	repo.rows[0].Mode = constants.DispatchModeManual

	second := resolver.Resolve(context.Background(), "trocknung", "41061")
	require.NotNil(t, second)
	assert.Equal(t, constants.DispatchModeAuto, second.Mode)
}
