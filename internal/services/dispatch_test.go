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

type dispatchFixture struct {
	orders    *fakeOrderRepo
	offers    *fakeOfferRepo
	craftsmen *fakeCraftsmanRepo
	partners  *fakePartnerRepo
	rules     *fakeRuleRepo
	settings  *fakeSettingsRepo

	dispatch DispatchServiceInterface
}

func newDispatchFixture(t *testing.T) *dispatchFixture {
	t.Helper()

	f := &dispatchFixture{
		orders:    newFakeOrderRepo(),
		offers:    &fakeOfferRepo{},
		craftsmen: newFakeCraftsmanRepo(),
		partners:  newFakePartnerRepo(),
		rules:     &fakeRuleRepo{},
		settings:  &fakeSettingsRepo{},
	}

	logger := zap.NewNop()
	resolver := NewSettingsResolver(f.settings, newFakeCache(), logger, 2, time.Second)
	finder := NewCandidateFinder(f.rules, f.craftsmen, f.partners, logger, 2, 5, 200)
	executor := NewAssignmentExecutor(f.orders, logger, 0)
	coordinator := NewBroadcastCoordinator(f.orders, f.offers, fakeTxManager{},
		resolver, finder, executor, nil, logger, 30*time.Minute, 100)

	f.dispatch = NewDispatchService(resolver, finder, executor, coordinator, nil, logger)
	return f
}

func (f *dispatchFixture) newOrder(damageType, postalCode string) *entities.Order {
	return f.orders.add(&entities.Order{DamageType: damageType, PostalCode: postalCode})
}

func TestRouteOrderNoSettingsLeavesOrderUnassigned(t *testing.T) {
	f := newDispatchFixture(t)
	order := f.newOrder("wasser", "41061")

	result := f.dispatch.RouteOrder(context.Background(), order)

	assert.False(t, result.Applied)
	assert.Equal(t, constants.ReasonNoSettings, result.Reason)

	saved, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStateUnassigned, saved.State)
}

func TestRouteOrderManualModeSkips(t *testing.T) {
	f := newDispatchFixture(t)
	f.settings.rows = []*entities.AssignmentSettings{{
		ID: 1, Profession: "trocknung", Mode: constants.DispatchModeManual, Active: true,
	}}
	f.craftsmen.craftsmen[1] = &entities.Craftsman{ID: 1, Professions: []string{"trocknung"}, Verified: true}

	result := f.dispatch.RouteOrder(context.Background(), f.newOrder("wasser", "41061"))

	assert.False(t, result.Applied)
	assert.Equal(t, constants.ReasonModeNotAuto, result.Reason)
}

func TestRouteOrderAutoAssignsRulePreferredCraftsman(t *testing.T) {
	f := newDispatchFixture(t)
	f.settings.rows = []*entities.AssignmentSettings{{
		ID: 1, Profession: "trocknung", Mode: constants.DispatchModeAuto, Active: true,
	}}
	f.craftsmen.craftsmen[1] = &entities.Craftsman{ID: 1, Professions: []string{"trocknung"}, Verified: true, Rating: 5}
	f.craftsmen.craftsmen[2] = &entities.Craftsman{ID: 2, Professions: []string{"trocknung"}, Verified: true, Rating: 1}
	f.rules.rules = []*entities.RoutingRule{
		{ID: 1, ZipPrefix: "41", Profession: "trocknung", Priority: 1, Active: true, CraftsmanID: 2},
	}

	order := f.newOrder("wasser", "41061")
	result := f.dispatch.RouteOrder(context.Background(), order)

	assert.True(t, result.Applied)
	assert.Equal(t, int64(2), result.AssigneeID, "rule preference beats rating")
	assert.Equal(t, entities.AssigneeKindInternal, result.AssigneeType)
}

func TestRouteOrderAutoZipSpecificSettingsWin(t *testing.T) {
	f := newDispatchFixture(t)
	f.settings.rows = []*entities.AssignmentSettings{
		{ID: 1, Profession: "trocknung", Mode: constants.DispatchModeManual, Active: true},
		{ID: 2, Profession: "trocknung", ZipPrefix: strPtr("41"), Mode: constants.DispatchModeAuto, Active: true},
	}
	f.craftsmen.craftsmen[1] = &entities.Craftsman{ID: 1, Professions: []string{"trocknung"}, Verified: true}

	result := f.dispatch.RouteOrder(context.Background(), f.newOrder("wasser", "41061"))
	assert.True(t, result.Applied)
}

func TestRouteOrderAutoNoCandidates(t *testing.T) {
	f := newDispatchFixture(t)
	f.settings.rows = []*entities.AssignmentSettings{{
		ID: 1, Profession: "trocknung", Mode: constants.DispatchModeAuto,
		FallbackBehavior: constants.FallbackManual, Active: true,
	}}

	result := f.dispatch.RouteOrder(context.Background(), f.newOrder("wasser", "41061"))

	assert.False(t, result.Applied)
	assert.Equal(t, constants.ReasonNoCandidates, result.Reason)
}

func TestRouteOrderAutoInternalOnlyFallbackIgnoresCoverage(t *testing.T) {
	f := newDispatchFixture(t)
	f.settings.rows = []*entities.AssignmentSettings{{
		ID: 1, Profession: "gutachter", Mode: constants.DispatchModeAuto,
		FallbackBehavior: constants.FallbackInternalOnly, Active: true,
	}}
	// Only a partner without matching coverage exists, plus one craftsman the
	// internal retry can reach.
	f.partners.partners[1] = &entities.Partner{
		ID: 1, Professions: []string{"gutachter"}, Verified: true, ZipCoverage: []string{"80"},
	}
	f.craftsmen.craftsmen[2] = &entities.Craftsman{ID: 2, Professions: []string{"gutachter"}, Verified: true}

	order := f.newOrder("gebaeude", "41061")
	result := f.dispatch.RouteOrder(context.Background(), order)

	// The primary pool still has the craftsman, so this assigns directly.
	assert.True(t, result.Applied)
	assert.Equal(t, entities.AssigneeKindInternal, result.AssigneeType)
}

func TestRouteOrderUnknownDamageTypeEndsAsNoCandidates(t *testing.T) {
	f := newDispatchFixture(t)
	f.settings.rows = []*entities.AssignmentSettings{{
		ID: 1, Profession: "sturm", Mode: constants.DispatchModeAuto, Active: true,
	}}

	result := f.dispatch.RouteOrder(context.Background(), f.newOrder("sturm", "41061"))

	assert.False(t, result.Applied)
	assert.Equal(t, constants.ReasonNoCandidates, result.Reason)
}

func TestRouteOrderBroadcastReturnsHandle(t *testing.T) {
	f := newDispatchFixture(t)
	f.settings.rows = []*entities.AssignmentSettings{{
		ID: 1, Profession: "gutachter", Mode: constants.DispatchModeBroadcast,
		BroadcastPartnerCount: 2, Active: true,
	}}
	f.partners.partners[1] = &entities.Partner{ID: 1, Professions: []string{"gutachter"}, Verified: true}
	f.partners.partners[2] = &entities.Partner{ID: 2, Professions: []string{"gutachter"}, Verified: true}
	f.partners.partners[3] = &entities.Partner{ID: 3, Professions: []string{"gutachter"}, Verified: true}

	order := f.newOrder("gebaeude", "41061")
	result := f.dispatch.RouteOrder(context.Background(), order)

	assert.False(t, result.Applied)
	assert.NotEmpty(t, result.BroadcastID)

	offers, err := f.offers.ListByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, offers, 2)

	saved, err := f.orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStateBroadcasting, saved.State)
}

func TestRouteOrderBroadcastOnAssignedOrderReportsStale(t *testing.T) {
	f := newDispatchFixture(t)
	f.settings.rows = []*entities.AssignmentSettings{{
		ID: 1, Profession: "gutachter", Mode: constants.DispatchModeBroadcast, Active: true,
	}}
	f.partners.partners[1] = &entities.Partner{ID: 1, Professions: []string{"gutachter"}, Verified: true}

	order := f.newOrder("gebaeude", "41061")
	_, err := f.orders.AssignIfUnassigned(context.Background(), order.ID,
		entities.AssigneeRef{Kind: entities.AssigneeKindInternal, ID: 7})
	require.NoError(t, err)

	result := f.dispatch.RouteOrder(context.Background(), order)

	assert.False(t, result.Applied)
	assert.Equal(t, constants.ReasonStalePrecondition, result.Reason)
}
