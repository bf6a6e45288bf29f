package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"claims-platform/internal/entities"
	"claims-platform/pkg/constants"
)

func newExecutor(repo *fakeOrderRepo) AssignmentExecutorInterface {
	return NewAssignmentExecutor(repo, zap.NewNop(), 0)
}

func TestCommitAssignsUnassignedOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.add(&entities.Order{DamageType: "wasser"})

	result := newExecutor(repo).Commit(context.Background(),
		order.ID, entities.AssigneeRef{Kind: entities.AssigneeKindInternal, ID: 5})

	assert.True(t, result.Applied)
	assert.Equal(t, int64(5), result.AssigneeID)
	assert.Equal(t, entities.AssigneeKindInternal, result.AssigneeType)

	saved, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStateAssignedInternal, saved.State)
	require.NotNil(t, saved.AssignedCraftsmanID)
	assert.Equal(t, int64(5), *saved.AssignedCraftsmanID)
	assert.Nil(t, saved.AssignedPartnerID)
}

func TestCommitIsIdempotentForSameAssignee(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.add(&entities.Order{DamageType: "wasser"})
	executor := newExecutor(repo)
	ref := entities.AssigneeRef{Kind: entities.AssigneeKindExternal, ID: 9}

	first := executor.Commit(context.Background(), order.ID, ref)
	second := executor.Commit(context.Background(), order.ID, ref)

	assert.True(t, first.Applied)
	assert.True(t, second.Applied, "repeating the same commit must stay applied")
}

func TestCommitReportsStaleWhenOrderTaken(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.add(&entities.Order{DamageType: "wasser"})
	executor := newExecutor(repo)

	executor.Commit(context.Background(), order.ID, entities.AssigneeRef{Kind: entities.AssigneeKindInternal, ID: 1})
	result := executor.Commit(context.Background(), order.ID, entities.AssigneeRef{Kind: entities.AssigneeKindExternal, ID: 2})

	assert.False(t, result.Applied)
	assert.Equal(t, constants.ReasonStalePrecondition, result.Reason)

	saved, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Nil(t, saved.AssignedPartnerID, "losing commit must not touch the other slot")
}

func TestCommitRefusesOrderMidBroadcast(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.add(&entities.Order{DamageType: "wasser"})
	marked, err := repo.MarkBroadcasting(context.Background(), order.ID, "b-1", farFuture())
	require.NoError(t, err)
	require.True(t, marked)

	result := newExecutor(repo).Commit(context.Background(),
		order.ID, entities.AssigneeRef{Kind: entities.AssigneeKindInternal, ID: 1})

	assert.False(t, result.Applied)
	assert.Equal(t, constants.ReasonStalePrecondition, result.Reason)
}

func TestCommitRetriesOnceOnStorageFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.add(&entities.Order{DamageType: "wasser"})
	repo.failAssign = 1

	result := newExecutor(repo).Commit(context.Background(),
		order.ID, entities.AssigneeRef{Kind: entities.AssigneeKindInternal, ID: 3})

	assert.True(t, result.Applied, "single failure must be absorbed by the retry")
}

func TestCommitGivesUpAfterSecondFailure(t *testing.T) {
	repo := newFakeOrderRepo()
	order := repo.add(&entities.Order{DamageType: "wasser"})
	repo.failAssign = 2

	result := newExecutor(repo).Commit(context.Background(),
		order.ID, entities.AssigneeRef{Kind: entities.AssigneeKindInternal, ID: 3})

	assert.False(t, result.Applied)
	assert.Equal(t, constants.ReasonPersistenceError, result.Reason)

	saved, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, constants.OrderStateUnassigned, saved.State)
}
