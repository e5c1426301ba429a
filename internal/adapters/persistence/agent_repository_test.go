package persistence_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/adapters/persistence"
	"github.com/andrescamacho/officesim-go/internal/domain/facility"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

var (
	cubicles2  = facility.NewRoomID(facility.KindCubicles, 2, 1)
	breakroom2 = facility.NewRoomID(facility.KindBreakroom, 2, 1)
	training4  = facility.NewRoomID(facility.KindTrainingRoom, 4, 2)
)

func newAgentRepo(t *testing.T) (*persistence.GormAgentRepository, *shared.MockClock) {
	t.Helper()
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(helpers.TestHiredAt)
	return persistence.NewGormAgentRepository(db, clock, persistence.DefaultRetryPolicy()), clock
}

func addAgent(t *testing.T, repo *persistence.GormAgentRepository, clock shared.Clock, id int, home facility.RoomID) {
	t.Helper()
	agent, err := workforce.NewAgent(id, "Dana", "Engineer", "Engineering", home, helpers.TestHiredAt, clock)
	require.NoError(t, err)
	require.NoError(t, repo.Add(context.Background(), agent))
}

func TestAgentRepository_AddAndFind(t *testing.T) {
	// Arrange
	repo, clock := newAgentRepo(t)
	addAgent(t, repo, clock, 1, cubicles2)

	// Act
	found, err := repo.FindByID(context.Background(), 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, found.ID())
	assert.Equal(t, "Dana", found.Name())
	assert.Equal(t, cubicles2, found.HomeRoom())
	assert.Equal(t, 2, found.Floor())
	assert.Equal(t, workforce.StateWorking, found.State())
	require.NotNil(t, found.CurrentRoom())
	assert.Equal(t, cubicles2, *found.CurrentRoom())
	assert.Nil(t, found.TargetRoom())
	assert.Nil(t, found.PendingRoom())
}

func TestAgentRepository_FindMissingAgent(t *testing.T) {
	// Arrange
	repo, _ := newAgentRepo(t)

	// Act
	_, err := repo.FindByID(context.Background(), 999)

	// Assert
	var notFound *shared.AgentNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestAgentRepository_AddDuplicateFails(t *testing.T) {
	// Arrange
	repo, clock := newAgentRepo(t)
	addAgent(t, repo, clock, 1, cubicles2)
	again, err := workforce.NewAgent(1, "Dana", "Engineer", "Engineering", cubicles2, helpers.TestHiredAt, clock)
	require.NoError(t, err)

	// Act
	err = repo.Add(context.Background(), again)

	// Assert
	assert.Error(t, err)
}

func TestAgentRepository_UpdatePersistsRoomColumns(t *testing.T) {
	// Arrange
	repo, clock := newAgentRepo(t)
	addAgent(t, repo, clock, 1, cubicles2)
	ctx := context.Background()

	// Act
	updated, err := repo.Update(ctx, 1, func(ctx context.Context, agent *workforce.Agent, _ workforce.RoomCounter) error {
		return agent.BeginWalking(training4, workforce.StateTraining)
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, workforce.StateWalking, updated.State())

	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, workforce.StateWalking, found.State())
	assert.Equal(t, workforce.StateTraining, found.DesiredState())
	require.NotNil(t, found.TargetRoom())
	assert.Equal(t, training4, *found.TargetRoom())
	require.NotNil(t, found.CurrentRoom())
	assert.Equal(t, cubicles2, *found.CurrentRoom())
}

func TestAgentRepository_UpdateErrorRollsBack(t *testing.T) {
	// Arrange
	repo, clock := newAgentRepo(t)
	addAgent(t, repo, clock, 1, cubicles2)
	abort := errors.New("abort")
	ctx := context.Background()

	// Act
	_, err := repo.Update(ctx, 1, func(ctx context.Context, agent *workforce.Agent, _ workforce.RoomCounter) error {
		agent.GoHome()
		return abort
	})

	// Assert
	assert.ErrorIs(t, err, abort)
	found, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, workforce.StateWorking, found.State())
	require.NotNil(t, found.CurrentRoom())
	assert.Equal(t, cubicles2, *found.CurrentRoom())
}

func TestAgentRepository_OccupancyCountsCurrentRooms(t *testing.T) {
	// Arrange
	repo, clock := newAgentRepo(t)
	ctx := context.Background()
	addAgent(t, repo, clock, 1, cubicles2)
	addAgent(t, repo, clock, 2, cubicles2)
	addAgent(t, repo, clock, 3, breakroom2)
	addAgent(t, repo, clock, 4, breakroom2)
	_, err := repo.Update(ctx, 4, func(ctx context.Context, agent *workforce.Agent, _ workforce.RoomCounter) error {
		agent.GoHome()
		return nil
	})
	require.NoError(t, err)

	// Act
	occ, err := repo.Occupancy(ctx)
	require.NoError(t, err)
	inCubicles, err := repo.CountInRoom(ctx, cubicles2)
	require.NoError(t, err)

	// Assert
	assert.Equal(t, 2, occ.Count(cubicles2))
	assert.Equal(t, 1, occ.Count(breakroom2))
	assert.Equal(t, 2, inCubicles)
}

func TestAgentRepository_ListFilters(t *testing.T) {
	// Arrange
	repo, clock := newAgentRepo(t)
	ctx := context.Background()
	addAgent(t, repo, clock, 3, cubicles2)
	addAgent(t, repo, clock, 1, cubicles2)
	addAgent(t, repo, clock, 2, breakroom2)
	_, err := repo.Update(ctx, 2, func(ctx context.Context, agent *workforce.Agent, _ workforce.RoomCounter) error {
		return agent.Wait(training4, workforce.StateTraining)
	})
	require.NoError(t, err)

	// Act
	all, err := repo.List(ctx)
	require.NoError(t, err)
	waiting, err := repo.ListByState(ctx, workforce.StateWaiting)
	require.NoError(t, err)
	inCubicles, err := repo.ListInRoom(ctx, cubicles2)
	require.NoError(t, err)

	// Assert
	require.Len(t, all, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{all[0].ID(), all[1].ID(), all[2].ID()})
	require.Len(t, waiting, 1)
	assert.Equal(t, 2, waiting[0].ID())
	require.NotNil(t, waiting[0].PendingRoom())
	assert.Equal(t, training4, *waiting[0].PendingRoom())
	assert.Len(t, inCubicles, 2)
}

func TestAgentRepository_CounterSeesUncommittedChangesOfItsOwnTransaction(t *testing.T) {
	// Arrange
	repo, clock := newAgentRepo(t)
	ctx := context.Background()
	addAgent(t, repo, clock, 1, cubicles2)

	// Act
	var inside int
	_, err := repo.Update(ctx, 1, func(ctx context.Context, agent *workforce.Agent, counter workforce.RoomCounter) error {
		n, err := counter.CountInRoom(ctx, cubicles2)
		inside = n
		return err
	})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, inside)
}

func TestAgentRepository_ConcurrentClaimsForTheLastSeat(t *testing.T) {
	// Arrange
	repo, clock := newAgentRepo(t)
	ctx := context.Background()
	const capacity = 3
	for id := 1; id <= 8; id++ {
		addAgent(t, repo, clock, id, cubicles2)
	}

	// Act: every agent tries to settle in the breakroom if a seat is free
	var wg sync.WaitGroup
	for id := 1; id <= 8; id++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, _ = repo.Update(ctx, id, func(ctx context.Context, agent *workforce.Agent, counter workforce.RoomCounter) error {
				n, err := counter.CountInRoom(ctx, breakroom2)
				if err != nil {
					return err
				}
				if n >= capacity {
					return nil
				}
				agent.ForcePlace(breakroom2, workforce.StateBreak)
				return nil
			})
		}(id)
	}
	wg.Wait()

	// Assert
	count, err := repo.CountInRoom(ctx, breakroom2)
	require.NoError(t, err)
	assert.Equal(t, capacity, count)
}

func TestAgentRepository_AddRetriesThroughWriteLock(t *testing.T) {
	// Arrange
	db, path := helpers.NewFileTestDB(t, 20*time.Millisecond)
	ctx := context.Background()
	clock := shared.NewMockClock(helpers.TestHiredAt)
	repo := persistence.NewGormAgentRepository(db, clock, patientPolicy())
	agent, err := workforce.NewAgent(3, "Dana", "Engineer", "Engineering", cubicles2, helpers.TestHiredAt, clock)
	require.NoError(t, err)
	release := holdWriteLock(t, path)

	// Act
	releaseAfter(100*time.Millisecond, release)
	err = repo.Add(ctx, agent)

	// Assert
	require.NoError(t, err)
	found, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, cubicles2, found.HomeRoom())
}
