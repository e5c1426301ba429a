package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/officesim-go/internal/adapters/persistence"
	"github.com/andrescamacho/officesim-go/internal/domain/shared"
	"github.com/andrescamacho/officesim-go/internal/domain/workforce"
	"github.com/andrescamacho/officesim-go/test/helpers"
)

func TestTrainingSessionRepository_StartAndEndSession(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTrainingSessionRepository(helpers.NewTestDB(t), fastPolicy(3))
	ctx := context.Background()
	start := helpers.TestHiredAt

	// Act
	require.NoError(t, repo.StartSession(ctx, 1, training4, start))
	open, err := repo.FindOpenByAgent(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, open)
	require.NoError(t, repo.EndSession(ctx, 1, start.Add(12*time.Minute)))

	// Assert
	assert.Equal(t, training4, open.Room())
	assert.Equal(t, workforce.TrainingInProgress, open.Status())

	closed, err := repo.FindOpenByAgent(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, closed)
}

func TestTrainingSessionRepository_StartKeepsExistingOpenSession(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTrainingSessionRepository(helpers.NewTestDB(t), fastPolicy(3))
	ctx := context.Background()
	start := helpers.TestHiredAt
	require.NoError(t, repo.StartSession(ctx, 1, training4, start))

	// Act
	err := repo.StartSession(ctx, 1, training4, start.Add(5*time.Minute))

	// Assert
	require.NoError(t, err)
	open, err := repo.ListOpen(ctx)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].StartTime().Equal(start))
}

func TestTrainingSessionRepository_EndWithoutOpenSessionIsNoop(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTrainingSessionRepository(helpers.NewTestDB(t), fastPolicy(3))

	// Act
	err := repo.EndSession(context.Background(), 42, helpers.TestHiredAt)

	// Assert
	assert.NoError(t, err)
}

func TestTrainingSessionRepository_ListExpired(t *testing.T) {
	// Arrange
	repo := persistence.NewGormTrainingSessionRepository(helpers.NewTestDB(t), fastPolicy(3))
	ctx := context.Background()
	now := helpers.TestHiredAt.Add(time.Hour)
	require.NoError(t, repo.StartSession(ctx, 1, training4, now.Add(-45*time.Minute)))
	require.NoError(t, repo.StartSession(ctx, 2, training4, now.Add(-10*time.Minute)))

	// Act
	expired, err := repo.ListExpired(ctx, now)

	// Assert
	require.NoError(t, err)
	require.Len(t, expired, 1)
	assert.Equal(t, 1, expired[0].AgentID())
}

func TestTrainingSessionRepository_StartSessionRetriesThroughWriteLock(t *testing.T) {
	// Arrange
	db, path := helpers.NewFileTestDB(t, 20*time.Millisecond)
	ctx := context.Background()
	start := helpers.TestHiredAt
	impatient := persistence.NewGormTrainingSessionRepository(db, fastPolicy(1))
	repo := persistence.NewGormTrainingSessionRepository(db, patientPolicy())
	release := holdWriteLock(t, path)

	// Act
	contended := impatient.StartSession(ctx, 1, training4, start)
	releaseAfter(100*time.Millisecond, release)
	err := repo.StartSession(ctx, 1, training4, start)

	// Assert
	assert.ErrorIs(t, contended, shared.ErrStoreContended)
	require.NoError(t, err)
	open, err := repo.FindOpenByAgent(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, training4, open.Room())
}

func TestTrainingSessionRepository_EndSessionRetriesThroughWriteLock(t *testing.T) {
	// Arrange
	db, path := helpers.NewFileTestDB(t, 20*time.Millisecond)
	ctx := context.Background()
	start := helpers.TestHiredAt
	repo := persistence.NewGormTrainingSessionRepository(db, patientPolicy())
	require.NoError(t, repo.StartSession(ctx, 1, training4, start))
	release := holdWriteLock(t, path)

	// Act
	releaseAfter(100*time.Millisecond, release)
	err := repo.EndSession(ctx, 1, start.Add(10*time.Minute))

	// Assert
	require.NoError(t, err)
	open, err := repo.FindOpenByAgent(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, open)
}
