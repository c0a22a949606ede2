package memory

import (
	"context"
	"testing"
	"time"

	"github.com/RMahshie/fra-analyzer/internal/repository"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_AnalysisLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	analysis := &models.Analysis{SessionID: "session-0001", FileName: "tx1.csv", Format: "csv", Status: models.StatusPending}
	require.NoError(t, store.Create(ctx, analysis))
	require.NotEmpty(t, analysis.ID)

	id := uuid.MustParse(analysis.ID)

	require.NoError(t, store.UpdateStatus(ctx, id, models.StatusProcessing, 50))
	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, got.Status)
	assert.Equal(t, 50, got.Progress)
	assert.Nil(t, got.CompletedAt)

	require.NoError(t, store.StoreResults(ctx, &models.AnalysisResults{
		ID:         uuid.New().String(),
		AnalysisID: analysis.ID,
		Result:     models.AnalysisResult{File: "tx1.csv", FaultType: models.FaultHealthy, Score: 95},
		PointCount: 3,
	}))
	require.NoError(t, store.UpdateStatus(ctx, id, models.StatusCompleted, 100))

	got, err = store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotNil(t, got.CompletedAt)

	results, err := store.GetResults(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 95, results.Result.Score)
}

func TestStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	id := uuid.New()

	_, err := store.GetByID(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = store.GetResults(ctx, id)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	assert.ErrorIs(t, store.UpdateStatus(ctx, id, models.StatusProcessing, 10), repository.ErrNotFound)
	assert.ErrorIs(t, store.UpdateError(ctx, id, "boom"), repository.ErrNotFound)

	_, err = store.GetThresholds(ctx, "session-0001")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_UpdateError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	analysis := &models.Analysis{SessionID: "session-0001", Status: models.StatusProcessing}
	require.NoError(t, store.Create(ctx, analysis))
	id := uuid.MustParse(analysis.ID)

	require.NoError(t, store.UpdateError(ctx, id, "Failed to parse sweep"))

	got, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, got.Status)
	require.NotNil(t, got.ErrorMsg)
	assert.Equal(t, "Failed to parse sweep", *got.ErrorMsg)
}

func TestStore_SessionHistory(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	for i, session := range []string{"session-aaaa", "session-bbbb", "session-aaaa"} {
		require.NoError(t, store.Create(ctx, &models.Analysis{
			SessionID: session,
			FileName:  session,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	history, err := store.GetBySessionID(ctx, "session-aaaa")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].CreatedAt.After(history[1].CreatedAt), "newest first")

	deleted, err := store.DeleteBySessionID(ctx, "session-aaaa")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	history, err = store.GetBySessionID(ctx, "session-aaaa")
	require.NoError(t, err)
	assert.Empty(t, history)

	history, err = store.GetBySessionID(ctx, "session-bbbb")
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestStore_Thresholds(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	require.NoError(t, store.SaveThresholds(ctx, &models.SessionThresholds{
		SessionID:  "session-0001",
		Thresholds: models.Thresholds{Warning: 80, Critical: 40},
	}))

	got, err := store.GetThresholds(ctx, "session-0001")
	require.NoError(t, err)
	assert.Equal(t, models.Thresholds{Warning: 80, Critical: 40}, got.Thresholds)
	assert.False(t, got.UpdatedAt.IsZero())

	require.NoError(t, store.DeleteThresholds(ctx, "session-0001"))
	_, err = store.GetThresholds(ctx, "session-0001")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
