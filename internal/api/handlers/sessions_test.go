package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/RMahshie/fra-analyzer/internal/repository/memory"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const sessionID = "session-0001"

func TestListSessionAnalyses(t *testing.T) {
	store := memory.NewStore()
	handler := newTestHandler(store, &MockS3Service{}, &MockProcessingService{})

	resp, err := handler.ListSessionAnalyses(context.Background(), &models.SessionRequest{SessionID: sessionID})
	require.NoError(t, err)
	assert.NotNil(t, resp.Body.Analyses)
	assert.Empty(t, resp.Body.Analyses)

	seedAnalysis(t, store, sessionID, models.StatusPending)
	seedAnalysis(t, store, sessionID, models.StatusCompleted)
	seedAnalysis(t, store, "other-session", models.StatusPending)

	resp, err = handler.ListSessionAnalyses(context.Background(), &models.SessionRequest{SessionID: sessionID})
	require.NoError(t, err)
	assert.Len(t, resp.Body.Analyses, 2)
}

func TestClearSessionAnalyses(t *testing.T) {
	store := memory.NewStore()
	mockS3 := &MockS3Service{}
	handler := newTestHandler(store, mockS3, &MockProcessingService{})

	first := seedAnalysis(t, store, sessionID, models.StatusCompleted)
	second := seedAnalysis(t, store, sessionID, models.StatusPending)
	other := seedAnalysis(t, store, "other-session", models.StatusPending)

	mockS3.On("DeleteFile", mock.Anything, "sweeps/"+first.String()+".dat").Return(nil)
	mockS3.On("DeleteFile", mock.Anything, "sweeps/"+second.String()+".dat").Return(errors.New("access denied"))

	resp, err := handler.ClearSessionAnalyses(context.Background(), &models.SessionRequest{SessionID: sessionID})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Body.Deleted)

	_, err = store.GetByID(context.Background(), first)
	assert.Error(t, err)
	_, err = store.GetByID(context.Background(), other)
	assert.NoError(t, err)

	mockS3.AssertExpectations(t)
}

func TestThresholds(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	handler := newTestHandler(store, &MockS3Service{}, &MockProcessingService{})
	req := &models.SessionRequest{SessionID: sessionID}

	resp, err := handler.GetThresholds(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Body.Default)
	assert.Equal(t, models.Thresholds{Warning: 70, Critical: 50}, resp.Body.Thresholds)

	resp, err = handler.PutThresholds(ctx, &models.PutThresholdsRequest{
		SessionID: sessionID,
		Body:      models.Thresholds{Warning: 80, Critical: 40},
	})
	require.NoError(t, err)
	assert.False(t, resp.Body.Default)

	resp, err = handler.GetThresholds(ctx, req)
	require.NoError(t, err)
	assert.False(t, resp.Body.Default)
	assert.Equal(t, models.Thresholds{Warning: 80, Critical: 40}, resp.Body.Thresholds)

	resp, err = handler.ResetThresholds(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Body.Default)

	resp, err = handler.GetThresholds(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Body.Default)
}

func TestPutThresholds_Invalid(t *testing.T) {
	handler := newTestHandler(memory.NewStore(), &MockS3Service{}, &MockProcessingService{})

	for _, th := range []models.Thresholds{
		{Warning: 50, Critical: 50},
		{Warning: 40, Critical: 60},
		{Warning: 120, Critical: 50},
		{Warning: 70, Critical: -1},
	} {
		_, err := handler.PutThresholds(context.Background(), &models.PutThresholdsRequest{SessionID: sessionID, Body: th})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err), "%+v", th)
	}
}
