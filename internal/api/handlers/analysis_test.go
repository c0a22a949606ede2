package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/RMahshie/fra-analyzer/internal/analysis"
	"github.com/RMahshie/fra-analyzer/internal/parser"
	"github.com/RMahshie/fra-analyzer/internal/repository/memory"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockS3Service implements storage.S3Service for testing
type MockS3Service struct {
	mock.Mock
}

func (m *MockS3Service) GenerateUploadURL(ctx context.Context, key string, contentType string) (string, error) {
	args := m.Called(ctx, key, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockS3Service) DownloadFile(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockS3Service) UploadFile(ctx context.Context, key string, contentType string, data []byte) error {
	args := m.Called(ctx, key, contentType, data)
	return args.Error(0)
}

func (m *MockS3Service) DeleteFile(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// MockProcessingService implements processing.ProcessingService for testing
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	args := m.Called(ctx, analysisID)
	return args.Error(0)
}

// failingStore wraps the memory store and fails Create
type failingStore struct {
	*memory.Store
}

func (s failingStore) Create(ctx context.Context, a *models.Analysis) error {
	return errors.New("database unavailable")
}

func newTestHandler(store *memory.Store, s3 *MockS3Service, proc *MockProcessingService) *AnalysisHandler {
	return NewAnalysisHandler(store, s3, proc, parser.Options{}, analysis.DefaultThresholds())
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.ErrorAs(t, err, &se)
	return se.GetStatus()
}

func seedAnalysis(t *testing.T, store *memory.Store, sessionID, status string) uuid.UUID {
	t.Helper()
	id := uuid.New()
	key := "sweeps/" + id.String() + ".dat"
	require.NoError(t, store.Create(context.Background(), &models.Analysis{
		ID:         id.String(),
		SessionID:  sessionID,
		FileName:   "tx1.csv",
		Format:     "csv",
		Status:     status,
		SweepS3Key: &key,
	}))
	return id
}

func createRequest(fileName, mimeType, baselineID string) *models.CreateAnalysisRequest {
	return &models.CreateAnalysisRequest{
		Body: models.CreateAnalysisRequestBody{
			SessionID:  "test-session-123",
			FileName:   fileName,
			MimeType:   mimeType,
			FileSize:   4096,
			BaselineID: baselineID,
		},
	}
}

func TestCreateAnalysis(t *testing.T) {
	store := memory.NewStore()
	mockS3 := &MockS3Service{}
	mockS3.On("GenerateUploadURL", mock.Anything, mock.MatchedBy(func(key string) bool {
		return len(key) > len("sweeps/")
	}), "text/csv").Return("https://example.com/upload", nil)

	handler := newTestHandler(store, mockS3, &MockProcessingService{})

	resp, err := handler.CreateAnalysis(context.Background(), createRequest("tx1.csv", "text/csv", ""))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Body.ID)
	assert.Equal(t, "https://example.com/upload", resp.Body.UploadURL)
	assert.Equal(t, 900, resp.Body.ExpiresIn) // 15 minutes in seconds

	a, err := store.GetByID(context.Background(), uuid.MustParse(resp.Body.ID))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, a.Status)
	assert.Equal(t, "csv", a.Format)
	assert.Equal(t, "sweeps/"+resp.Body.ID+".dat", *a.SweepS3Key)
	assert.Nil(t, a.BaselineID)

	mockS3.AssertExpectations(t)
}

func TestCreateAnalysis_WithBaseline(t *testing.T) {
	store := memory.NewStore()
	baselineID := seedAnalysis(t, store, "test-session-123", models.StatusCompleted)

	mockS3 := &MockS3Service{}
	mockS3.On("GenerateUploadURL", mock.Anything, mock.Anything, "application/xml").Return("https://example.com/upload", nil)

	handler := newTestHandler(store, mockS3, &MockProcessingService{})

	resp, err := handler.CreateAnalysis(context.Background(), createRequest("tx2.xml", "application/xml", baselineID.String()))
	require.NoError(t, err)

	a, err := store.GetByID(context.Background(), uuid.MustParse(resp.Body.ID))
	require.NoError(t, err)
	assert.Equal(t, "xml", a.Format)
	require.NotNil(t, a.BaselineID)
	assert.Equal(t, baselineID.String(), *a.BaselineID)
}

func TestCreateAnalysis_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        *models.CreateAnalysisRequest
		s3Error    error
		failCreate bool
		wantStatus int
	}{
		{
			name:       "malformed baseline id",
			req:        createRequest("tx1.csv", "text/csv", "not-a-uuid"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown baseline",
			req:        createRequest("tx1.csv", "text/csv", uuid.New().String()),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "upload url failure",
			req:        createRequest("tx1.csv", "text/csv", ""),
			s3Error:    errors.New("invalid content type: text/csv"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "database failure",
			req:        createRequest("tx1.csv", "text/csv", ""),
			failCreate: true,
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewStore()
			mockS3 := &MockS3Service{}
			mockS3.On("GenerateUploadURL", mock.Anything, mock.Anything, mock.Anything).Return("http://test-url", tt.s3Error).Maybe()

			var handler *AnalysisHandler
			if tt.failCreate {
				handler = NewAnalysisHandler(failingStore{store}, mockS3, &MockProcessingService{}, parser.Options{}, analysis.DefaultThresholds())
			} else {
				handler = newTestHandler(store, mockS3, &MockProcessingService{})
			}

			_, err := handler.CreateAnalysis(context.Background(), tt.req)
			assert.Equal(t, tt.wantStatus, statusOf(t, err))
		})
	}
}

func TestGetAnalysisStatus(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	handler := newTestHandler(store, &MockS3Service{}, &MockProcessingService{})

	id := seedAnalysis(t, store, "test-session-123", models.StatusPending)

	resp, err := handler.GetAnalysisStatus(ctx, &models.GetAnalysisStatusRequest{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, resp.Body.Status)
	assert.Equal(t, "Analysis queued for processing...", resp.Body.Message)
	assert.Nil(t, resp.Body.ResultsID)

	require.NoError(t, store.UpdateError(ctx, id, "Failed to read sweep file"))
	resp, err = handler.GetAnalysisStatus(ctx, &models.GetAnalysisStatusRequest{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, resp.Body.Status)
	require.NotNil(t, resp.Body.Error)
	assert.Equal(t, "Failed to read sweep file", *resp.Body.Error)

	_, err = handler.GetAnalysisStatus(ctx, &models.GetAnalysisStatusRequest{ID: "bad"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = handler.GetAnalysisStatus(ctx, &models.GetAnalysisStatusRequest{ID: uuid.New().String()})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestGenerateStatusMessage(t *testing.T) {
	h := &AnalysisHandler{}

	assert.Equal(t, "Starting analysis...", h.generateStatusMessage(models.StatusProcessing, 10))
	assert.Equal(t, "Reading sweep file...", h.generateStatusMessage(models.StatusProcessing, 30))
	assert.Equal(t, "Analyzing frequency response...", h.generateStatusMessage(models.StatusProcessing, 60))
	assert.Equal(t, "Finalizing results...", h.generateStatusMessage(models.StatusProcessing, 90))
	assert.Equal(t, "Analysis complete!", h.generateStatusMessage(models.StatusCompleted, 100))
	assert.Equal(t, "Unknown status", h.generateStatusMessage("archived", 0))
}

func TestGetAnalysisResults(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	handler := newTestHandler(store, &MockS3Service{}, &MockProcessingService{})

	id := seedAnalysis(t, store, "test-session-123", models.StatusPending)

	_, err := handler.GetAnalysisResults(ctx, &models.GetAnalysisResultsRequest{ID: id.String()})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	require.NoError(t, store.StoreResults(ctx, &models.AnalysisResults{
		ID:         uuid.New().String(),
		AnalysisID: id.String(),
		Result:     models.AnalysisResult{File: "tx1.csv", FaultType: models.FaultRadialDeformation, Score: 55},
		PointCount: 3,
		CreatedAt:  time.Now(),
	}))
	require.NoError(t, store.UpdateStatus(ctx, id, models.StatusCompleted, 100))

	resp, err := handler.GetAnalysisResults(ctx, &models.GetAnalysisResultsRequest{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, models.FaultRadialDeformation, resp.Body.Result.FaultType)
	assert.Equal(t, models.SeverityWarning, resp.Body.Severity)
	assert.Equal(t, 3, resp.Body.PointCount)

	// A stricter session moves the same score into Critical
	require.NoError(t, store.SaveThresholds(ctx, &models.SessionThresholds{
		SessionID:  "strict-session",
		Thresholds: models.Thresholds{Warning: 90, Critical: 60},
	}))
	resp, err = handler.GetAnalysisResults(ctx, &models.GetAnalysisResultsRequest{ID: id.String(), SessionID: "strict-session"})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityCritical, resp.Body.Severity)
}

func TestStartProcessing(t *testing.T) {
	store := memory.NewStore()
	mockProc := &MockProcessingService{}
	handler := newTestHandler(store, &MockS3Service{}, mockProc)

	id := seedAnalysis(t, store, "test-session-123", models.StatusPending)

	done := make(chan struct{})
	mockProc.On("ProcessAnalysis", mock.Anything, id).Return(nil).Run(func(mock.Arguments) { close(done) })

	resp, err := handler.StartProcessing(context.Background(), &models.StartProcessingRequest{ID: id.String()})
	require.NoError(t, err)
	assert.Equal(t, "Processing started successfully", resp.Body.Message)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("processing was not started")
	}
	mockProc.AssertExpectations(t)
}

func TestStartProcessing_RecordsFailure(t *testing.T) {
	store := memory.NewStore()
	mockProc := &MockProcessingService{}
	handler := newTestHandler(store, &MockS3Service{}, mockProc)

	id := seedAnalysis(t, store, "test-session-123", models.StatusPending)
	mockProc.On("ProcessAnalysis", mock.Anything, id).Return(errors.New("boom"))

	_, err := handler.StartProcessing(context.Background(), &models.StartProcessingRequest{ID: id.String()})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		a, err := store.GetByID(context.Background(), id)
		return err == nil && a.Status == models.StatusFailed
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStartProcessing_Errors(t *testing.T) {
	store := memory.NewStore()
	handler := newTestHandler(store, &MockS3Service{}, &MockProcessingService{})

	_, err := handler.StartProcessing(context.Background(), &models.StartProcessingRequest{ID: "bad"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))

	_, err = handler.StartProcessing(context.Background(), &models.StartProcessingRequest{ID: uuid.New().String()})
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	id := seedAnalysis(t, store, "test-session-123", models.StatusCompleted)
	_, err = handler.StartProcessing(context.Background(), &models.StartProcessingRequest{ID: id.String()})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}
