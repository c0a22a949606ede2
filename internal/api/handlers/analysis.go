package handlers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/fra-analyzer/internal/analysis"
	"github.com/RMahshie/fra-analyzer/internal/parser"
	"github.com/RMahshie/fra-analyzer/internal/processing"
	"github.com/RMahshie/fra-analyzer/internal/repository"
	"github.com/RMahshie/fra-analyzer/internal/storage"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// AnalysisHandler handles analysis-related HTTP requests
type AnalysisHandler struct {
	repo          repository.Store
	s3Service     storage.S3Service
	processingSvc processing.ProcessingService
	parserOpts    parser.Options
	defaults      models.Thresholds

	analyze func(name string, data, baseline models.Sweep) (*models.AnalysisResult, error)
}

// NewAnalysisHandler creates a new analysis handler. s3Service and
// processingSvc may be nil when object storage is disabled.
func NewAnalysisHandler(repo repository.Store, s3Service storage.S3Service, processingSvc processing.ProcessingService, opts parser.Options, defaults models.Thresholds) *AnalysisHandler {
	return &AnalysisHandler{
		repo:          repo,
		s3Service:     s3Service,
		processingSvc: processingSvc,
		parserOpts:    opts,
		defaults:      defaults,
		analyze:       analysis.Analyze,
	}
}

// CreateAnalysis creates a new analysis and returns an upload URL
func (h *AnalysisHandler) CreateAnalysis(ctx context.Context, req *models.CreateAnalysisRequest) (*models.CreateAnalysisResponse, error) {
	log.Info().Int64("fileSize", req.Body.FileSize).Str("fileName", req.Body.FileName).Msg("Creating new analysis")

	format, err := parser.DetectFormat(req.Body.FileName, req.Body.MimeType)
	if err != nil {
		return nil, huma.Error400BadRequest("Sweep format not supported. Upload a CSV or XML export.", err)
	}

	var baselineID *string
	if req.Body.BaselineID != "" {
		id, err := uuid.Parse(req.Body.BaselineID)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid baseline ID", err)
		}
		if _, err := h.repo.GetByID(ctx, id); err != nil {
			return nil, huma.Error404NotFound("Baseline analysis not found", err)
		}
		ref := id.String()
		baselineID = &ref
	}

	analysisID := uuid.New()
	sweepKey := storage.SweepKey(analysisID.String())

	uploadURL, err := h.s3Service.GenerateUploadURL(ctx, sweepKey, req.Body.MimeType)
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to prepare upload. Please try again.", err)
	}
	log.Info().Str("analysisID", analysisID.String()).Str("sweepKey", sweepKey).Msg("Upload URL generated")

	now := time.Now()
	a := &models.Analysis{
		ID:         analysisID.String(),
		SessionID:  req.Body.SessionID,
		FileName:   req.Body.FileName,
		Format:     string(format),
		Status:     models.StatusPending,
		Progress:   0,
		SweepS3Key: &sweepKey,
		BaselineID: baselineID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.repo.Create(ctx, a); err != nil {
		return nil, huma.Error500InternalServerError("Failed to create analysis", err)
	}

	log.Info().Str("analysisID", a.ID).Str("sessionID", a.SessionID).Msg("Analysis created, returning upload URL to client")
	return &models.CreateAnalysisResponse{
		Body: models.CreateAnalysisResponseBody{
			ID:        a.ID,
			UploadURL: uploadURL,
			ExpiresIn: int(storage.UploadURLExpiry.Seconds()),
		},
	}, nil
}

// GetAnalysisStatus returns the current status of an analysis
func (h *AnalysisHandler) GetAnalysisStatus(ctx context.Context, req *models.GetAnalysisStatusRequest) (*models.GetAnalysisStatusResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	a, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, huma.Error404NotFound("Analysis not found", err)
	}

	var resultsID *string
	if a.Status == models.StatusCompleted {
		results, err := h.repo.GetResults(ctx, analysisID)
		if err == nil && results != nil {
			resultsID = &results.ID
		}
	}

	return &models.GetAnalysisStatusResponse{
		Body: models.GetAnalysisStatusResponseBody{
			ID:        a.ID,
			Status:    a.Status,
			Progress:  a.Progress,
			Message:   h.generateStatusMessage(a.Status, a.Progress),
			Error:     a.ErrorMsg,
			ResultsID: resultsID,
		},
	}, nil
}

// GetAnalysisResults returns the stored verdict bucketed by the session thresholds
func (h *AnalysisHandler) GetAnalysisResults(ctx context.Context, req *models.GetAnalysisResultsRequest) (*models.GetAnalysisResultsResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	a, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, huma.Error404NotFound("Analysis not found", err)
	}

	if a.Status != models.StatusCompleted {
		return nil, huma.Error409Conflict("Analysis not yet completed",
			fmt.Errorf("analysis status is %s", a.Status))
	}

	results, err := h.repo.GetResults(ctx, analysisID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to get results", err)
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = a.SessionID
	}
	thresholds, _, err := processing.ResolveThresholds(ctx, h.repo, sessionID, h.defaults)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load thresholds", err)
	}

	return &models.GetAnalysisResultsResponse{
		Body: models.GetAnalysisResultsResponseBody{
			ID:         results.ID,
			AnalysisID: results.AnalysisID,
			Result:     results.Result,
			Severity:   analysis.SeverityOf(results.Result.Score, thresholds),
			PointCount: results.PointCount,
			CreatedAt:  results.CreatedAt,
		},
	}, nil
}

// StartProcessing starts processing an uploaded sweep
func (h *AnalysisHandler) StartProcessing(ctx context.Context, req *models.StartProcessingRequest) (*models.StartProcessingResponse, error) {
	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, huma.Error400BadRequest("Invalid analysis ID", err)
	}

	a, err := h.repo.GetByID(ctx, analysisID)
	if err != nil {
		return nil, huma.Error404NotFound("Analysis not found", err)
	}
	if a.Status == models.StatusProcessing || a.Status == models.StatusCompleted {
		return nil, huma.Error409Conflict("Analysis already " + a.Status)
	}

	log.Info().Str("analysisID", analysisID.String()).Msg("Starting background processing goroutine")
	go func() {
		err := h.processingSvc.ProcessAnalysis(context.Background(), analysisID)
		if err != nil {
			log.Error().Err(err).Str("analysisID", analysisID.String()).Msg("Processing failed")
			h.repo.UpdateError(context.Background(), analysisID, fmt.Sprintf("Processing failed: %v", err))
		}
	}()

	resp := &models.StartProcessingResponse{}
	resp.Body.Message = "Processing started successfully"
	return resp, nil
}

// generateStatusMessage creates a human-readable status message
func (h *AnalysisHandler) generateStatusMessage(status string, progress int) string {
	switch status {
	case models.StatusPending:
		return "Analysis queued for processing..."
	case models.StatusProcessing:
		if progress < 30 {
			return "Starting analysis..."
		} else if progress < 50 {
			return "Reading sweep file..."
		} else if progress < 80 {
			return "Analyzing frequency response..."
		} else {
			return "Finalizing results..."
		}
	case models.StatusCompleted:
		return "Analysis complete!"
	case models.StatusFailed:
		return "Analysis failed. Please try again."
	default:
		return "Unknown status"
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
