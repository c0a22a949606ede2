package processing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/fra-analyzer/internal/alerts"
	"github.com/RMahshie/fra-analyzer/internal/analysis"
	"github.com/RMahshie/fra-analyzer/internal/parser"
	"github.com/RMahshie/fra-analyzer/internal/repository"
	"github.com/RMahshie/fra-analyzer/internal/storage"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ProcessingService interface {
	ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error
}

type processingService struct {
	s3         storage.S3Service
	repository repository.Store
	alerts     alerts.Publisher
	parserOpts parser.Options
	defaults   models.Thresholds
}

func NewProcessingService(s3Service storage.S3Service, repo repository.Store, publisher alerts.Publisher, opts parser.Options, defaults models.Thresholds) ProcessingService {
	if publisher == nil {
		publisher = alerts.NopPublisher{}
	}
	return &processingService{
		s3:         s3Service,
		repository: repo,
		alerts:     publisher,
		parserOpts: opts,
		defaults:   defaults,
	}
}

func (s *processingService) ProcessAnalysis(ctx context.Context, analysisID uuid.UUID) error {
	logger := log.With().Str("analysis_id", analysisID.String()).Logger()

	// Step 1: Update to processing status
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 10); err != nil {
		return err
	}

	// Step 2: Get analysis details
	a, err := s.repository.GetByID(ctx, analysisID)
	if err != nil {
		return err
	}
	if a.SweepS3Key == nil {
		return s.fail(ctx, analysisID, "Analysis has no uploaded sweep", nil)
	}

	// Step 3: Download and parse the sweep
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 30); err != nil {
		return err
	}
	data, err := s.loadSweep(ctx, *a.SweepS3Key, a.FileName, a.Format)
	if err != nil {
		return s.fail(ctx, analysisID, "Failed to read sweep file", err)
	}

	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 50); err != nil {
		return err
	}

	// Step 4: Resolve the baseline, if one was requested
	var baseline models.Sweep
	if a.BaselineID != nil {
		baseline, err = s.loadBaseline(ctx, *a.BaselineID)
		if err != nil {
			return s.fail(ctx, analysisID, "Failed to read baseline sweep", err)
		}
	}

	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 60); err != nil {
		return err
	}

	// Step 5: Analyze
	result, err := analysis.Analyze(a.FileName, data, baseline)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyInput) {
			return s.fail(ctx, analysisID, "No FRA data provided.", err)
		}
		return s.fail(ctx, analysisID, "Failed to analyze data", err)
	}

	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 80); err != nil {
		return err
	}

	// Step 6: Store results
	results := &models.AnalysisResults{
		ID:         uuid.New().String(),
		AnalysisID: a.ID,
		Result:     *result,
		PointCount: len(data),
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.repository.StoreResults(ctx, results); err != nil {
		return err
	}

	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusProcessing, 90); err != nil {
		return err
	}

	// Step 7: Alert on degraded verdicts. Publishing failures never fail the analysis.
	thresholds, _, err := ResolveThresholds(ctx, s.repository, a.SessionID, s.defaults)
	if err != nil {
		logger.Warn().Err(err).Msg("Falling back to default thresholds")
		thresholds = s.defaults
	}
	severity := analysis.SeverityOf(result.Score, thresholds)
	if alert, ok := alerts.NewAlert(a, result, severity); ok {
		if err := s.alerts.Publish(ctx, alert); err != nil {
			logger.Error().Err(err).Str("severity", string(severity)).Msg("Failed to publish alert")
		}
	}

	// Step 8: Mark complete
	if err := s.repository.UpdateStatus(ctx, analysisID, models.StatusCompleted, 100); err != nil {
		return err
	}

	logger.Info().
		Str("fault_type", string(result.FaultType)).
		Int("score", result.Score).
		Int("points", len(data)).
		Msg("Analysis completed")

	return nil
}

// fail marks the analysis failed. The failure is recorded on the analysis,
// so the caller gets nil unless the status update itself fails.
func (s *processingService) fail(ctx context.Context, id uuid.UUID, msg string, cause error) error {
	log.Error().Err(cause).Str("analysis_id", id.String()).Msg(msg)
	if err := s.repository.UpdateError(ctx, id, msg); err != nil {
		return fmt.Errorf("failed to record analysis error: %w", err)
	}
	return nil
}

func (s *processingService) loadSweep(ctx context.Context, key, fileName, format string) (models.Sweep, error) {
	raw, err := s.s3.DownloadFile(ctx, key)
	if err != nil {
		return nil, err
	}

	f, err := parser.ParseFormat(format)
	if err != nil {
		if f, err = parser.DetectFormat(fileName, ""); err != nil {
			return nil, err
		}
	}

	return parser.Parse(bytes.NewReader(raw), f, s.parserOpts)
}

func (s *processingService) loadBaseline(ctx context.Context, baselineID string) (models.Sweep, error) {
	id, err := uuid.Parse(baselineID)
	if err != nil {
		return nil, fmt.Errorf("invalid baseline id: %w", err)
	}

	b, err := s.repository.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("baseline %s: %w", baselineID, err)
	}
	if b.SweepS3Key == nil {
		return nil, fmt.Errorf("baseline %s has no sweep", baselineID)
	}

	return s.loadSweep(ctx, *b.SweepS3Key, b.FileName, b.Format)
}

// ResolveThresholds returns the session's saved thresholds, or the defaults
// when the session has none. The bool reports whether defaults were used.
func ResolveThresholds(ctx context.Context, repo repository.ThresholdsRepository, sessionID string, defaults models.Thresholds) (models.Thresholds, bool, error) {
	saved, err := repo.GetThresholds(ctx, sessionID)
	if errors.Is(err, repository.ErrNotFound) {
		return defaults, true, nil
	}
	if err != nil {
		return models.Thresholds{}, false, err
	}
	return saved.Thresholds, false, nil
}
