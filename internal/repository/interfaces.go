package repository

import (
	"context"
	"errors"

	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested record does not exist
var ErrNotFound = errors.New("record not found")

// AnalysisRepository defines the interface for analysis data operations
type AnalysisRepository interface {
	Create(ctx context.Context, analysis *models.Analysis) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error)
	GetBySessionID(ctx context.Context, sessionID string) ([]*models.Analysis, error)
	DeleteBySessionID(ctx context.Context, sessionID string) (int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error
	UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error
	StoreResults(ctx context.Context, results *models.AnalysisResults) error
	GetResults(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResults, error)
}

// ThresholdsRepository defines the interface for per-session threshold settings
type ThresholdsRepository interface {
	GetThresholds(ctx context.Context, sessionID string) (*models.SessionThresholds, error)
	SaveThresholds(ctx context.Context, thresholds *models.SessionThresholds) error
	DeleteThresholds(ctx context.Context, sessionID string) error
}

// Store combines every repository the service needs
type Store interface {
	AnalysisRepository
	ThresholdsRepository
}
