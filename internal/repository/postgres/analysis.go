package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/RMahshie/fra-analyzer/internal/repository"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/google/uuid"
)

// PostgresAnalysisRepository implements repository.Store for PostgreSQL
type PostgresAnalysisRepository struct {
	db *sql.DB
}

// NewPostgresAnalysisRepository creates a new PostgreSQL analysis repository
func NewPostgresAnalysisRepository(db *sql.DB) *PostgresAnalysisRepository {
	return &PostgresAnalysisRepository{db: db}
}

var _ repository.Store = (*PostgresAnalysisRepository)(nil)

const analysisColumns = `id, session_id, file_name, format, status, progress, sweep_s3_key, baseline_id, error_message, created_at, updated_at, completed_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*models.Analysis, error) {
	var analysis models.Analysis
	var sweepKey, baselineID, errorMsg sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&analysis.ID,
		&analysis.SessionID,
		&analysis.FileName,
		&analysis.Format,
		&analysis.Status,
		&analysis.Progress,
		&sweepKey,
		&baselineID,
		&errorMsg,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
		&completedAt)
	if err != nil {
		return nil, err
	}

	if sweepKey.Valid {
		analysis.SweepS3Key = &sweepKey.String
	}
	if baselineID.Valid {
		analysis.BaselineID = &baselineID.String
	}
	if errorMsg.Valid {
		analysis.ErrorMsg = &errorMsg.String
	}
	if completedAt.Valid {
		analysis.CompletedAt = &completedAt.Time
	}

	return &analysis, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

// Create inserts a new analysis record
func (r *PostgresAnalysisRepository) Create(ctx context.Context, analysis *models.Analysis) error {
	if analysis.ID == "" {
		analysis.ID = uuid.New().String()
	}

	query := `
		INSERT INTO analyses (id, session_id, file_name, format, status, progress, sweep_s3_key, baseline_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, COALESCE($9, NOW()), COALESCE($10, NOW()))
		RETURNING created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		analysis.ID,
		analysis.SessionID,
		analysis.FileName,
		analysis.Format,
		analysis.Status,
		analysis.Progress,
		analysis.SweepS3Key,
		analysis.BaselineID,
		nullTime(analysis.CreatedAt),
		nullTime(analysis.UpdatedAt)).Scan(&analysis.CreatedAt, &analysis.UpdatedAt)
}

// GetByID retrieves an analysis by ID
func (r *PostgresAnalysisRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`

	analysis, err := scanAnalysis(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return analysis, nil
}

// GetBySessionID retrieves analyses by session ID
func (r *PostgresAnalysisRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE session_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var analyses []*models.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}

	return analyses, rows.Err()
}

// DeleteBySessionID removes a session's analyses; results cascade
func (r *PostgresAnalysisRepository) DeleteBySessionID(ctx context.Context, sessionID string) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// UpdateStatus updates the status and progress of an analysis
func (r *PostgresAnalysisRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	query := `
		UPDATE analyses
		SET status = $1, progress = $2, updated_at = NOW(),
		    completed_at = CASE WHEN $3 THEN NOW() ELSE completed_at END
		WHERE id = $4`

	return r.execOne(ctx, query, status, progress, status == models.StatusCompleted, id)
}

// UpdateError updates the error message for an analysis
func (r *PostgresAnalysisRepository) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	query := `
		UPDATE analyses
		SET status = 'failed', error_message = $1, updated_at = NOW()
		WHERE id = $2`

	return r.execOne(ctx, query, errorMsg, id)
}

// StoreResults stores analysis results
func (r *PostgresAnalysisRepository) StoreResults(ctx context.Context, results *models.AnalysisResults) error {
	payload, err := json.Marshal(results.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result: %w", err)
	}

	query := `
		INSERT INTO analysis_results (id, analysis_id, fault_type, score, deviation, point_count, result, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		results.ID,
		results.AnalysisID,
		string(results.Result.FaultType),
		results.Result.Score,
		results.Result.Deviation,
		results.PointCount,
		string(payload),
		results.CreatedAt)

	return err
}

// GetResults retrieves analysis results
func (r *PostgresAnalysisRepository) GetResults(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResults, error) {
	query := `
		SELECT id, analysis_id, point_count, result, created_at
		FROM analysis_results
		WHERE analysis_id = $1`

	var results models.AnalysisResults
	var payload []byte

	err := r.db.QueryRowContext(ctx, query, analysisID).Scan(
		&results.ID,
		&results.AnalysisID,
		&results.PointCount,
		&payload,
		&results.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}

	if err := json.Unmarshal(payload, &results.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis result: %w", err)
	}

	return &results, nil
}

// GetThresholds retrieves a session's saved thresholds
func (r *PostgresAnalysisRepository) GetThresholds(ctx context.Context, sessionID string) (*models.SessionThresholds, error) {
	query := `SELECT session_id, warning, critical, updated_at FROM session_thresholds WHERE session_id = $1`

	var t models.SessionThresholds
	err := r.db.QueryRowContext(ctx, query, sessionID).Scan(
		&t.SessionID,
		&t.Thresholds.Warning,
		&t.Thresholds.Critical,
		&t.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

// SaveThresholds creates or replaces a session's thresholds
func (r *PostgresAnalysisRepository) SaveThresholds(ctx context.Context, t *models.SessionThresholds) error {
	query := `
		INSERT INTO session_thresholds (session_id, warning, critical, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (session_id) DO UPDATE
		SET warning = EXCLUDED.warning, critical = EXCLUDED.critical, updated_at = NOW()
		RETURNING updated_at`

	return r.db.QueryRowContext(ctx, query, t.SessionID, t.Thresholds.Warning, t.Thresholds.Critical).Scan(&t.UpdatedAt)
}

// DeleteThresholds removes a session's thresholds
func (r *PostgresAnalysisRepository) DeleteThresholds(ctx context.Context, sessionID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM session_thresholds WHERE session_id = $1`, sessionID)
	return err
}

// execOne runs an update that must touch exactly one row
func (r *PostgresAnalysisRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
