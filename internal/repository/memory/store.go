// Package memory provides an in-process Store for development and tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/RMahshie/fra-analyzer/internal/repository"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/google/uuid"
)

// Store keeps analyses, results and thresholds in maps
type Store struct {
	mu         sync.RWMutex
	analyses   map[string]models.Analysis
	results    map[string]models.AnalysisResults
	thresholds map[string]models.SessionThresholds
	now        func() time.Time
}

// NewStore creates an empty in-memory store
func NewStore() *Store {
	return &Store{
		analyses:   make(map[string]models.Analysis),
		results:    make(map[string]models.AnalysisResults),
		thresholds: make(map[string]models.SessionThresholds),
		now:        time.Now,
	}
}

var _ repository.Store = (*Store)(nil)

// Create inserts a new analysis record
func (s *Store) Create(ctx context.Context, analysis *models.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if analysis.ID == "" {
		analysis.ID = uuid.New().String()
	}
	if _, exists := s.analyses[analysis.ID]; exists {
		return fmt.Errorf("analysis %s already exists", analysis.ID)
	}
	if analysis.CreatedAt.IsZero() {
		analysis.CreatedAt = s.now()
	}
	if analysis.UpdatedAt.IsZero() {
		analysis.UpdatedAt = analysis.CreatedAt
	}

	s.analyses[analysis.ID] = *analysis
	return nil
}

// GetByID retrieves an analysis by ID
func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.analyses[id.String()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

// GetBySessionID retrieves a session's analyses, newest first
func (s *Store) GetBySessionID(ctx context.Context, sessionID string) ([]*models.Analysis, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Analysis
	for _, a := range s.analyses {
		if a.SessionID == sessionID {
			a := a
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// DeleteBySessionID removes a session's analyses and their results
func (s *Store) DeleteBySessionID(ctx context.Context, sessionID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for id, a := range s.analyses {
		if a.SessionID != sessionID {
			continue
		}
		delete(s.analyses, id)
		delete(s.results, id)
		deleted++
	}
	return deleted, nil
}

// UpdateStatus updates the status and progress of an analysis
func (s *Store) UpdateStatus(ctx context.Context, id uuid.UUID, status string, progress int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.analyses[id.String()]
	if !ok {
		return repository.ErrNotFound
	}
	now := s.now()
	a.Status = status
	a.Progress = progress
	a.UpdatedAt = now
	if status == models.StatusCompleted {
		a.CompletedAt = &now
	}
	s.analyses[a.ID] = a
	return nil
}

// UpdateError marks an analysis failed with a message
func (s *Store) UpdateError(ctx context.Context, id uuid.UUID, errorMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.analyses[id.String()]
	if !ok {
		return repository.ErrNotFound
	}
	a.Status = models.StatusFailed
	a.ErrorMsg = &errorMsg
	a.UpdatedAt = s.now()
	s.analyses[a.ID] = a
	return nil
}

// StoreResults stores analysis results
func (s *Store) StoreResults(ctx context.Context, results *models.AnalysisResults) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.analyses[results.AnalysisID]; !ok {
		return repository.ErrNotFound
	}
	s.results[results.AnalysisID] = *results
	return nil
}

// GetResults retrieves analysis results
func (s *Store) GetResults(ctx context.Context, analysisID uuid.UUID) (*models.AnalysisResults, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.results[analysisID.String()]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

// GetThresholds retrieves a session's saved thresholds
func (s *Store) GetThresholds(ctx context.Context, sessionID string) (*models.SessionThresholds, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.thresholds[sessionID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

// SaveThresholds creates or replaces a session's thresholds
func (s *Store) SaveThresholds(ctx context.Context, thresholds *models.SessionThresholds) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if thresholds.UpdatedAt.IsZero() {
		thresholds.UpdatedAt = s.now()
	}
	s.thresholds[thresholds.SessionID] = *thresholds
	return nil
}

// DeleteThresholds removes a session's thresholds
func (s *Store) DeleteThresholds(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.thresholds, sessionID)
	return nil
}
