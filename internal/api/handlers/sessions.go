package handlers

import (
	"context"

	"github.com/RMahshie/fra-analyzer/internal/analysis"
	"github.com/RMahshie/fra-analyzer/internal/processing"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

// ListSessionAnalyses returns a session's analyses, newest first
func (h *AnalysisHandler) ListSessionAnalyses(ctx context.Context, req *models.SessionRequest) (*models.ListAnalysesResponse, error) {
	analyses, err := h.repo.GetBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to list analyses", err)
	}
	if analyses == nil {
		analyses = []*models.Analysis{}
	}

	resp := &models.ListAnalysesResponse{}
	resp.Body.Analyses = analyses
	return resp, nil
}

// ClearSessionAnalyses deletes a session's history along with its sweep files
func (h *AnalysisHandler) ClearSessionAnalyses(ctx context.Context, req *models.SessionRequest) (*models.ClearAnalysesResponse, error) {
	if h.s3Service != nil {
		analyses, err := h.repo.GetBySessionID(ctx, req.SessionID)
		if err != nil {
			return nil, huma.Error500InternalServerError("Failed to list analyses", err)
		}
		for _, a := range analyses {
			if a.SweepS3Key == nil {
				continue
			}
			if err := h.s3Service.DeleteFile(ctx, *a.SweepS3Key); err != nil {
				log.Warn().Err(err).Str("analysisID", a.ID).Msg("Failed to delete sweep file")
			}
		}
	}

	deleted, err := h.repo.DeleteBySessionID(ctx, req.SessionID)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to clear analyses", err)
	}

	log.Info().Str("sessionID", req.SessionID).Int("deleted", deleted).Msg("Session history cleared")

	resp := &models.ClearAnalysesResponse{}
	resp.Body.Deleted = deleted
	return resp, nil
}

// GetThresholds returns the thresholds in effect for a session
func (h *AnalysisHandler) GetThresholds(ctx context.Context, req *models.SessionRequest) (*models.ThresholdsResponse, error) {
	t, isDefault, err := processing.ResolveThresholds(ctx, h.repo, req.SessionID, h.defaults)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load thresholds", err)
	}
	return thresholdsResponse(req.SessionID, t, isDefault), nil
}

// PutThresholds saves a session's thresholds
func (h *AnalysisHandler) PutThresholds(ctx context.Context, req *models.PutThresholdsRequest) (*models.ThresholdsResponse, error) {
	if err := analysis.ValidateThresholds(req.Body); err != nil {
		return nil, huma.Error400BadRequest("Thresholds must satisfy 0 <= critical < warning <= 100", err)
	}

	saved := &models.SessionThresholds{SessionID: req.SessionID, Thresholds: req.Body}
	if err := h.repo.SaveThresholds(ctx, saved); err != nil {
		return nil, huma.Error500InternalServerError("Failed to save thresholds", err)
	}

	return thresholdsResponse(req.SessionID, saved.Thresholds, false), nil
}

// ResetThresholds drops a session's thresholds so the defaults apply again
func (h *AnalysisHandler) ResetThresholds(ctx context.Context, req *models.SessionRequest) (*models.ThresholdsResponse, error) {
	if err := h.repo.DeleteThresholds(ctx, req.SessionID); err != nil && !isNotFound(err) {
		return nil, huma.Error500InternalServerError("Failed to reset thresholds", err)
	}
	return thresholdsResponse(req.SessionID, h.defaults, true), nil
}

func thresholdsResponse(sessionID string, t models.Thresholds, isDefault bool) *models.ThresholdsResponse {
	resp := &models.ThresholdsResponse{}
	resp.Body.SessionID = sessionID
	resp.Body.Thresholds = t
	resp.Body.Default = isDefault
	return resp
}
