package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/RMahshie/fra-analyzer/internal/analysis"
	"github.com/RMahshie/fra-analyzer/internal/parser"
	"github.com/RMahshie/fra-analyzer/pkg/models"
	"github.com/danielgtaylor/huma/v2"
	"github.com/rs/zerolog/log"
)

const (
	msgNoData         = "No FRA data provided."
	msgAnalysisFailed = "Failed to analyze data"
)

// AnalyzeSweep classifies a sweep posted as JSON
func (h *AnalysisHandler) AnalyzeSweep(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	data, ok := parser.FromJSON(req.Body.Data)
	if !ok || len(data) == 0 {
		return nil, huma.Error400BadRequest(msgNoData)
	}
	baseline, _ := parser.FromJSON(req.Body.Baseline)

	return h.runAnalysis(req.Body.Name, data, baseline)
}

// AnalyzeFile classifies a raw CSV or XML export posted as the request body
func (h *AnalysisHandler) AnalyzeFile(ctx context.Context, req *models.AnalyzeFileRequest) (*models.AnalyzeResponse, error) {
	if len(bytes.TrimSpace(req.RawBody)) == 0 {
		return nil, huma.Error400BadRequest(msgNoData)
	}

	format, err := h.fileFormat(req.Name, req.Format, req.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("Unsupported sweep format", err)
	}

	data, err := parser.Parse(bytes.NewReader(req.RawBody), format, h.parserOpts)
	if err != nil {
		return nil, huma.Error400BadRequest("Failed to parse sweep file", err)
	}
	if len(data) == 0 {
		return nil, huma.Error400BadRequest(msgNoData)
	}

	return h.runAnalysis(req.Name, data, nil)
}

func (h *AnalysisHandler) fileFormat(name, format string, body []byte) (parser.Format, error) {
	if format != "" {
		return parser.ParseFormat(format)
	}
	if f, err := parser.DetectFormat(name, ""); err == nil {
		return f, nil
	}
	return parser.SniffFormat(body), nil
}

// runAnalysis maps analysis failures onto HTTP errors. Causes are logged and
// never returned to the client.
func (h *AnalysisHandler) runAnalysis(name string, data, baseline models.Sweep) (*models.AnalyzeResponse, error) {
	result, err := h.safeAnalyze(name, data, baseline)
	if err != nil {
		if errors.Is(err, analysis.ErrEmptyInput) {
			return nil, huma.Error400BadRequest(msgNoData)
		}
		log.Error().Err(err).Str("file", name).Int("points", len(data)).Msg("Analysis failed")
		return nil, huma.Error500InternalServerError(msgAnalysisFailed)
	}

	log.Info().
		Str("file", name).
		Str("faultType", string(result.FaultType)).
		Int("score", result.Score).
		Bool("baseline", result.Deviation != nil).
		Msg("Sweep analyzed")

	return &models.AnalyzeResponse{Body: *result}, nil
}

func (h *AnalysisHandler) safeAnalyze(name string, data, baseline models.Sweep) (result *models.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("analysis panicked: %v", r)
		}
	}()
	return h.analyze(name, data, baseline)
}
