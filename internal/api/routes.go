package api

import (
	"net/http"

	"github.com/RMahshie/fra-analyzer/internal/api/handlers"
	"github.com/danielgtaylor/huma/v2"
)

// RegisterRoutes sets up all API routes. The upload and processing routes are
// only registered when object storage is configured.
func RegisterRoutes(api huma.API, h *handlers.AnalysisHandler, storageEnabled bool) {
	// Synchronous analysis
	huma.Register(api, huma.Operation{
		OperationID: "analyzeSweep",
		Method:      http.MethodPost,
		Path:        "/api/analyze",
		Summary:     "Analyze a sweep",
		Description: "Classifies an FRA sweep and optionally compares it to a baseline",
		Tags:        []string{"Analyze"},
	}, h.AnalyzeSweep)

	huma.Register(api, huma.Operation{
		OperationID: "analyzeFile",
		Method:      http.MethodPost,
		Path:        "/api/analyze/file",
		Summary:     "Analyze a sweep file",
		Description: "Parses a raw CSV or XML sweep export and classifies it",
		Tags:        []string{"Analyze"},
	}, h.AnalyzeFile)

	// Session history and thresholds
	huma.Register(api, huma.Operation{
		OperationID: "listSessionAnalyses",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/analyses",
		Summary:     "List session analyses",
		Description: "Returns the analyses of a session, newest first",
		Tags:        []string{"Sessions"},
	}, h.ListSessionAnalyses)

	huma.Register(api, huma.Operation{
		OperationID: "clearSessionAnalyses",
		Method:      http.MethodDelete,
		Path:        "/api/sessions/{session_id}/analyses",
		Summary:     "Clear session analyses",
		Description: "Deletes the analyses and stored sweep files of a session",
		Tags:        []string{"Sessions"},
	}, h.ClearSessionAnalyses)

	huma.Register(api, huma.Operation{
		OperationID: "getThresholds",
		Method:      http.MethodGet,
		Path:        "/api/sessions/{session_id}/thresholds",
		Summary:     "Get thresholds",
		Description: "Returns the score thresholds in effect for a session",
		Tags:        []string{"Sessions"},
	}, h.GetThresholds)

	huma.Register(api, huma.Operation{
		OperationID: "putThresholds",
		Method:      http.MethodPut,
		Path:        "/api/sessions/{session_id}/thresholds",
		Summary:     "Set thresholds",
		Description: "Saves the score thresholds for a session",
		Tags:        []string{"Sessions"},
	}, h.PutThresholds)

	huma.Register(api, huma.Operation{
		OperationID: "resetThresholds",
		Method:      http.MethodDelete,
		Path:        "/api/sessions/{session_id}/thresholds",
		Summary:     "Reset thresholds",
		Description: "Restores the configured default thresholds for a session",
		Tags:        []string{"Sessions"},
	}, h.ResetThresholds)

	if !storageEnabled {
		return
	}

	// Stored analysis pipeline
	huma.Register(api, huma.Operation{
		OperationID: "createAnalysis",
		Method:      http.MethodPost,
		Path:        "/api/analyses",
		Summary:     "Create a new analysis",
		Description: "Creates a new analysis record and returns an upload URL",
		Tags:        []string{"Analysis"},
	}, h.CreateAnalysis)

	huma.Register(api, huma.Operation{
		OperationID: "getAnalysisStatus",
		Method:      http.MethodGet,
		Path:        "/api/analyses/{id}/status",
		Summary:     "Get analysis status",
		Description: "Returns the current status and progress of an analysis",
		Tags:        []string{"Analysis"},
	}, h.GetAnalysisStatus)

	huma.Register(api, huma.Operation{
		OperationID: "getAnalysisResults",
		Method:      http.MethodGet,
		Path:        "/api/analyses/{id}/results",
		Summary:     "Get analysis results",
		Description: "Returns the stored verdict and its severity",
		Tags:        []string{"Analysis"},
	}, h.GetAnalysisResults)

	huma.Register(api, huma.Operation{
		OperationID: "startProcessing",
		Method:      http.MethodPost,
		Path:        "/api/analyses/{id}/process",
		Summary:     "Start processing analysis",
		Description: "Starts processing an uploaded sweep file",
		Tags:        []string{"Analysis"},
	}, h.StartProcessing)
}
