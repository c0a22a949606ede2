package models

import (
	"time"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Body struct {
		Status  string    `json:"status" example:"healthy" doc:"Service health status"`
		Version string    `json:"version" example:"1.0.0" doc:"API version"`
		Time    time.Time `json:"time" doc:"Current server time"`
	}
}

// AnalyzeRequest represents a synchronous analysis request
type AnalyzeRequest struct {
	Body struct {
		Name     string `json:"name" required:"false" maxLength:"255" doc:"Measurement file name"`
		Data     any    `json:"data" required:"false" doc:"Measured sweep: an array of {frequency, magnitude, phase} points"`
		Baseline any    `json:"baseline,omitempty" required:"false" doc:"Reference sweep for deviation, same shape as data"`
	}
}

// AnalyzeResponse represents the verdict of a synchronous analysis
type AnalyzeResponse struct {
	Body AnalysisResult
}

// AnalyzeFileRequest represents a raw CSV/XML upload analysed in-request
type AnalyzeFileRequest struct {
	Name    string `query:"name" maxLength:"255" doc:"Measurement file name"`
	Format  string `query:"format" doc:"Sweep format (csv or xml), detected from the name when empty"`
	RawBody []byte `contentType:"text/plain"`
}

// CreateAnalysisRequest represents a request to create a stored analysis
type CreateAnalysisRequest struct {
	Body CreateAnalysisRequestBody
}

// CreateAnalysisRequestBody is the body of the create analysis request
type CreateAnalysisRequestBody struct {
	SessionID  string `json:"session_id" minLength:"10" maxLength:"50" required:"true" doc:"Client session identifier"`
	FileName   string `json:"file_name" minLength:"1" maxLength:"255" required:"true" doc:"Measurement file name"`
	MimeType   string `json:"mime_type" enum:"text/csv,text/plain,application/xml,text/xml" required:"true" doc:"Sweep file MIME type"`
	FileSize   int64  `json:"file_size" minimum:"1" maximum:"10485760" required:"true" doc:"Sweep file size in bytes"`
	BaselineID string `json:"baseline_id,omitempty" required:"false" doc:"ID of a previous analysis whose sweep is the baseline"`
}

// CreateAnalysisResponse represents the response from creating an analysis
type CreateAnalysisResponse struct {
	Body CreateAnalysisResponseBody
}

// CreateAnalysisResponseBody is the body of the create analysis response
type CreateAnalysisResponseBody struct {
	ID        string `json:"id" doc:"Analysis unique identifier"`
	UploadURL string `json:"upload_url" doc:"Pre-signed URL for sweep file upload"`
	ExpiresIn int    `json:"expires_in" doc:"URL expiration time in seconds"`
}

// GetAnalysisStatusRequest represents a request to get analysis status
type GetAnalysisStatusRequest struct {
	ID string `path:"id" doc:"Analysis ID"`
}

// GetAnalysisStatusResponseBody is the body of the status response
type GetAnalysisStatusResponseBody struct {
	ID        string  `json:"id" doc:"Analysis ID"`
	Status    string  `json:"status" enum:"pending,processing,completed,failed" doc:"Analysis status"`
	Progress  int     `json:"progress" minimum:"0" maximum:"100" doc:"Analysis progress percentage"`
	Message   string  `json:"message,omitempty" doc:"Human-readable status message"`
	Error     *string `json:"error,omitempty" doc:"Failure reason when status is failed"`
	ResultsID *string `json:"results_id,omitempty" doc:"Results ID when analysis completes"`
}

// GetAnalysisStatusResponse represents the current status of an analysis
type GetAnalysisStatusResponse struct {
	Body GetAnalysisStatusResponseBody
}

// GetAnalysisResultsRequest represents a request to get analysis results
type GetAnalysisResultsRequest struct {
	ID        string `path:"id" doc:"Analysis ID"`
	SessionID string `query:"session_id" doc:"Session whose thresholds bucket the score"`
}

// GetAnalysisResultsResponseBody is the body of the results response
type GetAnalysisResultsResponseBody struct {
	ID         string         `json:"id" doc:"Results ID"`
	AnalysisID string         `json:"analysis_id" doc:"Analysis ID"`
	Result     AnalysisResult `json:"result" doc:"Analysis verdict"`
	Severity   Severity       `json:"severity" enum:"Healthy,Warning,Critical" doc:"Score bucket under the session thresholds"`
	PointCount int            `json:"point_count" doc:"Number of sweep points analysed"`
	CreatedAt  time.Time      `json:"created_at" doc:"Results creation timestamp"`
}

// GetAnalysisResultsResponse represents the complete analysis results
type GetAnalysisResultsResponse struct {
	Body GetAnalysisResultsResponseBody
}

// StartProcessingRequest represents a request to start processing an uploaded file
type StartProcessingRequest struct {
	ID string `path:"id" doc:"Analysis ID"`
}

// StartProcessingResponse represents the response from starting processing
type StartProcessingResponse struct {
	Body struct {
		Message string `json:"message" doc:"Confirmation message"`
	}
}

// SessionRequest addresses one client session
type SessionRequest struct {
	SessionID string `path:"session_id" minLength:"10" maxLength:"50" doc:"Client session identifier"`
}

// ListAnalysesResponse represents a session's analysis history
type ListAnalysesResponse struct {
	Body struct {
		Analyses []*Analysis `json:"analyses" doc:"Analyses, newest first"`
	}
}

// ClearAnalysesResponse represents the outcome of clearing a session history
type ClearAnalysesResponse struct {
	Body struct {
		Deleted int `json:"deleted" doc:"Number of analyses removed"`
	}
}

// PutThresholdsRequest represents a request to save session thresholds
type PutThresholdsRequest struct {
	SessionID string `path:"session_id" minLength:"10" maxLength:"50" doc:"Client session identifier"`
	Body      Thresholds
}

// ThresholdsResponse represents the thresholds in effect for a session
type ThresholdsResponse struct {
	Body struct {
		SessionID  string     `json:"session_id" doc:"Client session identifier"`
		Thresholds Thresholds `json:"thresholds" doc:"Score thresholds"`
		Default    bool       `json:"default" doc:"Whether the configured defaults are in effect"`
	}
}
