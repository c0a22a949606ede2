package models

import (
	"time"
)

// FaultType is the classifier's output label. Values are matched verbatim by
// downstream dashboards and filters.
type FaultType string

const (
	FaultHealthy               FaultType = "Healthy"
	FaultAxialDisplacement     FaultType = "Axial Displacement"
	FaultRadialDeformation     FaultType = "Radial Deformation"
	FaultCoreGrounding         FaultType = "Core Grounding"
	FaultInsulationDegradation FaultType = "Insulation Degradation"
)

// FaultTypes lists the taxonomy from least to most severe.
var FaultTypes = []FaultType{
	FaultHealthy,
	FaultAxialDisplacement,
	FaultRadialDeformation,
	FaultCoreGrounding,
	FaultInsulationDegradation,
}

// Severity is the score bucket shown to operators.
type Severity string

const (
	SeverityHealthy  Severity = "Healthy"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
)

// Analysis statuses for the stored pipeline
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// ModeDemo labels verdicts produced by the degraded/demo generator.
const ModeDemo = "demo"

// FeatureSet holds the summary statistics extracted from a sweep
type FeatureSet struct {
	AvgMagnitude  float64 `json:"avgMagnitude" doc:"Arithmetic mean of magnitudes"`
	PeakMagnitude float64 `json:"peakMagnitude" doc:"Maximum magnitude"`
	PeakFrequency float64 `json:"peakFrequency" doc:"Frequency of the first point at peak magnitude"`
	PhaseVariance float64 `json:"phaseVariance" doc:"Population variance of phase"`
}

// AnalysisResult is the verdict for one sweep and optional baseline
type AnalysisResult struct {
	File           string     `json:"file" doc:"Name of the analysed measurement"`
	FaultType      FaultType  `json:"faultType" enum:"Healthy,Axial Displacement,Radial Deformation,Core Grounding,Insulation Degradation" doc:"Fault category"`
	Score          int        `json:"score" minimum:"0" maximum:"100" doc:"Health score, higher is healthier"`
	Explanation    string     `json:"explanation" doc:"Why the fault category was chosen"`
	Recommendation string     `json:"recommendation" doc:"Suggested maintenance action"`
	Summary        string     `json:"summary" doc:"Alias of explanation"`
	Deviation      *float64   `json:"deviation" required:"false" nullable:"true" doc:"Mean absolute magnitude deviation from baseline, null when no comparison was made"`
	Features       FeatureSet `json:"features" doc:"Extracted sweep features"`
	Mode           string     `json:"mode,omitempty" required:"false" doc:"Set to 'demo' for degraded-mode verdicts"`
}

// Thresholds are the score cut-offs used to bucket a verdict into a severity
type Thresholds struct {
	Warning  int `json:"warning" minimum:"0" maximum:"100" doc:"Scores at or below this are Warning"`
	Critical int `json:"critical" minimum:"0" maximum:"100" doc:"Scores at or below this are Critical"`
}

// Analysis represents a stored analysis request (for internal use)
type Analysis struct {
	ID          string     `json:"id"`
	SessionID   string     `json:"session_id"`
	FileName    string     `json:"file_name"`
	Format      string     `json:"format"`
	Status      string     `json:"status"`
	Progress    int        `json:"progress"`
	SweepS3Key  *string    `json:"sweep_s3_key,omitempty"`
	BaselineID  *string    `json:"baseline_id,omitempty"`
	ErrorMsg    *string    `json:"error_message,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AnalysisResults represents the stored verdict of a processed analysis
type AnalysisResults struct {
	ID         string         `json:"id"`
	AnalysisID string         `json:"analysis_id"`
	Result     AnalysisResult `json:"result"`
	PointCount int            `json:"point_count"`
	CreatedAt  time.Time      `json:"created_at"`
}

// SessionThresholds are thresholds saved for one client session
type SessionThresholds struct {
	SessionID  string     `json:"session_id"`
	Thresholds Thresholds `json:"thresholds"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
