package analysis

import (
	"fmt"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// Analyze runs extraction, classification and the optional baseline
// comparison for one measurement. It returns either a complete result or an
// error.
func Analyze(name string, data, baseline models.Sweep) (*models.AnalysisResult, error) {
	features, err := ExtractFeatures(data)
	if err != nil {
		return nil, fmt.Errorf("extract features: %w", err)
	}

	v := Classify(features)

	return &models.AnalysisResult{
		File:           name,
		FaultType:      v.FaultType,
		Score:          v.Score,
		Explanation:    v.Explanation,
		Recommendation: v.Recommendation,
		Summary:        v.Explanation,
		Deviation:      CompareToBaseline(data, baseline),
		Features:       features,
	}, nil
}
