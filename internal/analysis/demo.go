package analysis

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// DemoAnalysis produces a randomized verdict for degraded/demo mode, when the
// analysis service is unreachable. The result is labelled with
// models.ModeDemo and is reproducible for a given seed. It must never be
// presented as a real diagnosis.
func DemoAnalysis(name string, data models.Sweep, seed uint64) *models.AnalysisResult {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	features, err := ExtractFeatures(data)
	if err != nil {
		features = models.FeatureSet{}
	}

	// Biased towards Healthy for strong responses.
	var fault models.FaultType
	if features.AvgMagnitude > 0.9 && rng.Float64() > 0.3 {
		fault = models.FaultHealthy
	} else {
		fault = models.FaultTypes[rng.IntN(len(models.FaultTypes))]
	}

	var score int
	if fault == models.FaultHealthy {
		score = int(math.Round(85 + rng.Float64()*15))
	} else {
		score = int(math.Round(30 + rng.Float64()*50))
	}

	recommendation := "System operating normally. No immediate action required."
	if fault != models.FaultHealthy {
		recommendation = fmt.Sprintf("Potential issue detected: %s. Further testing or inspection recommended.", fault)
	}

	var deviation *float64
	if rng.Float64() > 0.2 {
		d := rng.Float64() * 10
		deviation = &d
	}

	return &models.AnalysisResult{
		File:           name,
		FaultType:      fault,
		Score:          score,
		Explanation:    fmt.Sprintf("Analysis of %s indicates a pattern consistent with %s.", name, strings.ToLower(string(fault))),
		Recommendation: recommendation,
		Summary:        fmt.Sprintf("%s detected with score %d.", fault, score),
		Deviation:      deviation,
		Features:       features,
		Mode:           models.ModeDemo,
	}
}
