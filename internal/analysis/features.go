// Package analysis implements the FRA feature extractor, fault classifier and
// baseline comparator. Everything here is a pure function of its inputs.
package analysis

import (
	"errors"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// ErrEmptyInput is returned when a sweep has no points to analyse.
var ErrEmptyInput = errors.New("no FRA data provided")

// ExtractFeatures computes the summary statistics of a sweep.
//
// The peak frequency is taken from the first point that reaches the peak
// magnitude. Missing phases count as 0 and the phase variance is the
// population variance.
func ExtractFeatures(sweep models.Sweep) (models.FeatureSet, error) {
	n := len(sweep)
	if n == 0 {
		return models.FeatureSet{}, ErrEmptyInput
	}

	var magSum, phaseSum float64
	peakMag := sweep[0].Magnitude
	peakFreq := sweep[0].Frequency

	for _, p := range sweep {
		magSum += p.Magnitude
		phaseSum += p.PhaseValue()
		if p.Magnitude > peakMag {
			peakMag = p.Magnitude
			peakFreq = p.Frequency
		}
	}

	count := float64(n)
	avgPhase := phaseSum / count

	var sq float64
	for _, p := range sweep {
		d := p.PhaseValue() - avgPhase
		sq += d * d
	}

	return models.FeatureSet{
		AvgMagnitude:  magSum / count,
		PeakMagnitude: peakMag,
		PeakFrequency: peakFreq,
		PhaseVariance: sq / count,
	}, nil
}
