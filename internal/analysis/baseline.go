package analysis

import (
	"math"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// CompareToBaseline returns the mean absolute magnitude difference between
// index-aligned points of the two sweeps, over the shorter of the two.
// Points are paired by position, not by frequency. A nil result means there
// was nothing to compare.
func CompareToBaseline(test, baseline models.Sweep) *float64 {
	n := min(len(test), len(baseline))
	if n == 0 {
		return nil
	}

	var sum float64
	for i := 0; i < n; i++ {
		sum += math.Abs(test[i].Magnitude - baseline[i].Magnitude)
	}
	deviation := sum / float64(n)
	return &deviation
}
