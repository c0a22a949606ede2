package parser

import (
	"math/rand/v2"

	"github.com/RMahshie/fra-analyzer/pkg/models"
)

// Default jitter amplitudes
const (
	DefaultMagnitudeJitter = 0.02
	DefaultPhaseJitter     = 5.0
)

// Noise perturbs parsed sweeps with reproducible jitter, for generating test
// data. Magnitudes are scaled by a factor in [1-MagnitudeJitter,
// 1+MagnitudeJitter) and phases shifted by up to ±PhaseJitter degrees.
type Noise struct {
	Seed            uint64
	MagnitudeJitter float64
	PhaseJitter     float64
}

// NewNoise returns noise with the default jitter amplitudes.
func NewNoise(seed uint64) *Noise {
	return &Noise{
		Seed:            seed,
		MagnitudeJitter: DefaultMagnitudeJitter,
		PhaseJitter:     DefaultPhaseJitter,
	}
}

// Apply perturbs the sweep in place. The same seed always yields the same
// perturbation.
func (n *Noise) Apply(sweep models.Sweep) {
	rng := rand.New(rand.NewPCG(n.Seed, n.Seed+1))
	for i := range sweep {
		p := &sweep[i]
		p.Magnitude *= 1 - n.MagnitudeJitter + rng.Float64()*2*n.MagnitudeJitter
		p.Phase = models.Float64(p.PhaseValue() + rng.Float64()*2*n.PhaseJitter - n.PhaseJitter)
	}
}
