package models

// SweepPoint represents a single FRA measurement sample
type SweepPoint struct {
	Frequency float64  `json:"frequency" minimum:"0" doc:"Frequency in Hz"`
	Magnitude float64  `json:"magnitude" doc:"Response magnitude"`
	Phase     *float64 `json:"phase,omitempty" required:"false" nullable:"true" doc:"Phase in degrees, null when not measured"`
}

// PhaseValue returns the phase with a missing value normalized to 0.
func (p SweepPoint) PhaseValue() float64 {
	if p.Phase == nil {
		return 0
	}
	return *p.Phase
}

// Sweep is an ordered sequence of points as produced by the instrument.
type Sweep []SweepPoint

// Float64 returns a pointer to v, for building optional phase values.
func Float64(v float64) *float64 {
	return &v
}
