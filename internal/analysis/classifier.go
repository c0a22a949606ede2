package analysis

import "github.com/RMahshie/fra-analyzer/pkg/models"

// Verdict is the classifier output for one feature set
type Verdict struct {
	FaultType      models.FaultType
	Score          int
	Explanation    string
	Recommendation string
}

type rule struct {
	verdict Verdict
	match   func(f models.FeatureSet) bool
}

var healthy = Verdict{
	FaultType:      models.FaultHealthy,
	Score:          95,
	Explanation:    "Transformer FRA response appears normal.",
	Recommendation: "No immediate action required.",
}

// rules are applied in order and every match overrides the previous verdict,
// so the last matching rule is the most severe one.
var rules = []rule{
	{
		verdict: Verdict{
			FaultType:      models.FaultAxialDisplacement,
			Score:          70,
			Explanation:    "Average FRA magnitude is lower than expected, suggesting axial displacement.",
			Recommendation: "Schedule inspection of winding alignment.",
		},
		match: func(f models.FeatureSet) bool { return f.AvgMagnitude < 0.85 },
	},
	{
		verdict: Verdict{
			FaultType:      models.FaultRadialDeformation,
			Score:          55,
			Explanation:    "Low magnitude response and high phase variance indicate possible radial deformation.",
			Recommendation: "Perform detailed offline FRA test.",
		},
		match: func(f models.FeatureSet) bool { return f.AvgMagnitude < 0.8 || f.PhaseVariance > 200 },
	},
	{
		verdict: Verdict{
			FaultType:      models.FaultCoreGrounding,
			Score:          40,
			Explanation:    "Unusually low peak magnitude suggests possible unintended core grounding.",
			Recommendation: "Check transformer core insulation and grounding.",
		},
		match: func(f models.FeatureSet) bool { return f.PeakMagnitude < 0.5 },
	},
	{
		verdict: Verdict{
			FaultType:      models.FaultInsulationDegradation,
			Score:          30,
			Explanation:    "Severely degraded FRA curve at low frequency indicates insulation deterioration.",
			Recommendation: "Immediate insulation resistance testing recommended.",
		},
		match: func(f models.FeatureSet) bool { return f.AvgMagnitude < 0.75 && f.PeakFrequency < 200 },
	},
}

// Classify maps extracted features to a fault verdict.
func Classify(f models.FeatureSet) Verdict {
	v := healthy
	for _, r := range rules {
		if r.match(f) {
			v = r.verdict
		}
	}
	return v
}

// verdictFor returns the fixed verdict text for a fault type.
func verdictFor(fault models.FaultType) (Verdict, bool) {
	if fault == healthy.FaultType {
		return healthy, true
	}
	for _, r := range rules {
		if r.verdict.FaultType == fault {
			return r.verdict, true
		}
	}
	return Verdict{}, false
}
