package statistics

import "bilan/internal/scoring"

// SSN composite weights: disciplinary mastery dominates, methodology and
// rigor refine. Must sum to 1.
const (
	WeightDisciplinary = 0.6
	WeightMethodology  = 0.2
	WeightRigor        = 0.2
)

// Components is the per-pillar breakdown behind a composite SSN.
type Components struct {
	Disciplinary float64 `json:"disciplinary"`
	Methodology  float64 `json:"methodology"`
	Rigor        float64 `json:"rigor"`
}

// SSNResult is the full standardized-score computation for one assessment.
type SSNResult struct {
	// RawComposite is the weighted sum before cohort normalization (0-100).
	RawComposite float64 `json:"rawComposite"`
	// SSN is the cohort-normalized score (0-100).
	SSN float64 `json:"ssn"`
	// Level classifies the SSN for display.
	Level Level `json:"level"`
	// Components breaks the raw composite down for explainability.
	Components Components `json:"components"`
	// Cohort echoes the stats used, including the low-sample flag.
	Cohort Stats `json:"cohort"`
}

// ComputeSSN builds the standardized score for a validated scoring result
// against a cohort. The pipeline is the one the reporting layer depends on:
// extract components, weight them, normalize against the cohort, classify.
func ComputeSSN(r *scoring.Result, cohort Stats) SSNResult {
	c := Components{
		Disciplinary: r.GlobalScore,
		Methodology:  r.MethodologyScore(),
		Rigor:        r.RigorScore(),
	}

	raw := WeightDisciplinary*c.Disciplinary +
		WeightMethodology*c.Methodology +
		WeightRigor*c.Rigor

	ssn := Normalize(raw, cohort)

	return SSNResult{
		RawComposite: round1(raw),
		SSN:          ssn,
		Level:        Classify(ssn),
		Components:   c,
		Cohort:       cohort,
	}
}
