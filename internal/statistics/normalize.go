// Package statistics turns raw assessment scores into cohort-relative
// figures: the standardized score (SSN), the rank percentile, and the
// qualitative classification shown on reports.
//
// Everything here is a pure computation over values the caller already
// fetched; degenerate inputs (empty cohort, zero variance) produce documented
// neutral fallbacks, never NaN and never an error.
package statistics

import "math"

// LowSampleThreshold is the minimum cohort size below which results carry a
// reduced-confidence flag. Low-sample cohorts still produce a value.
const LowSampleThreshold = 5

// neutralSSN is the fallback standardized score when the cohort cannot
// discriminate (empty sample or zero variance).
const neutralSSN = 50

// ssnScale maps one standard deviation to 15 SSN points.
const ssnScale = 15

// Stats describes a cohort sample. LowSample is always populated so callers
// cannot forget to check it.
type Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
	N    int     `json:"sampleSize"`
	// LowSample flags reduced confidence: fewer than LowSampleThreshold
	// scores in the comparison population.
	LowSample bool `json:"isLowSample"`
}

// CohortStats computes mean and population standard deviation over a cohort
// sample. An empty sample yields zero stats with LowSample set.
func CohortStats(sample []float64) Stats {
	n := len(sample)
	if n == 0 {
		return Stats{LowSample: true}
	}

	var sum float64
	for _, v := range sample {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range sample {
		d := v - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(n))

	return Stats{
		Mean:      mean,
		Std:       std,
		N:         n,
		LowSample: n < LowSampleThreshold,
	}
}

// Normalize projects a raw score onto the SSN scale via z-score:
// SSN = 50 + 15z, clamped to [0,100]. A zero-variance or empty cohort yields
// exactly the neutral 50; the reduced confidence is signalled by
// Stats.LowSample, not by the value.
func Normalize(raw float64, s Stats) float64 {
	if s.N == 0 || s.Std == 0 {
		return neutralSSN
	}
	z := (raw - s.Mean) / s.Std
	return clamp(round1(neutralSSN + ssnScale*z))
}

// Percentile ranks a raw score within the cohort sample, 0-100, counting the
// share of the cohort at or below the score. The inclusive tie-break is a
// deliberate, product-confirmed choice: a score equal to a cohort member
// counts that member as outranked. Empty sample yields the neutral 50.
func Percentile(raw float64, sample []float64) float64 {
	if len(sample) == 0 {
		return neutralSSN
	}
	var atOrBelow int
	for _, v := range sample {
		if v <= raw {
			atOrBelow++
		}
	}
	return round1(float64(atOrBelow) / float64(len(sample)) * 100)
}

// Level is the qualitative SSN classification shown to families.
type Level string

const (
	LevelExcellence  Level = "excellence"
	LevelTresSolide  Level = "tres_solide"
	LevelStable      Level = "stable"
	LevelFragile     Level = "fragile"
	LevelPrioritaire Level = "prioritaire"
)

// Classify maps an SSN value to its level.
func Classify(ssn float64) Level {
	switch {
	case ssn >= 85:
		return LevelExcellence
	case ssn >= 70:
		return LevelTresSolide
	case ssn >= 55:
		return LevelStable
	case ssn >= 40:
		return LevelFragile
	default:
		return LevelPrioritaire
	}
}

var levelLabels = map[Level]string{
	LevelExcellence:  "Excellence",
	LevelTresSolide:  "Très solide",
	LevelStable:      "Stable",
	LevelFragile:     "Fragile",
	LevelPrioritaire: "Prioritaire",
}

// Label returns the display string for a level.
func Label(l Level) string {
	return levelLabels[l]
}

func clamp(v float64) float64 {
	return math.Max(0, math.Min(100, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
