// Package nexusindex folds several subjects' normalized scores into a single
// composite figure (the UAI) using auto-renormalized weights.
//
// The key design rule: a subject missing from the input must not shrink the
// index. Its configured share is redistributed proportionally among the
// subjects that are present, so the weights in use always sum to 1.
package nexusindex

import (
	"math"
	"sort"

	"bilan/internal/domains"
	"bilan/internal/statistics"
)

// DefaultWeights is the configured split for the two scored subjects. A
// subject without a configured weight (GENERAL included) joins at equal
// weight when present.
var DefaultWeights = map[string]float64{
	domains.SubjectMaths: 0.6,
	domains.SubjectNSI:   0.4,
}

// Index is the composite result. It is derived, recomputed on demand, and
// never a source of truth by itself.
type Index struct {
	// Value is the composite index, 0-100.
	Value float64 `json:"index"`
	// Weights are the renormalized weights actually applied, summing to 1
	// over the subjects present.
	Weights map[string]float64 `json:"weights"`
	// Contributions expose weight*score per subject for auditability.
	Contributions map[string]float64 `json:"contributions"`
	// SubjectCount is the number of subjects that entered the composite.
	SubjectCount int `json:"subjectCount"`
	// Level classifies the index with the same thresholds as the SSN.
	Level statistics.Level `json:"level"`
}

// Compute builds the composite index from per-subject scores. Subjects with a
// non-finite score are dropped; if none remain the result is nil. A nil
// weights map means DefaultWeights.
func Compute(scores map[string]float64, weights map[string]float64) *Index {
	if weights == nil {
		weights = DefaultWeights
	}

	// Deterministic iteration keeps float accumulation reproducible.
	present := make([]string, 0, len(scores))
	for subject, score := range scores {
		if math.IsNaN(score) || math.IsInf(score, 0) {
			continue
		}
		present = append(present, subject)
	}
	if len(present) == 0 {
		return nil
	}
	sort.Strings(present)

	equalShare := 1 / float64(len(present))
	assigned := make(map[string]float64, len(present))
	var total float64
	for _, subject := range present {
		w, ok := weights[subject]
		if !ok || w <= 0 {
			w = equalShare
		}
		assigned[subject] = w
		total += w
	}

	used := make(map[string]float64, len(present))
	contributions := make(map[string]float64, len(present))
	var value float64
	for _, subject := range present {
		w := assigned[subject] / total
		used[subject] = w
		c := w * scores[subject]
		contributions[subject] = c
		value += c
	}

	value = math.Max(0, math.Min(100, value))

	return &Index{
		Value:         value,
		Weights:       used,
		Contributions: contributions,
		SubjectCount:  len(present),
		Level:         statistics.Classify(value),
	}
}
