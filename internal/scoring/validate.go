package scoring

import (
	"encoding/json"
	"fmt"

	"bilan/internal/domains"
	dErrors "bilan/pkg/domain-errors"
	strutil "bilan/pkg/platform/strings"
)

// SafeParse decodes and validates a stored scoring result. It never panics;
// on any schema violation it returns nil and a CodeValidation error naming
// the offending field. Callers treat the error as "no result" — the error
// text is for diagnostics, not for end users.
func SafeParse(raw []byte) (*Result, error) {
	if len(raw) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "scoring result: empty payload")
	}

	var r Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "scoring result: malformed JSON")
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}

	// Advice lists arrive with duplicates and stray whitespace from the
	// upstream generator; normalize once at the trust boundary.
	r.Strengths = strutil.DedupeAndTrim(r.Strengths)
	r.Weaknesses = strutil.DedupeAndTrim(r.Weaknesses)
	r.Recommendations = strutil.DedupeAndTrim(r.Recommendations)

	return &r, nil
}

// Validate enforces the scoring result schema on an already-decoded value.
func (r *Result) Validate() error {
	if err := scoreInRange("globalScore", r.GlobalScore); err != nil {
		return err
	}
	if err := scoreInRange("confidenceIndex", r.ConfidenceIndex); err != nil {
		return err
	}
	if err := scoreInRange("precisionIndex", r.PrecisionIndex); err != nil {
		return err
	}
	if err := r.Metrics.validate(); err != nil {
		return err
	}
	counters := []struct {
		field string
		value int
	}{
		{"totalQuestions", r.TotalQuestions},
		{"totalAttempted", r.TotalAttempted},
		{"totalCorrect", r.TotalCorrect},
		{"totalNSP", r.TotalNSP},
	}
	for _, c := range counters {
		if c.value < 0 {
			return dErrors.Newf(dErrors.CodeValidation, "%s: must be a non-negative integer", c.field)
		}
	}
	return nil
}

// validate checks the tagged union: a known subject tag, the matching block
// populated, and no stray block from another subject.
func (m Metrics) validate() error {
	var populated int
	for _, set := range []bool{m.Maths != nil, m.NSI != nil, m.General != nil} {
		if set {
			populated++
		}
	}
	if populated != 1 {
		return dErrors.New(dErrors.CodeValidation, "metrics: exactly one subject block must be set")
	}

	var scores map[string]float64
	switch m.Subject {
	case domains.SubjectMaths:
		if m.Maths == nil {
			return dErrors.New(dErrors.CodeValidation, "metrics.maths: missing block for MATHS subject")
		}
		scores = m.Maths.CategoryScores
	case domains.SubjectNSI:
		if m.NSI == nil {
			return dErrors.New(dErrors.CodeValidation, "metrics.nsi: missing block for NSI subject")
		}
		for field, v := range map[string]int{
			"syntaxErrors": m.NSI.SyntaxErrors,
			"logicErrors":  m.NSI.LogicErrors,
			"basicsFailed": m.NSI.BasicsFailed,
			"expertPassed": m.NSI.ExpertPassed,
		} {
			if v < 0 {
				return dErrors.Newf(dErrors.CodeValidation, "metrics.nsi.%s: must be a non-negative integer", field)
			}
		}
		scores = m.NSI.CategoryScores
	case domains.SubjectGeneral:
		if m.General == nil {
			return dErrors.New(dErrors.CodeValidation, "metrics.general: missing block for GENERAL subject")
		}
		scores = m.General.CategoryScores
	default:
		return dErrors.Newf(dErrors.CodeValidation, "metrics.subject: unknown subject %q", m.Subject)
	}

	for category, v := range scores {
		if err := scoreInRange(fmt.Sprintf("metrics.categoryScores[%s]", category), v); err != nil {
			return err
		}
	}
	return nil
}

func scoreInRange(field string, v float64) error {
	// NaN fails both comparisons below only via negation, so test explicitly.
	if v != v {
		return dErrors.Newf(dErrors.CodeValidation, "%s: must be a finite number", field)
	}
	if v < 0 || v > 100 {
		return dErrors.Newf(dErrors.CodeValidation, "%s: must be within [0,100]", field)
	}
	return nil
}
