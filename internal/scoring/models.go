// Package scoring defines the stored scoring result contract and the single
// trust boundary between persisted JSON and typed in-process use.
package scoring

import "bilan/internal/domains"

// Result is the structured scoring record produced once per completed
// assessment attempt by the external scoring computation. It is stored
// verbatim and read many times through SafeParse; nothing downstream may
// consume it unvalidated.
type Result struct {
	// GlobalScore is the weighted average across all categories (0-100).
	GlobalScore float64 `json:"globalScore"`

	// ConfidenceIndex is the share of questions attempted vs total (0-100).
	ConfidenceIndex float64 `json:"confidenceIndex"`

	// PrecisionIndex is the share of correct answers among attempted (0-100).
	PrecisionIndex float64 `json:"precisionIndex"`

	// Metrics carries the subject-specific block, discriminated by an
	// explicit subject tag rather than field presence.
	Metrics Metrics `json:"metrics"`

	Strengths       []string `json:"strengths"`
	Weaknesses      []string `json:"weaknesses"`
	Recommendations []string `json:"recommendations"`

	// DiagnosticText is the free-text summary shown on the report.
	DiagnosticText string `json:"diagnosticText"`

	TotalQuestions int `json:"totalQuestions"`
	TotalAttempted int `json:"totalAttempted"`
	TotalCorrect   int `json:"totalCorrect"`
	// TotalNSP counts "je ne sais pas" answers (not attempted).
	TotalNSP int `json:"totalNSP"`
}

// Metrics is a tagged union over the known subject-specific shapes. Exactly
// the block matching Subject is populated; the others must be nil.
type Metrics struct {
	Subject string          `json:"subject"`
	Maths   *MathsMetrics   `json:"maths,omitempty"`
	NSI     *NSIMetrics     `json:"nsi,omitempty"`
	General *GeneralMetrics `json:"general,omitempty"`
}

// MathsMetrics holds the maths-specific category breakdown.
type MathsMetrics struct {
	CategoryScores map[string]float64 `json:"categoryScores"`
}

// NSIMetrics holds the NSI category breakdown plus the error-type counters
// used by the "bases fragiles" diagnostics.
type NSIMetrics struct {
	CategoryScores map[string]float64 `json:"categoryScores"`
	SyntaxErrors   int                `json:"syntaxErrors"`
	LogicErrors    int                `json:"logicErrors"`
	BasicsFailed   int                `json:"basicsFailed"`
	ExpertPassed   int                `json:"expertPassed"`
}

// GeneralMetrics holds the cross-curricular category breakdown. The
// methodology category feeds the SSN methodology component.
type GeneralMetrics struct {
	CategoryScores map[string]float64 `json:"categoryScores"`
}

// neutralScore is the fallback for missing SSN components.
const neutralScore = 50

// categoryScores returns the populated block's category map, or nil.
func (m Metrics) categoryScores() map[string]float64 {
	switch m.Subject {
	case domains.SubjectMaths:
		if m.Maths != nil {
			return m.Maths.CategoryScores
		}
	case domains.SubjectNSI:
		if m.NSI != nil {
			return m.NSI.CategoryScores
		}
	case domains.SubjectGeneral:
		if m.General != nil {
			return m.General.CategoryScores
		}
	}
	return nil
}

// CategoryScores returns the populated block's category map, nil when the
// union is empty. Callers pass it through domains.Backfill before display.
func (r *Result) CategoryScores() map[string]float64 {
	return r.Metrics.categoryScores()
}

// MethodologyScore extracts the methodology component for SSN computation:
// the methodology category when the subject reports one, otherwise the
// confidence index as a proxy, otherwise neutral 50.
func (r *Result) MethodologyScore() float64 {
	if scores := r.Metrics.categoryScores(); scores != nil {
		if v, ok := scores["methodologie"]; ok {
			return v
		}
	}
	if r.ConfidenceIndex > 0 {
		return r.ConfidenceIndex
	}
	return neutralScore
}

// RigorScore extracts the rigor component for SSN computation: the precision
// index when present, otherwise neutral 50.
func (r *Result) RigorScore() float64 {
	if r.PrecisionIndex > 0 {
		return r.PrecisionIndex
	}
	return neutralScore
}
