// Package domains is the single source of truth for canonical domain keys.
//
// Every assessment for a given subject must report exactly these keys in its
// domain score map. Missing domains are backfilled with score 0 so that:
//   - chart axes stay stable across assessments
//   - cohort aggregation never sees holes in the statistics
//   - every consumer can assume a complete, fixed shape
package domains

import "math"

// Subject identifiers. Case-sensitive, matching stored assessment records.
const (
	SubjectMaths   = "MATHS"
	SubjectNSI     = "NSI"
	SubjectGeneral = "GENERAL"
)

var canonicalMaths = []string{
	"algebre",
	"analyse",
	"geometrie",
	"combinatoire",
	"logExp",
	"probabilites",
}

var canonicalNSI = []string{
	"python",
	"poo",
	"structures",
	"algorithmique",
	"sql",
	"architecture",
}

var canonicalGeneral = []string{
	"methodologie",
	"connaissances",
	"raisonnement",
	"organisation",
}

// Canonical returns the ordered canonical domain keys for a subject. Unknown
// subjects fall back to the MATHS list; the result is never empty. Callers
// must not mutate the returned slice.
func Canonical(subject string) []string {
	switch subject {
	case SubjectMaths:
		return canonicalMaths
	case SubjectNSI:
		return canonicalNSI
	case SubjectGeneral:
		return canonicalGeneral
	default:
		return canonicalMaths
	}
}

// Backfill completes a partial domain score map over the canonical keys for
// the subject. Missing, NaN and infinite values become 0; keys outside the
// canonical list are dropped. The returned map always has exactly the
// canonical key count, even for an all-zero input.
func Backfill(subject string, partial map[string]float64) map[string]float64 {
	canonical := Canonical(subject)
	out := make(map[string]float64, len(canonical))
	for _, key := range canonical {
		v, ok := partial[key]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			out[key] = 0
			continue
		}
		out[key] = v
	}
	return out
}

var labelsMaths = map[string]string{
	"algebre":      "Algèbre",
	"analyse":      "Analyse",
	"geometrie":    "Géométrie dans l'espace",
	"combinatoire": "Combinatoire et dénombrement",
	"logExp":       "Logarithme et Exponentielle",
	"probabilites": "Probabilités et Statistiques",
}

var labelsNSI = map[string]string{
	"python":        "Python - Bases",
	"poo":           "Programmation Orientée Objet",
	"structures":    "Structures de données",
	"algorithmique": "Algorithmique",
	"sql":           "Bases de données et SQL",
	"architecture":  "Architecture et Réseaux",
}

var labelsGeneral = map[string]string{
	"methodologie":  "Méthodologie de travail",
	"connaissances": "Connaissances générales",
	"raisonnement":  "Raisonnement et analyse",
	"organisation":  "Organisation et gestion du temps",
}

// Labels returns the display label table for a subject's canonical domains.
// Unknown subjects fall back to the MATHS table, mirroring Canonical.
func Labels(subject string) map[string]string {
	switch subject {
	case SubjectMaths:
		return labelsMaths
	case SubjectNSI:
		return labelsNSI
	case SubjectGeneral:
		return labelsGeneral
	default:
		return labelsMaths
	}
}
