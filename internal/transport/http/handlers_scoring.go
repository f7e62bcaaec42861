package httptransport

import (
	"encoding/json"
	"net/http"
	"time"

	"bilan/internal/domains"
	"bilan/internal/nexusindex"
	"bilan/internal/scoring"
	"bilan/internal/statistics"
	"bilan/internal/transport/http/shared"
	dErrors "bilan/pkg/domain-errors"
)

type scoreRequest struct {
	// Result is the raw stored scoring JSON, revalidated on every read.
	Result json.RawMessage `json:"result"`
	// CohortScores are the composite scores of the comparison cohort.
	// Optional; absence yields the neutral low-sample path.
	CohortScores []float64 `json:"cohortScores"`
}

type scoreResponse struct {
	Subject        string               `json:"subject"`
	CategoryScores map[string]float64   `json:"categoryScores"`
	SSN            statistics.SSNResult `json:"ssn"`
	Percentile     float64              `json:"percentile"`
}

// handleScore revalidates one stored scoring result, backfills its category
// map to the canonical domain list and positions it against its cohort.
func (h *Handler) handleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if len(req.Result) == 0 {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "result is required"))
		return
	}

	result, err := scoring.SafeParse(req.Result)
	if err != nil {
		h.metrics.RecordScoring("rejected", time.Since(start))
		h.logger.WarnContext(ctx, "scoring result rejected",
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	subject := result.Metrics.Subject
	cohort := statistics.CohortStats(req.CohortScores)
	ssn := statistics.ComputeSSN(result, cohort)

	resp := scoreResponse{
		Subject:        subject,
		CategoryScores: domains.Backfill(subject, result.CategoryScores()),
		SSN:            ssn,
		Percentile:     statistics.Percentile(ssn.RawComposite, req.CohortScores),
	}

	h.metrics.RecordScoring("ok", time.Since(start))
	shared.WriteJSON(w, http.StatusOK, resp)
}

type indexRequest struct {
	Scores  map[string]float64 `json:"scores"`
	Weights map[string]float64 `json:"weights,omitempty"`
}

// handleComputeIndex folds per-subject scores into the composite index.
func (h *Handler) handleComputeIndex(w http.ResponseWriter, r *http.Request) {
	var req indexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	index := nexusindex.Compute(req.Scores, req.Weights)
	if index == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "no usable subject scores"))
		return
	}
	shared.WriteJSON(w, http.StatusOK, index)
}
