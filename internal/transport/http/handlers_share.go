package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"bilan/internal/audit"
	"bilan/internal/sharetoken"
	"bilan/internal/transport/http/shared"
	dErrors "bilan/pkg/domain-errors"
	"bilan/pkg/email"
)

// Mailer delivers one artifact by email. Delivery mechanics live outside
// this service.
type Mailer interface {
	Send(ctx context.Context, artifactID, recipient string) error
}

type createShareRequest struct {
	Audience string `json:"audience"`
	ActorID  string `json:"actorId"`
	// TTLDays overrides the default token lifetime when positive.
	TTLDays int `json:"ttlDays,omitempty"`
}

type createShareResponse struct {
	Token     string `json:"token"`
	Audience  string `json:"audience"`
	ExpiresAt int64  `json:"expiresAt"`
}

// handleCreateShare mints a capability token for an artifact and records the
// issuance in its audit history.
func (h *Handler) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	artifactID := chi.URLParam(r, "artifactID")

	var req createShareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	ttl := h.tokenTTL
	if req.TTLDays > 0 {
		ttl = time.Duration(req.TTLDays) * 24 * time.Hour
	}
	token, err := h.tokens.Issue(artifactID, req.Audience, ttl)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeValidation, "cannot issue share token"))
		return
	}
	h.metrics.IncrementTokensIssued()

	payload := h.tokens.Verify(token)
	if payload == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "issued token failed self-check"))
		return
	}

	if _, err := h.auditLog.Record(ctx, artifactID, audit.TypeTokenCreated, req.ActorID, map[string]any{
		"audience": req.Audience,
	}); err != nil {
		h.logger.ErrorContext(ctx, "share issued but not audited",
			"artifact_id", artifactID,
			"error", err.Error(),
		)
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, createShareResponse{
		Token:     token,
		Audience:  payload.Audience,
		ExpiresAt: payload.Exp,
	})
}

// handleViewShared verifies a presented token. Every failure mode collapses
// to the same 401.
func (h *Handler) handleViewShared(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	payload := h.tokens.Verify(token)
	h.metrics.RecordTokenVerification(payload != nil)
	if payload == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid or expired link"))
		return
	}

	if _, err := h.auditLog.Record(r.Context(), payload.ShareID, audit.TypeSharedView, "anonymous", map[string]any{
		"audience": payload.Audience,
	}); err != nil {
		h.logger.WarnContext(r.Context(), "shared view not audited",
			"artifact_id", payload.ShareID,
			"error", err.Error(),
		)
	}

	shared.WriteJSON(w, http.StatusOK, sharetoken.Payload{
		ShareID:  payload.ShareID,
		Audience: payload.Audience,
		Exp:      payload.Exp,
	})
}

type sendEmailRequest struct {
	// Status is the artifact's current lifecycle state, asserted by the
	// owning backend. Send is only allowed once the artifact left draft.
	Status    string `json:"status"`
	Recipient string `json:"recipient"`
	ActorID   string `json:"actorId"`
}

// handleSendEmail re-sends an artifact by email, gated by the throttle
// policy over the artifact's audit history.
func (h *Handler) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	artifactID := chi.URLParam(r, "artifactID")

	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.Recipient == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeValidation, "recipient is required"))
		return
	}

	events, err := h.auditLog.History(ctx, artifactID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.policy.Check(req.Status, events, h.clock()); err != nil {
		outcome := "conflict"
		if dErrors.HasCode(err, dErrors.CodeTooManyRequests) {
			outcome = "throttled"
		}
		h.metrics.RecordThrottleDecision(outcome)
		h.logger.WarnContext(ctx, "send blocked",
			"artifact_id", artifactID,
			"outcome", outcome,
		)
		shared.WriteError(w, err)
		return
	}
	h.metrics.RecordThrottleDecision("allowed")

	if err := h.mailer.Send(ctx, artifactID, req.Recipient); err != nil {
		h.logger.ErrorContext(ctx, "email send failed",
			"artifact_id", artifactID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "email delivery failed"))
		return
	}

	if _, err := h.auditLog.Record(ctx, artifactID, audit.TypeSentEmail, req.ActorID, map[string]any{
		"recipient":     req.Recipient,
		"recipientName": email.DisplayName(req.Recipient),
	}); err != nil {
		// The mail went out; surface the bookkeeping failure anyway so the
		// caller knows the throttle history is now short one event.
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
