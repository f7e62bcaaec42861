package httptransport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bilan/internal/audit"
	"bilan/internal/audit/store/memory"
	"bilan/internal/sharetoken"
)

type fakeMailer struct {
	sent    []string
	sendErr error
}

func (m *fakeMailer) Send(_ context.Context, artifactID, recipient string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, artifactID+"->"+recipient)
	return nil
}

type testEnv struct {
	router  http.Handler
	store   *memory.Store
	mailer  *fakeMailer
	tokens  *sharetoken.Service
	now     time.Time
	auditor *audit.Log
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	now := time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
	tokens, err := sharetoken.New(
		[]byte(strings.Repeat("k", sharetoken.MinSecretLen)),
		sharetoken.WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	store := memory.New()
	auditor := audit.NewLog(store, audit.WithClock(func() time.Time { return now }))
	mailer := &fakeMailer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := NewHandler(logger, tokens, auditor, mailer,
		WithClock(func() time.Time { return now }))
	return &testEnv{
		router:  NewRouter(h),
		store:   store,
		mailer:  mailer,
		tokens:  tokens,
		now:     now,
		auditor: auditor,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

const validResult = `{
	"globalScore": 72.5,
	"confidenceIndex": 80,
	"precisionIndex": 85,
	"metrics": {
		"subject": "MATHS",
		"maths": {"categoryScores": {"algebre": 75, "analyse": 70}}
	},
	"strengths": ["algebre"],
	"weaknesses": [],
	"recommendations": [],
	"diagnosticText": "solide",
	"totalQuestions": 40,
	"totalAttempted": 32,
	"totalCorrect": 27,
	"totalNSP": 8
}`

func TestHandleScore(t *testing.T) {
	env := newTestEnv(t)

	t.Run("valid result returns backfilled categories and ssn", func(t *testing.T) {
		body := fmt.Sprintf(`{"result": %s, "cohortScores": [55, 65, 72.5, 80, 90, 60]}`, validResult)
		rec := env.do(t, http.MethodPost, "/assessments/score", body)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Subject        string             `json:"subject"`
			CategoryScores map[string]float64 `json:"categoryScores"`
			SSN            struct {
				SSN   float64 `json:"ssn"`
				Level string  `json:"level"`
			} `json:"ssn"`
			Percentile float64 `json:"percentile"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

		assert.Equal(t, "MATHS", resp.Subject)
		// Backfill completes the canonical maths list with zeros.
		assert.Len(t, resp.CategoryScores, 6)
		assert.Equal(t, 75.0, resp.CategoryScores["algebre"])
		assert.Equal(t, 0.0, resp.CategoryScores["geometrie"])
		assert.GreaterOrEqual(t, resp.SSN.SSN, 0.0)
		assert.LessOrEqual(t, resp.SSN.SSN, 100.0)
		assert.GreaterOrEqual(t, resp.Percentile, 0.0)
	})

	t.Run("invalid result is a 422", func(t *testing.T) {
		bad := strings.Replace(validResult, `"globalScore": 72.5`, `"globalScore": 150`, 1)
		rec := env.do(t, http.MethodPost, "/assessments/score", fmt.Sprintf(`{"result": %s}`, bad))
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("missing result is a 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/assessments/score", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/assessments/score", `{not json`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong content type is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/assessments/score", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "text/plain")
		rec := httptest.NewRecorder()
		env.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})
}

func TestHandleComputeIndex(t *testing.T) {
	env := newTestEnv(t)

	t.Run("default weights", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/index/compute", `{"scores": {"MATHS": 80, "NSI": 60}}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Value        float64            `json:"index"`
			Weights      map[string]float64 `json:"weights"`
			SubjectCount int                `json:"subjectCount"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.InDelta(t, 72.0, resp.Value, 1e-9)
		assert.Equal(t, 2, resp.SubjectCount)
	})

	t.Run("no usable scores is a 422", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/index/compute", `{"scores": {}}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestShareFlow(t *testing.T) {
	env := newTestEnv(t)

	t.Run("share then view round trip", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/artifacts/bilan-1/share", `{"audience": "parents", "actorId": "user-1"}`)
		require.Equal(t, http.StatusCreated, rec.Code)

		var created struct {
			Token     string `json:"token"`
			Audience  string `json:"audience"`
			ExpiresAt int64  `json:"expiresAt"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
		assert.Equal(t, "parents", created.Audience)
		assert.Equal(t, env.now.Add(sharetoken.DefaultTTL).UnixMilli(), created.ExpiresAt)

		viewRec := env.do(t, http.MethodGet, "/shared/"+created.Token, "")
		require.Equal(t, http.StatusOK, viewRec.Code)

		var payload sharetoken.Payload
		require.NoError(t, json.Unmarshal(viewRec.Body.Bytes(), &payload))
		assert.Equal(t, "bilan-1", payload.ShareID)

		// Issuance and view both land in the artifact's history.
		events, err := env.store.ListByArtifact(context.Background(), "bilan-1")
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, audit.TypeTokenCreated, events[0].Type)
		assert.Equal(t, audit.TypeSharedView, events[1].Type)
	})

	t.Run("unknown audience is a 422", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/artifacts/bilan-1/share", `{"audience": "nexus"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("invalid token is a single 401", func(t *testing.T) {
		for _, token := range []string{"garbage", "a.b", "a.b.c"} {
			rec := env.do(t, http.MethodGet, "/shared/"+token, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code, token)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "unauthorized", resp["error"], token)
		}
	})
}

func TestHandleSendEmail(t *testing.T) {
	seedSends := func(t *testing.T, env *testEnv, n int) {
		t.Helper()
		for i := 0; i < n; i++ {
			_, err := env.auditor.Record(context.Background(), "bilan-1", audit.TypeSentEmail, "user-1", nil)
			require.NoError(t, err)
		}
	}

	t.Run("allowed send delivers and records", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/artifacts/bilan-1/send-email",
			`{"status": "SENT", "recipient": "parent@example.com", "actorId": "user-1"}`)
		require.Equal(t, http.StatusNoContent, rec.Code)

		assert.Equal(t, []string{"bilan-1->parent@example.com"}, env.mailer.sent)

		events, err := env.store.ListByArtifact(context.Background(), "bilan-1")
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, audit.TypeSentEmail, events[0].Type)
	})

	t.Run("draft artifact is a 409", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/artifacts/bilan-1/send-email",
			`{"status": "DRAFT", "recipient": "parent@example.com"}`)
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("fourth send in the window is a 429", func(t *testing.T) {
		env := newTestEnv(t)
		seedSends(t, env, 3)

		rec := env.do(t, http.MethodPost, "/artifacts/bilan-1/send-email",
			`{"status": "SENT", "recipient": "parent@example.com"}`)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Empty(t, env.mailer.sent)
	})

	t.Run("missing recipient is a 422", func(t *testing.T) {
		env := newTestEnv(t)
		rec := env.do(t, http.MethodPost, "/artifacts/bilan-1/send-email", `{"status": "SENT"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("mailer failure is a 500 and nothing is recorded", func(t *testing.T) {
		env := newTestEnv(t)
		env.mailer.sendErr = fmt.Errorf("smtp down")

		rec := env.do(t, http.MethodPost, "/artifacts/bilan-1/send-email",
			`{"status": "SENT", "recipient": "parent@example.com"}`)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		events, err := env.store.ListByArtifact(context.Background(), "bilan-1")
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
