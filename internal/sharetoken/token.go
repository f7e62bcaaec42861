// Package sharetoken mints and verifies the signed capability tokens that
// grant anonymous access to one generated artifact (a bilan report or an
// invoice document) without a session.
//
// Wire format: base64url(JSON payload) + "." + base64url(HMAC-SHA256 over the
// exact encoded payload). Tokens are stateless; validity is reconstructed
// from the token string and the server-held secret alone. Early invalidation
// happens only by rotating the secret or by the artifact changing state,
// which the caller checks.
package sharetoken

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// Allowed audiences. A token is only ever valid for one restricted viewer
// category; anything else is rejected at verification.
const (
	AudienceStudent = "eleve"
	AudienceParents = "parents"
)

// DefaultTTL is the issuance window when the caller does not override it.
const DefaultTTL = 30 * 24 * time.Hour

// MinSecretLen guards against trivially brute-forceable signing keys.
const MinSecretLen = 32

var allowedAudiences = map[string]bool{
	AudienceStudent: true,
	AudienceParents: true,
}

// Payload is the signed tuple. No other fields are trusted; unknown JSON
// fields in a presented token are ignored, not honored.
type Payload struct {
	ShareID  string `json:"shareId"`
	Audience string `json:"audience"`
	// Exp is the expiry as epoch milliseconds.
	Exp int64 `json:"exp"`
}

// Service signs and verifies capability tokens with an injected secret. The
// secret is checked at construction so a missing key is a startup error, not
// a first-use surprise.
type Service struct {
	secret []byte
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock injects the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a token service. The secret is required and must be at
// least MinSecretLen bytes.
func New(secret []byte, opts ...Option) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("sharetoken: signing secret is required")
	}
	if len(secret) < MinSecretLen {
		return nil, errors.New("sharetoken: signing secret must be at least 32 bytes")
	}
	s := &Service{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Sign encodes and signs a payload. It does not validate the audience or
// expiry; Verify is the gate. Use Issue for validated issuance.
func (s *Service) Sign(p Payload) (string, error) {
	encoded, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	payloadPart := base64.RawURLEncoding.EncodeToString(encoded)
	return payloadPart + "." + s.signature(payloadPart), nil
}

// Issue mints a token for a share with the default expiry window, or the
// caller-supplied override. Unknown audiences are an issuance error; they
// would only mint tokens Verify rejects.
func (s *Service) Issue(shareID, audience string, ttl ...time.Duration) (string, error) {
	if shareID == "" {
		return "", errors.New("sharetoken: shareID is required")
	}
	if !allowedAudiences[audience] {
		return "", errors.New("sharetoken: audience not allowed")
	}
	window := DefaultTTL
	if len(ttl) > 0 && ttl[0] > 0 {
		window = ttl[0]
	}
	return s.Sign(Payload{
		ShareID:  shareID,
		Audience: audience,
		Exp:      s.now().Add(window).UnixMilli(),
	})
}

// Verify checks a presented token and returns its payload, or nil. Every
// failure mode (malformed shape, undecodable payload, signature mismatch,
// expiry, disallowed audience) collapses to the same nil result so callers
// cannot be probed for why a token failed. The signature comparison is
// constant-time.
func (s *Service) Verify(token string) *Payload {
	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil
	}

	expected := s.signature(parts[0])
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil
	}
	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}

	if p.Exp < s.now().UnixMilli() {
		return nil
	}
	if !allowedAudiences[p.Audience] {
		return nil
	}
	return &p
}

func (s *Service) signature(encodedPayload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(encodedPayload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
