package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Minimum length in bytes for the share-token signing secret.
const MinTokenSecretLen = 32

// devTokenSecret is used when no secret is configured outside production.
// FromEnv refuses to start production with it.
const devTokenSecret = "dev-share-token-secret-change-in-production!!"

// Server captures process level configuration.
type Server struct {
	Addr        string
	Env         string
	TokenSecret string
	// TokenSecretIsDev marks that the insecure development fallback is in
	// use, so main can log a warning.
	TokenSecretIsDev bool
	// PostgresDSN selects the persistent audit store when set; empty keeps
	// histories in memory.
	PostgresDSN string
	TokenTTL    time.Duration
}

// FromEnv builds a Server config from environment variables so main stays
// lean. It fails hard when the signing secret is missing or too short in
// production: a guessable secret would let anyone mint share links.
func FromEnv() (Server, error) {
	addr := os.Getenv("BILAN_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	env := os.Getenv("BILAN_ENV")
	if env == "" {
		env = "development"
	}

	cfg := Server{
		Addr:        addr,
		Env:         env,
		PostgresDSN: os.Getenv("BILAN_POSTGRES_DSN"),
	}

	secret := os.Getenv("BILAN_TOKEN_SECRET")
	switch {
	case secret == "" && env == "production":
		return Server{}, fmt.Errorf("config: BILAN_TOKEN_SECRET is required in production")
	case secret == "":
		cfg.TokenSecret = devTokenSecret
		cfg.TokenSecretIsDev = true
	case len(secret) < MinTokenSecretLen:
		return Server{}, fmt.Errorf("config: BILAN_TOKEN_SECRET must be at least %d bytes, got %d", MinTokenSecretLen, len(secret))
	default:
		cfg.TokenSecret = secret
	}

	if raw := os.Getenv("BILAN_TOKEN_TTL_DAYS"); raw != "" {
		days, err := strconv.Atoi(raw)
		if err != nil || days <= 0 {
			return Server{}, fmt.Errorf("config: BILAN_TOKEN_TTL_DAYS must be a positive integer, got %q", raw)
		}
		cfg.TokenTTL = time.Duration(days) * 24 * time.Hour
	}

	return cfg, nil
}
