package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"bilan/internal/audit"
	memorystore "bilan/internal/audit/store/memory"
	postgresstore "bilan/internal/audit/store/postgres"
	"bilan/internal/platform/config"
	"bilan/internal/platform/httpserver"
	"bilan/internal/platform/logger"
	"bilan/internal/platform/metrics"
	"bilan/internal/sharetoken"
	httptransport "bilan/internal/transport/http"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	log := logger.New(os.Getenv("BILAN_DEBUG") == "true")

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err.Error())
		os.Exit(1)
	}
	if cfg.TokenSecretIsDev {
		log.Warn("using the development token secret; set BILAN_TOKEN_SECRET before exposing share links")
	}

	tokens, err := sharetoken.New([]byte(cfg.TokenSecret))
	if err != nil {
		log.Error("share token service init failed", "error", err.Error())
		os.Exit(1)
	}

	store, cleanup, err := newAuditStore(cfg, log)
	if err != nil {
		log.Error("audit store init failed", "error", err.Error())
		os.Exit(1)
	}
	defer cleanup()

	m := metrics.New()
	auditLog := audit.NewLog(store, audit.WithLogger(log))

	handler := httptransport.NewHandler(log, tokens, auditLog, &logMailer{logger: log},
		httptransport.WithMetrics(m),
		httptransport.WithTokenTTL(cfg.TokenTTL),
	)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting bilan server", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", "error", err.Error())
		os.Exit(1)
	}
	log.Info("server stopped")
}

// newAuditStore picks postgres when a DSN is configured, memory otherwise.
func newAuditStore(cfg config.Server, log *slog.Logger) (audit.Store, func(), error) {
	if cfg.PostgresDSN == "" {
		log.Info("audit store: in-memory")
		return memorystore.New(), func() {}, nil
	}

	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		return nil, nil, err
	}
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	log.Info("audit store: postgres")
	return postgresstore.New(db), func() { _ = db.Close() }, nil
}

// logMailer stands in for the platform's mail delivery service. It records
// intent; real delivery happens in the messaging system that consumes these
// logs' artifact IDs.
type logMailer struct {
	logger *slog.Logger
}

func (m *logMailer) Send(ctx context.Context, artifactID, recipient string) error {
	m.logger.InfoContext(ctx, "email send requested",
		"artifact_id", artifactID,
		"recipient", recipient,
	)
	return nil
}
