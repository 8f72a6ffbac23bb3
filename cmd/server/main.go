// mortgage-moment backend
//
// Serves the lead-generation API:
//   - property search with a three-step source fallback
//     (aggregator → default location → local dataset)
//   - affordability annotation with scoring-service ceiling
//     and formula fallback
//   - inquiry confirmation / call-summary email via Brevo
//   - realtime voice token minting and tool-call dispatch
//
// Postgres, Redis, and every third-party integration are optional: missing
// credentials disable the integration instead of failing startup.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/gereonelvers/mortgage-moment/internal/api"
	"github.com/gereonelvers/mortgage-moment/internal/config"
	"github.com/gereonelvers/mortgage-moment/internal/db"
	"github.com/gereonelvers/mortgage-moment/internal/email"
	"github.com/gereonelvers/mortgage-moment/internal/leads"
	"github.com/gereonelvers/mortgage-moment/internal/listings"
	"github.com/gereonelvers/mortgage-moment/internal/mortgage"
	"github.com/gereonelvers/mortgage-moment/internal/scheduler"
	"github.com/gereonelvers/mortgage-moment/internal/scoring"
	"github.com/gereonelvers/mortgage-moment/internal/voice"
)

func main() {
	// ── Config ──────────────────────────────────────────────────────────────
	cfg := config.Load()
	logger := initLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── PostgreSQL (optional) ────────────────────────────────────────────────
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		log.Println("[server] Connecting to PostgreSQL…")
		var err error
		pool, err = db.NewPostgresPool(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("[server] PostgreSQL: %v", err)
		}
		defer pool.Close()
		log.Println("[server] PostgreSQL connected ✓")
	} else {
		log.Println("[server] DATABASE_URL not set — lead capture disabled")
	}

	leadStore := leads.NewStore(pool, logger)
	if err := leadStore.EnsureSchema(ctx); err != nil {
		log.Fatalf("[server] Lead schema: %v", err)
	}

	// ── Redis (optional) ─────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.RedisURL != "" {
		log.Println("[server] Connecting to Redis…")
		var err error
		rdb, err = db.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Fatalf("[server] Redis: %v", err)
		}
		defer rdb.Close()
		log.Println("[server] Redis connected ✓")
	} else {
		log.Println("[server] REDIS_URL not set — listing cache disabled")
	}

	// ── Listings ─────────────────────────────────────────────────────────────
	local, err := listings.NewLocalStore(cfg.DataFile, logger)
	if err != nil {
		log.Printf("[server] Local dataset unavailable (%v) — starting with an empty store", err)
		local = listings.NewLocalStoreFromRecords(nil, logger)
	} else {
		log.Printf("[server] Loaded %d local listing(s) from %s", local.Len(), cfg.DataFile)
	}

	cache := listings.NewCache(rdb, cfg.CacheTTL, logger)
	aggregator := listings.NewAggregatorClient(cfg.AggregatorURL, cfg.AggregatorAPIKey, cache, logger)
	searcher := listings.NewSearcher(aggregator, local, cfg.DefaultLocation, logger)

	// ── Integrations ─────────────────────────────────────────────────────────
	policy := mortgage.DefaultPolicy
	policy.IncomeCapFraction = cfg.IncomeCapPct

	scoringClient := scoring.NewClient(cfg.ScoringURL, cfg.IncomeCapPct, logger)
	mailer := email.NewSender(email.DefaultEndpoint, cfg.BrevoAPIKey, cfg.SenderName, cfg.SenderEmail, logger)
	tokens := voice.NewTokenClient(voice.DefaultSessionsEndpoint, cfg.OpenAIAPIKey, logger)
	sessions := voice.NewManager(cfg.SessionTTL)

	// ── Scheduler ────────────────────────────────────────────────────────────
	sched := scheduler.New(searcher, sessions, cfg.DefaultLocation, cfg.WarmIntervalHrs)
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("[server] Scheduler: %v", err)
	}
	defer sched.Stop()

	// ── HTTP server ──────────────────────────────────────────────────────────
	mux := http.NewServeMux()
	handler := api.NewHandler(logger, policy, searcher, scoringClient, mailer, leadStore, tokens, sessions)
	handler.RegisterRoutes(mux)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.LoggingMiddleware(logger)(api.CORSMiddleware(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[server] Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[server] HTTP server error: %v", err)
		}
	}()

	// ── Graceful shutdown ────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[server] Shutting down…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] Shutdown error: %v", err)
	}
	log.Println("[server] Stopped.")
}

// initLogger builds the process-wide structured logger from LOG_FORMAT and
// LOG_LEVEL.
func initLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.New(handler)
}
