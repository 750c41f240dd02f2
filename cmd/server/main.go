package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"veridoc/internal/audit"
	"veridoc/internal/platform/config"
	"veridoc/internal/platform/database"
	"veridoc/internal/platform/httpserver"
	"veridoc/internal/platform/logger"
	platformredis "veridoc/internal/platform/redis"
	httptransport "veridoc/internal/transport/http"
	"veridoc/internal/validation"
	"veridoc/internal/validation/imaging"
	valmetrics "veridoc/internal/validation/metrics"
	"veridoc/internal/validation/ocr"
	"veridoc/internal/validation/store/document"
	"veridoc/internal/validation/store/hashindex"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal/validation packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	checkers := map[string]httptransport.HealthChecker{}

	// Record store: postgres when configured, in-memory otherwise.
	var (
		docs    document.Store
		reviews document.Reviewer
	)
	if cfg.PostgresDSN != "" {
		if err := database.Migrate(cfg.PostgresDSN, log); err != nil {
			log.Error("migrations failed", "error", err)
			os.Exit(1)
		}
		pool, err := database.Connect(ctx, cfg.PostgresDSN, log)
		if err != nil {
			log.Error("postgres connection failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		pg := document.NewPostgres(pool)
		docs, reviews = pg, pg
		checkers["postgres"] = healthFunc(pool.Ping)
	} else {
		mem := document.NewInMemory()
		docs, reviews = mem, mem
	}

	// Duplicate hash index: redis when configured, in-memory otherwise.
	var hashes hashindex.Index
	if redisClient, err := platformredis.New(cfg.RedisURL); err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	} else if redisClient != nil {
		defer redisClient.Close()
		hashes = hashindex.NewRedis(redisClient.Client)
		checkers["redis"] = redisClient
	} else {
		hashes = hashindex.NewInMemory()
	}

	extractor := ocr.NewExtractor(
		ocr.NewTesseractEngine(cfg.OCRLang),
		ocr.WithTimeout(cfg.OCRTimeout),
		ocr.WithLogger(log),
	)

	recorder := audit.NewRecorder(256, log)
	auditStore := audit.NewInMemoryStore()
	worker := audit.NewWorker(auditStore, recorder.Inbox())
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	service, err := validation.New(
		docs, reviews, hashes,
		imaging.NewStdDecoder(), extractor,
		validation.WithLogger(log),
		validation.WithMetrics(valmetrics.New()),
		validation.WithAuditRecorder(recorder),
		validation.WithTamperPrefixBytes(cfg.TamperPrefixBytes),
	)
	if err != nil {
		log.Error("service wiring failed", "error", err)
		os.Exit(1)
	}

	handler := httptransport.NewHandler(service, log)
	router := httptransport.NewRouter(handler, checkers)
	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting veridoc", "addr", cfg.Addr, "ocr_lang", cfg.OCRLang)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}

// healthFunc adapts a ping function to the transport's HealthChecker.
type healthFunc func(ctx context.Context) error

func (f healthFunc) Health(ctx context.Context) error {
	return f(ctx)
}
