// cmd/flow-worker/main.go
package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"toolbox-ai/internal/audit"
	"toolbox-ai/internal/common/camunda"
	"toolbox-ai/internal/common/config"
	"toolbox-ai/internal/common/database"
	"toolbox-ai/internal/common/logger"
	"toolbox-ai/internal/common/observability"
	"toolbox-ai/internal/flows/pipeline"
	"toolbox-ai/internal/llm"

	dfg "toolbox-ai/internal/flows/diy-fix-guide"
	mn "toolbox-ai/internal/flows/meeting-notes"
	ssl "toolbox-ai/internal/flows/smart-shopping-list"
)

// flowHandler is what every flow package exposes to the worker manager.
type flowHandler interface {
	camunda.JobHandler
	WorkerOptions() camunda.WorkerOptions
	IsEnabled() bool
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting flow worker...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
	)

	ctx := context.Background()

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(ctx)

	// --- Generation chain ---
	generator, rdb, err := buildGenerator(ctx, cfg, log, zapLog)
	if err != nil {
		zapLog.Fatal("generator init failed", zap.Error(err))
	}
	if rdb != nil {
		defer rdb.Close()
	}

	// --- Fallback audit store ---
	var recorder pipeline.Recorder
	if cfg.Database.Postgres.Enabled {
		var db *sql.DB
		err = retryWithBackoff(func() error {
			var err error
			db, err = database.OpenPostgres(ctx, cfg.Database.Postgres)
			return err
		}, 10, 2*time.Second, zapLog, "PostgreSQL connection")
		if err != nil {
			zapLog.Fatal("postgres failed after retries", zap.Error(err))
		}
		defer db.Close()

		store := audit.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("audit schema setup failed", zap.Error(err))
		}
		recorder = store
		zapLog.Info("PostgreSQL connected successfully, fallback audit enabled")
	}

	// --- Zeebe ---
	zeebe, err := camunda.Connect(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Insecure,
		ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
	})
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Flow workers ---
	handlers, err := buildHandlers(cfg, generator, recorder, obs, log)
	if err != nil {
		zapLog.Fatal("flow handler init failed", zap.Error(err))
	}

	var workers []*camunda.FlowWorker
	for _, h := range handlers {
		opts := h.WorkerOptions()
		if !h.IsEnabled() {
			zapLog.Info("worker disabled", zap.String("taskType", opts.TaskType))
			continue
		}
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), opts, h, log))
	}
	zapLog.Info("Flow workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		if err := zeebe.HealthCheck(r.Context()); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "unavailable")
			return
		}
		writeStatus(w, http.StatusOK, "ready")
	})
	mux.Handle(cfg.Metrics.Path, promhttp.Handler())

	server := &http.Server{Addr: cfg.Metrics.Address, Handler: mux}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("address", cfg.Metrics.Address))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping metrics server", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Flow worker stopped gracefully")
}

// buildGenerator wires Gemini as the primary model and OpenRouter as the
// secondary one, optionally behind the Redis generation cache.
func buildGenerator(ctx context.Context, cfg *config.Config, log logger.Logger, zapLog *zap.Logger) (llm.Generator, *redis.Client, error) {
	var primary, secondary llm.Provider

	if cfg.AI.Gemini.APIKey != "" {
		gemini, err := llm.NewGeminiProvider(ctx, cfg.AI.Gemini)
		if err != nil {
			return nil, nil, err
		}
		primary = gemini
	}
	if cfg.AI.OpenRouter.APIKey != "" {
		openRouter, err := llm.NewOpenRouterProvider(cfg.AI.OpenRouter, config.GetDuration(cfg.AI.Timeout))
		if err != nil {
			return nil, nil, err
		}
		secondary = openRouter
	}

	var generator llm.Generator = llm.NewFallbackGenerator(primary, secondary, log,
		llm.WithBudgets(cfg.AI.Gemini.MaxTokens, cfg.AI.OpenRouter.MaxTokens))

	if !cfg.AI.Cache.Enabled {
		return generator, nil, nil
	}

	var rdb *redis.Client
	err := retryWithBackoff(func() error {
		var err error
		rdb, err = database.OpenRedis(ctx, cfg.Database.Redis)
		return err
	}, 5, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		// The cache is an optimisation; run uncached.
		zapLog.Warn("generation cache disabled", zap.Error(err))
		return generator, nil, nil
	}
	zapLog.Info("Redis connected successfully, generation cache enabled")

	ttl := time.Duration(cfg.AI.Cache.TTL) * time.Second
	return llm.NewCachedGenerator(generator, rdb, ttl, cfg.AI.Cache.Prefix, log), rdb, nil
}

func buildHandlers(cfg *config.Config, gen llm.Generator, recorder pipeline.Recorder, obs *observability.Observability, log logger.Logger) ([]flowHandler, error) {
	diy, err := dfg.NewHandler(dfg.HandlerOptions{
		AppConfig: cfg, Generator: gen, Audit: recorder, Observability: obs, Logger: log,
	})
	if err != nil {
		return nil, err
	}
	shopping, err := ssl.NewHandler(ssl.HandlerOptions{
		AppConfig: cfg, Generator: gen, Audit: recorder, Observability: obs, Logger: log,
	})
	if err != nil {
		return nil, err
	}
	meeting, err := mn.NewHandler(mn.HandlerOptions{
		AppConfig: cfg, Generator: gen, Audit: recorder, Observability: obs, Logger: log,
	})
	if err != nil {
		return nil, err
	}
	return []flowHandler{diy, shopping, meeting}, nil
}

func writeStatus(w http.ResponseWriter, code int, status string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	})
}
