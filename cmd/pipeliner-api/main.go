package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/shaiso/Pipeliner/internal/api"
	"github.com/shaiso/Pipeliner/internal/config"
	"github.com/shaiso/Pipeliner/internal/executor"
	"github.com/shaiso/Pipeliner/internal/llm"
	"github.com/shaiso/Pipeliner/internal/mq"
	"github.com/shaiso/Pipeliner/internal/repo"
	"github.com/shaiso/Pipeliner/internal/telemetry"
)

var startTime = time.Now()

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	// Инициализируем structured logging
	logger := telemetry.SetupLogger(cfg.Log.Level, cfg.Log.Format)
	logger.Info("starting pipeliner-api")

	if err := run(cfg, logger); err != nil {
		logger.Error("pipeliner-api failed", "error", err)
		os.Exit(1)
	}

	logger.Info("stopped")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.SetupTracing(cfg.TracesStdout, os.Stderr)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer shutdownTracing(context.Background())

	// Уровни провайдеров
	tiers := make([]executor.Tier, 0, len(cfg.LLM.Tiers))
	for _, tc := range cfg.LLM.Tiers {
		client := llm.New(llm.Options{
			Backend: cfg.LLM.Backend,
			APIKey:  cfg.LLM.APIKey,
			BaseURL: cfg.LLM.BaseURL,
			Model:   tc.Model,
			Timeout: cfg.LLM.Timeout(),
		})
		tiers = append(tiers, executor.Tier{Name: tc.Name, Generator: client})
		logger.Info("provider tier configured", "tier", tc.Name, "backend", cfg.LLM.Backend, "model", tc.Model)
	}
	if cfg.LLM.APIKey == "" {
		logger.Warn("API key is not set, every execution will fail until it is configured")
	}

	exec := executor.New(executor.Config{
		Tiers:         tiers,
		DefaultPrompt: cfg.DefaultPrompt,
		Logger:        logger,
	})

	handlerCfg := api.Config{
		Executor:         exec,
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		ExecuteRateLimit: cfg.HTTP.ExecuteRateLimit,
		ExecuteRateBurst: cfg.HTTP.ExecuteRateBurst,
		Logger:           logger,
	}

	// История выполнений (опционально)
	if cfg.DatabaseURL != "" {
		pool, err := repo.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()

		if err := repo.EnsureSchema(ctx, pool); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		handlerCfg.History = repo.NewExecutionRepo(pool)
		logger.Info("execution history enabled")
	}

	// События выполнений (опционально)
	if cfg.AMQPURL != "" {
		conn, err := mq.NewConnection(cfg.AMQPURL, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		defer conn.Close()

		if err := mq.SetupTopology(ctx, conn); err != nil {
			return fmt.Errorf("setup topology: %w", err)
		}
		handlerCfg.Publisher = mq.NewPublisher(conn, logger)
		logger.Info("execution events enabled")
	}

	mux := http.NewServeMux()

	// Health и metrics
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "ok %s", time.Since(startTime))
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Регистрируем API маршруты
	handler := api.NewHandler(handlerCfg)
	handler.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		// Graceful shutdown с таймаутом 10 секунд
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		// Дожидаемся фоновой записи истории и событий
		return handler.Wait(shutdownCtx)
	})

	return g.Wait()
}
