// cmd/insights-server/serve.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"intent-insights/internal/common/camunda"
	"intent-insights/internal/common/config"
	apperrors "intent-insights/internal/common/errors"
	"intent-insights/internal/common/logger"
	"intent-insights/internal/common/observability"
	"intent-insights/internal/events"
	"intent-insights/internal/genai"
	"intent-insights/internal/httpapi"
	"intent-insights/internal/insights"
	"intent-insights/internal/store"
	"intent-insights/pkg/registry"

	asc "intent-insights/internal/workers/ai-insights/aggregate-search-content"
	rsq "intent-insights/internal/workers/ai-insights/refine-search-queries"
	svi "intent-insights/internal/workers/ai-insights/save-insight"
	smi "intent-insights/internal/workers/ai-insights/summarize-intent"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server and, when enabled, the workflow workers",
	RunE:  runServe,
}

var storeRetry = camunda.RetryConfig{
	MaxRetries: 15,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting insights server...",
		zap.String("version", version),
		zap.String("environment", cfg.App.Environment),
	)

	obs, err := observability.New(cfg.App.Name)
	if err != nil {
		zapLog.Warn("observability disabled", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Generation backend ---
	generator, err := genai.New(cfg.GenAI, log)
	if err != nil {
		return fmt.Errorf("genai init failed: %w", err)
	}
	catalog, err := genai.LoadCatalog()
	if err != nil {
		return fmt.Errorf("prompt catalog failed: %w", err)
	}
	zapLog.Info("Prompt catalog loaded", zap.Strings("prompts", catalog.Names()))

	// --- Document store with retry ---
	docs, err := store.Open(cfg)
	if err != nil {
		return err
	}
	defer docs.Close()

	if err := camunda.RetryWithBackoff(ctx, storeRetry, log, docs.Name()+" connection", docs.Ping); err != nil {
		return apperrors.NewStoreConnectionFailedError(docs.Name(), err)
	}
	zapLog.Info("Document store connected", zap.String("driver", docs.Name()))

	publisher := events.New(cfg.Kafka)
	defer publisher.Close()

	refiner := insights.NewQueryRefiner(generator, catalog)
	summarizer := insights.NewIntentSummarizer(generator, catalog)
	service := insights.NewService(insights.Options{
		Refiner:    refiner,
		Summarizer: summarizer,
		Store:      docs,
		Publisher:  publisher,
		Collection: cfg.Store.Collection,
		Obs:        obs,
		Logger:     log,
	})

	// --- Workflow workers ---
	if cfg.Camunda.Enabled {
		zeebeClient, err := camunda.Connect(ctx, cfg.Camunda, camunda.DefaultRetryConfig, log)
		if err != nil {
			return fmt.Errorf("zeebe client failed after retries: %w", err)
		}
		defer zeebeClient.Close()
		zapLog.Info("Zeebe client connected successfully")

		jobWorkers := startWorkers(zeebeClient, cfg, refiner, summarizer, service, obs, log)
		defer func() {
			for _, w := range jobWorkers {
				w.Close()
				w.AwaitClose()
			}
		}()
	}

	// --- HTTP server ---
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      httpapi.NewServer(service, cfg.App.Name, log, docs).Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("address", cfg.Server.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping...")
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	zapLog.Info("Insights server stopped gracefully")
	return nil
}

func startWorkers(
	client zbc.Client,
	cfg *config.Config,
	refiner insights.QueryRefiner,
	summarizer insights.IntentSummarizer,
	service *insights.Service,
	obs *observability.Observability,
	log logger.Logger,
) []worker.JobWorker {
	reg, err := registry.Default()
	if err != nil {
		log.Warn("activity registry unavailable", map[string]interface{}{"error": err})
		reg = &registry.ActivityRegistry{}
	}

	var started []worker.JobWorker
	start := func(taskType string, handler camunda.JobHandler) {
		activity, ok := reg.Find(taskType)
		if !ok {
			log.Warn("task type missing from activity registry", map[string]interface{}{"taskType": taskType})
		}
		wlog := log.WithFields(map[string]interface{}{"activity": activity.DisplayName, "version": activity.Version})
		if w := camunda.StartWorker(client, taskType, config.GetWorkerConfig(cfg, taskType), handler, wlog); w != nil {
			started = append(started, w)
		}
	}

	start(rsq.TaskType, rsq.NewHandler(
		rsq.LoadConfig(config.GetWorkerConfig(cfg, rsq.TaskType)), refiner, obs, log))
	start(asc.TaskType, asc.NewHandler(
		asc.LoadConfig(config.GetWorkerConfig(cfg, asc.TaskType)), obs, log))
	start(smi.TaskType, smi.NewHandler(
		smi.LoadConfig(config.GetWorkerConfig(cfg, smi.TaskType)), summarizer, obs, log))
	start(svi.TaskType, svi.NewHandler(
		svi.LoadConfig(config.GetWorkerConfig(cfg, svi.TaskType), cfg.Store), service, obs, log))

	log.Info("workers registered", map[string]interface{}{"count": len(started)})
	return started
}
