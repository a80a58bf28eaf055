package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"taskweave/config"
	automationEngine "taskweave/internal/automation"
	automationSqlite "taskweave/internal/automation/repository/sqlite"
	"taskweave/internal/db"
	eventSqlite "taskweave/internal/event/repository/sqlite"
	"taskweave/internal/extraction"
	integrationSqlite "taskweave/internal/integration/repository/sqlite"
	"taskweave/internal/processor"
	procHTTP "taskweave/internal/processor/delivery/http"
	taskSqlite "taskweave/internal/task/repository/sqlite"
	webhookSvc "taskweave/internal/webhook"
	webhookSqlite "taskweave/internal/webhook/repository/sqlite"
	"taskweave/pkg/anthropic"
	"taskweave/pkg/llmprovider"
	"taskweave/pkg/log"
	"taskweave/pkg/openai"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Failed to load config: ", err)
		return
	}

	// 2. Logger
	logger, err := log.New(log.Config{
		Level:    cfg.Logger.Level,
		Mode:     cfg.Logger.Mode,
		Encoding: cfg.Logger.Encoding,
	})
	if err != nil {
		fmt.Println("Failed to init logger: ", err)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting TaskWeave worker...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)

	// 3. Storage
	conn, err := db.Open(db.Config{Path: cfg.Database.Path})
	if err != nil {
		logger.Fatalf(ctx, "Failed to open database: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(ctx, conn); err != nil {
		logger.Fatalf(ctx, "Failed to migrate database: %v", err)
	}

	eventRepo := eventSqlite.New(conn, logger)
	taskRepo := taskSqlite.New(conn, logger)
	autoRepo := automationSqlite.New(conn, logger)
	whRepo := webhookSqlite.New(conn, logger)
	intRepo := integrationSqlite.New(conn, logger)

	// 4. Completion service: explicitly constructed primary/fallback pair.
	primary := buildProvider(cfg.LLM.Primary)
	if primary == nil {
		logger.Fatalf(ctx, "Unknown primary LLM provider %q", cfg.LLM.Primary.Name)
	}
	fallback := buildProvider(cfg.LLM.Fallback)
	if fallback == nil && cfg.LLM.Fallback.Name != "" {
		logger.Warnf(ctx, "Unknown fallback LLM provider %q, running without fallback", cfg.LLM.Fallback.Name)
	}
	llm := llmprovider.NewManager(primary, fallback, llmprovider.Config{
		Timeout: cfg.LLM.Timeout,
	}, logger)

	// 5. Pipeline components
	webhooks := webhookSvc.New(whRepo, webhookSvc.Config{
		RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
	}, logger)

	engine := automationEngine.New(autoRepo, taskRepo, intRepo, webhooks, logger)
	pipeline := extraction.New(llm, logger)

	proc := processor.New(eventRepo, taskRepo, pipeline, engine, processor.Config{
		BatchSize: cfg.Processor.BatchSize,
		Workers:   cfg.Processor.Workers,
		ClaimTTL:  cfg.Processor.ClaimTTL,
	}, logger)

	// 6. HTTP surface
	gin.SetMode(cfg.HTTPServer.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	handler := procHTTP.New(proc, engine, webhooks, logger)
	handler.MapRoutes(router.Group("/internal/v1"))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTPServer.Port),
		Handler: router,
	}

	go func() {
		logger.Infof(ctx, "HTTP server listening on :%d", cfg.HTTPServer.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(ctx, "HTTP server error: %v", err)
			stop()
		}
	}()

	// 7. Interval scheduler: external timer driving the exposed entry point.
	go runScheduler(ctx, proc, cfg.Processor.Interval, logger)

	<-ctx.Done()
	logger.Info(ctx, "Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf(shutdownCtx, "HTTP shutdown: %v", err)
	}
}

// runScheduler calls ProcessPendingEvents on an interval, backing off briefly
// after a pass that fails outright.
func runScheduler(ctx context.Context, proc *processor.Processor, interval time.Duration, logger log.Logger) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	logger.Infof(ctx, "Scheduler running every %s", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := proc.ProcessPendingEvents(ctx, 0)
			if err != nil {
				logger.Errorf(ctx, "Scheduled processing failed: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(time.Minute):
				}
				continue
			}
			if report.Claimed > 0 {
				logger.Infof(ctx, "Scheduled pass: claimed=%d processed=%d failed=%d tasks=%d",
					report.Claimed, report.Processed, report.Failed, report.TasksCreated)
			}
		}
	}
}

func buildProvider(pc config.ProviderConfig) llmprovider.Provider {
	switch pc.Name {
	case "openai":
		return openai.New(openai.Config{APIKey: pc.APIKey, APIURL: pc.BaseURL, Model: pc.Model})
	case "anthropic":
		return anthropic.New(anthropic.Config{APIKey: pc.APIKey, APIURL: pc.BaseURL, Model: pc.Model})
	default:
		return nil
	}
}
