// Command server runs the chat integration service: the dispatch
// pipeline that notifies chat channels about new forum posts, plus the
// management and hook HTTP API.
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

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"chat-integration/internal/config"
	"chat-integration/internal/infra/db"
	"chat-integration/internal/infra/notifier"
	"chat-integration/internal/infra/scheduler"
	"chat-integration/internal/observability/logging"
	"chat-integration/internal/observability/tracing"
	"chat-integration/internal/repository"
	"chat-integration/internal/resilience/retry"
	"chat-integration/migrations"

	pgRepo "chat-integration/internal/infra/adapter/persistence/postgres"
	sqliteRepo "chat-integration/internal/infra/adapter/persistence/sqlite"

	"chat-integration/internal/usecase/dispatch"
	ruleUC "chat-integration/internal/usecase/rule"

	hhttp "chat-integration/internal/handler/http"
	"chat-integration/internal/handler/http/hook"
	"chat-integration/internal/handler/http/requestid"
	hrule "chat-integration/internal/handler/http/rule"
)

func main() {
	_ = godotenv.Load()

	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, warnings := config.Load()
	for _, w := range warnings {
		logger.Warn(w)
	}

	providers, err := config.LoadProviders(cfg.ProvidersFile)
	if err != nil {
		logger.Error("invalid provider configuration", slog.Any("error", err))
		os.Exit(1)
	}

	shutdownTracing := initTracing()
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			logger.Error("failed to shut down tracing", slog.Any("error", err))
		}
	}()

	database := openDatabase(cfg, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	registry := buildRegistry(providers, logger)
	logger.Info("providers configured", slog.Any("enabled", registry.EnabledNames()))

	var ruleRepo repository.RuleRepository
	var postReader repository.PostReader
	if cfg.DatabaseDriver == "sqlite" {
		ruleRepo = sqliteRepo.NewRuleRepo(database)
		postReader = sqliteRepo.NewPostReader(database)
	} else {
		ruleRepo = pgRepo.NewRuleRepo(database)
		postReader = pgRepo.NewPostReader(database)
	}

	manager := dispatch.NewManager(registry, ruleRepo, postReader, cfg.MaxConcurrentDeliveries)
	sched := scheduler.New(manager, cfg.NotificationDelay, logger)
	sched.SetEnabledCheck(func() bool { return len(registry.Enabled()) > 0 })

	ruleSvc := &ruleUC.Service{Repo: ruleRepo, Providers: registry}
	handler := setupRoutes(cfg, database, ruleSvc, sched, registry, logger)

	runServer(cfg, handler, sched, logger)
}

// initTracing installs the tracer provider and W3C propagator. No
// exporter is attached; deployments that ship traces add one here.
func initTracing() func(context.Context) error {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("chat-integration"),
			semconv.ServiceVersion(version()),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return tp.Shutdown
}

// openDatabase connects to the configured storage backend and applies
// migrations. Connection failures are retried so the service survives a
// database that is still starting up alongside it.
func openDatabase(cfg *config.Config, logger *slog.Logger) *sql.DB {
	var database *sql.DB

	err := retry.WithBackoff(context.Background(), retry.StartupConfig(), func() error {
		var openErr error
		if cfg.DatabaseDriver == "sqlite" {
			database, openErr = sqliteRepo.Open(cfg.DatabaseDSN)
		} else {
			database, openErr = db.Open(context.Background(), cfg.DatabaseDSN)
		}
		return openErr
	})
	if err != nil {
		logger.Error("failed to open database",
			slog.String("driver", cfg.DatabaseDriver),
			slog.Any("error", err))
		os.Exit(1)
	}

	// The sqlite adapter migrates inside Open.
	if cfg.DatabaseDriver != "sqlite" {
		if err := migrations.Run(database, "postgres"); err != nil {
			logger.Error("failed to run migrations", slog.Any("error", err))
			os.Exit(1)
		}
	}

	return database
}

// buildRegistry assembles the closed provider set from configuration.
// Disabled providers are registered too so rules pointing at them are
// merely dormant, not orphaned.
func buildRegistry(providers *config.ProvidersConfig, logger *slog.Logger) *dispatch.Registry {
	slack := notifier.NewSlackProvider(notifier.SlackConfig{
		Enabled:    providers.Slack.Enabled,
		WebhookURL: providers.Slack.WebhookURL,
		Timeout:    providers.Slack.Timeout,
	})
	discord := notifier.NewDiscordProvider(notifier.DiscordConfig{
		Enabled:  providers.Discord.Enabled,
		Webhooks: providers.Discord.Webhooks,
		Timeout:  providers.Discord.Timeout,
	})
	mattermost := notifier.NewMattermostProvider(notifier.MattermostConfig{
		Enabled:    providers.Mattermost.Enabled,
		WebhookURL: providers.Mattermost.WebhookURL,
		Username:   providers.Mattermost.Username,
		Timeout:    providers.Mattermost.Timeout,
	})
	telegram := notifier.NewTelegramProvider(notifier.TelegramConfig{
		Enabled: providers.Telegram.Enabled,
		Token:   providers.Telegram.Token,
		Timeout: providers.Telegram.Timeout,
	})
	noop := notifier.NewNoopProvider(providers.Noop.Enabled, logger)

	return dispatch.NewRegistry(slack, discord, mattermost, telegram, noop)
}

// setupRoutes registers the HTTP surface and wraps it in the middleware
// chain. Mutating rule routes additionally go through the per-IP rate
// limiter.
func setupRoutes(
	cfg *config.Config,
	database *sql.DB,
	ruleSvc *ruleUC.Service,
	sched *scheduler.Scheduler,
	registry *dispatch.Registry,
	logger *slog.Logger,
) http.Handler {
	limiter := hhttp.NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)

	mux := http.NewServeMux()
	hrule.Register(mux, ruleSvc, limiter.Limit)
	hook.Register(mux, sched)
	mux.Handle("GET /healthz", hhttp.HealthHandler{
		DB:               database,
		Version:          version(),
		EnabledProviders: registry.EnabledNames,
	})
	mux.Handle("GET /metrics", hhttp.MetricsHandler())

	var handler http.Handler = mux
	handler = hhttp.MetricsMiddleware(handler)
	handler = hhttp.Timeout(cfg.RequestTimeout)(handler)
	handler = hhttp.LimitRequestBody(cfg.MaxBodyBytes)(handler)
	handler = hhttp.Logging(logger)(handler)
	handler = hhttp.Recover(logger)(handler)
	handler = tracing.Middleware(handler)
	handler = requestid.Middleware(handler)
	return handler
}

// runServer serves HTTP until SIGINT/SIGTERM, then shuts down the
// server and waits for in-flight dispatch cycles.
func runServer(cfg *config.Config, handler http.Handler, sched *scheduler.Scheduler, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", cfg.Addr),
			slog.String("version", version()),
			slog.Duration("notification_delay", cfg.NotificationDelay))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}

	dispatchCtx, cancelDispatch := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelDispatch()
	if err := sched.Shutdown(dispatchCtx); err != nil {
		logger.Error("scheduler shutdown timed out", slog.Any("error", err))
	}

	logger.Info("server stopped")
}

func version() string {
	if v := os.Getenv("VERSION"); v != "" {
		return v
	}
	return "dev"
}
