package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/max-verstappen001/wiral-node-sub001/internal/api/router"
	"github.com/max-verstappen001/wiral-node-sub001/internal/attributes"
	"github.com/max-verstappen001/wiral-node-sub001/internal/booking"
	"github.com/max-verstappen001/wiral-node-sub001/internal/calendar"
	"github.com/max-verstappen001/wiral-node-sub001/internal/chatwoot"
	appconfig "github.com/max-verstappen001/wiral-node-sub001/internal/config"
	"github.com/max-verstappen001/wiral-node-sub001/internal/http/handlers"
	"github.com/max-verstappen001/wiral-node-sub001/internal/leads"
	"github.com/max-verstappen001/wiral-node-sub001/internal/nlu"
	"github.com/max-verstappen001/wiral-node-sub001/internal/observability/metrics"
	"github.com/max-verstappen001/wiral-node-sub001/internal/reminder"
	"github.com/max-verstappen001/wiral-node-sub001/internal/scheduling"
	"github.com/max-verstappen001/wiral-node-sub001/internal/tenant"
	"github.com/max-verstappen001/wiral-node-sub001/internal/turn"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting wiral decision core",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	// NLU oracle: Gemini primary, Bedrock fallback when configured.
	oracle := buildOracle(ctx, cfg, logger)

	// Helpdesk client.
	chatwootClient, err := chatwoot.New(chatwoot.Config{
		BaseURL:   cfg.ChatwootBaseURL,
		APIToken:  cfg.ChatwootAPIToken,
		AccountID: cfg.ChatwootAccountID,
		Timeout:   cfg.ChatwootTimeout,
		Logger:    logger.Logger,
	})
	if err != nil {
		logger.Error("failed to build chatwoot client", "error", err)
		os.Exit(1)
	}

	tenants, err := tenant.ParseRegistry(cfg.TenantMapJSON)
	if err != nil {
		logger.Error("failed to parse tenant map", "error", err)
		os.Exit(1)
	}
	logger.Info("tenant registry loaded", "tenants", tenants.Len())

	// Pending-booking store: in-memory by default, Redis when configured.
	var store booking.PendingStore = booking.NewMemoryStore()
	if cfg.UseRedisStore {
		store = booking.NewRedisStore(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}))
		logger.Info("using redis pending-booking store", "addr", cfg.RedisAddr)
	}
	bookings := booking.NewService(store, cfg.BookingTTL, logger.Component("booking"))

	location, err := time.LoadLocation(cfg.DefaultTimezone)
	if err != nil {
		logger.Warn("invalid timezone, falling back to UTC", "timezone", cfg.DefaultTimezone)
		location = time.UTC
	}
	booker := calendar.NewGoogleBooker(cfg.GoogleCalendarID, cfg.GoogleCredentialsJSONPath, location, logger.Component("calendar"))

	reminders := reminder.NewScheduler(reminder.SenderFunc(func(ctx context.Context, conversationID int, content string) error {
		_, err := chatwootClient.SendReply(ctx, conversationID, content)
		return err
	}), cfg.FollowUpDelay, logger.Component("reminder"))
	defer reminders.Stop()

	turnMetrics := metrics.NewTurnMetrics(nil)

	orchestrator := turn.NewOrchestrator(turn.Config{
		Bookings:      bookings,
		Confirmations: booking.NewConfirmationDetector(oracle, cfg.GeminiModelID, logger.Component("confirmation")),
		Intents:       scheduling.NewIntentDetector(oracle, cfg.GeminiModelID, logger.Component("scheduling")),
		Classifier:    leads.NewClassifier(oracle, cfg.GeminiModelID, logger.Component("leads")),
		Tags:          leads.NewTagReconciler(chatwootClient, logger.Component("tags")),
		Calendar:      booker,
		Reminders:     reminders,
		Attributes:    attributes.NewOracleService(oracle, cfg.GeminiModelID, cfg.CollectEarlyMaxMsgs, cfg.SuppressCollectAtMsgs, logger.Component("attributes")),
		Messenger:     chatwootClient,
		Replies:       turn.NewOracleReplyGenerator(oracle, cfg.GeminiModelID, logger.Component("replies")),
		Metrics:       turnMetrics,
		Logger:        logger.Component("turn"),

		ConfirmationThreshold: cfg.ConfirmationThreshold,
		SchedulingThreshold:   cfg.SchedulingThreshold,
	})

	webhookHandler := handlers.NewChatwootWebhookHandler(orchestrator, chatwootClient, tenants, cfg.MessageWindowSize, logger.Component("webhook"))

	r := router.New(&router.Config{
		Logger:          logger,
		ChatwootWebhook: webhookHandler,
		MetricsHandler:  promhttp.Handler(),
	})

	// Stale pending bookings are swept on a fixed interval, independent of
	// per-turn activity.
	sweepCtx, cancelSweep := context.WithCancel(ctx)
	defer cancelSweep()
	go runBookingSweep(sweepCtx, bookings, cfg.BookingSweepInterval, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildOracle assembles the NLU client stack. Gemini is the primary; Bedrock
// backs it up when a model id is configured.
func buildOracle(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) nlu.Client {
	var primary nlu.Client
	if cfg.GeminiAPIKey != "" {
		gemini, err := nlu.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to build gemini client", "error", err)
			os.Exit(1)
		}
		primary = gemini
	}

	var fallback nlu.Client
	if cfg.BedrockModelID != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		fallback = nlu.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg)).WithModel(cfg.BedrockModelID)
	}

	switch {
	case primary != nil && fallback != nil:
		return nlu.NewFallbackClient(primary, fallback, logger.Logger)
	case primary != nil:
		return primary
	case fallback != nil:
		return fallback
	default:
		logger.Error("no NLU oracle configured: set GEMINI_API_KEY or BEDROCK_MODEL_ID")
		os.Exit(1)
		return nil
	}
}

func runBookingSweep(ctx context.Context, bookings *booking.Service, interval time.Duration, logger *logging.Logger) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := bookings.CleanupOldBookings(ctx); err != nil {
				logger.Error("booking sweep failed", "error", err)
			}
		}
	}
}
