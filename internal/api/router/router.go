package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/max-verstappen001/wiral-node-sub001/internal/http/handlers"
	httpmiddleware "github.com/max-verstappen001/wiral-node-sub001/internal/http/middleware"
	"github.com/max-verstappen001/wiral-node-sub001/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger          *logging.Logger
	ChatwootWebhook *handlers.ChatwootWebhookHandler
	MetricsHandler  http.Handler
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if cfg.ChatwootWebhook != nil {
		r.Post("/webhooks/chatwoot", cfg.ChatwootWebhook.HandleMessageCreated)
	}
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	return r
}
