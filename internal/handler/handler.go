// Package handler provides the HTTP surface: webhook verification and
// receipt, test and session endpoints, and health checks.
package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/AniketThakur-404/chatapp/internal/audit"
	"github.com/AniketThakur-404/chatapp/internal/bot"
	"github.com/AniketThakur-404/chatapp/internal/metrics"
	"github.com/AniketThakur-404/chatapp/internal/ratelimit"
	"github.com/AniketThakur-404/chatapp/internal/whatsapp"
)

// Sender delivers engine replies back to the user. Satisfied by
// whatsapp.Client; tests substitute a recorder.
type Sender interface {
	SendResponse(ctx context.Context, to, text string, buttons []string) (*whatsapp.SendResult, error)
	IsCircuitOpen() bool
}

// Handler holds the HTTP handlers and their collaborators.
type Handler struct {
	engine        *bot.Engine
	store         *bot.Store
	sender        Sender
	senderLimiter *ratelimit.SenderLimiter
	verifyToken   string
	metrics       *metrics.Metrics
	audit         *audit.Logger
	logger        *zap.Logger
}

// Config holds configuration for the Handler.
type Config struct {
	Engine        *bot.Engine
	Store         *bot.Store
	Sender        Sender
	SenderLimiter *ratelimit.SenderLimiter
	VerifyToken   string
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

// New creates a Handler with all required dependencies.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		panic("logger is required")
	}
	if cfg.Engine == nil {
		panic("engine is required")
	}
	return &Handler{
		engine:        cfg.Engine,
		store:         cfg.Store,
		sender:        cfg.Sender,
		senderLimiter: cfg.SenderLimiter,
		verifyToken:   cfg.VerifyToken,
		metrics:       cfg.Metrics,
		audit:         audit.NewLogger(cfg.Logger),
		logger:        cfg.Logger,
	}
}

// RegisterRoutes registers all routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/webhook", h.HandleWebhookVerify)
	r.Post("/webhook", h.HandleWebhookReceive)

	r.Post("/test-message", h.HandleTestMessage)
	r.Get("/session/{userID}", h.HandleGetSession)
	r.Delete("/session/{userID}", h.HandleDeleteSession)
	r.Get("/status", h.HandleStatus)

	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReadiness)
	r.Get("/live", h.HandleLiveness)
}

// respondJSON writes a JSON response with the given status.
func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

// respondError writes a JSON error response.
func (h *Handler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
