package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AniketThakur-404/chatapp/internal/middleware"
	"github.com/AniketThakur-404/chatapp/internal/ratelimit"
	"github.com/AniketThakur-404/chatapp/internal/sanitize"
	"github.com/AniketThakur-404/chatapp/internal/validation"
	"github.com/AniketThakur-404/chatapp/internal/whatsapp"
)

// sendTimeout bounds the detached outbound send after the webhook is acked.
const sendTimeout = 45 * time.Second

// HandleWebhookVerify answers Meta's subscription handshake. The challenge
// is echoed back only when the mode is "subscribe" and the token matches.
func (h *Handler) HandleWebhookVerify(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("hub.mode")
	token := r.URL.Query().Get("hub.verify_token")
	challenge := r.URL.Query().Get("hub.challenge")

	ok := mode == "subscribe" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) == 1

	if !ok {
		h.logger.Warn("webhook verification failed",
			zap.String("mode", mode),
			zap.Bool("token_present", token != ""),
		)
		h.audit.WebhookVerifyFailed(r.RemoteAddr, middleware.GetRequestID(r.Context()), "mode or token mismatch")
		http.Error(w, "Verification failed", http.StatusForbidden)
		return
	}

	h.logger.Info("webhook verified")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(challenge))
}

// HandleWebhookReceive ingests a webhook delivery. The provider is acked
// immediately; processing failures are logged, never surfaced, because a
// non-200 makes Meta redeliver the same payload.
func (h *Handler) HandleWebhookReceive(w http.ResponseWriter, r *http.Request) {
	var payload whatsapp.WebhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.logger.Warn("webhook payload parse failed", zap.Error(err))
		h.recordWebhook("parse_error")
		h.respondJSON(w, http.StatusOK, map[string]string{"status": "received"})
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "received"})

	if payload.Object != "whatsapp_business_account" {
		h.logger.Debug("ignoring webhook object", zap.String("object", payload.Object))
		h.recordWebhook("ignored")
		return
	}

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			h.processChange(r.Context(), change)
		}
	}
}

// processChange handles one change block of a webhook entry.
func (h *Handler) processChange(ctx context.Context, change whatsapp.Change) {
	if len(change.Value.Messages) == 0 {
		if len(change.Value.Statuses) > 0 {
			for _, st := range change.Value.Statuses {
				h.logger.Debug("delivery status",
					zap.String("message_id", st.ID),
					zap.String("status", st.Status),
				)
			}
			h.recordWebhook("status")
		} else {
			h.logger.Debug("webhook change without messages")
			h.recordWebhook("ignored")
		}
		return
	}

	for _, msg := range change.Value.Messages {
		h.processMessage(ctx, msg)
	}
}

// processMessage runs one inbound message through the engine and dispatches
// the reply.
func (h *Handler) processMessage(ctx context.Context, msg whatsapp.Message) {
	sender := msg.From

	text, ok := msg.ReplyText()
	if !ok {
		h.logger.Debug("unsupported message type",
			zap.String("type", msg.Type),
			zap.String("from", sanitize.Phone(sender)),
		)
		h.recordWebhook("ignored")
		return
	}

	if err := validation.Message(sender, text); err != nil {
		h.logger.Warn("inbound message failed validation",
			zap.String("from", sanitize.Phone(sender)),
			zap.Error(err),
		)
		h.recordWebhook("invalid")
		return
	}

	if h.senderLimiter != nil {
		if err := h.senderLimiter.Allow(sender); err != nil {
			h.recordWebhook("rate_limited")
			limiter := "sender_minute"
			if errors.Is(err, ratelimit.ErrSenderHourLimitExceeded) {
				limiter = "sender_hour"
			}
			if h.metrics != nil {
				h.metrics.RecordRateLimitHit(limiter)
			}
			h.audit.RateLimitExceeded(sanitize.Phone(sender), middleware.GetRequestID(ctx), limiter)
			return
		}
	}

	h.recordWebhook("message")

	resp := h.engine.ProcessMessage(sender, text)

	if h.sender == nil {
		return
	}

	// The webhook request context dies when the ack is written; the send
	// gets its own deadline and carries over the correlation ID.
	sendCtx := middleware.WithCorrelationID(context.Background(), middleware.GetCorrelationID(ctx))

	go func() {
		ctx, cancel := context.WithTimeout(sendCtx, sendTimeout)
		defer cancel()

		started := time.Now()
		_, err := h.sender.SendResponse(ctx, sender, resp.Text, resp.Buttons)

		kind := "text"
		if n := len(resp.Buttons); n > 0 && n <= 10 {
			kind = "interactive"
		}
		if h.metrics != nil {
			h.metrics.RecordMessageSent(kind, err == nil, time.Since(started))
		}

		if err != nil {
			h.logger.Error("failed to send reply",
				zap.String("to", sanitize.Phone(sender)),
				zap.Error(err),
			)
			h.audit.SendFailed(sanitize.Phone(sender), middleware.GetCorrelationID(ctx), err.Error())
		}
	}()
}

func (h *Handler) recordWebhook(outcome string) {
	if h.metrics != nil {
		h.metrics.RecordWebhook(outcome)
	}
}
