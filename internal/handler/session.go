package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AniketThakur-404/chatapp/internal/bot"
	"github.com/AniketThakur-404/chatapp/internal/middleware"
	"github.com/AniketThakur-404/chatapp/internal/sanitize"
	"github.com/AniketThakur-404/chatapp/internal/validation"
)

// TestMessageRequest is the body of POST /test-message.
type TestMessageRequest struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
}

// TestMessageResponse echoes the exchange plus the resulting session state.
type TestMessageResponse struct {
	UserID      string       `json:"userId"`
	UserMessage string       `json:"userMessage"`
	BotResponse bot.Response `json:"botResponse"`
	SessionData *bot.Session `json:"sessionData"`
}

// HandleTestMessage drives the engine directly, bypassing the provider.
// Meant for local development and smoke tests.
func (h *Handler) HandleTestMessage(w http.ResponseWriter, r *http.Request) {
	var req TestMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" {
		h.respondError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if req.UserID == "" {
		req.UserID = "test-user"
	}
	if err := validation.TestMessage(req.UserID, req.Message); err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := h.engine.ProcessMessage(req.UserID, req.Message)
	sess, _ := h.store.Get(req.UserID)

	h.respondJSON(w, http.StatusOK, TestMessageResponse{
		UserID:      req.UserID,
		UserMessage: req.Message,
		BotResponse: resp,
		SessionData: sess,
	})
}

// HandleGetSession returns the session for a user. It never creates one.
func (h *Handler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	sess, ok := h.store.Get(userID)
	if !ok {
		h.respondError(w, http.StatusNotFound, "no session for user")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"userId":      userID,
		"sessionData": sess,
	})
}

// HandleDeleteSession resets a user's conversation.
func (h *Handler) HandleDeleteSession(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	h.store.Delete(userID)
	h.audit.SessionReset(sanitize.Phone(userID), r.RemoteAddr, middleware.GetRequestID(r.Context()))

	h.respondJSON(w, http.StatusOK, map[string]string{
		"userId":  userID,
		"message": "Session reset successfully",
	})
}

// HandleStatus reports runtime counters for ops eyes.
func (h *Handler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":          "ok",
		"active_sessions": h.store.Len(),
	}
	if h.sender != nil {
		status["provider_circuit_open"] = h.sender.IsCircuitOpen()
	}

	h.respondJSON(w, http.StatusOK, status)
}
