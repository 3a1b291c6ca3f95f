// Package audit provides business and security event logging for the
// conversation service. Events land in the structured log stream under
// the "audit" logger name so they can be filtered and retained apart
// from operational noise.
package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventType represents the type of audit event.
type EventType string

const (
	// Webhook events
	EventWebhookVerifyFailed EventType = "webhook.verify.failed"

	// Abuse controls
	EventRateLimitExceeded EventType = "ratelimit.exceeded"

	// Conversation lifecycle
	EventSessionReset     EventType = "conversation.session.reset"
	EventExpertRequested  EventType = "conversation.expert.requested"
	EventBookingConfirmed EventType = "conversation.booking.confirmed"

	// Delivery
	EventSendFailed EventType = "message.send.failed"

	// System lifecycle
	EventServiceStarted  EventType = "system.started"
	EventServiceStopping EventType = "system.stopping"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Event represents an audit log entry.
type Event struct {
	// ID is a unique identifier for this event.
	ID string `json:"id"`

	// Timestamp when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type of event (e.g., "conversation.booking.confirmed").
	Type EventType `json:"type"`

	// Severity level.
	Severity Severity `json:"severity"`

	// UserID is the conversation participant, where one is involved.
	UserID string `json:"user_id,omitempty"`

	// SourceIP and RequestID tie the event to an HTTP request.
	SourceIP  string `json:"source_ip,omitempty"`
	RequestID string `json:"request_id,omitempty"`

	// Action and Outcome describe what happened.
	Action  string `json:"action"`
	Outcome string `json:"outcome"`
	Reason  string `json:"reason,omitempty"`

	// Metadata carries event-specific context.
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Logger provides audit logging capabilities.
type Logger struct {
	logger *zap.Logger
}

// NewLogger creates a new audit logger.
func NewLogger(baseLogger *zap.Logger) *Logger {
	if baseLogger == nil {
		baseLogger = zap.NewNop()
	}
	return &Logger{
		logger: baseLogger.Named("audit"),
	}
}

// Log records an audit event. Missing IDs and timestamps are filled in.
func (l *Logger) Log(event *Event) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	level := zap.InfoLevel
	switch event.Severity {
	case SeverityWarning:
		level = zap.WarnLevel
	case SeverityError:
		level = zap.ErrorLevel
	}

	fields := []zap.Field{
		zap.String("audit_id", event.ID),
		zap.Time("audit_timestamp", event.Timestamp),
		zap.String("event_type", string(event.Type)),
		zap.String("severity", string(event.Severity)),
		zap.String("action", event.Action),
		zap.String("outcome", event.Outcome),
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.SourceIP != "" {
		fields = append(fields, zap.String("source_ip", event.SourceIP))
	}
	if event.RequestID != "" {
		fields = append(fields, zap.String("request_id", event.RequestID))
	}
	if event.Reason != "" {
		fields = append(fields, zap.String("reason", event.Reason))
	}
	if len(event.Metadata) > 0 {
		metadataJSON, err := json.Marshal(event.Metadata)
		if err != nil {
			metadataJSON = []byte(`{"error":"failed to marshal metadata"}`)
		}
		fields = append(fields, zap.ByteString("metadata", metadataJSON))
	}

	if ce := l.logger.Check(level, "audit event"); ce != nil {
		ce.Write(fields...)
	}
}

// WebhookVerifyFailed records a failed webhook subscription handshake.
func (l *Logger) WebhookVerifyFailed(sourceIP, requestID, reason string) {
	l.Log(&Event{
		Type:      EventWebhookVerifyFailed,
		Severity:  SeverityWarning,
		SourceIP:  sourceIP,
		RequestID: requestID,
		Action:    "verify webhook subscription",
		Outcome:   "denied",
		Reason:    reason,
	})
}

// RateLimitExceeded records a sender hitting a message rate limit.
func (l *Logger) RateLimitExceeded(userID, requestID, limiter string) {
	l.Log(&Event{
		Type:      EventRateLimitExceeded,
		Severity:  SeverityWarning,
		UserID:    userID,
		RequestID: requestID,
		Action:    "process inbound message",
		Outcome:   "denied",
		Metadata:  map[string]interface{}{"limiter": limiter},
	})
}

// SessionReset records an operator wiping a conversation session.
func (l *Logger) SessionReset(userID, sourceIP, requestID string) {
	l.Log(&Event{
		Type:      EventSessionReset,
		Severity:  SeverityInfo,
		UserID:    userID,
		SourceIP:  sourceIP,
		RequestID: requestID,
		Action:    "reset session",
		Outcome:   "success",
	})
}

// ExpertRequested records a conversation escalating to a human expert.
func (l *Logger) ExpertRequested(userID string) {
	l.Log(&Event{
		Type:     EventExpertRequested,
		Severity: SeverityInfo,
		UserID:   userID,
		Action:   "request expert consultation",
		Outcome:  "success",
	})
}

// BookingConfirmed records a customer confirming a service booking.
func (l *Logger) BookingConfirmed(userID, service string) {
	l.Log(&Event{
		Type:     EventBookingConfirmed,
		Severity: SeverityInfo,
		UserID:   userID,
		Action:   "confirm booking",
		Outcome:  "success",
		Metadata: map[string]interface{}{"service": service},
	})
}

// SendFailed records an outbound message that could not be delivered.
func (l *Logger) SendFailed(userID, requestID, reason string) {
	l.Log(&Event{
		Type:      EventSendFailed,
		Severity:  SeverityError,
		UserID:    userID,
		RequestID: requestID,
		Action:    "send message",
		Outcome:   "failure",
		Reason:    reason,
	})
}

// ServiceStarted records process startup.
func (l *Logger) ServiceStarted(environment string) {
	l.Log(&Event{
		Type:     EventServiceStarted,
		Severity: SeverityInfo,
		Action:   "start service",
		Outcome:  "success",
		Metadata: map[string]interface{}{"environment": environment},
	})
}

// ServiceStopping records the beginning of shutdown.
func (l *Logger) ServiceStopping(reason string) {
	l.Log(&Event{
		Type:     EventServiceStopping,
		Severity: SeverityInfo,
		Action:   "stop service",
		Outcome:  "success",
		Reason:   reason,
	})
}
