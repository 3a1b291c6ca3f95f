package audit

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// getFieldMap extracts field values from a log entry into a map.
func getFieldMap(fields []zapcore.Field) map[string]interface{} {
	result := make(map[string]interface{})
	for _, f := range fields {
		switch f.Type {
		case zapcore.StringType:
			result[f.Key] = f.String
		case zapcore.Int64Type, zapcore.Int32Type, zapcore.Int16Type, zapcore.Int8Type:
			result[f.Key] = f.Integer
		case zapcore.TimeType:
			result[f.Key] = time.Unix(0, f.Integer).In(f.Interface.(*time.Location))
		case zapcore.ByteStringType:
			result[f.Key] = string(f.Interface.([]byte))
		default:
			result[f.Key] = f.Interface
		}
	}
	return result
}

func newObservedLogger() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return NewLogger(zap.New(core)), logs
}

func TestNewLogger_NilBase(t *testing.T) {
	auditLogger := NewLogger(nil)
	if auditLogger == nil {
		t.Fatal("NewLogger returned nil")
	}
	// Must not panic with a nil base.
	auditLogger.ServiceStarted("test")
}

func TestLogger_Log(t *testing.T) {
	auditLogger, logs := newObservedLogger()

	auditLogger.Log(&Event{
		Type:      EventBookingConfirmed,
		Severity:  SeverityInfo,
		UserID:    "91**********",
		SourceIP:  "192.168.1.1",
		RequestID: "req-456",
		Action:    "confirm booking",
		Outcome:   "success",
	})

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}

	entry := logs.All()[0]
	if entry.Message != "audit event" {
		t.Errorf("unexpected message: %s", entry.Message)
	}
	if entry.Level != zap.InfoLevel {
		t.Errorf("level = %v, expected info", entry.Level)
	}

	fieldMap := getFieldMap(entry.Context)
	if fieldMap["event_type"] != string(EventBookingConfirmed) {
		t.Errorf("event_type = %v", fieldMap["event_type"])
	}
	if fieldMap["user_id"] != "91**********" {
		t.Errorf("user_id = %v", fieldMap["user_id"])
	}
	if fieldMap["source_ip"] != "192.168.1.1" {
		t.Errorf("source_ip = %v", fieldMap["source_ip"])
	}
	if fieldMap["outcome"] != "success" {
		t.Errorf("outcome = %v", fieldMap["outcome"])
	}
	if fieldMap["audit_id"] == "" || fieldMap["audit_id"] == nil {
		t.Error("audit_id was not generated")
	}
}

func TestLogger_Log_SeverityLevels(t *testing.T) {
	tests := []struct {
		severity Severity
		want     zapcore.Level
	}{
		{SeverityInfo, zap.InfoLevel},
		{SeverityWarning, zap.WarnLevel},
		{SeverityError, zap.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(string(tt.severity), func(t *testing.T) {
			auditLogger, logs := newObservedLogger()

			auditLogger.Log(&Event{
				Type:     EventSendFailed,
				Severity: tt.severity,
				Action:   "test",
				Outcome:  "failure",
			})

			if logs.Len() != 1 {
				t.Fatalf("expected 1 log entry, got %d", logs.Len())
			}
			if got := logs.All()[0].Level; got != tt.want {
				t.Errorf("level = %v, expected %v", got, tt.want)
			}
		})
	}
}

func TestLogger_Log_PreservesExplicitID(t *testing.T) {
	auditLogger, logs := newObservedLogger()

	auditLogger.Log(&Event{
		ID:      "fixed-id",
		Type:    EventSessionReset,
		Action:  "reset session",
		Outcome: "success",
	})

	fieldMap := getFieldMap(logs.All()[0].Context)
	if fieldMap["audit_id"] != "fixed-id" {
		t.Errorf("audit_id = %v, expected fixed-id", fieldMap["audit_id"])
	}
}

func TestLogger_WebhookVerifyFailed(t *testing.T) {
	auditLogger, logs := newObservedLogger()

	auditLogger.WebhookVerifyFailed("10.0.0.1:1234", "req-1", "mode or token mismatch")

	entry := logs.All()[0]
	if entry.Level != zap.WarnLevel {
		t.Errorf("level = %v, expected warn", entry.Level)
	}
	fieldMap := getFieldMap(entry.Context)
	if fieldMap["event_type"] != string(EventWebhookVerifyFailed) {
		t.Errorf("event_type = %v", fieldMap["event_type"])
	}
	if fieldMap["outcome"] != "denied" {
		t.Errorf("outcome = %v", fieldMap["outcome"])
	}
	if fieldMap["reason"] != "mode or token mismatch" {
		t.Errorf("reason = %v", fieldMap["reason"])
	}
}

func TestLogger_RateLimitExceeded(t *testing.T) {
	auditLogger, logs := newObservedLogger()

	auditLogger.RateLimitExceeded("91**********", "req-2", "sender_minute")

	entry := logs.All()[0]
	if entry.Level != zap.WarnLevel {
		t.Errorf("level = %v, expected warn", entry.Level)
	}
	fieldMap := getFieldMap(entry.Context)
	if fieldMap["event_type"] != string(EventRateLimitExceeded) {
		t.Errorf("event_type = %v", fieldMap["event_type"])
	}
	metadata, _ := fieldMap["metadata"].(string)
	if metadata != `{"limiter":"sender_minute"}` {
		t.Errorf("metadata = %q", metadata)
	}
}

func TestLogger_BookingConfirmed(t *testing.T) {
	auditLogger, logs := newObservedLogger()

	auditLogger.BookingConfirmed("91**********", "ceramic_coating")

	fieldMap := getFieldMap(logs.All()[0].Context)
	if fieldMap["event_type"] != string(EventBookingConfirmed) {
		t.Errorf("event_type = %v", fieldMap["event_type"])
	}
	metadata, _ := fieldMap["metadata"].(string)
	if metadata != `{"service":"ceramic_coating"}` {
		t.Errorf("metadata = %q", metadata)
	}
}

func TestLogger_ExpertRequested(t *testing.T) {
	auditLogger, logs := newObservedLogger()

	auditLogger.ExpertRequested("91**********")

	fieldMap := getFieldMap(logs.All()[0].Context)
	if fieldMap["event_type"] != string(EventExpertRequested) {
		t.Errorf("event_type = %v", fieldMap["event_type"])
	}
	if fieldMap["user_id"] != "91**********" {
		t.Errorf("user_id = %v", fieldMap["user_id"])
	}
}

func TestLogger_SendFailed(t *testing.T) {
	auditLogger, logs := newObservedLogger()

	auditLogger.SendFailed("91**********", "corr-3", "circuit breaker is open")

	entry := logs.All()[0]
	if entry.Level != zap.ErrorLevel {
		t.Errorf("level = %v, expected error", entry.Level)
	}
	fieldMap := getFieldMap(entry.Context)
	if fieldMap["reason"] != "circuit breaker is open" {
		t.Errorf("reason = %v", fieldMap["reason"])
	}
	if fieldMap["request_id"] != "corr-3" {
		t.Errorf("request_id = %v", fieldMap["request_id"])
	}
}

func TestLogger_ServiceLifecycle(t *testing.T) {
	auditLogger, logs := newObservedLogger()

	auditLogger.ServiceStarted("production")
	auditLogger.ServiceStopping("signal")

	if logs.Len() != 2 {
		t.Fatalf("expected 2 log entries, got %d", logs.Len())
	}

	startFields := getFieldMap(logs.All()[0].Context)
	if startFields["event_type"] != string(EventServiceStarted) {
		t.Errorf("first event_type = %v", startFields["event_type"])
	}
	stopFields := getFieldMap(logs.All()[1].Context)
	if stopFields["event_type"] != string(EventServiceStopping) {
		t.Errorf("second event_type = %v", stopFields["event_type"])
	}
	if stopFields["reason"] != "signal" {
		t.Errorf("stop reason = %v", stopFields["reason"])
	}
}
