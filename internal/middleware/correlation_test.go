package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
)

func TestRequestCorrelation_GeneratesIDs(t *testing.T) {
	logger := zap.NewNop()
	middleware := NewRequestCorrelation(logger)

	handler := middleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if GetCorrelationID(ctx) == "" {
			t.Error("correlation ID not set")
		}
		if GetRequestID(ctx) == "" {
			t.Error("request ID not set")
		}

		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/webhook", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Header().Get(CorrelationIDHeader) == "" {
		t.Error("correlation ID header not set in response")
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("request ID header not set in response")
	}
}

func TestRequestCorrelation_PreservesIncomingIDs(t *testing.T) {
	logger := zap.NewNop()
	middleware := NewRequestCorrelation(logger)

	incomingCorrelationID := "test-correlation-123"
	incomingRequestID := "test-request-456"

	var capturedCorrelationID, capturedRequestID string

	handler := middleware.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		capturedCorrelationID = GetCorrelationID(ctx)
		capturedRequestID = GetRequestID(ctx)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/webhook", nil)
	req.Header.Set(CorrelationIDHeader, incomingCorrelationID)
	req.Header.Set(RequestIDHeader, incomingRequestID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if capturedCorrelationID != incomingCorrelationID {
		t.Errorf("correlation ID not preserved: got %s, want %s", capturedCorrelationID, incomingCorrelationID)
	}
	if capturedRequestID != incomingRequestID {
		t.Errorf("request ID not preserved: got %s, want %s", capturedRequestID, incomingRequestID)
	}

	if rec.Header().Get(CorrelationIDHeader) != incomingCorrelationID {
		t.Errorf("correlation ID not in response headers")
	}
}

func TestGetCorrelationID_NoContext(t *testing.T) {
	ctx := context.Background()
	if id := GetCorrelationID(ctx); id != "" {
		t.Errorf("expected empty string for context without correlation ID, got %s", id)
	}
}

func TestWithCorrelationID(t *testing.T) {
	ctx := context.Background()
	id := "test-id-123"

	ctx = WithCorrelationID(ctx, id)

	if got := GetCorrelationID(ctx); got != id {
		t.Errorf("WithCorrelationID: got %s, want %s", got, id)
	}
}

func TestGenerateID(t *testing.T) {
	id1 := generateID()
	id2 := generateID()

	if id1 == "" {
		t.Error("generateID returned empty string")
	}
	if id1 == id2 {
		t.Error("generateID should return unique IDs")
	}
	if len(id1) != 32 { // 16 bytes * 2 for hex encoding
		t.Errorf("expected 32 char ID, got %d", len(id1))
	}
}

func TestLoggerWithCorrelation(t *testing.T) {
	logger := zap.NewNop()

	// Without correlation context
	result := LoggerWithCorrelation(context.Background(), logger)
	if result == nil {
		t.Error("LoggerWithCorrelation returned nil")
	}

	// With correlation context
	ctx := WithCorrelationID(context.Background(), "test-correlation")

	result = LoggerWithCorrelation(ctx, logger)
	if result == nil {
		t.Error("LoggerWithCorrelation returned nil with context")
	}
}

func TestPropagateHeaders(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "test-correlation")

	req := httptest.NewRequest("POST", "/v23.0/12345/messages", nil)
	PropagateHeaders(ctx, req)

	if req.Header.Get(CorrelationIDHeader) != "test-correlation" {
		t.Errorf("correlation ID not propagated")
	}
}

func TestPropagateHeaders_EmptyContext(t *testing.T) {
	req := httptest.NewRequest("POST", "/v23.0/12345/messages", nil)
	PropagateHeaders(context.Background(), req)

	if got := req.Header.Get(CorrelationIDHeader); got != "" {
		t.Errorf("expected no correlation header, got %s", got)
	}
}

func TestResponseWriter_CapturesStatusCode(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	wrapped.WriteHeader(http.StatusCreated)

	if wrapped.statusCode != http.StatusCreated {
		t.Errorf("status code not captured: got %d, want %d", wrapped.statusCode, http.StatusCreated)
	}
}

func TestResponseWriter_DefaultStatusCode(t *testing.T) {
	rec := httptest.NewRecorder()
	wrapped := &responseWriter{ResponseWriter: rec, statusCode: http.StatusOK}

	// Write without calling WriteHeader
	wrapped.Write([]byte("test"))

	if wrapped.statusCode != http.StatusOK {
		t.Errorf("default status code should be 200, got %d", wrapped.statusCode)
	}
}
