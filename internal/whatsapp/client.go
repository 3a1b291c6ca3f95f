package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/AniketThakur-404/chatapp/internal/circuitbreaker"
	"github.com/AniketThakur-404/chatapp/internal/middleware"
	"github.com/AniketThakur-404/chatapp/internal/ratelimit"
	"github.com/AniketThakur-404/chatapp/internal/sanitize"
)

const (
	// DefaultAPIURL is the Graph API base for the Cloud API.
	DefaultAPIURL = "https://graph.facebook.com/v19.0"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second

	// maxListOptions is the Cloud API cap on interactive list rows.
	maxListOptions = 10

	// Interactive list row limits imposed by the Cloud API.
	maxRowTitleLen       = 24
	maxRowDescriptionLen = 72
)

// Client sends messages through the WhatsApp Cloud API.
type Client struct {
	accessToken    string
	phoneNumberID  string
	apiURL         string
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	backoff        *ratelimit.Backoff
	logger         *zap.Logger
}

// Config holds configuration for the Cloud API client.
type Config struct {
	AccessToken   string
	PhoneNumberID string
	APIURL        string
	Timeout       time.Duration
}

// New creates a new Cloud API client.
func New(cfg *Config, logger *zap.Logger) *Client {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		apiURL:        cfg.APIURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		circuitBreaker: circuitbreaker.New("whatsapp-api", nil, logger),
		backoff:        ratelimit.NewBackoff(nil, logger),
		logger:         logger,
	}
}

// APIError represents an error response from the Graph API.
type APIError struct {
	Err struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
	StatusCode int `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("whatsapp API error (status %d, code %d): %s", e.StatusCode, e.Err.Code, e.Err.Message)
}

// SendResponse delivers a bot reply. Up to ten options render as an
// interactive list; more fall back to a numbered text message; none means
// plain text. If an interactive send fails, a plain-text fallback is sent
// so the user is never left without a reply.
func (c *Client) SendResponse(ctx context.Context, to, text string, buttons []string) (*SendResult, error) {
	payload := buildSendRequest(to, text, buttons)

	result, err := c.send(ctx, payload)
	if err == nil {
		return result, nil
	}

	if payload.Type != "interactive" {
		return nil, err
	}

	c.logger.Warn("interactive send failed, falling back to plain text",
		zap.String("to", sanitize.Phone(to)),
		zap.Error(err),
	)

	fallback := &sendRequest{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "text",
		Text: &sendText{
			PreviewURL: false,
			Body:       text + "\n\nPlease type your choice.",
		},
	}
	return c.send(ctx, fallback)
}

// buildSendRequest encodes a reply into the Cloud API message shape.
func buildSendRequest(to, text string, buttons []string) *sendRequest {
	switch {
	case len(buttons) == 0:
		return &sendRequest{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text: &sendText{
				PreviewURL: false,
				Body:       text,
			},
		}

	case len(buttons) <= maxListOptions:
		rows := make([]sendRow, 0, len(buttons))
		for i, b := range buttons {
			title, description := splitRowText(b)
			rows = append(rows, sendRow{
				ID:          "option_" + strconv.Itoa(i),
				Title:       title,
				Description: description,
			})
		}

		body := text
		if body == "" {
			body = "Choose an option:"
		}

		return &sendRequest{
			MessagingProduct: "whatsapp",
			RecipientType:    "individual",
			To:               to,
			Type:             "interactive",
			Interactive: &sendInteractive{
				Type:   "list",
				Header: &sendHeader{Type: "text", Text: "Select an option"},
				Body:   sendBody{Text: body},
				Action: sendAction{
					Button: "View Options",
					Sections: []sendSection{
						{Title: "Available Options", Rows: rows},
					},
				},
			},
		}

	default:
		body := text + "\n\n*Reply with number:*\n"
		for i, b := range buttons {
			body += fmt.Sprintf("\n%d. %s", i+1, b)
		}
		return &sendRequest{
			MessagingProduct: "whatsapp",
			To:               to,
			Type:             "text",
			Text: &sendText{
				PreviewURL: false,
				Body:       body,
			},
		}
	}
}

// splitRowText fits an option label into the list row fields. The first 24
// runes become the title; any overflow continues in the description.
func splitRowText(s string) (title, description string) {
	runes := []rune(s)
	if len(runes) <= maxRowTitleLen {
		return s, ""
	}

	title = string(runes[:maxRowTitleLen])
	rest := runes[maxRowTitleLen:]
	if len(rest) > maxRowDescriptionLen {
		rest = rest[:maxRowDescriptionLen]
	}
	return title, string(rest)
}

// send posts one message with circuit breaker and retry protection.
func (c *Client) send(ctx context.Context, payload *sendRequest) (*SendResult, error) {
	var result SendResult

	err := c.circuitBreaker.Execute(ctx, func(ctx context.Context) error {
		return c.backoff.Execute(ctx, func(ctx context.Context) error {
			return c.doSend(ctx, payload, &result)
		})
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// doSend performs the actual HTTP request.
func (c *Client) doSend(ctx context.Context, payload *sendRequest, result *SendResult) error {
	url := fmt.Sprintf("%s/%s/messages", c.apiURL, c.phoneNumberID)

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	middleware.PropagateHeaders(ctx, req)

	c.logger.Debug("whatsapp API request",
		zap.String("to", sanitize.Phone(payload.To)),
		zap.String("type", payload.Type),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	c.logger.Debug("whatsapp API response",
		zap.Int("status", resp.StatusCode),
		zap.Int("body_length", len(respBody)),
	)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.Unmarshal(respBody, apiErr); err != nil {
			apiErr.Err.Message = string(respBody)
		}
		return &ratelimit.RetryableError{
			Err:        apiErr,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}

	return nil
}

// parseRetryAfter reads a Retry-After header given in seconds.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// CircuitBreakerStats returns the current circuit breaker statistics.
func (c *Client) CircuitBreakerStats() circuitbreaker.Stats {
	return c.circuitBreaker.Stats()
}

// IsCircuitOpen returns true if the circuit breaker is open.
func (c *Client) IsCircuitOpen() bool {
	return c.circuitBreaker.IsOpen()
}
