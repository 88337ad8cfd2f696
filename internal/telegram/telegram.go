package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API for a single bot + chat pair.
// No package-level state: construct one at startup and pass it around.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	token  string
	chatID string
}

// New builds a client with the given per-request timeout.
func New(token, chatID string, timeout time.Duration) *Client {
	return &Client{
		BaseURL:    defaultBaseURL,
		HTTPClient: &http.Client{Timeout: timeout},
		token:      token,
		chatID:     chatID,
	}
}

// APIError is a non-200 answer from the Bot API. 4xx codes mean Telegram
// rejected the message itself (bad markup, bad photo URL); 5xx means a
// server-side hiccup worth retrying.
type APIError struct {
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram API error %d: %s", e.Code, e.Description)
}

// IsRejection reports whether err is the endpoint refusing the payload,
// as opposed to a transport or server failure.
func IsRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code >= 400 && apiErr.Code < 500
}

// SendMessage posts a text message. An empty parseMode sends raw text.
func (c *Client) SendMessage(ctx context.Context, text, parseMode string) error {
	payload := map[string]interface{}{
		"chat_id":                  c.chatID,
		"text":                     text,
		"disable_web_page_preview": true,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	return c.post(ctx, "sendMessage", payload)
}

// SendPhoto posts a photo by URL with a caption.
func (c *Client) SendPhoto(ctx context.Context, photoURL, caption, parseMode string) error {
	// Telegram caps captions around 1024 chars.
	if len(caption) > 1000 {
		caption = caption[:1000]
	}

	payload := map[string]interface{}{
		"chat_id": c.chatID,
		"photo":   photoURL,
		"caption": caption,
	}
	if parseMode != "" {
		payload["parse_mode"] = parseMode
	}
	return c.post(ctx, "sendPhoto", payload)
}

func (c *Client) post(ctx context.Context, method string, payload map[string]interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", method, err)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.BaseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request: %w", method, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Warn("failed to close telegram response body", "error", err)
		}
	}()

	if resp.StatusCode == http.StatusOK {
		return nil
	}

	apiErr := &APIError{Code: resp.StatusCode}
	var answer struct {
		Description string `json:"description"`
		ErrorCode   int    `json:"error_code"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		if json.Unmarshal(data, &answer) == nil {
			apiErr.Description = answer.Description
			if answer.ErrorCode != 0 {
				apiErr.Code = answer.ErrorCode
			}
		}
	}
	return apiErr
}
