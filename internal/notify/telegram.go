package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TelegramClient pushes plain-text messages to a fixed channel via the
// Bot API. A client with missing credentials (or a nil client) is a
// silent no-op so deployments without a bot configured lose nothing
// but the push.
type TelegramClient struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	chatID     string
}

// NewTelegramClient builds a client for api.telegram.org with a 5s
// timeout; a hung push must never stall the fan-out goroutine.
func NewTelegramClient(botToken, chatID string) *TelegramClient {
	return &TelegramClient{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    "https://api.telegram.org",
		botToken:   botToken,
		chatID:     chatID,
	}
}

func (t *TelegramClient) enabled() bool {
	return t != nil && t.botToken != "" && t.chatID != ""
}

// SendMessage posts one sendMessage call. Disabled clients return nil
// immediately.
func (t *TelegramClient) SendMessage(ctx context.Context, text string) error {
	if !t.enabled() {
		return nil
	}

	payload := map[string]string{
		"chat_id": t.chatID,
		"text":    text,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("telegram request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("telegram error %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
