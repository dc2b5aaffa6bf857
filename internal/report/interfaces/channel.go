package interfaces

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Channel delivers rendered notification content.
type Channel interface {
	Send(ctx context.Context, subject, content string) error
}

// WebhookChannel posts text messages to a chat webhook.
type WebhookChannel struct {
	url    string
	client *http.Client
}

type webhookPayload struct {
	MsgType string      `json:"msgtype"`
	Text    webhookText `json:"text"`
}

type webhookText struct {
	Content string `json:"content"`
}

// NewWebhookChannel constructs a webhook channel.
func NewWebhookChannel(url string) (*WebhookChannel, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("webhook channel: empty url")
	}
	return &WebhookChannel{
		url:    url,
		client: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// Send posts subject and content as one text message.
func (c *WebhookChannel) Send(ctx context.Context, subject, content string) error {
	if c == nil || c.url == "" {
		return errors.New("webhook channel: empty url")
	}
	text := strings.TrimSpace(content)
	if subject != "" {
		text = subject + "\n\n" + text
	}
	body, err := json.Marshal(webhookPayload{
		MsgType: "text",
		Text:    webhookText{Content: text},
	})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook channel: non-2xx status %d", resp.StatusCode)
	}
	return nil
}

// LogChannel writes notifications to the log.
type LogChannel struct {
	logger *zap.Logger
}

// NewLogChannel constructs a log channel.
func NewLogChannel(logger *zap.Logger) *LogChannel {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogChannel{logger: logger}
}

// Send logs the message at info level.
func (c *LogChannel) Send(_ context.Context, subject, content string) error {
	c.logger.Info("report notification", zap.String("subject", subject), zap.String("content", content))
	return nil
}
