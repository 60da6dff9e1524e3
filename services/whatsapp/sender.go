package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ReplySender sends an outbound text message to a WhatsApp user.
type ReplySender interface {
	SendText(ctx context.Context, to, body string) error
}

// CloudAPIClient implements ReplySender against the WhatsApp Cloud API
// /{phone-id}/messages endpoint.
type CloudAPIClient struct {
	BaseURL     string
	PhoneID     string
	AccessToken string
	HTTPClient  *http.Client
	Logger      *zap.Logger
}

func NewCloudAPIClient(baseURL, phoneID, accessToken string, logger *zap.Logger) *CloudAPIClient {
	return &CloudAPIClient{
		BaseURL:     baseURL,
		PhoneID:     phoneID,
		AccessToken: accessToken,
		HTTPClient:  &http.Client{Timeout: 10 * time.Second},
		Logger:      logger,
	}
}

type outboundText struct {
	MessagingProduct string `json:"messaging_product"`
	To               string `json:"to"`
	Type             string `json:"type"`
	Text             struct {
		Body string `json:"body"`
	} `json:"text"`
}

func (c *CloudAPIClient) SendText(ctx context.Context, to, body string) error {
	msg := outboundText{MessagingProduct: "whatsapp", To: to, Type: "text"}
	msg.Text.Body = body

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal outbound message: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.BaseURL, c.PhoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build outbound request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.AccessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("whatsapp send returned %d: %s", resp.StatusCode, string(raw))
	}

	c.Logger.Debug("reply sent", zap.String("to", to), zap.Int("chars", len(body)))
	return nil
}
