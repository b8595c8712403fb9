// internal/service/whatsapp/client.go
package whatsapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const xlsxMime = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Client sends WhatsApp document messages through the configured provider.
type Client struct {
	apiURL     string
	instanceID string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(apiURL, instanceID, token string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		apiURL:     strings.TrimSuffix(apiURL, "/"),
		instanceID: instanceID,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type documentPayload struct {
	To       string `json:"to"`
	Filename string `json:"filename"`
	Media    string `json:"media"`
	Caption  string `json:"caption"`
	Instance string `json:"instance_id,omitempty"`
}

type providerResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SendDocument posts an xlsx document to the provider. The phone number is
// sanitized to digits only and the file is embedded as a base64 data URI.
// Missing URL/token configuration short-circuits without any network call.
func (c *Client) SendDocument(ctx context.Context, phone, filename string, data []byte, caption string) error {
	if c.apiURL == "" || c.token == "" {
		return fmt.Errorf("Credentials missing")
	}

	payload := documentPayload{
		To:       SanitizePhone(phone),
		Filename: filename,
		Media:    fmt.Sprintf("data:%s;base64,%s", xlsxMime, base64.StdEncoding.EncodeToString(data)),
		Caption:  caption,
		Instance: c.instanceID,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal document payload: %w", err)
	}

	url := c.apiURL + "/messages/document"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("whatsapp provider rejected document",
			zap.Int("status", resp.StatusCode),
			zap.String("filename", filename),
		)
		return fmt.Errorf("whatsapp provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var pr providerResponse
	if err := json.Unmarshal(respBody, &pr); err == nil && !pr.Success && pr.Error != "" {
		return fmt.Errorf("whatsapp provider error: %s", pr.Error)
	}

	return nil
}

// SanitizePhone strips everything but digits from a phone number.
func SanitizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
