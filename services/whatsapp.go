package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// WhatsAppClient posts templated messages to the hosted WhatsApp business
// API. The API is a black box: one POST per message, no delivery receipts.
type WhatsAppClient struct {
	baseURL    string
	token      string
	template   string
	httpClient *http.Client
}

func NewWhatsAppClientFromEnv() *WhatsAppClient {
	template := os.Getenv("WHATSAPP_TEMPLATE")
	if template == "" {
		template = "pmajay_fund_update"
	}
	return &WhatsAppClient{
		baseURL:    os.Getenv("WHATSAPP_API_URL"),
		token:      os.Getenv("WHATSAPP_API_TOKEN"),
		template:   template,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Configured reports whether an API endpoint is set.
func (c *WhatsAppClient) Configured() bool {
	return c.baseURL != ""
}

// Send posts one templated message. Unconfigured clients are a no-op so
// local setups work without a WhatsApp account.
func (c *WhatsAppClient) Send(phone, title, message string) error {
	if !c.Configured() {
		return nil
	}

	payload := map[string]interface{}{
		"to":       phone,
		"type":     "template",
		"template": c.template,
		"parameters": []string{
			title,
			message,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("whatsapp api returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
