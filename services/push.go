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

const defaultExpoPushURL = "https://exp.host/--/api/v2/push/send"

// PushClient sends Expo push notifications to the mobile shell.
type PushClient struct {
	url        string
	httpClient *http.Client
}

func NewPushClientFromEnv() *PushClient {
	url := os.Getenv("EXPO_PUSH_URL")
	if url == "" {
		url = defaultExpoPushURL
	}
	return &PushClient{
		url:        url,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts one push message to the Expo delivery service.
func (c *PushClient) Send(token, title, message string) error {
	payload := map[string]interface{}{
		"to":    token,
		"title": title,
		"body":  message,
		"sound": "default",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("expo push returned %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
