package fast2sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client клиент SMS-шлюза Fast2SMS.
// Уведомления best-effort: ошибки отправки логируются, но не ломают
// бизнес-операцию, из которой они отправляются.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента Fast2SMS
func NewClient(baseURL, apiKey string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет SMS на указанный номер
func (c *Client) Send(ctx context.Context, phone, message string) error {
	if c.apiKey == "" {
		// Шлюз не сконфигурирован - уведомления отключены
		c.log.Warn("SMS gateway is not configured, skipping message to %s", phone)
		return nil
	}

	url := fmt.Sprintf("%s/bulkV2", c.baseURL)

	body, err := json.Marshal(sendRequest{
		Route:   "q",
		Message: message,
		Numbers: phone,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status code %d", ErrSendFailed, resp.StatusCode)
	}

	var result sendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInternal, err)
	}
	if !result.Return {
		return fmt.Errorf("%w: %s", ErrSendFailed, result.Message)
	}

	return nil
}
