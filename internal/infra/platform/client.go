// Package platform talks to the managed platform service, the primary
// backend for every automation operation. The platform proxies to the user's
// hub when it can reach it; when the platform itself is down the sync layer
// falls back to calling the hub directly.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"home-automation/internal/domain"
	"home-automation/internal/infra"
	"home-automation/internal/infra/homeassistant"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// envelope is the platform's response wrapper. A 2xx status with ok:false or
// a non-empty error is still a failed call.
type envelope struct {
	OK    *bool  `json:"ok"`
	Error string `json:"error"`
}

func (e envelope) failed() bool {
	return (e.OK != nil && !*e.OK) || e.Error != ""
}

func (e envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return "request rejected"
}

func (c *Client) ListAutomations(ctx context.Context) ([]domain.AutomationSummary, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/automations", nil)
	if err != nil {
		return nil, fmt.Errorf("listing automations: %w", err)
	}

	var result struct {
		envelope
		Automations []domain.AutomationSummary `json:"automations"`
	}
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("parsing automations: %w", err)
	}
	if result.failed() {
		return nil, fmt.Errorf("platform error: %s", result.message())
	}

	return result.Automations, nil
}

func (c *Client) CreateAutomation(ctx context.Context, cfg homeassistant.AutomationConfig) error {
	return c.writeAutomation(ctx, http.MethodPost, "/v1/automations", cfg)
}

func (c *Client) UpdateAutomation(ctx context.Context, id string, cfg homeassistant.AutomationConfig) error {
	return c.writeAutomation(ctx, http.MethodPut, "/v1/automations/"+id, cfg)
}

func (c *Client) writeAutomation(ctx context.Context, method, path string, cfg homeassistant.AutomationConfig) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling automation: %w", err)
	}

	resp, err := c.doRequest(ctx, method, path, body)
	if err != nil {
		return fmt.Errorf("saving automation: %w", err)
	}

	var result envelope
	if err := json.Unmarshal(resp, &result); err == nil && result.failed() {
		return fmt.Errorf("platform error: %s", result.message())
	}

	return nil
}

func (c *Client) DeleteAutomation(ctx context.Context, id string) error {
	resp, err := c.doRequest(ctx, http.MethodDelete, "/v1/automations/"+id, nil)
	if err != nil {
		return fmt.Errorf("deleting automation: %w", err)
	}

	var result envelope
	if err := json.Unmarshal(resp, &result); err == nil && result.failed() {
		return fmt.Errorf("platform error: %s", result.message())
	}

	return nil
}

func (c *Client) SetAutomationEnabled(ctx context.Context, id string, enabled bool) error {
	body, err := json.Marshal(map[string]bool{"enabled": enabled})
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/automations/"+id+"/enabled", body)
	if err != nil {
		return fmt.Errorf("toggling automation: %w", err)
	}

	var result envelope
	if err := json.Unmarshal(resp, &result); err == nil && result.failed() {
		return fmt.Errorf("platform error: %s", result.message())
	}

	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var respBody []byte

	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = strings.NewReader(string(body))
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		respBody, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("reading response: %w", err)
		}

		if infra.IsRetryableHTTPStatus(resp.StatusCode) {
			return fmt.Errorf("platform API error %d (retryable): %s", resp.StatusCode, string(respBody))
		}

		if resp.StatusCode >= 400 {
			return fmt.Errorf("platform API error %d: %s", resp.StatusCode, string(respBody))
		}

		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return respBody, nil
}
