package homeassistant

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"home-automation/internal/infra"
)

// Client is a thin authenticated caller against the hub's REST surface:
// entity states, service calls and the automation config endpoint.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	// Remove trailing slash if present
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &Client{
		baseURL:    baseURL,
		token:      token,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// States fetches the hub's full entity-state snapshot.
func (c *Client) States(ctx context.Context) ([]Entity, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/states", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching states: %w", err)
	}

	var entities []Entity
	if err := json.Unmarshal(resp, &entities); err != nil {
		return nil, fmt.Errorf("parsing states: %w", err)
	}

	return entities, nil
}

// CallService invokes a hub service, e.g. ("automation", "turn_off", ...).
func (c *Client) CallService(ctx context.Context, domain, service string, data map[string]any) error {
	path := fmt.Sprintf("/api/services/%s/%s", domain, service)

	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshaling request: %w", err)
	}

	if _, err := c.doRequest(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("calling %s.%s: %w", domain, service, err)
	}

	return nil
}

// UpsertAutomation writes an automation config under the given id. The hub's
// config-by-id endpoint is an upsert, so create and update are the same call.
func (c *Client) UpsertAutomation(ctx context.Context, id string, cfg AutomationConfig) error {
	body, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling automation config: %w", err)
	}

	path := "/api/config/automation/config/" + url.PathEscape(id)
	if _, err := c.doRequest(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("writing automation config: %w", err)
	}

	return nil
}

func (c *Client) DeleteAutomation(ctx context.Context, id string) error {
	path := "/api/config/automation/config/" + url.PathEscape(id)
	if _, err := c.doRequest(ctx, http.MethodDelete, path, nil); err != nil {
		return fmt.Errorf("deleting automation config: %w", err)
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

		req.Header.Set("Authorization", "Bearer "+c.token)
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

		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("unauthorized: check your Home Assistant token")
		}

		if infra.IsRetryableHTTPStatus(resp.StatusCode) {
			return fmt.Errorf("home assistant API error %d (retryable): %s", resp.StatusCode, string(respBody))
		}

		if resp.StatusCode >= 400 {
			return fmt.Errorf("home assistant API error %d: %s", resp.StatusCode, string(respBody))
		}

		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return respBody, nil
}
