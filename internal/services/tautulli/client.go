package tautulli

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"oledstat/internal/config"
	"oledstat/internal/services"
)

const serviceName = "tautulli"

// HTTPDoer describes the HTTP client used by the Tautulli client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client talks to the versioned Tautulli API.
type Client struct {
	baseURL string
	apiKey  string
	client  HTTPDoer
}

// NewClient constructs a client for baseURL authenticated with apiKey. A nil
// doer falls back to http.DefaultClient.
func NewClient(baseURL, apiKey string, client HTTPDoer) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, client: client}
}

// NewConfiguredClient builds a client from the [tautulli] section with the
// configured request timeout.
func NewConfiguredClient(cfg *config.Config) *Client {
	return NewClient(cfg.Tautulli.URL, cfg.Tautulli.APIKey, &http.Client{Timeout: cfg.RequestTimeout()})
}

// Activity fetches the current streaming sessions.
func (c *Client) Activity(ctx context.Context) (*Activity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL("cmd=get_activity"), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, serviceName, "activity", "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.RequestMarker(err), serviceName, "activity", "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		detail := fmt.Sprintf("returned %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
		return nil, services.Wrap(services.ErrTransient, serviceName, "activity", detail, nil)
	}

	activity, err := ParseActivity(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, serviceName, "activity", "decode response", err)
	}
	return activity, nil
}

// buildURL takes an API command like "cmd=get_activity" and returns the full URL.
func (c *Client) buildURL(command string) string {
	return c.baseURL + "/api/v2?apikey=" + c.apiKey + "&" + command
}
