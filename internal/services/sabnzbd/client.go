package sabnzbd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"oledstat/internal/config"
	"oledstat/internal/services"
)

const serviceName = "sabnzbd"

const (
	actionPause  = "mode=pause"
	actionResume = "mode=resume"
	actionQueue  = "mode=queue"
)

// HTTPDoer describes the HTTP client used by the SABnzbd client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues authenticated GET requests against a SABnzbd instance.
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
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  client,
	}
}

// NewConfiguredClient builds a client from the [sabnzbd] section with the
// configured request timeout.
func NewConfiguredClient(cfg *config.Config) *Client {
	return NewClient(cfg.SABnzbd.URL, cfg.SABnzbd.APIKey, &http.Client{Timeout: cfg.RequestTimeout()})
}

// Pause pauses the download queue.
func (c *Client) Pause(ctx context.Context) error {
	return c.send(ctx, "pause", actionPause)
}

// Resume resumes the download queue.
func (c *Client) Resume(ctx context.Context) error {
	return c.send(ctx, "resume", actionResume)
}

// Queue fetches the current queue summary.
func (c *Client) Queue(ctx context.Context) (*QueueState, error) {
	resp, err := c.get(ctx, "queue", actionQueue)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	state, err := ParseQueue(resp.Body)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, serviceName, "queue", "decode response", err)
	}
	return state, nil
}

func (c *Client) send(ctx context.Context, operation, action string) error {
	resp, err := c.get(ctx, operation, action)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) get(ctx context.Context, operation, action string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.buildURL(action), nil)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, serviceName, operation, "build request", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, services.Wrap(services.RequestMarker(err), serviceName, operation, "request failed", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		detail := fmt.Sprintf("returned %d: %s", resp.StatusCode, strings.TrimSpace(string(bodyBytes)))
		return nil, services.Wrap(services.ErrTransient, serviceName, operation, detail, nil)
	}
	return resp, nil
}

// buildURL takes an API action like "mode=queue" and returns the full URL.
func (c *Client) buildURL(action string) string {
	return c.baseURL + "/api?output=json&apikey=" + c.apiKey + "&" + action
}
