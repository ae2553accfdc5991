// Package ultravox is a minimal client for the Ultravox agents API.
// It covers exactly the two calls the sync needs: fetch an agent
// template and patch it.
package ultravox

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const defaultBaseURL = "https://api.ultravox.ai"

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

// AgentUpdate is the mutable part of an agent template. A nil
// SelectedTools leaves the remote tool selection untouched.
type AgentUpdate struct {
	SystemPrompt  string
	Voice         string
	SelectedTools []SelectedTool
}

// FetchAgent returns the agent template, or found=false when the
// platform reports the id as unknown. Any other non-2xx response is an
// error carrying the status and body text.
func (c *Client) FetchAgent(ctx context.Context, agentID string) (agent *Agent, found bool, err error) {
	req, err := c.newRequest(ctx, http.MethodGet, agentID, nil)
	if err != nil {
		return nil, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching agent %s: %w", agentID, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		var a Agent
		if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
			return nil, false, fmt.Errorf("decoding agent %s: %w", agentID, err)
		}
		return &a, true, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, false, nil
	default:
		return nil, false, apiError("fetch", agentID, resp)
	}
}

// UpdateAgent patches the agent template and returns the updated agent.
func (c *Client) UpdateAgent(ctx context.Context, agentID string, upd AgentUpdate) (*Agent, error) {
	template := map[string]any{
		"systemPrompt": upd.SystemPrompt,
	}
	if upd.Voice != "" {
		template["voice"] = upd.Voice
	}
	if upd.SelectedTools != nil {
		template["selectedTools"] = upd.SelectedTools
	}

	body, err := json.Marshal(map[string]any{"callTemplate": template})
	if err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, http.MethodPatch, agentID, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("updating agent %s: %w", agentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, apiError("update", agentID, resp)
	}

	var a Agent
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return nil, fmt.Errorf("decoding updated agent %s: %w", agentID, err)
	}
	return &a, nil
}

func (c *Client) newRequest(ctx context.Context, method, agentID string, body io.Reader) (*http.Request, error) {
	url := fmt.Sprintf("%s/api/agents/%s", c.baseURL, agentID)
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func apiError(op, agentID string, resp *http.Response) error {
	text, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("failed to %s agent %s: %d %s", op, agentID, resp.StatusCode, bytes.TrimSpace(text))
}
