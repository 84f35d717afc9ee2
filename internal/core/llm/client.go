// Package llm is the client for the local OpenAI-compatible completion
// endpoint: model listing, streaming chat completion, and the usage
// snapshot. Responses with heterogeneous shapes are normalized here so
// the chat store only ever sees clean values.
package llm

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/pilotchat/pilotchat/internal/core/models"
)

// DefaultBaseURL is where the local completion proxy listens.
const DefaultBaseURL = "http://localhost:4141"

const (
	modelsTimeout = 30 * time.Second
	usageTimeout  = 15 * time.Second

	// streamTimeout is a total bound on one streaming completion, on
	// top of whatever cancellation the caller supplies.
	streamTimeout = 3 * time.Minute
)

// Client talks to the completion endpoint.
type Client struct {
	baseURL string

	// Unary calls get a hard client timeout; the streaming client has
	// none and is bounded via context instead.
	unary     *http.Client
	streaming *http.Client
}

// NewClient creates a client for the given base URL. An empty URL means
// DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	return &Client{
		baseURL:   baseURL,
		unary:     &http.Client{Transport: transport, Timeout: modelsTimeout},
		streaming: &http.Client{Transport: transport},
	}
}

// BaseURL returns the endpoint the client targets.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListModels fetches the available model names. The endpoint may answer
// with either {"data":[{"id":...}]} or {"models":[...]}; the first shape
// wins when both are present and non-empty. Duplicates are dropped with
// order preserved. Any failure yields an empty list rather than an
// error so callers can fall back to a manually entered model name.
func (c *Client) ListModels(ctx context.Context) []string {
	ctx, cancel := context.WithTimeout(ctx, modelsTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/models", nil)
	if err != nil {
		return nil
	}

	resp, err := c.unary.Do(req)
	if err != nil {
		slog.Warn("model listing failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("model listing failed", "status", resp.StatusCode)
		return nil
	}

	var payload struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
		Models []string `json:"models"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Warn("model listing unreadable", "error", err)
		return nil
	}

	var names []string
	for _, item := range payload.Data {
		if item.ID != "" {
			names = append(names, item.ID)
		}
	}
	if len(names) == 0 {
		for _, name := range payload.Models {
			if name != "" {
				names = append(names, name)
			}
		}
	}
	return dedupe(names)
}

// GetUsage fetches the quota snapshot. Best effort: nil on any failure,
// since usage display never gates other operations.
func (c *Client) GetUsage(ctx context.Context) *models.UsageInfo {
	ctx, cancel := context.WithTimeout(ctx, usageTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/usage", nil)
	if err != nil {
		return nil
	}

	resp, err := c.unary.Do(req)
	if err != nil {
		slog.Debug("usage fetch failed", "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Debug("usage fetch failed", "status", resp.StatusCode)
		return nil
	}

	var payload struct {
		QuotaSnapshots struct {
			PremiumInteractions struct {
				Remaining   *float64 `json:"remaining"`
				Entitlement *float64 `json:"entitlement"`
			} `json:"premium_interactions"`
		} `json:"quota_snapshots"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		slog.Debug("usage payload unreadable", "error", err)
		return nil
	}

	usage := &models.UsageInfo{}
	premium := payload.QuotaSnapshots.PremiumInteractions
	if premium.Remaining != nil {
		left := int(*premium.Remaining)
		usage.PremiumRequestsLeft = &left
	}
	if premium.Entitlement != nil {
		total := int(*premium.Entitlement)
		usage.TotalPremiumRequests = &total
	}
	return usage
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	out := names[:0]
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
