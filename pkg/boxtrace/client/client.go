// Package client is a small Go client for the boxtrace HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/freightops-pro/boxtrace/models"
)

// Client talks to a boxtrace server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a client for the given server. apiKey may be empty when the
// server runs without API-key auth.
func New(baseURL, apiKey string) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("baseURL is required")
	}

	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// TrackRequest mirrors the server's lookup request shape.
type TrackRequest struct {
	ContainerNumber string `json:"container_number"`
	PortCode        string `json:"port_code,omitempty"`
	Terminal        string `json:"terminal,omitempty"`
}

// CalculateRequest mirrors the server's explicit-dates calculation request.
type CalculateRequest struct {
	ContainerNumber string `json:"container_number"`
	PortCode        string `json:"port_code"`
	DischargeDate   string `json:"discharge_date"`
	OutgateDate     string `json:"outgate_date,omitempty"`
	EmptyReturnDate string `json:"empty_return_date,omitempty"`
	LastFreeDay     string `json:"last_free_day,omitempty"`
}

// Track looks a container up.
func (c *Client) Track(ctx context.Context, req TrackRequest) (*models.ContainerLookupResult, error) {
	var result models.ContainerLookupResult
	if err := c.post(ctx, "/api/v1/containers/track", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Calculate computes demurrage and per diem from explicit dates.
func (c *Client) Calculate(ctx context.Context, req CalculateRequest) (*models.DemurrageCalculation, error) {
	var calc models.DemurrageCalculation
	if err := c.post(ctx, "/api/v1/demurrage/calculate", req, &calc); err != nil {
		return nil, err
	}
	return &calc, nil
}

// Ports lists the supported ports with their terminals.
func (c *Client) Ports(ctx context.Context) ([]PortInfo, error) {
	var ports []PortInfo
	if err := c.get(ctx, "/api/v1/ports", &ports); err != nil {
		return nil, err
	}
	return ports, nil
}

// PortInfo mirrors the server's port listing entry.
type PortInfo struct {
	PortCode  string   `json:"port_code"`
	Terminals []string `json:"terminals"`
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Message string `json:"message"`
			Details string `json:"details"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Message != "" {
			return fmt.Errorf("server returned %d: %s %s", resp.StatusCode, apiErr.Message, apiErr.Details)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
