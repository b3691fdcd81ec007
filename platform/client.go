// Package platform is a client for the lottery's reporting API.
package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Ashenafi-pixel/gamecrafter-lotto/report"
	"github.com/Ashenafi-pixel/gamecrafter-lotto/round"
)

// Client calls a running lottery server.
type Client struct {
	baseURL string
	http    *http.Client
}

// APIError is a non-200 answer from the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lotto api: %d %s: %s", e.Status, e.Code, e.Message)
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:8081"
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// Draws returns every finalized draw.
func (c *Client) Draws(ctx context.Context) ([]round.Result, error) {
	var out []round.Result
	if err := c.get(ctx, "/draws", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Draw returns draw number n.
func (c *Client) Draw(ctx context.Context, n int) (round.Result, error) {
	var out round.Result
	err := c.get(ctx, "/draws/"+strconv.Itoa(n), &out)
	return out, err
}

func (c *Client) Ledger(ctx context.Context) (report.Ledger, error) {
	var out report.Ledger
	err := c.get(ctx, "/ledger", &out)
	return out, err
}

// Run returns the archived draws of a previous or current run.
func (c *Client) Run(ctx context.Context, runID string) ([]round.Result, error) {
	var out []round.Result
	if err := c.get(ctx, "/runs/"+url.PathEscape(runID)+"/draws", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ticket looks up a ticket by the identity printed on it.
func (c *Client) Ticket(ctx context.Context, id string) (report.TicketStatus, error) {
	var out report.TicketStatus
	err := c.get(ctx, "/tickets/"+url.PathEscape(id), &out)
	return out, err
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]string
	if err := c.get(ctx, "/health", &out); err != nil {
		return err
	}
	if out["status"] != "ok" {
		return fmt.Errorf("lotto api: unhealthy status %q", out["status"])
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		var data struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.Unmarshal(body, &data)
		return &APIError{Status: resp.StatusCode, Code: data.Code, Message: data.Error}
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("lotto api: decode %s: %w", path, err)
	}
	return nil
}
