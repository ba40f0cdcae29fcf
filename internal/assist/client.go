package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chronos/internal/calendar"
)

// Parser turns free-form text into an event draft. A nil draft with a nil
// error means "no usable event could be extracted", a recoverable outcome the
// caller should answer with a retry hint, never a failure.
type Parser interface {
	Parse(ctx context.Context, prompt string) (*calendar.EventDraft, error)
}

// Client is a parser backed by a remote text-understanding service. The core
// depends only on the request/response shape below, not on any particular
// provider.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL. An empty baseURL
// yields an unconfigured client whose Parse always reports "no event".
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// IsConfigured returns true if the client has a service URL.
func (c *Client) IsConfigured() bool {
	return c.baseURL != ""
}

type parseRequest struct {
	Prompt    string `json:"prompt"`
	Reference string `json:"reference"` // current instant, for relative dates
}

type parseResponse struct {
	Found       bool   `json:"found"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Type        string `json:"type"`
}

// Parse sends the prompt to the service and maps the answer onto a draft. A
// negative answer, a missing title, an unusable start time or an unknown
// category all produce (nil, nil); only transport and protocol failures are
// errors.
func (c *Client) Parse(ctx context.Context, prompt string) (*calendar.EventDraft, error) {
	if !c.IsConfigured() {
		return nil, nil
	}

	reqBody, err := json.Marshal(parseRequest{
		Prompt:    prompt,
		Reference: time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/parse", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(respBody))
	}

	var pr parseResponse
	if err := json.Unmarshal(respBody, &pr); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return draftFrom(pr), nil
}

// draftFrom maps a service answer onto a draft, or nil when the answer is not
// usable as an event.
func draftFrom(pr parseResponse) *calendar.EventDraft {
	if !pr.Found || pr.Title == "" {
		return nil
	}
	start, err := time.Parse(time.RFC3339, pr.StartTime)
	if err != nil {
		return nil
	}

	d := &calendar.EventDraft{
		Title:     &pr.Title,
		StartTime: &start,
	}
	if pr.Description != "" {
		d.Description = &pr.Description
	}
	if pr.EndTime != "" {
		end, err := time.Parse(time.RFC3339, pr.EndTime)
		if err != nil || end.Before(start) {
			return nil
		}
		d.EndTime = &end
	}
	if pr.Type != "" {
		typ := calendar.EventType(pr.Type)
		if !typ.Valid() {
			return nil
		}
		d.Type = typ
	}
	return d
}
