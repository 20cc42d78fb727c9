// Package client submits form inputs to the guardrail service and tracks the
// resulting audit state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ashureev/biasguard/internal/domain"
)

// DefaultBaseURL is the hosted guardrail service.
const DefaultBaseURL = "https://bias-detection-api.onrender.com"

// ErrRequestFailed is the single failure kind for a submission. Transport
// errors and undecodable bodies wrap it, and so does any non-2xx status even
// when its body is valid JSON. A browser fetch would render such an error
// body as a result; here a 422 or 500 is never shown as an audit.
var ErrRequestFailed = errors.New("request failed")

// Doer is the subset of *http.Client used to send requests.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client posts inputs to a guardrail service.
type Client struct {
	baseURL string
	http    Doer
}

// New creates a client for baseURL. A nil doer uses http.DefaultClient.
func New(baseURL string, doer Doer) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if doer == nil {
		doer = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: doer}
}

// BaseURL returns the service root the client posts to.
func (c *Client) BaseURL() string { return c.baseURL }

// Post sends in as JSON to its endpoint and decodes the JSON response.
func (c *Client) Post(ctx context.Context, in domain.Input) (domain.AuditResult, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("%w: encode input: %v", ErrRequestFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+in.Path(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var result domain.AuditResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRequestFailed, err)
	}
	if result == nil {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrRequestFailed)
	}
	return result, nil
}
