// Package query implements the wsline-query tool server: a stdio MCP
// server that translates two fixed operations, running a query and
// describing a schema, into HTTP calls against a remote query service.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Client is a thin HTTP client for the query service. It holds no state
// beyond the base URL; every call is independent request/response glue.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the query service at baseURL. A zero
// timeout uses the default of 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type queryRequest struct {
	Query string `json:"query"`
}

// RunQuery submits a query to the service and returns the raw response
// body.
func (c *Client) RunQuery(ctx context.Context, q string) (string, error) {
	body, err := json.Marshal(queryRequest{Query: q})
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/query", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, "run query")
}

// DescribeSchema fetches the description of the named schema and returns
// the raw response body.
func (c *Client) DescribeSchema(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("schema name is required")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/schema/"+url.PathEscape(name), nil)
	if err != nil {
		return "", fmt.Errorf("build schema request: %w", err)
	}
	return c.do(req, "describe schema")
}

func (c *Client) do(req *http.Request, op string) (string, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort cleanup

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s: read response: %w", op, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s: query service returned %s: %s", op, resp.Status, strings.TrimSpace(string(data)))
	}
	return string(data), nil
}
