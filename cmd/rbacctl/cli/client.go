package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a minimal HTTP client for the rbacd API.
type Client struct {
	baseURL   string
	principal string
	http      *http.Client
}

// NewClient builds a client for the given server, acting as principal.
func NewClient(baseURL, principal string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		principal: principal,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type problemDetail struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.principal != "" {
		req.Header.Set("X-Rbac-Principal", c.principal)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var problem problemDetail
		if err := json.NewDecoder(resp.Body).Decode(&problem); err == nil && problem.Title != "" {
			if problem.Detail != "" {
				return fmt.Errorf("%s: %s", problem.Title, problem.Detail)
			}
			return fmt.Errorf("%s", problem.Title)
		}
		return fmt.Errorf("server returned %s", resp.Status)
	}
	if out != nil && resp.StatusCode != http.StatusNoContent {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
