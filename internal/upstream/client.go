// Package upstream is the client for the ERP backend the gateway fronts:
// next-number and document-create endpoints plus the master data lists.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/meridian-erp/procure-gateway/internal/document"
)

// Client talks to the upstream ERP backend.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

// NewClient constructs a Client for the given base URL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func createPath(t document.Type) string {
	switch t {
	case document.TypePurchaseOrder:
		return "/api/purchase-orders"
	case document.TypePurchaseReturn:
		return "/api/purchase-returns"
	default:
		return "/api/grn"
	}
}

func nextNumberPath(t document.Type) string {
	return createPath(t) + "/next-number"
}

func (c *Client) getJSON(ctx context.Context, path string) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream: GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream: GET %s: status %d", path, resp.StatusCode)
	}
	return decodeBody(resp.Body)
}

func (c *Client) postJSON(ctx context.Context, path string, payload any) (int, map[string]any, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, fmt.Errorf("upstream: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("upstream: POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	decoded, derr := decodeBody(resp.Body)
	if derr != nil {
		decoded = nil
	}
	return resp.StatusCode, decoded, nil
}

// decodeBody tolerates both object and array response roots; arrays are
// wrapped under a "data" key so callers can treat every shape alike.
func decodeBody(r io.Reader) (map[string]any, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("upstream: read body: %w", err)
	}
	var root any
	if err := json.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("upstream: decode body: %w", err)
	}
	switch v := root.(type) {
	case map[string]any:
		return v, nil
	case []any:
		return map[string]any{"data": v}, nil
	default:
		return nil, fmt.Errorf("upstream: unexpected body shape %T", root)
	}
}
