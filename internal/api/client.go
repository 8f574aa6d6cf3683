// Package api provides the connectivity layer between the local cache
// and the backend service.
//
// The backend is an enhancement, never a requirement: every remote
// operation degrades to "no-op, report not-synced" when the service is
// unreachable, and nothing here ever raises a transport error to the
// caller. Reachability is probed once and the verdict cached for the
// session, so offline pages do not pay a connection timeout on every
// render.
package api

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

// Client talks to the backend API. Construct one per session with New;
// the reachability verdict lives on the instance, not in package state.
type Client struct {
	baseURL string
	http    *http.Client

	state probeState
}

// New creates a client for the backend rooted at baseURL
// (e.g. "http://localhost:3000/api"). The timeout bounds every request
// including the reachability probe, so a dead backend costs at most
// one timeout per session.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    newHTTPClient(timeout),
	}
}

// newHTTPClient creates an HTTP client with connection pooling.
//
// Connection pool configuration:
//   - MaxIdleConns: 100
//     Maximum number of idle connections across all hosts.
//   - MaxIdleConnsPerHost: 10
//     Prevents a single host from monopolizing the connection pool.
//   - IdleConnTimeout: 90 seconds
//     Balances connection reuse with server connection limits.
//   - DisableKeepAlives: false
//     Enables HTTP keep-alive for connection reuse.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,

			DisableKeepAlives:  false,
			DisableCompression: false,
			ForceAttemptHTTP2:  true,
		},
	}
}

// getJSON performs a GET against the API and decodes the JSON body.
func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// sendJSON performs a write (POST/PUT) with a JSON body. The response
// body is drained and discarded; only the status matters to callers.
func (c *Client) sendJSON(ctx context.Context, method, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return nil
}
