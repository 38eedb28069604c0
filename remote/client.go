// Copyright 2026 The Parlor Authors
// SPDX-License-Identifier: Apache-2.0

package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/parlor-foundation/parlor/lib/netutil"
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// AuthorityURL is the base URL of the remote authority (e.g.,
	// "http://localhost:7170").
	AuthorityURL string
	// HTTPClient is used for all requests. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
	// Logger is used for structured logging. If nil, slog.Default()
	// is used.
	Logger *slog.Logger
}

// Client is a typed HTTP client for the remote authority. It is safe
// for concurrent use; the pollers share one instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a client for the given authority.
func NewClient(config ClientConfig) (*Client, error) {
	if config.AuthorityURL == "" {
		return nil, fmt.Errorf("remote: AuthorityURL is required")
	}

	// Store the string form with the trailing slash stripped and build
	// request URLs by concatenation. Round-tripping through url.URL
	// can re-encode the path and break servers that compare raw paths.
	if _, err := url.Parse(config.AuthorityURL); err != nil {
		return nil, fmt.Errorf("remote: invalid AuthorityURL %q: %w", config.AuthorityURL, err)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.AuthorityURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// CloseIdleConnections closes idle HTTP connections in the underlying
// transport's pool. Call after a network disruption so subsequent
// polls establish fresh connections instead of reusing a poisoned
// pooled one.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// doRequest performs an HTTP request with an optional JSON body and
// returns the response body. An empty token means unauthenticated.
// Non-2xx responses with the authority's error shape are returned as
// a *RejectionError; anything else is a transport failure.
func (c *Client) doRequest(ctx context.Context, method, path, token string, requestBody any, query ...url.Values) ([]byte, error) {
	requestURL := c.baseURL + path
	if len(query) > 0 && query[0] != nil {
		requestURL += "?" + query[0].Encode()
	}

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return nil, fmt.Errorf("remote: failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	request, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to create request: %w", err)
	}
	if requestBody != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("remote: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	return nil, c.rejectionFromResponse(response.StatusCode, method, path, responseBody)
}

// doRequestRaw performs an HTTP request with a raw body (for file
// upload).
func (c *Client) doRequestRaw(ctx context.Context, method, path, token, contentType string, body io.Reader) ([]byte, error) {
	requestURL := c.baseURL + path

	request, err := http.NewRequestWithContext(ctx, method, requestURL, body)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to create request: %w", err)
	}
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("remote: request to %s %s failed: %w", method, path, err)
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return nil, fmt.Errorf("remote: failed to read response body: %w", err)
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return responseBody, nil
	}

	return nil, c.rejectionFromResponse(response.StatusCode, method, path, responseBody)
}

// rejectionFromResponse converts a non-2xx response into a
// *RejectionError when the body carries the authority's error shape,
// or a plain error with the raw body when it doesn't.
func (c *Client) rejectionFromResponse(statusCode int, method, path string, body []byte) error {
	var rejection RejectionError
	if err := json.Unmarshal(body, &rejection); err != nil || rejection.Message == "" {
		return fmt.Errorf("remote: unexpected %d response from %s %s: %s",
			statusCode, method, path, string(body))
	}
	rejection.StatusCode = statusCode
	return &rejection
}

// getJSON performs an authenticated GET and decodes the response into
// result.
func (c *Client) getJSON(ctx context.Context, path, token string, result any, query ...url.Values) error {
	body, err := c.doRequest(ctx, http.MethodGet, path, token, nil, query...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("remote: failed to parse response from %s: %w", path, err)
	}
	return nil
}
