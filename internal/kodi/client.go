// MDBList Scrobbler - Kodi playback progress reporting
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mdblist-scrobbler

package kodi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/mdblist-scrobbler/internal/config"
	"github.com/tomtom215/mdblist-scrobbler/internal/logging"
	"github.com/tomtom215/mdblist-scrobbler/internal/metrics"
)

// maxResponseSize caps a JSON-RPC response body.
const maxResponseSize = 1 << 20

// RPCError is a JSON-RPC error object returned by Kodi.
type RPCError struct {
	Method  string          `json:"-"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("kodi %s failed: %s (code %d)", e.Method, e.Message, e.Code)
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      int64  `json:"id"`
}

type rpcResponse struct {
	ID     int64           `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error,omitempty"`
}

// Client calls Kodi's JSON-RPC API over HTTP.
type Client struct {
	url        string
	username   string
	password   string
	playerID   int
	httpClient *http.Client
	nextID     atomic.Int64
}

// NewClient creates a client for the kodi config section.
func NewClient(cfg *config.KodiConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		url:      cfg.URL,
		username: cfg.Username,
		password: cfg.Password,
		playerID: cfg.PlayerID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Call invokes method with params and decodes the result into result, which
// may be nil when the caller does not need it.
func (c *Client) Call(ctx context.Context, method string, params, result any) (err error) {
	start := time.Now()
	defer func() { metrics.RecordKodiRPC(method, time.Since(start), err) }()

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s request: %w", method, err)
	}

	logging.Ctx(ctx).Debug().Str("method", method).RawJSON("request", body).Msg("Sending JSON-RPC request")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("kodi %s request failed: %w", method, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("kodi %s returned status %d: %s", method, resp.StatusCode, logging.Truncate(string(data), 200))
	}

	logging.Ctx(ctx).Debug().Str("method", method).Str("response", logging.Truncate(string(data), 1000)).Msg("Response from JSON-RPC request")

	var rpcResp rpcResponse
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		rpcResp.Error.Method = method
		return rpcResp.Error
	}

	if result == nil || len(rpcResp.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
