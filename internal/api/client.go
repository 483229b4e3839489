// Package api implements the configured HTTP client bound to the
// backend base URL. It owns transport concerns only: timeouts, JSON
// negotiation, request IDs. It never retries.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dastanbekov/jumushtap1/internal/config"
	"github.com/Dastanbekov/jumushtap1/pkg/util/errorutil"
)

const maxResponseBytes = 1 << 20

// Client performs JSON requests against the backend API.
type Client struct {
	baseURL string
	httpc   *http.Client
	logger  *zap.Logger
}

// Response carries the status and raw body of a completed request. The
// repository decides how to interpret non-success statuses.
type Response struct {
	Status int
	Body   []byte
}

// OK reports whether the response has a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// NewClient builds a client with fixed connect/receive timeouts.
func NewClient(cfg config.APIConfig, logger *zap.Logger) *Client {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout: cfg.ConnectTimeout(),
		}).DialContext,
		TLSHandshakeTimeout:   cfg.ConnectTimeout(),
		ResponseHeaderTimeout: cfg.ReceiveTimeout(),
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpc: &http.Client{
			Transport: transport,
			Timeout:   cfg.ConnectTimeout() + cfg.ReceiveTimeout(),
		},
		logger: logger,
	}
}

// Post sends a JSON body to path. An empty bearer sends no Authorization header.
func (c *Client) Post(ctx context.Context, path string, payload any, bearer string) (*Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errorutil.NewMalformedResponse("could not encode request payload")
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), bearer)
}

// Get requests path. An empty bearer sends no Authorization header.
func (c *Client) Get(ctx context.Context, path string, bearer string) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, bearer)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, bearer string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errorutil.NewNetwork(err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return nil, errorutil.NewNetwork(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errorutil.NewNetwork(err)
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)
	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

// Decode unmarshals a response body, flagging undecodable payloads.
func Decode(resp *Response, target any) error {
	if err := json.Unmarshal(resp.Body, target); err != nil {
		return errorutil.NewMalformedResponse("could not decode server response")
	}
	return nil
}
