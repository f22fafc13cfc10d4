// internal/api/client.go
package api

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

	"go.uber.org/zap"
)

const defaultRequestTimeout = 10 * time.Second

// Encoder renders a query string. filter.Query implements it.
type Encoder interface {
	Encode() string
}

// RequestObserver receives the duration and status of every request. code is
// 0 when no response arrived.
type RequestObserver interface {
	ObserveRequest(method, path string, code int, duration time.Duration)
}

// Options configures the client
type Options struct {
	BaseURL    string
	ServerID   string
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
	Observer   RequestObserver
}

// Client is the HTTP client for the price range and monitor API
type Client struct {
	client   *http.Client
	logger   *zap.Logger
	baseURL  string
	serverID string
	token    string
	observer RequestObserver
}

// NewClient creates a new client
func NewClient(opts Options, logger *zap.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		httpClient = &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return &Client{
		client:   httpClient,
		logger:   logger.Named("api-client"),
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		serverID: opts.ServerID,
		token:    opts.Token,
		observer: opts.Observer,
	}
}

// ListSymbols fetches one page of the price range table
func (c *Client) ListSymbols(ctx context.Context, query Encoder) (*SymbolPage, error) {
	var resp symbolsResponse
	if err := c.do(ctx, http.MethodGet, "/api/price_ranges?"+query.Encode(), nil, &resp); err != nil {
		return nil, fmt.Errorf("list symbols: %w", err)
	}
	if !resp.ok() {
		return nil, &AppError{Message: resp.text()}
	}
	return &SymbolPage{Rows: resp.Data, Total: resp.Total}, nil
}

// ListMonitors fetches the account's monitors for a strategy
func (c *Client) ListMonitors(ctx context.Context, strategy Strategy, accountID string) ([]MonitorEntry, error) {
	path := fmt.Sprintf(strategy.Endpoints().ListMonitors, url.PathEscape(accountID))

	var resp monitorsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("list monitors: %w", err)
	}
	if !resp.ok() {
		return nil, &AppError{Message: resp.text()}
	}
	for i := range resp.Data {
		resp.Data[i].Status = resp.Data[i].Status.Normalize()
	}
	return resp.Data, nil
}

// CheckMonitor reports whether the symbol is already monitored
func (c *Client) CheckMonitor(ctx context.Context, accountID, symbol string) (bool, error) {
	path := fmt.Sprintf("/api/check_monitor_symbol/%s/%s", url.PathEscape(accountID), url.PathEscape(symbol))

	var resp existsResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return false, fmt.Errorf("check monitor: %w", err)
	}
	return resp.Exists, nil
}

// SaveMonitor creates a monitor for a single symbol
func (c *Client) SaveMonitor(ctx context.Context, strategy Strategy, accountID, symbol string, cfg MonitorConfig) (string, error) {
	ep := strategy.Endpoints()
	body := saveRequest{
		AccountID:    accountID,
		StrategyType: ep.SaveTag,
		Symbols:      []saveSymbol{{Symbol: symbol, MonitorConfig: cfg}},
	}

	var resp envelope
	if err := c.do(ctx, http.MethodPost, ep.SaveMonitor, body, &resp); err != nil {
		return "", fmt.Errorf("save monitor: %w", err)
	}
	if !resp.ok() {
		return "", &AppError{Message: resp.text()}
	}
	return resp.Message, nil
}

// GetMonitor fetches one monitor entry
func (c *Client) GetMonitor(ctx context.Context, id int64) (*MonitorEntry, error) {
	var resp monitorResponse
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/monitor/%d", id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get monitor %d: %w", id, err)
	}
	if !resp.ok() {
		return nil, &AppError{Message: resp.text()}
	}
	if resp.Monitor == nil {
		return nil, fmt.Errorf("get monitor %d: %w", id, ErrMalformedResponse)
	}
	resp.Monitor.Status = resp.Monitor.Status.Normalize()
	return resp.Monitor, nil
}

// UpdateMonitor updates a monitor's configuration
func (c *Client) UpdateMonitor(ctx context.Context, id int64, update MonitorUpdate) (string, error) {
	var resp envelope
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/monitor/%d", id), update, &resp); err != nil {
		return "", fmt.Errorf("update monitor %d: %w", id, err)
	}
	if !resp.ok() {
		return "", &AppError{Message: resp.text()}
	}
	return resp.Message, nil
}

// DeleteMonitor removes a monitor through the strategy's delete endpoint
func (c *Client) DeleteMonitor(ctx context.Context, strategy Strategy, id int64) (string, error) {
	ep := strategy.Endpoints()

	var resp envelope
	if err := c.do(ctx, ep.DeleteMethod, fmt.Sprintf(ep.DeletePath, id), nil, &resp); err != nil {
		return "", fmt.Errorf("delete monitor %d: %w", id, err)
	}
	if !resp.ok() {
		return "", &AppError{Message: resp.text()}
	}
	return resp.Message, nil
}

// Positions fetches the account's open positions
func (c *Client) Positions(ctx context.Context, accountID string) ([]Position, error) {
	var positions []Position
	path := "/api/positions?" + url.Values{"acct_id": {accountID}}.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &positions); err != nil {
		return nil, fmt.Errorf("positions: %w", err)
	}
	return positions, nil
}

// do performs one request and decodes the response body into out
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.serverID != "" {
		req.Header.Set("X-Server-ID", c.serverID)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		c.observe(method, path, 0, time.Since(start))
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()
	c.observe(method, path, resp.StatusCode, time.Since(start))

	c.logger.Debug("api request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
		}
		var env envelope
		if json.Unmarshal(raw, &env) == nil {
			httpErr.Message = env.text()
		}
		return httpErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *Client) observe(method, path string, code int, d time.Duration) {
	if c.observer != nil {
		c.observer.ObserveRequest(method, path, code, d)
	}
}
