package client

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"trade-publisher-go/internal/config"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ClientInterface defines the operations an expert-advisor process performs
// against the Trade Publisher API.
type ClientInterface interface {
	ServiceInfo() (*ServiceInfoResponse, error)
	Publish(req *PublishRequest) (*PublishResponse, error)
	GetSignals(accountNumber int64) (*SignalsResponse, error)
	MarkProcessed(signalID uint) error
}

// Client is a REST client for the Trade Publisher API.
// It implements the ClientInterface.
type Client struct {
	client  *resty.Client
	apiKey  string
	logger  *zap.Logger
	limiter *rate.Limiter
}

// ensure Client implements the interface
var _ ClientInterface = (*Client)(nil)

// NewClient creates a new Trade Publisher API client.
func NewClient(cfg *config.Client, apiKey string, logger *zap.Logger) *Client {
	client := resty.New().SetBaseURL(cfg.BaseURL)

	// rate.Limit is requests per second.
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateLimitBurst)

	return &Client{
		client:  client,
		apiKey:  apiKey,
		logger:  logger,
		limiter: limiter,
	}
}

// ServiceInfoResponse is the service descriptor returned by the root endpoint.
type ServiceInfoResponse struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Status  string `json:"status"`
}

// ServiceInfo fetches the service descriptor.
// This is a good endpoint to test connectivity; it needs no token.
func (c *Client) ServiceInfo() (*ServiceInfoResponse, error) {
	req := c.client.R().SetResult(&ServiceInfoResponse{})
	ctx := context.Background()

	resp, err := c.doRequest(ctx, "GET", "/", req)
	if err != nil {
		c.logger.Error("Failed to get service info", zap.Error(err))
		return nil, fmt.Errorf("failed to get service info: %w", err)
	}

	return resp.Result().(*ServiceInfoResponse), nil
}

// TradeEntry is one open position inside a publish batch.
type TradeEntry struct {
	Ticket    int64   `json:"ticket"`
	Symbol    string  `json:"symbol"`
	Type      int     `json:"type"`
	Lots      float64 `json:"lots"`
	OpenPrice float64 `json:"open_price"`
	OpenTime  int64   `json:"open_time"`
	SL        float64 `json:"sl"`
	TP        float64 `json:"tp"`
	Profit    float64 `json:"profit"`
	Comment   string  `json:"comment"`
}

// PublishRequest is the account snapshot pushed on every publish tick.
type PublishRequest struct {
	Account    int64        `json:"account"`
	Server     string       `json:"server"`
	Timestamp  int64        `json:"timestamp"`
	Balance    float64      `json:"balance"`
	Equity     float64      `json:"equity"`
	Margin     float64      `json:"margin"`
	FreeMargin float64      `json:"free_margin"`
	Trades     []TradeEntry `json:"trades"`
}

// PublishResponse reports how much of the batch the server persisted.
type PublishResponse struct {
	Status      string `json:"status"`
	TradesCount int    `json:"trades_count"`
	Account     int64  `json:"account"`
	Timestamp   string `json:"timestamp"`
}

// Publish uploads the account snapshot and open positions.
func (c *Client) Publish(pub *PublishRequest) (*PublishResponse, error) {
	req := c.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(pub).
		SetResult(&PublishResponse{})
	ctx := context.Background()

	resp, err := c.doRequest(ctx, "POST", "/api/trades", req)
	if err != nil {
		c.logger.Error("Failed to publish trades",
			zap.Error(err),
			zap.Int64("account", pub.Account),
		)
		return nil, fmt.Errorf("failed to publish trades: %w", err)
	}

	result := resp.Result().(*PublishResponse)
	c.logger.Debug("Published trades",
		zap.Int64("account", pub.Account),
		zap.Int("trades_count", result.TradesCount),
	)
	return result, nil
}

// Signal is one pending instruction for this expert advisor.
type Signal struct {
	ID            uint   `json:"id"`
	AccountNumber int64  `json:"account_number"`
	Ticket        int64  `json:"ticket"`
	SignalType    string `json:"signal_type"`
	CreatedAt     int64  `json:"created_at"`
	Processed     bool   `json:"processed"`
}

// SignalsResponse is the poll result for an account.
type SignalsResponse struct {
	Signals []Signal `json:"signals"`
	Count   int      `json:"count"`
}

// GetSignals polls the pending signals for an account, oldest first.
func (c *Client) GetSignals(accountNumber int64) (*SignalsResponse, error) {
	req := c.client.R().SetResult(&SignalsResponse{})
	ctx := context.Background()

	url := "/api/signals/" + strconv.FormatInt(accountNumber, 10)
	resp, err := c.doRequest(ctx, "GET", url, req)
	if err != nil {
		return nil, fmt.Errorf("failed to get signals: %w", err)
	}

	return resp.Result().(*SignalsResponse), nil
}

// MarkProcessed acknowledges a signal after acting on it.
func (c *Client) MarkProcessed(signalID uint) error {
	req := c.client.R()
	ctx := context.Background()

	url := fmt.Sprintf("/api/signals/%d/processed", signalID)
	if _, err := c.doRequest(ctx, "POST", url, req); err != nil {
		c.logger.Error("Failed to mark signal processed",
			zap.Error(err),
			zap.Uint("signal_id", signalID),
		)
		return fmt.Errorf("failed to mark signal processed: %w", err)
	}

	return nil
}

// doRequest handles the actual request execution with auth, rate limiting
// and retry logic. The server never retries; the caller owns backoff.
func (c *Client) doRequest(ctx context.Context, method, url string, req *resty.Request) (*resty.Response, error) {
	var resp *resty.Response
	var err error
	const maxRetries = 3

	req.SetHeader("Authorization", "Bearer "+c.apiKey)

	for i := 0; i < maxRetries; i++ {
		// Wait for the rate limiter
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter wait failed: %w", err)
		}

		c.logger.Debug("Executing request", zap.String("method", method), zap.String("url", c.client.BaseURL+url))
		resp, err = req.Execute(method, url)

		if err == nil && !resp.IsError() {
			return resp, nil // Success
		}

		// Only transient failures are worth another attempt.
		shouldRetry := true
		if resp != nil {
			statusCode := resp.StatusCode()
			if statusCode != http.StatusTooManyRequests && statusCode < 500 {
				shouldRetry = false
			}
		}

		if !shouldRetry {
			return nil, fmt.Errorf("request failed with status %s: %s", resp.Status(), resp.String())
		}

		// Exponential backoff: 1s, 2s, 4s
		retryAfter := time.Duration(math.Pow(2, float64(i))) * time.Second

		c.logger.Warn("Request failed, retrying...",
			zap.Int("attempt", i+1),
			zap.Duration("retry_after", retryAfter),
			zap.Error(err),
		)

		select {
		case <-time.After(retryAfter):
			continue
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err == nil && resp != nil {
		return nil, fmt.Errorf("request failed after %d attempts with status %s", maxRetries, resp.Status())
	}
	return nil, fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
}
