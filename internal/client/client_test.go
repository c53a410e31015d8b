package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// setupTestServer creates a new test server and a Client configured to use it.
func setupTestServer(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)

	c := &Client{
		client:  resty.New().SetBaseURL(server.URL),
		apiKey:  "test_api_key",
		logger:  zap.NewNop(), // Use a no-op logger for tests
		limiter: rate.NewLimiter(rate.Inf, 1), // Allow all requests in tests
	}

	return c, server
}

func TestServiceInfo(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"service":"Trade Publisher API","version":"1.0.0","status":"running"}`))
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	info, err := c.ServiceInfo()
	require.NoError(t, err)
	assert.Equal(t, "Trade Publisher API", info.Service)
	assert.Equal(t, "running", info.Status)
}

func TestPublish(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/api/trades", r.URL.Path)
			assert.Equal(t, "Bearer test_api_key", r.Header.Get("Authorization"))

			var body map[string]interface{}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(1001), body["account"])
			assert.Equal(t, "Demo-Server", body["server"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"status":"success","trades_count":1,"account":1001,"timestamp":"2026-08-28T09:00:00Z"}`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		resp, err := c.Publish(&PublishRequest{
			Account:   1001,
			Server:    "Demo-Server",
			Timestamp: 1700000000,
			Trades: []TradeEntry{
				{Ticket: 5001, Symbol: "EURUSD", Lots: 1.0, OpenPrice: 1.1000},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "success", resp.Status)
		assert.Equal(t, 1, resp.TradesCount)
		assert.Equal(t, int64(1001), resp.Account)
	})

	t.Run("Unauthorized", func(t *testing.T) {
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
		})

		c, server := setupTestServer(handler)
		defer server.Close()

		// A 401 is not retryable; the call fails immediately.
		_, err := c.Publish(&PublishRequest{Account: 1001, Server: "X", Timestamp: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "401")
	})
}

func TestMarkProcessed_RetriesExhausted(t *testing.T) {
	attempts := 0
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	// Persistent 5xx responses exhaust the retry budget; the error names the
	// last status rather than a transport failure.
	err := c.MarkProcessed(7)
	require.Error(t, err)
	assert.Equal(t, 3, attempts)
	assert.Contains(t, err.Error(), "after 3 attempts with status 500")
}

func TestGetSignals(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/signals/1001", r.URL.Path)
		assert.Equal(t, "Bearer test_api_key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"signals":[{"id":7,"account_number":1001,"ticket":5001,"signal_type":"CLOSE","created_at":1700000500,"processed":false}],"count":1}`))
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	resp, err := c.GetSignals(1001)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Count)
	require.Len(t, resp.Signals, 1)
	assert.Equal(t, uint(7), resp.Signals[0].ID)
	assert.Equal(t, "CLOSE", resp.Signals[0].SignalType)
	assert.False(t, resp.Signals[0].Processed)
}

func TestMarkProcessed(t *testing.T) {
	var calledPath string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calledPath = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","signal_id":7}`))
	})

	c, server := setupTestServer(handler)
	defer server.Close()

	err := c.MarkProcessed(7)
	require.NoError(t, err)
	assert.Equal(t, "/api/signals/7/processed", calledPath)
}
