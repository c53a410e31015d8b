package api

import (
	"errors"
	"net/http"
	"time"

	"trade-publisher-go/internal/metrics"
	"trade-publisher-go/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Root handles GET / and describes the service. It is the only route that
// does not require authentication.
func (h *Handler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"version": ServiceVersion,
		"status":  "running",
		"endpoints": gin.H{
			"health":         "/api/health",
			"publish_trades": "/api/trades (POST)",
			"get_trades":     "/api/trades/<account_number> (GET)",
			"get_accounts":   "/api/accounts (GET)",
			"close_trade":    "/api/trades/<account_number>/close/<ticket> (POST)",
			"get_signals":    "/api/signals/<account_number> (GET)",
		},
	})
}

// HealthCheck handles GET /api/health with a store connectivity probe.
func (h *Handler) HealthCheck(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.logger.Error("Health check failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// PublishTrades handles POST /api/trades, the expert advisor's batch upload.
func (h *Handler) PublishTrades(c *gin.Context) {
	var req service.PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No data provided"})
		return
	}

	result, err := h.ingest.Publish(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":       "success",
		"trades_count": result.TradesCount,
		"account":      result.Account,
		"timestamp":    time.Now().Format(time.RFC3339),
	})
}

// GetTrades handles GET /api/trades/:accountNumber with pagination.
func (h *Handler) GetTrades(c *gin.Context) {
	accountNumber, ok := pathInt(c, "accountNumber")
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit", service.DefaultTradesLimit)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.query.GetTrades(c.Request.Context(), accountNumber, limit, offset)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAccounts handles GET /api/accounts.
func (h *Handler) GetAccounts(c *gin.Context) {
	accounts, err := h.query.GetAccounts(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accounts": accounts,
		"count":    len(accounts),
	})
}

// RequestClose handles POST /api/trades/:accountNumber/close/:ticket.
func (h *Handler) RequestClose(c *gin.Context) {
	accountNumber, ok := pathInt(c, "accountNumber")
	if !ok {
		return
	}
	ticket, ok := pathInt(c, "ticket")
	if !ok {
		return
	}

	if _, err := h.signals.RequestClose(c.Request.Context(), accountNumber, ticket); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Close signal sent",
		"account": accountNumber,
		"ticket":  ticket,
	})
}

// GetSignals handles GET /api/signals/:accountNumber, the expert advisor's
// polling endpoint.
func (h *Handler) GetSignals(c *gin.Context) {
	accountNumber, ok := pathInt(c, "accountNumber")
	if !ok {
		return
	}

	signals, err := h.signals.ListSignals(c.Request.Context(), accountNumber)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"signals": signals,
		"count":   len(signals),
	})
}

// MarkProcessed handles POST /api/signals/:signalId/processed.
func (h *Handler) MarkProcessed(c *gin.Context) {
	signalID, ok := pathInt(c, "signalId")
	if !ok {
		return
	}

	if err := h.signals.MarkProcessed(c.Request.Context(), uint(signalID)); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "success",
		"signal_id": signalID,
	})
}

// handleServiceError translates service failures to HTTP responses. Store
// diagnostics surface as a short detail string only; nothing retries.
func (h *Handler) handleServiceError(c *gin.Context, err error) {
	switch {
	case service.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, service.ErrTradeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Trade not found"})
	case errors.Is(err, service.ErrSignalNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Signal not found"})
	default:
		metrics.StoreErrors.Inc()
		h.logger.Error("Store error",
			zap.String("request_id", c.GetString(RequestIDContextKey)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Database error",
			"details": err.Error(),
		})
	}
}
