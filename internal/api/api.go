package api

import (
	"fmt"
	"net/http"
	"strconv"

	"trade-publisher-go/internal/service"
	"trade-publisher-go/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const (
	ServiceName    = "Trade Publisher API"
	ServiceVersion = "1.0.0"

	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
)

// Handler wires the HTTP surface to the services. Every /api route passes
// through the bearer-token check before any store access.
type Handler struct {
	ingest  *service.IngestService
	query   *service.QueryService
	signals *service.SignalService
	store   *store.Store
	logger  *zap.Logger
	apiKey  string
}

// NewHandler creates a new Handler.
func NewHandler(
	ingest *service.IngestService,
	query *service.QueryService,
	signals *service.SignalService,
	st *store.Store,
	logger *zap.Logger,
	apiKey string,
) *Handler {
	return &Handler{
		ingest:  ingest,
		query:   query,
		signals: signals,
		store:   st,
		logger:  logger,
		apiKey:  apiKey,
	}
}

// SetupRoutes configures the gin engine with middleware and all API routes.
func (h *Handler) SetupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(requestIDMiddleware())
	router.Use(h.observeMiddleware())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		h.logger.Error("Panic in handler", zap.Any("panic", recovered))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	router.GET("/", h.Root)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authed := router.Group("/api", h.authMiddleware())
	authed.GET("/health", h.HealthCheck)
	authed.POST("/trades", h.PublishTrades)
	authed.GET("/trades/:accountNumber", h.GetTrades)
	authed.GET("/accounts", h.GetAccounts)
	authed.POST("/trades/:accountNumber/close/:ticket", h.RequestClose)
	authed.GET("/signals/:accountNumber", h.GetSignals)
	authed.POST("/signals/:signalId/processed", h.MarkProcessed)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
	})

	return router
}

// pathInt parses a numeric path parameter. Non-numeric values behave like an
// unmatched route.
func pathInt(c *gin.Context, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Endpoint not found"})
		return 0, false
	}
	return v, true
}

// queryInt parses an optional integer query parameter, falling back to def
// when absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return v, nil
}
