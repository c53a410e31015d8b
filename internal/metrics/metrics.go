package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "Latency of handled HTTP requests",
	}, []string{"method", "path", "status"})

	TradesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trades_published_total",
		Help: "Total number of trade rows upserted via publish",
	})

	SignalsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signals_created_total",
		Help: "Total number of close signals created",
	})

	SignalsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "signals_processed_total",
		Help: "Total number of signals acknowledged by clients",
	})

	StoreErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "store_errors_total",
		Help: "Total number of persistence failures surfaced to clients",
	})
)
