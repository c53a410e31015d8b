package service

import (
	"context"
	"time"

	"trade-publisher-go/internal/metrics"
	"trade-publisher-go/internal/models"
	"trade-publisher-go/internal/store"

	"go.uber.org/zap"
)

// PublishRequest is the batch an expert advisor pushes on every tick: the
// account snapshot plus all currently open positions. Pointer fields are
// required; everything else defaults when absent.
type PublishRequest struct {
	Account    *int64       `json:"account"`
	Server     *string      `json:"server"`
	Timestamp  *int64       `json:"timestamp"`
	Balance    float64      `json:"balance"`
	Equity     float64      `json:"equity"`
	Margin     float64      `json:"margin"`
	FreeMargin float64      `json:"free_margin"`
	Trades     []TradeEntry `json:"trades"`
}

// TradeEntry is one open position inside a publish batch. Entries without a
// ticket or symbol are skipped, not rejected.
type TradeEntry struct {
	Ticket    *int64  `json:"ticket"`
	Symbol    *string `json:"symbol"`
	Type      int     `json:"type"`
	Lots      float64 `json:"lots"`
	OpenPrice float64 `json:"open_price"`
	OpenTime  *int64  `json:"open_time"`
	SL        float64 `json:"sl"`
	TP        float64 `json:"tp"`
	Profit    float64 `json:"profit"`
	Comment   string  `json:"comment"`
}

// PublishResult reports how much of a batch was persisted.
type PublishResult struct {
	Account     int64
	TradesCount int
}

// IngestService validates and merges publish batches into the store.
type IngestService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewIngestService creates a new IngestService.
func NewIngestService(st *store.Store, logger *zap.Logger) *IngestService {
	return &IngestService{store: st, logger: logger}
}

// Publish upserts the account row and every well-formed trade entry in one
// transaction. A store failure on any row leaves nothing from the batch
// applied.
func (s *IngestService) Publish(ctx context.Context, req *PublishRequest) (*PublishResult, error) {
	switch {
	case req.Account == nil:
		return nil, &ValidationError{Field: "account"}
	case req.Server == nil:
		return nil, &ValidationError{Field: "server"}
	case req.Timestamp == nil:
		return nil, &ValidationError{Field: "timestamp"}
	}

	batchTime := time.Unix(*req.Timestamp, 0)
	account := models.Account{
		AccountNumber: *req.Account,
		Server:        *req.Server,
		Balance:       req.Balance,
		Equity:        req.Equity,
		Margin:        req.Margin,
		FreeMargin:    req.FreeMargin,
		LastUpdate:    batchTime,
	}

	trades := make([]models.Trade, 0, len(req.Trades))
	for _, entry := range req.Trades {
		if entry.Ticket == nil || entry.Symbol == nil {
			continue
		}
		openTime := batchTime
		if entry.OpenTime != nil {
			openTime = time.Unix(*entry.OpenTime, 0)
		}
		trades = append(trades, models.Trade{
			AccountNumber: *req.Account,
			Ticket:        *entry.Ticket,
			Symbol:        *entry.Symbol,
			Type:          entry.Type,
			Lots:          entry.Lots,
			OpenPrice:     entry.OpenPrice,
			OpenTime:      openTime,
			SL:            entry.SL,
			TP:            entry.TP,
			Profit:        entry.Profit,
			Comment:       entry.Comment,
			LastUpdate:    batchTime,
		})
	}

	if err := s.store.PublishBatch(ctx, account, trades); err != nil {
		return nil, err
	}

	metrics.TradesPublished.Add(float64(len(trades)))
	s.logger.Info("Published trades",
		zap.Int64("account", *req.Account),
		zap.Int("trades_count", len(trades)),
	)

	return &PublishResult{Account: *req.Account, TradesCount: len(trades)}, nil
}
