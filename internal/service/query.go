package service

import (
	"context"
	"errors"

	"trade-publisher-go/internal/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// DefaultTradesLimit is the page size used when the caller does not ask
	// for one.
	DefaultTradesLimit = 100
	// MaxTradesLimit caps the page size a caller may request.
	MaxTradesLimit = 1000
)

// Pagination describes the page of trades that was returned. HasMore is
// approximate: it is true whenever the page came back full, even when no
// further rows exist.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
}

// TradesResult is the account record plus one page of its trades.
type TradesResult struct {
	Account     AccountView `json:"account"`
	Trades      []TradeView `json:"trades"`
	TradesCount int         `json:"trades_count"`
	Pagination  Pagination  `json:"pagination"`
}

// QueryService reads accounts and trades out of the store.
type QueryService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewQueryService creates a new QueryService.
func NewQueryService(st *store.Store, logger *zap.Logger) *QueryService {
	return &QueryService{store: st, logger: logger}
}

// GetTrades returns the account record and a page of its trades ordered by
// open_time descending. It fails with ErrAccountNotFound when the account
// has never published.
func (s *QueryService) GetTrades(ctx context.Context, accountNumber int64, limit, offset int) (*TradesResult, error) {
	if limit <= 0 {
		limit = DefaultTradesLimit
	}
	if limit > MaxTradesLimit {
		limit = MaxTradesLimit
	}
	if offset < 0 {
		offset = 0
	}

	account, err := s.store.GetAccount(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	trades, err := s.store.ListTrades(ctx, accountNumber, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]TradeView, 0, len(trades))
	for i := range trades {
		views = append(views, newTradeView(&trades[i]))
	}

	return &TradesResult{
		Account:     newAccountView(account),
		Trades:      views,
		TradesCount: len(views),
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: len(views) == limit,
		},
	}, nil
}

// GetAccounts returns every known account with its trade count, most
// recently updated first.
func (s *QueryService) GetAccounts(ctx context.Context) ([]AccountSummaryView, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]AccountSummaryView, 0, len(accounts))
	for i := range accounts {
		views = append(views, newAccountSummaryView(&accounts[i]))
	}
	return views, nil
}
