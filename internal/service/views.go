package service

import (
	"trade-publisher-go/internal/models"
	"trade-publisher-go/internal/store"
)

// The view types carry persisted rows across the API boundary. All stored
// timestamps cross the boundary as integer epoch seconds.

// AccountView is the wire form of an account row.
type AccountView struct {
	AccountNumber int64   `json:"account_number"`
	Server        string  `json:"server"`
	Balance       float64 `json:"balance"`
	Equity        float64 `json:"equity"`
	Margin        float64 `json:"margin"`
	FreeMargin    float64 `json:"free_margin"`
	LastUpdate    int64   `json:"last_update"`
	CreatedAt     int64   `json:"created_at"`
}

// AccountSummaryView is an account row plus its trade count, as returned by
// the accounts listing.
type AccountSummaryView struct {
	AccountView
	TradesCount int64 `json:"trades_count"`
}

// TradeView is the wire form of a trade row.
type TradeView struct {
	AccountNumber int64   `json:"account_number"`
	Ticket        int64   `json:"ticket"`
	Symbol        string  `json:"symbol"`
	Type          int     `json:"type"`
	Lots          float64 `json:"lots"`
	OpenPrice     float64 `json:"open_price"`
	OpenTime      int64   `json:"open_time"`
	SL            float64 `json:"sl"`
	TP            float64 `json:"tp"`
	Profit        float64 `json:"profit"`
	Comment       string  `json:"comment"`
	LastUpdate    int64   `json:"last_update"`
}

// SignalView is the wire form of a pending signal.
type SignalView struct {
	ID            uint   `json:"id"`
	AccountNumber int64  `json:"account_number"`
	Ticket        int64  `json:"ticket"`
	SignalType    string `json:"signal_type"`
	CreatedAt     int64  `json:"created_at"`
	Processed     bool   `json:"processed"`
}

func newAccountView(a *models.Account) AccountView {
	return AccountView{
		AccountNumber: a.AccountNumber,
		Server:        a.Server,
		Balance:       a.Balance,
		Equity:        a.Equity,
		Margin:        a.Margin,
		FreeMargin:    a.FreeMargin,
		LastUpdate:    a.LastUpdate.Unix(),
		CreatedAt:     a.CreatedAt.Unix(),
	}
}

func newAccountSummaryView(a *store.AccountWithCount) AccountSummaryView {
	return AccountSummaryView{
		AccountView: newAccountView(&a.Account),
		TradesCount: a.TradesCount,
	}
}

func newTradeView(t *models.Trade) TradeView {
	return TradeView{
		AccountNumber: t.AccountNumber,
		Ticket:        t.Ticket,
		Symbol:        t.Symbol,
		Type:          t.Type,
		Lots:          t.Lots,
		OpenPrice:     t.OpenPrice,
		OpenTime:      t.OpenTime.Unix(),
		SL:            t.SL,
		TP:            t.TP,
		Profit:        t.Profit,
		Comment:       t.Comment,
		LastUpdate:    t.LastUpdate.Unix(),
	}
}

func newSignalView(s *models.TradeSignal) SignalView {
	return SignalView{
		ID:            s.ID,
		AccountNumber: s.AccountNumber,
		Ticket:        s.Ticket,
		SignalType:    s.SignalType,
		CreatedAt:     s.CreatedAt.Unix(),
		Processed:     s.Processed,
	}
}
