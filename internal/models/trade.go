package models

import "time"

// Trade represents an open position published by the expert advisor.
// The (account_number, ticket) pair identifies a position; symbol, type,
// lots, open_price, open_time and comment are fixed at creation, while
// profit, sl, tp and last_update are refreshed on every publish.
type Trade struct {
	ID            uint      `gorm:"primarykey" json:"-"`
	AccountNumber int64     `gorm:"uniqueIndex:idx_account_ticket;not null" json:"account_number"`
	Ticket        int64     `gorm:"uniqueIndex:idx_account_ticket;not null" json:"ticket"`
	Symbol        string    `gorm:"not null" json:"symbol"`
	Type          int       `json:"type"` // 0 = buy, 1 = sell
	Lots          float64   `gorm:"type:decimal(10,2)" json:"lots"`
	OpenPrice     float64   `gorm:"type:decimal(20,8)" json:"open_price"`
	OpenTime      time.Time `gorm:"index" json:"-"`
	SL            float64   `gorm:"column:sl;type:decimal(20,8)" json:"sl"`
	TP            float64   `gorm:"column:tp;type:decimal(20,8)" json:"tp"`
	Profit        float64   `gorm:"type:decimal(20,8)" json:"profit"`
	Comment       string    `json:"comment"`
	LastUpdate    time.Time `json:"-"`
	CreatedAt     time.Time `json:"-"`
}
