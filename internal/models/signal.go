package models

import "time"

// Signal types understood by the expert advisor.
const (
	SignalTypeClose = "CLOSE"
)

// TradeSignal is an instruction queued for the expert advisor to poll.
// A signal moves from unprocessed to processed exactly once; processed_at
// is set if and only if processed is true.
type TradeSignal struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	AccountNumber int64      `gorm:"index;not null" json:"account_number"`
	Ticket        int64      `gorm:"not null" json:"ticket"`
	SignalType    string     `gorm:"not null" json:"signal_type"`
	CreatedAt     time.Time  `gorm:"index" json:"-"`
	Processed     bool       `gorm:"default:false" json:"processed"`
	ProcessedAt   *time.Time `json:"-"`
}
