package models

import "time"

// Account represents the last published state of a trading account.
// There is exactly one row per account number; every publish overwrites
// the financial fields and last_update.
type Account struct {
	ID            uint      `gorm:"primarykey" json:"-"`
	AccountNumber int64     `gorm:"uniqueIndex;not null" json:"account_number"`
	Server        string    `gorm:"not null" json:"server"`
	Balance       float64   `gorm:"type:decimal(20,8)" json:"balance"`
	Equity        float64   `gorm:"type:decimal(20,8)" json:"equity"`
	Margin        float64   `gorm:"type:decimal(20,8)" json:"margin"`
	FreeMargin    float64   `gorm:"type:decimal(20,8)" json:"free_margin"`
	LastUpdate    time.Time `gorm:"index" json:"-"`
	CreatedAt     time.Time `json:"-"`
}
