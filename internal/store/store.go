package store

import (
	"context"
	"fmt"
	"time"

	"trade-publisher-go/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store owns all persisted rows. Services never cache entity state; every
// operation goes through here and relies on the database's row-level
// transactional guarantees.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open gorm connection.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Ping verifies store connectivity with a trivial query.
func (s *Store) Ping(ctx context.Context) error {
	var one int
	if err := s.db.WithContext(ctx).Raw("SELECT 1").Scan(&one).Error; err != nil {
		return fmt.Errorf("store ping failed: %w", err)
	}
	return nil
}

// accountAssignments are the only account columns a re-publish may overwrite.
var accountAssignments = []string{"balance", "equity", "margin", "free_margin", "last_update"}

// tradeAssignments are the only trade columns a re-publish may overwrite;
// the entry terms of a position are fixed at creation.
var tradeAssignments = []string{"profit", "sl", "tp", "last_update"}

// PublishBatch upserts one account row plus its trades in a single
// transaction. A failure on any row rolls back the whole batch.
func (s *Store) PublishBatch(ctx context.Context, account models.Account, trades []models.Trade) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "account_number"}},
			DoUpdates: clause.AssignmentColumns(accountAssignments),
		}).Create(&account).Error; err != nil {
			return fmt.Errorf("failed to upsert account %d: %w", account.AccountNumber, err)
		}

		for i := range trades {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "account_number"}, {Name: "ticket"}},
				DoUpdates: clause.AssignmentColumns(tradeAssignments),
			}).Create(&trades[i]).Error; err != nil {
				return fmt.Errorf("failed to upsert trade %d/%d: %w", trades[i].AccountNumber, trades[i].Ticket, err)
			}
		}

		return nil
	})
}

// GetAccount returns the account row for the given account number, or
// gorm.ErrRecordNotFound.
func (s *Store) GetAccount(ctx context.Context, accountNumber int64) (*models.Account, error) {
	var account models.Account
	if err := s.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&account).Error; err != nil {
		return nil, fmt.Errorf("failed to get account %d: %w", accountNumber, err)
	}
	return &account, nil
}

// ListTrades returns one page of an account's trades, newest position first.
func (s *Store) ListTrades(ctx context.Context, accountNumber int64, limit, offset int) ([]models.Trade, error) {
	var trades []models.Trade
	err := s.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		Order("open_time DESC").
		Limit(limit).
		Offset(offset).
		Find(&trades).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list trades for account %d: %w", accountNumber, err)
	}
	return trades, nil
}

// AccountWithCount is an account row joined with its number of trades.
type AccountWithCount struct {
	models.Account
	TradesCount int64 `json:"trades_count"`
}

// ListAccounts returns every account with a computed trade count, most
// recently updated first. Accounts with no trades are included with count 0.
func (s *Store) ListAccounts(ctx context.Context) ([]AccountWithCount, error) {
	var accounts []AccountWithCount
	err := s.db.WithContext(ctx).
		Model(&models.Account{}).
		Select("accounts.*, COUNT(trades.id) AS trades_count").
		Joins("LEFT JOIN trades ON trades.account_number = accounts.account_number").
		Group("accounts.account_number").
		Order("accounts.last_update DESC").
		Scan(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// TradeExists reports whether a trade row matches (account, ticket).
func (s *Store) TradeExists(ctx context.Context, accountNumber, ticket int64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.Trade{}).
		Where("account_number = ? AND ticket = ?", accountNumber, ticket).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check trade %d/%d: %w", accountNumber, ticket, err)
	}
	return count > 0, nil
}

// InsertSignal persists a new signal row and fills in its assigned id.
func (s *Store) InsertSignal(ctx context.Context, signal *models.TradeSignal) error {
	if err := s.db.WithContext(ctx).Create(signal).Error; err != nil {
		return fmt.Errorf("failed to insert signal for account %d: %w", signal.AccountNumber, err)
	}
	return nil
}

// ListUnprocessedSignals returns an account's pending signals oldest first,
// the delivery order for the polling expert advisor.
func (s *Store) ListUnprocessedSignals(ctx context.Context, accountNumber int64) ([]models.TradeSignal, error) {
	var signals []models.TradeSignal
	err := s.db.WithContext(ctx).
		Where("account_number = ? AND processed = ?", accountNumber, false).
		Order("created_at ASC").
		Find(&signals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list signals for account %d: %w", accountNumber, err)
	}
	return signals, nil
}

// MarkSignalProcessed stamps a signal as processed. It returns false when no
// row with that id exists. Re-stamping an already processed signal succeeds.
func (s *Store) MarkSignalProcessed(ctx context.Context, signalID uint, processedAt time.Time) (bool, error) {
	result := s.db.WithContext(ctx).
		Model(&models.TradeSignal{}).
		Where("id = ?", signalID).
		Updates(map[string]interface{}{
			"processed":    true,
			"processed_at": processedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark signal %d processed: %w", signalID, result.Error)
	}
	return result.RowsAffected > 0, nil
}
