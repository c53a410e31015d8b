package service

import (
	"context"
	"testing"

	"trade-publisher-go/internal/database"
	"trade-publisher-go/internal/store"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupServices builds the full service stack on a fresh in-memory database.
func setupServices(t *testing.T) (*IngestService, *QueryService, *SignalService) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	st := store.NewStore(db)
	log := zap.NewNop()

	return NewIngestService(st, log), NewQueryService(st, log), NewSignalService(st, log)
}

func int64p(v int64) *int64 { return &v }
func strp(v string) *string { return &v }

// publishOne publishes a single well-formed trade for the given account.
func publishOne(t *testing.T, ingest *IngestService, account, ticket int64, ts int64) {
	t.Helper()
	_, err := ingest.Publish(context.Background(), &PublishRequest{
		Account:   int64p(account),
		Server:    strp("Demo-Server"),
		Timestamp: int64p(ts),
		Trades: []TradeEntry{{
			Ticket:    int64p(ticket),
			Symbol:    strp("EURUSD"),
			Lots:      1.0,
			OpenPrice: 1.1000,
		}},
	})
	require.NoError(t, err)
}
