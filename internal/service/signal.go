package service

import (
	"context"
	"time"

	"trade-publisher-go/internal/metrics"
	"trade-publisher-go/internal/models"
	"trade-publisher-go/internal/store"

	"go.uber.org/zap"
)

// SignalService queues close instructions for the polling expert advisor
// and tracks their lifecycle. A signal only ever moves from unprocessed to
// processed; there is no cancellation path.
type SignalService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewSignalService creates a new SignalService.
func NewSignalService(st *store.Store, logger *zap.Logger) *SignalService {
	return &SignalService{store: st, logger: logger}
}

// RequestClose queues a CLOSE signal for the given position. It fails with
// ErrTradeNotFound when no trade row matches (account, ticket). Repeated
// requests for the same ticket queue additional signals.
func (s *SignalService) RequestClose(ctx context.Context, accountNumber, ticket int64) (*SignalView, error) {
	exists, err := s.store.TradeExists(ctx, accountNumber, ticket)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTradeNotFound
	}

	signal := models.TradeSignal{
		AccountNumber: accountNumber,
		Ticket:        ticket,
		SignalType:    models.SignalTypeClose,
		CreatedAt:     time.Now(),
	}
	if err := s.store.InsertSignal(ctx, &signal); err != nil {
		return nil, err
	}

	metrics.SignalsCreated.Inc()
	s.logger.Info("Close signal sent",
		zap.Int64("account", accountNumber),
		zap.Int64("ticket", ticket),
	)

	view := newSignalView(&signal)
	return &view, nil
}

// ListSignals returns the account's unprocessed signals oldest first.
func (s *SignalService) ListSignals(ctx context.Context, accountNumber int64) ([]SignalView, error) {
	signals, err := s.store.ListUnprocessedSignals(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	views := make([]SignalView, 0, len(signals))
	for i := range signals {
		views = append(views, newSignalView(&signals[i]))
	}
	return views, nil
}

// MarkProcessed stamps a signal as handled by the expert advisor. It fails
// with ErrSignalNotFound when the id does not exist; acknowledging an
// already processed signal re-stamps it and succeeds.
func (s *SignalService) MarkProcessed(ctx context.Context, signalID uint) error {
	ok, err := s.store.MarkSignalProcessed(ctx, signalID, time.Now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrSignalNotFound
	}

	metrics.SignalsProcessed.Inc()
	return nil
}
