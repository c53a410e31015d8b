package service

import (
	"context"
	"testing"
	"time"

	"trade-publisher-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestClose_TradeNotFound(t *testing.T) {
	_, _, signals := setupServices(t)

	_, err := signals.RequestClose(context.Background(), 1001, 5001)
	assert.ErrorIs(t, err, ErrTradeNotFound)
}

func TestRequestClose_QueuesSignal(t *testing.T) {
	ingest, _, signals := setupServices(t)
	ctx := context.Background()
	publishOne(t, ingest, 1001, 5001, 1700000000)

	before := time.Now().Unix()
	created, err := signals.RequestClose(ctx, 1001, 5001)
	require.NoError(t, err)

	assert.Equal(t, models.SignalTypeClose, created.SignalType)
	assert.Equal(t, int64(1001), created.AccountNumber)
	assert.Equal(t, int64(5001), created.Ticket)
	assert.False(t, created.Processed)
	assert.GreaterOrEqual(t, created.CreatedAt, before)

	pending, err := signals.ListSignals(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, created.ID, pending[0].ID)
}

func TestRequestClose_DuplicatesAllowed(t *testing.T) {
	ingest, _, signals := setupServices(t)
	ctx := context.Background()
	publishOne(t, ingest, 1001, 5001, 1700000000)

	// Repeated close requests for the same ticket queue additional signals.
	_, err := signals.RequestClose(ctx, 1001, 5001)
	require.NoError(t, err)
	_, err = signals.RequestClose(ctx, 1001, 5001)
	require.NoError(t, err)

	pending, err := signals.ListSignals(ctx, 1001)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestListSignals_FIFOAndExcludesProcessed(t *testing.T) {
	ingest, _, signals := setupServices(t)
	ctx := context.Background()
	publishOne(t, ingest, 1001, 5001, 1700000000)
	publishOne(t, ingest, 1001, 5002, 1700000060)

	first, err := signals.RequestClose(ctx, 1001, 5001)
	require.NoError(t, err)
	second, err := signals.RequestClose(ctx, 1001, 5002)
	require.NoError(t, err)

	pending, err := signals.ListSignals(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, first.ID, pending[0].ID)
	assert.Equal(t, second.ID, pending[1].ID)
	assert.LessOrEqual(t, pending[0].CreatedAt, pending[1].CreatedAt)

	require.NoError(t, signals.MarkProcessed(ctx, first.ID))

	pending, err = signals.ListSignals(ctx, 1001)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.ID, pending[0].ID)
}

func TestMarkProcessed_UnknownSignal(t *testing.T) {
	_, _, signals := setupServices(t)

	err := signals.MarkProcessed(context.Background(), 42)
	assert.ErrorIs(t, err, ErrSignalNotFound)
}

func TestMarkProcessed_RepeatedAckSucceeds(t *testing.T) {
	ingest, _, signals := setupServices(t)
	ctx := context.Background()
	publishOne(t, ingest, 1001, 5001, 1700000000)

	created, err := signals.RequestClose(ctx, 1001, 5001)
	require.NoError(t, err)

	require.NoError(t, signals.MarkProcessed(ctx, created.ID))
	// A second ack on an already processed signal re-stamps it and succeeds.
	require.NoError(t, signals.MarkProcessed(ctx, created.ID))

	pending, err := signals.ListSignals(ctx, 1001)
	require.NoError(t, err)
	assert.Empty(t, pending)
}
