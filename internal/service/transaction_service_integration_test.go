//go:build integration
// +build integration

package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gw-transaction-processor/internal/cache"
	"gw-transaction-processor/internal/custom_err"
	"gw-transaction-processor/internal/kafka"
	"gw-transaction-processor/internal/models"
	"gw-transaction-processor/internal/storage/postgres"
	"gw-transaction-processor/internal/testhelpers"
)

func setupTransactionStack(t *testing.T, delay time.Duration) (Transaction, *Finalizer, *testhelpers.TestDB) {
	t.Helper()

	testDB := testhelpers.SetupTestDB(t)
	testDB.RunMigrations(t)
	testDB.CleanupDB(t)

	log := testLogger()

	repo := postgres.NewTransactionRepository(testDB.Pool)
	processor := NewSimulatedProcessor(delay)
	finalizer := NewFinalizer(repo, processor, kafka.NewNoOpProducer(log), cache.NewNoOpCache(), 2, 10, log)
	service := NewTransactionService(repo, finalizer, cache.NewNoOpCache(), log)

	return service, finalizer, testDB
}

func stopFinalizer(f *Finalizer) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = f.Shutdown(ctx)
}

func newLifecycleRequest(externalID string) models.TransactionWebhookRequest {
	amount := decimal.RequireFromString("100.00")
	return models.TransactionWebhookRequest{
		TransactionID:      externalID,
		SourceAccount:      "A",
		DestinationAccount: "B",
		Amount:             &amount,
		Currency:           "USD",
	}
}

func TestTransactionLifecycle_Integration(t *testing.T) {
	service, finalizer, testDB := setupTransactionStack(t, 100*time.Millisecond)
	defer testDB.TeardownTestDB()
	defer stopFinalizer(finalizer)

	req := newLifecycleRequest("t1")

	require.NoError(t, service.AcceptWebhook(context.Background(), req))

	txn, err := service.GetTransaction(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, txn.Status)
	assert.Nil(t, txn.ProcessedAt)

	require.Eventually(t, func() bool {
		current, err := service.GetTransaction(context.Background(), "t1")
		return err == nil && current.Status == models.StatusProcessed
	}, 5*time.Second, 50*time.Millisecond, "транзакция не была финализирована")

	processed, err := service.GetTransaction(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessed, processed.Status)
	require.NotNil(t, processed.ProcessedAt)
	assert.True(t, processed.Amount.Equal(*req.Amount))
	assert.NotZero(t, processed.CreatedAt)
}

func TestTransactionLifecycle_Integration_DuplicateWebhook(t *testing.T) {
	service, finalizer, testDB := setupTransactionStack(t, 100*time.Millisecond)
	defer testDB.TeardownTestDB()
	defer stopFinalizer(finalizer)

	req := newLifecycleRequest("t1")

	require.NoError(t, service.AcceptWebhook(context.Background(), req))
	require.NoError(t, service.AcceptWebhook(context.Background(), req))

	var count int
	err := testDB.Pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM transactions WHERE transaction_id = $1",
		"t1",
	).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestGetTransaction_Integration_NotFound(t *testing.T) {
	service, finalizer, testDB := setupTransactionStack(t, 100*time.Millisecond)
	defer testDB.TeardownTestDB()
	defer stopFinalizer(finalizer)

	_, err := service.GetTransaction(context.Background(), "unknown")

	assert.ErrorIs(t, err, custom_err.ErrNotFound)
}
