package handlers

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/mock"

	"gw-transaction-processor/internal/api/middlew"
	"gw-transaction-processor/internal/models"
)

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) AcceptWebhook(ctx context.Context, req models.TransactionWebhookRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, externalID string) (*models.Transaction, error) {
	args := m.Called(ctx, externalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Transaction), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestRouter собирает роутер с теми же middleware, что и в app
func newTestRouter(register func(r chi.Router)) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middlew.WithLogger(testLogger()))
	register(r)
	return r
}
