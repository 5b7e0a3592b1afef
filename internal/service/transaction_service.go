package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"gw-transaction-processor/internal/cache"
	"gw-transaction-processor/internal/custom_err"
	"gw-transaction-processor/internal/models"
	"gw-transaction-processor/internal/storage/postgres"

	"github.com/google/uuid"
)

type Transaction interface {
	AcceptWebhook(ctx context.Context, req models.TransactionWebhookRequest) error
	GetTransaction(ctx context.Context, externalID string) (*models.Transaction, error)
}

type TransactionService struct {
	repo      postgres.TransactionRepository
	scheduler Scheduler
	cache     cache.Cache
	log       *slog.Logger
}

func NewTransactionService(
	repo postgres.TransactionRepository,
	scheduler Scheduler,
	transactionCache cache.Cache,
	log *slog.Logger,
) Transaction {
	return &TransactionService{
		repo:      repo,
		scheduler: scheduler,
		cache:     transactionCache,
		log:       log,
	}
}

// AcceptWebhook сохраняет транзакцию в статусе PROCESSING и ставит ее в очередь
// на финализацию. Повторный вебхук с тем же transaction_id не считается ошибкой:
// транзакция не пересоздается и повторно в очередь не попадает.
func (s *TransactionService) AcceptWebhook(ctx context.Context, req models.TransactionWebhookRequest) error {
	const op = "service.AcceptWebhook"

	if err := req.Validate(); err != nil {
		return custom_err.ErrInvalidInput
	}

	txn := &models.Transaction{
		ID:                 uuid.New(),
		TransactionID:      req.TransactionID,
		SourceAccount:      req.SourceAccount,
		DestinationAccount: req.DestinationAccount,
		Amount:             *req.Amount,
		Currency:           req.Currency,
		Status:             models.StatusProcessing,
	}

	if err := s.repo.Create(ctx, txn); err != nil {
		if errors.Is(err, custom_err.ErrDuplicateTransaction) {
			s.log.Info("повторный вебхук проигнорирован",
				slog.String("transaction_id", req.TransactionID))
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	s.scheduler.Schedule(txn.TransactionID)

	return nil
}

// GetTransaction ищет транзакцию сначала в кэше, затем в базе
func (s *TransactionService) GetTransaction(ctx context.Context, externalID string) (*models.Transaction, error) {
	const op = "service.GetTransaction"

	if externalID == "" {
		return nil, custom_err.ErrInvalidInput
	}

	cached, err := s.cache.GetTransaction(ctx, externalID)
	if err != nil {
		s.log.Warn("cache lookup failed",
			slog.String("op", op),
			slog.String("transaction_id", externalID),
			slog.String("error", err.Error()))
	} else if cached != nil {
		s.log.Debug("транзакция взята из кэша",
			slog.String("transaction_id", externalID))
		return cached, nil
	}

	txn, err := s.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.cache.SetTransaction(ctx, txn); err != nil {
		s.log.Warn("cache store failed",
			slog.String("op", op),
			slog.String("transaction_id", externalID),
			slog.String("error", err.Error()))
	}

	return txn, nil
}
