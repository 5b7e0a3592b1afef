package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gw-transaction-processor/internal/custom_err"
	"gw-transaction-processor/internal/models"
	"gw-transaction-processor/internal/storage"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Интерфейс для query executor
type PgxIface interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	GetByExternalID(ctx context.Context, externalID string) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, externalID string, from, to models.Status, processedAt time.Time) error
}

type PgTransactionRepository struct {
	db PgxIface
}

func NewTransactionRepository(db PgxIface) TransactionRepository {
	return &PgTransactionRepository{db: db}
}

// Create сохраняет новую транзакцию, created_at заполняется базой
func (r *PgTransactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	const op = "storage.Create"

	err := r.db.QueryRow(
		ctx,
		storage.CreateTransactionQuery,
		txn.ID, txn.TransactionID, txn.SourceAccount, txn.DestinationAccount,
		txn.Amount, txn.Currency, txn.Status,
	).Scan(&txn.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23505":
				return custom_err.ErrDuplicateTransaction
			case "23514":
				return custom_err.ErrInvalidStatus
			}
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (r *PgTransactionRepository) GetByExternalID(ctx context.Context, externalID string) (*models.Transaction, error) {
	const op = "storage.GetByExternalID"

	var txn models.Transaction
	err := r.db.QueryRow(ctx, storage.GetTransactionByExternalIDQuery, externalID).Scan(
		&txn.ID,
		&txn.TransactionID,
		&txn.SourceAccount,
		&txn.DestinationAccount,
		&txn.Amount,
		&txn.Currency,
		&txn.Status,
		&txn.CreatedAt,
		&txn.ProcessedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, custom_err.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &txn, nil
}

// UpdateStatus переводит транзакцию из статуса from в статус to,
// пропуская строки, уже ушедшие из ожидаемого состояния
func (r *PgTransactionRepository) UpdateStatus(ctx context.Context, externalID string, from, to models.Status, processedAt time.Time) error {
	const op = "storage.UpdateStatus"

	res, err := r.db.Exec(ctx, storage.UpdateTransactionStatusQuery,
		externalID, to, processedAt, from)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23514" {
			return custom_err.ErrInvalidStatus
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	if res.RowsAffected() == 0 {
		return custom_err.ErrNotFound
	}

	return nil
}
