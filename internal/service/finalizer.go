package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gw-transaction-processor/internal/cache"
	"gw-transaction-processor/internal/custom_err"
	"gw-transaction-processor/internal/kafka"
	"gw-transaction-processor/internal/models"
	"gw-transaction-processor/internal/storage/postgres"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	finalizerTasksScheduled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "transaction_processor",
			Name:      "finalizer_tasks_scheduled_total",
			Help:      "Total number of transactions queued for finalization.",
		},
	)

	finalizerTasksDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "transaction_processor",
			Name:      "finalizer_tasks_dropped_total",
			Help:      "Total number of finalization tasks dropped due to a full queue.",
		},
	)

	finalizerTasksFinished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "transaction_processor",
			Name:      "finalizer_tasks_finished_total",
			Help:      "Total number of finished finalization tasks by resulting status.",
		},
		[]string{"status"},
	)
)

// Scheduler ставит транзакцию в очередь на фоновую финализацию
type Scheduler interface {
	Schedule(externalID string) bool
}

// Finalizer переводит принятые транзакции в конечный статус в фоне
type Finalizer struct {
	repo      postgres.TransactionRepository
	processor Processor
	producer  kafka.Producer
	cache     cache.Cache
	log       *slog.Logger

	taskQueue chan string
	wg        sync.WaitGroup
	stopCh    chan struct{}
}

func NewFinalizer(
	repo postgres.TransactionRepository,
	processor Processor,
	producer kafka.Producer,
	transactionCache cache.Cache,
	workers int,
	queueSize int,
	log *slog.Logger,
) *Finalizer {
	f := &Finalizer{
		repo:      repo,
		processor: processor,
		producer:  producer,
		cache:     transactionCache,
		log:       log,
		taskQueue: make(chan string, queueSize),
		stopCh:    make(chan struct{}),
	}

	for i := 0; i < workers; i++ {
		f.wg.Add(1)
		go f.worker(i)
	}

	return f
}

// Schedule не блокируется: при переполненной очереди задача отбрасывается,
// транзакция остается в статусе PROCESSING
func (f *Finalizer) Schedule(externalID string) bool {
	select {
	case f.taskQueue <- externalID:
		finalizerTasksScheduled.Inc()
		f.log.Debug("транзакция добавлена в очередь финализации",
			slog.String("transaction_id", externalID))
		return true
	default:
		finalizerTasksDropped.Inc()
		f.log.Error("очередь финализации переполнена, задача отброшена",
			slog.String("transaction_id", externalID))
		return false
	}
}

func (f *Finalizer) worker(id int) {
	defer f.wg.Done()
	f.log.Info("finalizer worker started", slog.Int("worker_id", id))

	for {
		select {
		case externalID := <-f.taskQueue:
			f.finalize(context.Background(), externalID)

		case <-f.stopCh:
			f.log.Info("finalizer worker stopping", slog.Int("worker_id", id))
			return
		}
	}
}

func (f *Finalizer) finalize(ctx context.Context, externalID string) {
	const op = "service.finalize"

	txn, err := f.repo.GetByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			f.log.Warn("транзакция не найдена, финализация пропущена",
				slog.String("op", op),
				slog.String("transaction_id", externalID))
			return
		}
		f.log.Error("failed to load transaction",
			slog.String("op", op),
			slog.String("transaction_id", externalID),
			slog.String("error", err.Error()))
		return
	}

	if txn.Status.IsTerminal() {
		f.log.Warn("транзакция уже финализирована",
			slog.String("op", op),
			slog.String("transaction_id", externalID),
			slog.String("status", string(txn.Status)))
		return
	}

	nextStatus := models.StatusProcessed
	if procErr := f.processor.Process(ctx, txn); procErr != nil {
		f.log.Error("processing failed",
			slog.String("op", op),
			slog.String("transaction_id", externalID),
			slog.String("error", procErr.Error()))
		nextStatus = models.StatusFailed
	}

	if !txn.Status.CanTransitionTo(nextStatus) {
		f.log.Warn("недопустимый переход статуса, финализация пропущена",
			slog.String("op", op),
			slog.String("transaction_id", externalID),
			slog.String("from", string(txn.Status)),
			slog.String("to", string(nextStatus)))
		return
	}

	processedAt := time.Now().UTC()
	if err := f.repo.UpdateStatus(ctx, externalID, txn.Status, nextStatus, processedAt); err != nil {
		if errors.Is(err, custom_err.ErrNotFound) {
			f.log.Warn("статус уже изменен другим процессом",
				slog.String("op", op),
				slog.String("transaction_id", externalID))
			return
		}
		f.log.Error("failed to update transaction status",
			slog.String("op", op),
			slog.String("transaction_id", externalID),
			slog.String("error", err.Error()))
		return
	}

	finalizerTasksFinished.WithLabelValues(string(nextStatus)).Inc()
	f.log.Info("транзакция финализирована",
		slog.String("transaction_id", externalID),
		slog.String("status", string(nextStatus)))

	txn.Status = nextStatus
	txn.ProcessedAt = &processedAt
	f.publishEvent(ctx, txn)

	if err := f.cache.DeleteTransaction(ctx, externalID); err != nil {
		f.log.Warn("failed to invalidate cache",
			slog.String("op", op),
			slog.String("transaction_id", externalID),
			slog.String("error", err.Error()))
	}
}

func (f *Finalizer) publishEvent(ctx context.Context, txn *models.Transaction) {
	event := models.TransactionProcessedEvent{
		TransactionID:      txn.TransactionID,
		SourceAccount:      txn.SourceAccount,
		DestinationAccount: txn.DestinationAccount,
		Amount:             txn.Amount,
		Currency:           txn.Currency,
		Status:             txn.Status,
		ProcessedAt:        *txn.ProcessedAt,
	}

	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := f.producer.SendTransactionProcessedEvent(sendCtx, event); err != nil {
		f.log.Error("kafka send failed",
			slog.String("tx_id", txn.TransactionID),
			slog.String("error", err.Error()))
	}
}

// Shutdown останавливает воркеры, дожидаясь завершения текущих задач
func (f *Finalizer) Shutdown(ctx context.Context) error {
	f.log.Info("shutting down finalizer")

	close(f.stopCh)

	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		f.log.Info("all finalizer workers stopped")
		return nil
	case <-ctx.Done():
		f.log.Warn("shutdown timeout exceeded")
		return ctx.Err()
	}
}
