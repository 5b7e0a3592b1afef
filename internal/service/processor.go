package service

import (
	"context"
	"time"

	"gw-transaction-processor/internal/models"
)

// Processor выполняет обработку принятой транзакции
type Processor interface {
	Process(ctx context.Context, txn *models.Transaction) error
}

// SimulatedProcessor эмулирует работу платежного провайдера фиксированной задержкой
type SimulatedProcessor struct {
	delay time.Duration
}

func NewSimulatedProcessor(delay time.Duration) *SimulatedProcessor {
	return &SimulatedProcessor{delay: delay}
}

func (p *SimulatedProcessor) Process(ctx context.Context, _ *models.Transaction) error {
	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
