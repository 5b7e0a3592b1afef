package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// событие о завершении обработки транзакции
type TransactionProcessedEvent struct {
	TransactionID      string          `json:"transaction_id"`      // Внешний ID транзакции
	SourceAccount      string          `json:"source_account"`      // Счет отправителя
	DestinationAccount string          `json:"destination_account"` // Счет получателя
	Amount             decimal.Decimal `json:"amount"`              // Сумма транзакции
	Currency           string          `json:"currency"`            // Валюта
	Status             Status          `json:"status"`              // Итоговый статус
	ProcessedAt        time.Time       `json:"processed_at"`        // Время завершения обработки
}
