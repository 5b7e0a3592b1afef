package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status статус обработки транзакции
type Status string

const (
	StatusProcessing Status = "PROCESSING"
	StatusProcessed  Status = "PROCESSED"
	StatusFailed     Status = "FAILED"
)

// допустимые переходы между статусами
var statusTransitions = map[Status][]Status{
	StatusProcessing: {StatusProcessed, StatusFailed},
	StatusProcessed:  {},
	StatusFailed:     {},
}

// IsValid проверяет валидность статуса
func (s Status) IsValid() bool {
	return s == StatusProcessing || s == StatusProcessed || s == StatusFailed
}

// IsTerminal проверяет, является ли статус конечным
func (s Status) IsTerminal() bool {
	return s.IsValid() && len(statusTransitions[s]) == 0
}

// CanTransitionTo проверяет допустимость перехода в статус next
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transaction представляет транзакцию, принятую через вебхук
type Transaction struct {
	ID                 uuid.UUID       `json:"id" db:"id"`
	TransactionID      string          `json:"transaction_id" db:"transaction_id"`
	SourceAccount      string          `json:"source_account" db:"source_account"`
	DestinationAccount string          `json:"destination_account" db:"destination_account"`
	Amount             decimal.Decimal `json:"amount" db:"amount" swaggertype:"string" example:"100.00"`
	Currency           string          `json:"currency" db:"currency"`
	Status             Status          `json:"status" db:"status"`
	CreatedAt          time.Time       `json:"created_at" db:"created_at"`
	ProcessedAt        *time.Time      `json:"processed_at" db:"processed_at"`
}

// TransactionWebhookRequest входящее уведомление о транзакции
type TransactionWebhookRequest struct {
	TransactionID      string           `json:"transaction_id" validate:"required"`
	SourceAccount      string           `json:"source_account" validate:"required"`
	DestinationAccount string           `json:"destination_account" validate:"required"`
	Amount             *decimal.Decimal `json:"amount" validate:"required" swaggertype:"string" example:"100.00"`
	Currency           string           `json:"currency" validate:"required"`
}

// WebhookAcceptedResponse ответ на принятый вебхук
type WebhookAcceptedResponse struct {
	Message string `json:"message"`
}

// HealthResponse ответ проверки работоспособности сервиса
type HealthResponse struct {
	Status      string    `json:"status"`
	CurrentTime time.Time `json:"current_time"`
}

func (r TransactionWebhookRequest) Validate() error {
	if r.TransactionID == "" {
		return errors.New("transaction_id is required")
	}
	if r.SourceAccount == "" {
		return errors.New("source_account is required")
	}
	if r.DestinationAccount == "" {
		return errors.New("destination_account is required")
	}
	if r.Amount == nil {
		return errors.New("amount is required")
	}
	if r.Currency == "" {
		return errors.New("currency is required")
	}
	return nil
}
