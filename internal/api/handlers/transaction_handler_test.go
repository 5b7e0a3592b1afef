package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gw-transaction-processor/internal/custom_err"
	"gw-transaction-processor/internal/models"
	"gw-transaction-processor/pkg/response"
)

func setupTransactionRouter(service *MockTransactionService) *chi.Mux {
	handler := NewTransactionHandler(service)
	return newTestRouter(func(r chi.Router) {
		r.Get("/v1/transactions/{transactionID}", handler.GetTransaction)
	})
}

func TestTransactionHandler_GetTransaction_Processing(t *testing.T) {
	txn := &models.Transaction{
		ID:                 uuid.New(),
		TransactionID:      "t1",
		SourceAccount:      "A",
		DestinationAccount: "B",
		Amount:             decimal.RequireFromString("100.00"),
		Currency:           "USD",
		Status:             models.StatusProcessing,
		CreatedAt:          time.Now().UTC(),
	}

	service := new(MockTransactionService)
	service.On("GetTransaction", mock.Anything, "t1").Return(txn, nil)

	router := setupTransactionRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions/t1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.Transaction
	err := json.NewDecoder(rec.Body).Decode(&got)
	assert.NoError(t, err)
	assert.Equal(t, "t1", got.TransactionID)
	assert.Equal(t, models.StatusProcessing, got.Status)
	assert.True(t, got.Amount.Equal(txn.Amount))
	assert.Nil(t, got.ProcessedAt)

	service.AssertExpectations(t)
}

func TestTransactionHandler_GetTransaction_Processed(t *testing.T) {
	processedAt := time.Now().UTC()
	txn := &models.Transaction{
		ID:                 uuid.New(),
		TransactionID:      "t1",
		SourceAccount:      "A",
		DestinationAccount: "B",
		Amount:             decimal.RequireFromString("100.00"),
		Currency:           "USD",
		Status:             models.StatusProcessed,
		CreatedAt:          processedAt.Add(-30 * time.Second),
		ProcessedAt:        &processedAt,
	}

	service := new(MockTransactionService)
	service.On("GetTransaction", mock.Anything, "t1").Return(txn, nil)

	router := setupTransactionRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions/t1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.Transaction
	err := json.NewDecoder(rec.Body).Decode(&got)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusProcessed, got.Status)
	assert.NotNil(t, got.ProcessedAt)
}

func TestTransactionHandler_GetTransaction_NotFound(t *testing.T) {
	service := new(MockTransactionService)
	service.On("GetTransaction", mock.Anything, "unknown").Return(nil, custom_err.ErrNotFound)

	router := setupTransactionRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions/unknown", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var resp response.ErrorResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "not_found", resp.Error)
	assert.Equal(t, "Transaction not found", resp.Message)
	assert.NotEmpty(t, resp.TraceID)
}

func TestTransactionHandler_GetTransaction_ServiceError(t *testing.T) {
	service := new(MockTransactionService)
	service.On("GetTransaction", mock.Anything, "t1").Return(nil, errors.New("db is down"))

	router := setupTransactionRouter(service)

	req := httptest.NewRequest(http.MethodGet, "/v1/transactions/t1", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp response.ErrorResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "internal_error", resp.Error)
}
