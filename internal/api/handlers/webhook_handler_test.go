package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gw-transaction-processor/internal/models"
	"gw-transaction-processor/pkg/response"
)

func setupWebhookRouter(service *MockTransactionService) *chi.Mux {
	handler := NewWebhookHandler(service)
	return newTestRouter(func(r chi.Router) {
		r.Post("/v1/webhooks/transactions", handler.ReceiveTransaction)
	})
}

func TestWebhookHandler_ReceiveTransaction_Accepted(t *testing.T) {
	service := new(MockTransactionService)
	service.On("AcceptWebhook", mock.Anything, mock.MatchedBy(func(req models.TransactionWebhookRequest) bool {
		return req.TransactionID == "t1" &&
			req.SourceAccount == "A" &&
			req.DestinationAccount == "B" &&
			req.Amount != nil && req.Amount.Equal(decimal.RequireFromString("100.00")) &&
			req.Currency == "USD"
	})).Return(nil)

	router := setupWebhookRouter(service)

	body := `{"transaction_id":"t1","source_account":"A","destination_account":"B","amount":100.00,"currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp models.WebhookAcceptedResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "accepted", resp.Message)

	service.AssertExpectations(t)
}

func TestWebhookHandler_ReceiveTransaction_InvalidJSON(t *testing.T) {
	service := new(MockTransactionService)
	router := setupWebhookRouter(service)

	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/transactions", strings.NewReader("not-json"))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp response.ErrorResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "invalid_json", resp.Error)

	service.AssertNotCalled(t, "AcceptWebhook", mock.Anything, mock.Anything)
}

func TestWebhookHandler_ReceiveTransaction_MissingAmount(t *testing.T) {
	service := new(MockTransactionService)
	router := setupWebhookRouter(service)

	body := `{"transaction_id":"t1","source_account":"A","destination_account":"B","currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp response.ErrorResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "validation_error", resp.Error)
	assert.Equal(t, "amount is required", resp.Message)

	service.AssertNotCalled(t, "AcceptWebhook", mock.Anything, mock.Anything)
}

func TestWebhookHandler_ReceiveTransaction_ServiceError(t *testing.T) {
	service := new(MockTransactionService)
	service.On("AcceptWebhook", mock.Anything, mock.Anything).Return(errors.New("db is down"))

	router := setupWebhookRouter(service)

	body := `{"transaction_id":"t1","source_account":"A","destination_account":"B","amount":100.00,"currency":"USD"}`
	req := httptest.NewRequest(http.MethodPost, "/v1/webhooks/transactions", strings.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp response.ErrorResponse
	err := json.NewDecoder(rec.Body).Decode(&resp)
	assert.NoError(t, err)
	assert.Equal(t, "internal_error", resp.Error)
	assert.Equal(t, "An internal error occurred", resp.Message)
}
