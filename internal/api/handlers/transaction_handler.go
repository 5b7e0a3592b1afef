package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"gw-transaction-processor/internal/api/middlew"
	"gw-transaction-processor/internal/custom_err"
	"gw-transaction-processor/internal/service"
	"gw-transaction-processor/pkg/response"

	"github.com/go-chi/chi/v5"
)

type TransactionHandler struct {
	service service.Transaction
}

func NewTransactionHandler(service service.Transaction) *TransactionHandler {
	return &TransactionHandler{
		service: service,
	}
}

// GetTransaction godoc
// @Summary      Получить транзакцию
// @Description  Возвращает транзакцию по ее внешнему идентификатору
// @Tags         transactions
// @Produce      json
// @Param        transaction_id path string true "Внешний ID транзакции"
// @Success      200 {object} models.Transaction
// @Failure      404 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /v1/transactions/{transaction_id} [get]
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	const op = "handler.GetTransaction"
	log := middlew.GetLogger(r.Context())

	externalID := chi.URLParam(r, "transactionID")

	txn, err := h.service.GetTransaction(r.Context(), externalID)
	if err != nil {
		switch {
		case errors.Is(err, custom_err.ErrNotFound):
			log.Info("transaction not found", slog.String("op", op), slog.String("transaction_id", externalID))
			response.WriteJSONError(r.Context(), w, log, http.StatusNotFound, "not_found", "Transaction not found")
		default:
			log.Error("failed to get transaction", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(r.Context(), w, log, http.StatusInternalServerError, "internal_error", "Failed to retrieve transaction")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusOK, txn)
}
