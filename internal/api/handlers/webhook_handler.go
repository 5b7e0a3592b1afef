package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gw-transaction-processor/internal/api/middlew"
	"gw-transaction-processor/internal/custom_err"
	"gw-transaction-processor/internal/models"
	"gw-transaction-processor/internal/service"
	"gw-transaction-processor/pkg/response"
)

type WebhookHandler struct {
	service service.Transaction
}

func NewWebhookHandler(service service.Transaction) *WebhookHandler {
	return &WebhookHandler{
		service: service,
	}
}

// ReceiveTransaction godoc
// @Summary      Принять вебхук транзакции
// @Description  Сохраняет уведомление о транзакции в статусе PROCESSING и ставит его в очередь на фоновую обработку. Повторный вебхук с тем же transaction_id также получает 202
// @Tags         webhooks
// @Accept       json
// @Produce      json
// @Param        request body models.TransactionWebhookRequest true "Данные транзакции"
// @Success      202 {object} models.WebhookAcceptedResponse
// @Failure      422 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /v1/webhooks/transactions [post]
func (h *WebhookHandler) ReceiveTransaction(w http.ResponseWriter, r *http.Request) {
	const op = "handler.ReceiveTransaction"
	log := middlew.GetLogger(r.Context())

	defer r.Body.Close()

	var req models.TransactionWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(r.Context(), w, log, http.StatusUnprocessableEntity, "invalid_json", "Invalid JSON body")
		return
	}

	if err := req.Validate(); err != nil {
		log.Warn("validation failed", slog.String("op", op), slog.String("error", err.Error()))
		response.WriteJSONError(r.Context(), w, log, http.StatusUnprocessableEntity, "validation_error", err.Error())
		return
	}

	log.Info("transaction webhook received",
		slog.String("op", op),
		slog.String("transaction_id", req.TransactionID),
		slog.String("currency", req.Currency))

	if err := h.service.AcceptWebhook(r.Context(), req); err != nil {
		switch {
		case errors.Is(err, custom_err.ErrInvalidInput):
			log.Warn("invalid webhook payload", slog.String("op", op))
			response.WriteJSONError(r.Context(), w, log, http.StatusUnprocessableEntity, "validation_error", "Invalid webhook payload")
		default:
			log.Error("failed to accept webhook", slog.String("op", op), slog.String("error", err.Error()))
			response.WriteJSONError(r.Context(), w, log, http.StatusInternalServerError, "internal_error", "An internal error occurred")
		}
		return
	}

	response.WriteJSONSuccess(w, log, http.StatusAccepted, models.WebhookAcceptedResponse{
		Message: "accepted",
	})
}
