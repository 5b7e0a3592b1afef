package handlers

import (
	"net/http"
	"time"

	"gw-transaction-processor/internal/api/middlew"
	"gw-transaction-processor/internal/models"
	"gw-transaction-processor/pkg/response"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// HealthCheck godoc
// @Summary      Проверка работоспособности
// @Description  Возвращает статус сервиса и текущее время
// @Tags         health
// @Produce      json
// @Success      200 {object} models.HealthResponse
// @Router       / [get]
func (h *HealthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	log := middlew.GetLogger(r.Context())

	response.WriteJSONSuccess(w, log, http.StatusOK, models.HealthResponse{
		Status:      "HEALTHY",
		CurrentTime: time.Now().UTC(),
	})
}
