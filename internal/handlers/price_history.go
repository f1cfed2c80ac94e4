package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/faro/internal/errors"
	"github.com/tropicaldog17/faro/internal/services"
)

type PriceHistoryHandler struct {
	service services.PriceHistoryService
	logger  *zap.Logger
}

func NewPriceHistoryHandler(service services.PriceHistoryService, logger *zap.Logger) *PriceHistoryHandler {
	return &PriceHistoryHandler{service: service, logger: logger}
}

// HandleHistory handles GET /api/prices/history
// @Summary Get price history
// @Description Reconstruct a symbol's daily price history over a bounded window, converted to the base currency
// @Tags prices
// @Produce json
// @Param symbol query string true "Asset symbol (case-insensitive)"
// @Param days query int false "Window length in days (clamped to the configured maximum)"
// @Param base_currency query string false "Base currency (defaults to the configured base)"
// @Success 200 {object} models.PriceHistoryResponse
// @Failure 400 {string} string "Bad request"
// @Failure 500 {string} string "Internal server error"
// @Router /prices/history [get]
func (h *PriceHistoryHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()
	symbol := q.Get("symbol")

	days := 0
	if daysStr := q.Get("days"); daysStr != "" {
		parsed, err := strconv.Atoi(daysStr)
		if err != nil {
			http.Error(w, "days must be an integer", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	response, err := h.service.GetPriceHistory(r.Context(), symbol, days, q.Get("base_currency"))
	if err != nil {
		var validation *apperrors.ErrValidation
		if errors.As(err, &validation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("price history failed",
			zap.String("symbol", symbol), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	json.NewEncoder(w).Encode(response)
}
