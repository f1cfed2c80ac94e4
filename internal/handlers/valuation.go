package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/tropicaldog17/faro/internal/errors"
	"github.com/tropicaldog17/faro/internal/services"
)

type ValuationHandler struct {
	service services.SnapshotService
	logger  *zap.Logger
}

func NewValuationHandler(service services.SnapshotService, logger *zap.Logger) *ValuationHandler {
	return &ValuationHandler{service: service, logger: logger}
}

// HandleLatest handles GET /api/valuations/latest
// @Summary Get latest valuation snapshot
// @Description Retrieve the most recent valuation snapshot for an account with totals and portfolio shares
// @Tags valuations
// @Produce json
// @Param account_id query string true "Account ID"
// @Success 200 {object} models.LatestValuationResponse
// @Failure 400 {string} string "Bad request"
// @Failure 404 {string} string "Snapshot not found"
// @Failure 500 {string} string "Internal server error"
// @Router /valuations/latest [get]
func (h *ValuationHandler) HandleLatest(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	accountID := r.URL.Query().Get("account_id")
	if accountID == "" {
		http.Error(w, "account_id is required", http.StatusBadRequest)
		return
	}

	response, err := h.service.GetLatestValuationSnapshot(r.Context(), accountID)
	if err != nil {
		var notFound *apperrors.ErrSnapshotNotFound
		var validation *apperrors.ErrValidation
		switch {
		case errors.As(err, &notFound):
			http.Error(w, err.Error(), http.StatusNotFound)
		case errors.As(err, &validation):
			http.Error(w, err.Error(), http.StatusBadRequest)
		default:
			h.logger.Error("latest valuation snapshot failed",
				zap.String("account_id", accountID), zap.Error(err))
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
		return
	}

	json.NewEncoder(w).Encode(response)
}
