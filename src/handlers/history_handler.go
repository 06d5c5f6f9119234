package handlers

import (
	"net/http"

	"github.com/username/finplan/backend/src/logger"
	"github.com/username/finplan/backend/src/models"
	"github.com/username/finplan/backend/src/services"
	"github.com/username/finplan/backend/src/utils"
)

type HistoryHandler struct {
	historyService services.HistoryService
}

func NewHistoryHandler(service services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: service}
}

// HandleGetHistory returns the user's calculation history, newest-first.
func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	records, err := h.historyService.ReadAll(r.Context(), userID)
	if err != nil {
		logger.FromContext(r.Context()).Error("Error reading calculation history", "error", err)
		utils.SendJSONError(w, "Failed to load calculation history", http.StatusInternalServerError)
		return
	}

	if records == nil {
		records = []models.CalculationRecord{}
	}

	utils.SendJSONResponse(w, records, http.StatusOK)
}

// HandleClearHistory deletes the user's entire calculation history.
// Clearing an already-empty history succeeds.
func (h *HistoryHandler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	if err := h.historyService.Clear(r.Context(), userID); err != nil {
		logger.FromContext(r.Context()).Error("Error clearing calculation history", "error", err)
		utils.SendJSONError(w, "Failed to clear history", http.StatusInternalServerError)
		return
	}

	logger.FromContext(r.Context()).Info("Calculation history cleared")
	utils.SendJSONResponse(w, map[string]string{"message": "Calculation history cleared"}, http.StatusOK)
}
