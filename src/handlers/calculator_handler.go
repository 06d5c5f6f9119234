package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/username/finplan/backend/src/logger"
	"github.com/username/finplan/backend/src/models"
	"github.com/username/finplan/backend/src/services"
	"github.com/username/finplan/backend/src/utils"
)

// CalculatorHandler exposes the SIP and SWP calculators. It owns the
// field validation the mobile form used to do: the projection engine only
// ever sees inputs that passed these checks.
type CalculatorHandler struct {
	calculatorService services.CalculatorService
}

func NewCalculatorHandler(service services.CalculatorService) *CalculatorHandler {
	return &CalculatorHandler{calculatorService: service}
}

type sipRequest struct {
	models.SIPInput
	Save *bool `json:"save,omitempty"`
}

type swpRequest struct {
	models.SWPInput
	Save *bool `json:"save,omitempty"`
}

func saveRequested(save *bool) bool {
	return save == nil || *save
}

// validateSIPRequest mirrors the calculator form's per-field checks.
func validateSIPRequest(in models.SIPInput) map[string]string {
	fieldErrors := make(map[string]string)
	if in.MonthlyInvestment <= 0 {
		fieldErrors["monthlyInvestment"] = "Please enter a valid monthly investment amount"
	}
	if in.ReturnRate < 0 || in.ReturnRate > 100 {
		fieldErrors["returnRate"] = "Return rate should be between 0 and 100"
	}
	if in.Duration <= 0 || in.Duration > 50 {
		fieldErrors["duration"] = "Duration should be between 1 and 50 years"
	}
	if in.InflationRate < 0 || in.InflationRate > 50 {
		fieldErrors["inflationRate"] = "Inflation rate should be between 0 and 50"
	}
	return fieldErrors
}

// validateSWPRequest mirrors the calculator form's per-field checks,
// including the 1/12th withdrawal sanity rule the engine itself does not
// enforce.
func validateSWPRequest(in models.SWPInput) map[string]string {
	fieldErrors := make(map[string]string)
	if in.InitialInvestment <= 0 {
		fieldErrors["initialInvestment"] = "Please enter a valid initial investment amount"
	}
	if in.MonthlyWithdrawal <= 0 {
		fieldErrors["monthlyWithdrawal"] = "Please enter a valid monthly withdrawal amount"
	} else if in.InitialInvestment > 0 && in.MonthlyWithdrawal > in.InitialInvestment/12 {
		fieldErrors["monthlyWithdrawal"] = "Monthly withdrawal cannot exceed 1/12th of initial investment"
	}
	if in.ReturnRate < 0 || in.ReturnRate > 100 {
		fieldErrors["returnRate"] = "Return rate should be between 0 and 100"
	}
	if in.Duration <= 0 || in.Duration > 50 {
		fieldErrors["duration"] = "Duration should be between 1 and 50 years"
	}
	return fieldErrors
}

func (h *CalculatorHandler) HandleCalculateSIP(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req sipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if fieldErrors := validateSIPRequest(req.SIPInput); len(fieldErrors) > 0 {
		utils.SendJSONFieldErrors(w, fieldErrors)
		return
	}

	ctxLogger := logger.FromContext(r.Context())
	ctxLogger.Info("Handling SIP calculation",
		"monthlyInvestment", req.MonthlyInvestment, "returnRate", req.ReturnRate,
		"duration", req.Duration, "inflationRate", req.InflationRate)

	result, err := h.calculatorService.CalculateSIP(r.Context(), userID, req.SIPInput, saveRequested(req.Save))
	if err != nil {
		h.replyCalculationError(w, r, err, "SIP")
		return
	}

	utils.SendJSONResponse(w, result, http.StatusOK)
}

func (h *CalculatorHandler) HandleCalculateSWP(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	var req swpRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if fieldErrors := validateSWPRequest(req.SWPInput); len(fieldErrors) > 0 {
		utils.SendJSONFieldErrors(w, fieldErrors)
		return
	}

	ctxLogger := logger.FromContext(r.Context())
	ctxLogger.Info("Handling SWP calculation",
		"initialInvestment", req.InitialInvestment, "monthlyWithdrawal", req.MonthlyWithdrawal,
		"returnRate", req.ReturnRate, "duration", req.Duration)

	result, err := h.calculatorService.CalculateSWP(r.Context(), userID, req.SWPInput, saveRequested(req.Save))
	if err != nil {
		h.replyCalculationError(w, r, err, "SWP")
		return
	}

	utils.SendJSONResponse(w, result, http.StatusOK)
}

func (h *CalculatorHandler) replyCalculationError(w http.ResponseWriter, r *http.Request, err error, kind string) {
	ctxLogger := logger.FromContext(r.Context())
	switch {
	case errors.Is(err, services.ErrHistoryUnavailable):
		// The projection itself is fine; the record could not be saved.
		ctxLogger.Error("Failed to save calculation to history", "type", kind, "error", err)
		utils.SendJSONError(w, "Failed to save calculation", http.StatusInternalServerError)
	case errors.Is(err, models.ErrInvalidProjectionInput), errors.Is(err, services.ErrProjectionFailed):
		ctxLogger.Warn("Projection rejected input", "type", kind, "error", err)
		utils.SendJSONError(w, "Invalid calculation input", http.StatusBadRequest)
	default:
		ctxLogger.Error("Calculation failed", "type", kind, "error", err)
		utils.SendJSONError(w, "Calculation failed", http.StatusInternalServerError)
	}
}
