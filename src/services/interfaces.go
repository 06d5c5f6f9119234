package services

import (
	"context"
	"errors"
	"time"

	"github.com/username/finplan/backend/src/models"
)

// Cache settings for projection results, shared with main.go when the
// go-cache instance is created.
const (
	DefaultCacheExpiration = 30 * time.Minute
	CacheCleanupInterval   = 1 * time.Hour
)

// Define common service errors
var (
	ErrHistoryUnavailable = errors.New("calculation history storage unavailable")
	ErrProjectionFailed   = errors.New("projection failed")
)

// SIPResult bundles everything a single SIP calculation produces.
// Record is nil when the caller opted out of saving.
type SIPResult struct {
	Projection models.SIPProjection        `json:"projection"`
	Summary    models.SIPSummary           `json:"summary"`
	Breakdown  []models.YearlyBreakdownRow `json:"breakdown"`
	Record     *models.CalculationRecord   `json:"record,omitempty"`
}

// SWPResult bundles everything a single SWP calculation produces.
type SWPResult struct {
	Projection models.SWPProjection      `json:"projection"`
	Summary    models.SWPSummary         `json:"summary"`
	Record     *models.CalculationRecord `json:"record,omitempty"`
}

// CalculatorService runs projections and optionally records them in the
// caller's history.
type CalculatorService interface {
	CalculateSIP(ctx context.Context, userID int64, input models.SIPInput, save bool) (*SIPResult, error)
	CalculateSWP(ctx context.Context, userID int64, input models.SWPInput, save bool) (*SWPResult, error)
}

// HistoryService is the append-only, most-recent-first calculation log.
type HistoryService interface {
	Append(ctx context.Context, userID int64, record models.CalculationRecord) (models.CalculationRecord, error)
	ReadAll(ctx context.Context, userID int64) ([]models.CalculationRecord, error)
	Clear(ctx context.Context, userID int64) error
}
