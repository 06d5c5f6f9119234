package services

import (
	"context"
	"fmt"

	"github.com/patrickmn/go-cache"
	"github.com/username/finplan/backend/src/engine"
	"github.com/username/finplan/backend/src/logger"
	"github.com/username/finplan/backend/src/models"
)

// calculationService glues the projection engine to the history log:
// run the projection, derive the summary, then append a record unless the
// caller opted out. Projection outputs are cached by input parameters;
// identical inputs always produce identical outputs, so cached entries
// never go stale.
type calculationService struct {
	history HistoryService
	cache   *cache.Cache
}

// NewCalculationService returns a CalculatorService. The cache is shared
// with main.go so it can be sized from config.
func NewCalculationService(history HistoryService, projectionCache *cache.Cache) CalculatorService {
	return &calculationService{history: history, cache: projectionCache}
}

func (s *calculationService) CalculateSIP(ctx context.Context, userID int64, input models.SIPInput, save bool) (*SIPResult, error) {
	result, err := s.sipResult(ctx, input)
	if err != nil {
		return nil, err
	}

	if save {
		record, err := s.history.Append(ctx, userID, models.NewSIPRecord(input, result.Summary))
		if err != nil {
			return nil, err
		}
		result.Record = &record
	}
	return result, nil
}

func (s *calculationService) CalculateSWP(ctx context.Context, userID int64, input models.SWPInput, save bool) (*SWPResult, error) {
	result, err := s.swpResult(ctx, input)
	if err != nil {
		return nil, err
	}

	if save {
		record, err := s.history.Append(ctx, userID, models.NewSWPRecord(input, result.Summary))
		if err != nil {
			return nil, err
		}
		result.Record = &record
	}
	return result, nil
}

func (s *calculationService) sipResult(ctx context.Context, input models.SIPInput) (*SIPResult, error) {
	key := fmt.Sprintf("sip:%v:%v:%d:%v", input.MonthlyInvestment, input.ReturnRate, input.Duration, input.InflationRate)
	if cached, found := s.cache.Get(key); found {
		if hit, ok := cached.(SIPResult); ok {
			logger.FromContext(ctx).Debug("SIP projection cache hit", "key", key)
			copied := hit
			return &copied, nil
		}
	}

	proj, err := engine.ProjectSIP(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProjectionFailed, err)
	}

	result := SIPResult{
		Projection: proj,
		Summary:    engine.SummarizeSIP(input, proj),
		Breakdown:  engine.SIPYearlyBreakdown(input, proj),
	}
	s.cache.Set(key, result, cache.DefaultExpiration)
	return &result, nil
}

func (s *calculationService) swpResult(ctx context.Context, input models.SWPInput) (*SWPResult, error) {
	key := fmt.Sprintf("swp:%v:%v:%v:%d", input.InitialInvestment, input.MonthlyWithdrawal, input.ReturnRate, input.Duration)
	if cached, found := s.cache.Get(key); found {
		if hit, ok := cached.(SWPResult); ok {
			logger.FromContext(ctx).Debug("SWP projection cache hit", "key", key)
			copied := hit
			return &copied, nil
		}
	}

	proj, err := engine.ProjectSWP(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProjectionFailed, err)
	}

	result := SWPResult{
		Projection: proj,
		Summary:    engine.SummarizeSWP(input, proj),
	}
	s.cache.Set(key, result, cache.DefaultExpiration)
	return &result, nil
}
