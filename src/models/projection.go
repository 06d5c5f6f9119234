package models

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProjectionInput is returned when a projection input would
// denormalize the simulation (non-finite values, non-positive amounts,
// duration below one year).
var ErrInvalidProjectionInput = errors.New("invalid projection input")

// SIPInput holds the parameters for a systematic investment plan projection.
// Amounts are in base currency units, rates are annual percentages.
type SIPInput struct {
	MonthlyInvestment float64 `json:"monthlyInvestment"`
	ReturnRate        float64 `json:"returnRate"`
	Duration          int     `json:"duration"`
	InflationRate     float64 `json:"inflationRate"`
}

// Validate rejects inputs the engine must not accept. Range limits beyond
// these (return rate <= 100, duration <= 50, ...) are enforced at the
// handler level, per-field.
func (in SIPInput) Validate() error {
	if !isFinite(in.MonthlyInvestment) || in.MonthlyInvestment <= 0 {
		return fmt.Errorf("%w: monthlyInvestment must be a positive finite number", ErrInvalidProjectionInput)
	}
	if !isFinite(in.ReturnRate) || in.ReturnRate < 0 {
		return fmt.Errorf("%w: returnRate must be a non-negative finite number", ErrInvalidProjectionInput)
	}
	if !isFinite(in.InflationRate) || in.InflationRate < 0 {
		return fmt.Errorf("%w: inflationRate must be a non-negative finite number", ErrInvalidProjectionInput)
	}
	if in.Duration < 1 {
		return fmt.Errorf("%w: duration must be at least 1 year", ErrInvalidProjectionInput)
	}
	return nil
}

// SWPInput holds the parameters for a systematic withdrawal plan projection.
type SWPInput struct {
	InitialInvestment float64 `json:"initialInvestment"`
	MonthlyWithdrawal float64 `json:"monthlyWithdrawal"`
	ReturnRate        float64 `json:"returnRate"`
	Duration          int     `json:"duration"`
}

// Validate rejects inputs the engine must not accept. The caller-side rule
// that the withdrawal may not exceed 1/12th of the initial investment is a
// UI sanity check, not a mathematical requirement, so it lives in the
// handler instead.
func (in SWPInput) Validate() error {
	if !isFinite(in.InitialInvestment) || in.InitialInvestment <= 0 {
		return fmt.Errorf("%w: initialInvestment must be a positive finite number", ErrInvalidProjectionInput)
	}
	if !isFinite(in.MonthlyWithdrawal) || in.MonthlyWithdrawal <= 0 {
		return fmt.Errorf("%w: monthlyWithdrawal must be a positive finite number", ErrInvalidProjectionInput)
	}
	if !isFinite(in.ReturnRate) || in.ReturnRate < 0 {
		return fmt.Errorf("%w: returnRate must be a non-negative finite number", ErrInvalidProjectionInput)
	}
	if in.Duration < 1 {
		return fmt.Errorf("%w: duration must be at least 1 year", ErrInvalidProjectionInput)
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// SIPProjection is the yearly time series produced by a SIP simulation.
// YearlyBalances is inflation-adjusted; NominalYearlyBalances ignores
// inflation. Both have one entry per elapsed year, rounded to the nearest
// currency unit.
type SIPProjection struct {
	Years                 []string `json:"years"`
	YearlyBalances        []int64  `json:"yearlyBalances"`
	NominalYearlyBalances []int64  `json:"nominalYearlyBalances"`
}

// SWPProjection is the yearly time series produced by an SWP simulation.
// Balances are floor-clamped at zero; depletion is terminal.
type SWPProjection struct {
	Years          []string `json:"years"`
	YearlyBalances []int64  `json:"yearlyBalances"`
}

// YearlyBreakdownRow is one row of the SIP yearly breakdown table:
// the year's contribution, the interest credited during it, and the
// nominal balance at its end.
type YearlyBreakdownRow struct {
	Year       int   `json:"year"`
	Investment int64 `json:"investment"`
	Interest   int64 `json:"interest"`
	Balance    int64 `json:"balance"`
}

// SIPSummary holds the aggregates displayed alongside a SIP projection.
type SIPSummary struct {
	TotalInvestment  int64   `json:"totalInvestment"`
	ExpectedReturns  int64   `json:"expectedReturns"`
	TotalValue       int64   `json:"totalValue"`
	RealReturns      int64   `json:"realReturns"`
	RealTotalValue   int64   `json:"realTotalValue"`
	AnnualizedReturn float64 `json:"annualizedReturn"`
}

// SWPSummary holds the aggregates displayed alongside an SWP projection.
type SWPSummary struct {
	TotalWithdrawals        int64   `json:"totalWithdrawals"`
	FinalBalance            int64   `json:"finalBalance"`
	CapitalPreservationPct  float64 `json:"capitalPreservationPct"`
	YearlyWithdrawalRatePct float64 `json:"yearlyWithdrawalRatePct"`
}
