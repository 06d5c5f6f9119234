// Package engine implements the financial projection engine: pure,
// iterative month-by-month simulations of SIP growth and SWP depletion.
//
// The simulations deliberately avoid closed-form annuity formulas in the
// hot path so that a zero return rate never divides by zero. Balances are
// tracked unrounded across the whole run; rounding to whole currency units
// happens once per simulated year, from the running accumulator, so
// rounding error never compounds.
package engine

import (
	"fmt"
	"math"

	"github.com/username/finplan/backend/src/models"
)

const monthsPerYear = 12

// ProjectSIP simulates a systematic investment plan month by month and
// returns the yearly balances, both nominal and inflation-adjusted.
//
// The contribution is credited at month end, after interest is applied to
// the pre-existing balance (ordinary annuity convention: a contribution
// earns nothing in its own first month). The inflation-adjusted series
// uses the exact real-rate relation (1+real) = (1+nominal)/(1+inflation).
func ProjectSIP(in models.SIPInput) (models.SIPProjection, error) {
	if err := in.Validate(); err != nil {
		return models.SIPProjection{}, err
	}

	monthlyRate := in.ReturnRate / 100 / monthsPerYear
	inflationAdjustedReturn := ((1+in.ReturnRate/100)/(1+in.InflationRate/100) - 1) * 100
	monthlyRealRate := inflationAdjustedReturn / 100 / monthsPerYear

	proj := models.SIPProjection{
		Years:                 make([]string, 0, in.Duration),
		YearlyBalances:        make([]int64, 0, in.Duration),
		NominalYearlyBalances: make([]int64, 0, in.Duration),
	}

	var balance, realBalance float64
	for year := 1; year <= in.Duration; year++ {
		for month := 1; month <= monthsPerYear; month++ {
			balance = balance*(1+monthlyRate) + in.MonthlyInvestment
			realBalance = realBalance*(1+monthlyRealRate) + in.MonthlyInvestment
		}
		proj.NominalYearlyBalances = append(proj.NominalYearlyBalances, roundCurrency(balance))
		proj.YearlyBalances = append(proj.YearlyBalances, roundCurrency(realBalance))
		proj.Years = append(proj.Years, yearLabel(year))
	}

	return proj, nil
}

// ProjectSWP simulates a systematic withdrawal plan month by month.
// Whenever a withdrawal would push the balance below zero it is clamped
// to zero immediately, and zero is absorbing: a depleted portfolio stays
// depleted for the rest of the simulation even if later growth could
// mathematically have recovered it.
func ProjectSWP(in models.SWPInput) (models.SWPProjection, error) {
	if err := in.Validate(); err != nil {
		return models.SWPProjection{}, err
	}

	monthlyRate := in.ReturnRate / 100 / monthsPerYear

	proj := models.SWPProjection{
		Years:          make([]string, 0, in.Duration),
		YearlyBalances: make([]int64, 0, in.Duration),
	}

	balance := in.InitialInvestment
	for year := 1; year <= in.Duration; year++ {
		for month := 1; month <= monthsPerYear; month++ {
			balance = balance*(1+monthlyRate) - in.MonthlyWithdrawal
			if balance < 0 {
				balance = 0
			}
		}
		proj.YearlyBalances = append(proj.YearlyBalances, roundCurrency(balance))
		proj.Years = append(proj.Years, yearLabel(year))
	}

	return proj, nil
}

func roundCurrency(v float64) int64 {
	return int64(math.Round(v))
}

func yearLabel(year int) string {
	return fmt.Sprintf("Year %d", year)
}
