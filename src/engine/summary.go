package engine

import (
	"math"

	"github.com/username/finplan/backend/src/models"
)

// maxBreakdownDrift is the tolerance, in whole currency units, between the
// iterative final balance and the closed-form maturity value before the
// final breakdown row is reconciled.
const maxBreakdownDrift = 1

// SummarizeSIP computes the display aggregates for a SIP projection.
// The annualized return is derived from the nominal maturity value and
// reported as a percentage rounded to two decimal places.
func SummarizeSIP(in models.SIPInput, proj models.SIPProjection) models.SIPSummary {
	last := len(proj.NominalYearlyBalances) - 1
	totalInvestment := roundCurrency(in.MonthlyInvestment * monthsPerYear * float64(in.Duration))
	totalValue := proj.NominalYearlyBalances[last]
	realTotalValue := proj.YearlyBalances[last]

	return models.SIPSummary{
		TotalInvestment:  totalInvestment,
		ExpectedReturns:  totalValue - totalInvestment,
		TotalValue:       totalValue,
		RealReturns:      realTotalValue - totalInvestment,
		RealTotalValue:   realTotalValue,
		AnnualizedReturn: annualizedReturnPct(totalValue, totalInvestment, in.Duration),
	}
}

// SummarizeSWP computes the display aggregates for an SWP projection.
func SummarizeSWP(in models.SWPInput, proj models.SWPProjection) models.SWPSummary {
	last := len(proj.YearlyBalances) - 1
	finalBalance := proj.YearlyBalances[last]

	return models.SWPSummary{
		TotalWithdrawals:        roundCurrency(in.MonthlyWithdrawal * monthsPerYear * float64(in.Duration)),
		FinalBalance:            finalBalance,
		CapitalPreservationPct:  round2(float64(finalBalance) / in.InitialInvestment * 100),
		YearlyWithdrawalRatePct: round2(in.MonthlyWithdrawal * monthsPerYear / in.InitialInvestment * 100),
	}
}

// SIPYearlyBreakdown expands a SIP projection into per-year table rows of
// contribution, interest and nominal balance. Interest for a year is the
// balance delta net of that year's contribution.
//
// The last row is reconciled against the closed-form ordinary-annuity
// maturity value: if the iterative balance drifts from it by more than one
// currency unit, the discrepancy is folded entirely into the final row so
// the breakdown sums exactly to the reported maturity value. The error is
// never redistributed across earlier rows.
func SIPYearlyBreakdown(in models.SIPInput, proj models.SIPProjection) []models.YearlyBreakdownRow {
	rows := make([]models.YearlyBreakdownRow, 0, in.Duration)
	yearlyInvestment := roundCurrency(in.MonthlyInvestment * monthsPerYear)

	var prevBalance int64
	for i, balance := range proj.NominalYearlyBalances {
		rows = append(rows, models.YearlyBreakdownRow{
			Year:       i + 1,
			Investment: yearlyInvestment,
			Interest:   balance - prevBalance - yearlyInvestment,
			Balance:    balance,
		})
		prevBalance = balance
	}

	monthlyRate := in.ReturnRate / 100 / monthsPerYear
	maturity := roundCurrency(sipMaturityValue(in.MonthlyInvestment, monthlyRate, in.Duration*monthsPerYear))

	last := len(rows) - 1
	if drift := maturity - rows[last].Balance; drift > maxBreakdownDrift || drift < -maxBreakdownDrift {
		rows[last].Interest += drift
		rows[last].Balance = maturity
	}

	return rows
}

// sipMaturityValue is the closed-form future value of an ordinary annuity:
// P * ((1+r)^n - 1) / r. The r=0 limit is P*n, special-cased to avoid the
// division the iterative engine never performs.
func sipMaturityValue(monthlyInvestment, monthlyRate float64, months int) float64 {
	if monthlyRate == 0 {
		return monthlyInvestment * float64(months)
	}
	return monthlyInvestment * (pow1p(monthlyRate, months) - 1) / monthlyRate
}

// pow1p computes (1+r)^n by repeated multiplication, matching the float
// path of the month loop more closely than math.Pow.
func pow1p(r float64, n int) float64 {
	v := 1.0
	for i := 0; i < n; i++ {
		v *= 1 + r
	}
	return v
}

func annualizedReturnPct(finalValue, totalInvestment int64, years int) float64 {
	if totalInvestment <= 0 || finalValue <= 0 || years < 1 {
		return 0
	}
	ratio := float64(finalValue) / float64(totalInvestment)
	return round2((math.Pow(ratio, 1/float64(years)) - 1) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
