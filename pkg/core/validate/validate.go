// Package validate reviews an offer for inputs and going-in figures that deserve a second
// look. These functions can be called from the analysis pipeline, the CLI or API handlers.
package validate

import (
	"fmt"
	"math"

	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/core/projection"
)

// Review thresholds
const (
	MinDSCR           = 1.0
	MaxVacancyRate    = 25.0 // %
	MaxExpenseRatio   = 70.0 // % of EGI
	MaxNOIGrowthCAGR  = 8.0  // %
	MaxRentMultiplier = 25.0
	DefaultTolerance  = 0.01
)

// Warning codes
const (
	WarnMissingInputs      = "missing_inputs"
	WarnDSCRBelowOne       = "dscr_below_one"
	WarnNegativeCashFlow   = "negative_cash_flow"
	WarnNoExitCap          = "no_exit_cap"
	WarnExitCapCompression = "exit_cap_compression"
	WarnHighVacancy        = "high_vacancy"
	WarnHighExpenseRatio   = "high_expense_ratio"
	WarnNOIGrowthOutlier   = "noi_growth_outlier"
	WarnHighRentMultiplier = "high_rent_multiplier"
	WarnInterestOnlyNoRefi = "interest_only_payoff"
)

// Warning is one flagged figure
type Warning struct {
	Code      string  `json:"code"`
	Message   string  `json:"message"`
	Value     float64 `json:"value"`
	Threshold float64 `json:"threshold"`
}

// =============================================================================
// CAGR (Compound Annual Growth Rate)
// =============================================================================

// CalculateCAGR calculates compound annual growth rate as a percentage.
// CAGR = ((EndValue / StartValue) ^ (1/years)) - 1
func CalculateCAGR(startValue, endValue float64, years int) float64 {
	if startValue <= 0 || endValue < 0 || years <= 0 {
		return 0
	}
	return (math.Pow(endValue/startValue, 1.0/float64(years)) - 1) * 100
}

// =============================================================================
// DEAL REVIEW
// =============================================================================

// Review flags the assumptions and projection of one (sanitized) scenario.
// The result is ordered by check, not by severity.
func Review(a assumption.Assumptions, stmt projection.OperatingStatement, proj projection.Projection) []Warning {
	var warnings []Warning
	add := func(code string, value, threshold float64, format string, args ...interface{}) {
		warnings = append(warnings, Warning{
			Code:      code,
			Message:   fmt.Sprintf(format, args...),
			Value:     value,
			Threshold: threshold,
		})
	}

	if missing := a.Missing(); len(missing) > 0 {
		add(WarnMissingInputs, float64(len(missing)), 0, "Missing inputs: %v", missing)
	}

	if stmt.AnnualDebtService > 0 {
		if dscr := stmt.NOI / stmt.AnnualDebtService; dscr < MinDSCR {
			add(WarnDSCRBelowOne, dscr, MinDSCR, "Going-in NOI covers only %.2fx of debt service", dscr)
		}
	}

	if stmt.EffectiveGrossIncome > 0 && stmt.AnnualCashFlow < 0 {
		add(WarnNegativeCashFlow, stmt.AnnualCashFlow, 0, "Year-one cash flow after reserves is negative ($%.0f)", stmt.AnnualCashFlow)
	}

	var goingInCap float64
	if a.PurchasePrice > 0 {
		goingInCap = stmt.NOI / a.PurchasePrice * 100
	}
	switch {
	case a.DispositionCapRate <= 0:
		add(WarnNoExitCap, 0, 0, "No disposition cap rate: the sale is valued at $0")
	case goingInCap > 0 && a.DispositionCapRate < goingInCap:
		add(WarnExitCapCompression, a.DispositionCapRate, goingInCap,
			"Exit cap %.2f%% is below the going-in cap %.2f%%", a.DispositionCapRate, goingInCap)
	}

	if a.VacancyRate > MaxVacancyRate {
		add(WarnHighVacancy, a.VacancyRate, MaxVacancyRate, "Vacancy of %.1f%% exceeds %.0f%%", a.VacancyRate, MaxVacancyRate)
	}

	if stmt.EffectiveGrossIncome > 0 {
		if ratio := stmt.OperatingExpenses / stmt.EffectiveGrossIncome * 100; ratio > MaxExpenseRatio {
			add(WarnHighExpenseRatio, ratio, MaxExpenseRatio, "Expenses take %.1f%% of effective gross income", ratio)
		}
	}

	if n := len(proj.Details); n > 1 {
		first, last := proj.Details[0].NOI, proj.Details[n-1].NOI
		if cagr := CalculateCAGR(first, last, n-1); cagr > MaxNOIGrowthCAGR {
			add(WarnNOIGrowthOutlier, cagr, MaxNOIGrowthCAGR, "NOI grows %.1f%% a year over the hold", cagr)
		}
	}

	if stmt.GrossPotentialRent > 0 {
		if grm := a.PurchasePrice / stmt.GrossPotentialRent; grm > MaxRentMultiplier {
			add(WarnHighRentMultiplier, grm, MaxRentMultiplier, "Price is %.1fx gross potential rent", grm)
		}
	}

	if a.LoanStructure == assumption.LoanInterestOnly && a.RefinanceYears == 0 &&
		a.InterestOnlyYears > 0 && a.InterestOnlyYears < a.HoldingPeriodYears {
		add(WarnInterestOnlyNoRefi, float64(a.InterestOnlyYears), float64(a.HoldingPeriodYears),
			"Interest-only period ends in year %d with no refinance term; the balance is modeled as paid off", a.InterestOnlyYears)
	}

	return warnings
}

// Codes returns the warning codes in order
func Codes(warnings []Warning) []string {
	codes := make([]string, len(warnings))
	for i, w := range warnings {
		codes[i] = w.Code
	}
	return codes
}
