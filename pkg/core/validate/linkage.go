package validate

import (
	"fmt"
	"math"

	"offer_analyzer/pkg/core/amortization"
	"offer_analyzer/pkg/core/projection"
	"offer_analyzer/pkg/core/valuation"
)

// =============================================================================
// PRO FORMA LINKAGE VALIDATION
// =============================================================================

// LinkageReport contains all cross-schedule validation results
type LinkageReport struct {
	Checks       []LinkCheck `json:"checks"`
	AllPassed    bool        `json:"all_passed"`
	FailedChecks []string    `json:"failed_checks,omitempty"`
}

// LinkCheck compares one figure against the value it should be derived from
type LinkCheck struct {
	Name       string  `json:"name"`
	Year       int     `json:"year"`
	Expected   float64 `json:"expected"`
	Actual     float64 `json:"actual"`
	Difference float64 `json:"difference"`
	IsLinked   bool    `json:"is_linked"`
	Tolerance  float64 `json:"tolerance"`
}

func (r *LinkageReport) check(name string, year int, expected, actual, tolerance float64) {
	diff := actual - expected
	c := LinkCheck{
		Name:       name,
		Year:       year,
		Expected:   expected,
		Actual:     actual,
		Difference: diff,
		IsLinked:   math.Abs(diff) <= tolerance,
		Tolerance:  tolerance,
	}
	r.Checks = append(r.Checks, c)
	if !c.IsLinked {
		r.AllPassed = false
		r.FailedChecks = append(r.FailedChecks, fmt.Sprintf("%s (year %d): expected %.2f, got %.2f", name, year, expected, actual))
	}
}

// CheckLinkage verifies that every year of the pro forma ties out:
//
//	EGI      = GPR − vacancy + other income − income reductions
//	NOI      = EGI − operating expenses
//	CFBT     = NOI − debt service
//	CF       = CFBT − capital reserves
//	Cum(y)   = Cum(y−1) + CF(y), Cum(0) = −initial investment
//	Balance  = loan schedule ending balance; schedule beginning = prior ending
func CheckLinkage(proj projection.Projection, schedule []amortization.ScheduleYear, tolerance float64) *LinkageReport {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	report := &LinkageReport{AllPassed: true}

	cumulative := -proj.TotalInitialInvestment
	if len(proj.Points) > 0 {
		report.check("cumulative_start", 0, cumulative, proj.Points[0].CumulativeCashFlow, tolerance)
	}

	for i, d := range proj.Details {
		egi := d.GrossPotentialRent - d.VacancyLoss + d.OtherIncome - d.IncomeReductions
		report.check("egi", d.Year, egi, d.EffectiveGrossIncome, tolerance)
		report.check("noi", d.Year, d.EffectiveGrossIncome-d.OperatingExpenses, d.NOI, tolerance)
		report.check("cash_flow_before_tax", d.Year, d.NOI-d.DebtService, d.CashFlowBeforeTax, tolerance)
		report.check("annual_cash_flow", d.Year, d.CashFlowBeforeTax-d.CapitalReserves, d.AnnualCashFlow, tolerance)

		cumulative += d.AnnualCashFlow
		report.check("cumulative_cash_flow", d.Year, cumulative, d.CumulativeCashFlow, tolerance)
		if i+1 < len(proj.Points) {
			report.check("chart_point", d.Year, d.CumulativeCashFlow, proj.Points[i+1].CumulativeCashFlow, tolerance)
		}

		if i < len(schedule) {
			s := schedule[i]
			report.check("loan_balance", d.Year, s.EndingBalance, d.LoanBalance, tolerance)
			report.check("principal_paid", d.Year, s.BeginningBalance-s.EndingBalance, s.PrincipalPaid, tolerance)
			if i > 0 {
				report.check("schedule_roll_forward", d.Year, schedule[i-1].EndingBalance, s.BeginningBalance, tolerance)
			}
		}
	}

	return report
}

// CheckDisposition verifies NetEquity = SalePrice − LoanPayoff − SellingCosts
func CheckDisposition(d valuation.Disposition, year int, tolerance float64) *LinkCheck {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	expected := d.SalePrice - d.LoanPayoff - d.SellingCosts
	diff := d.NetEquity - expected
	return &LinkCheck{
		Name:       "net_equity",
		Year:       year,
		Expected:   expected,
		Actual:     d.NetEquity,
		Difference: diff,
		IsLinked:   math.Abs(diff) <= tolerance,
		Tolerance:  tolerance,
	}
}
