// Package projection builds the year-by-year pro forma of a multifamily acquisition.
//
// Rent and expense growth are applied by repeated multiplication of running values, one
// step per projected year, rather than through a closed-form power. Results therefore
// match the offer analyzer screen to the last bit of floating-point rounding.
package projection

import (
	"offer_analyzer/pkg/core/amortization"
	"offer_analyzer/pkg/core/assumption"
)

// Project calculates the pro forma for years 0..HoldingPeriodYears.
//
// Per year y ≥ 1:
//
//	GPR(y)   = GPR(y−1) × (1 + rent growth), starting from the purchase-year rent roll
//	EGI(y)   = GPR(y) × (1 − vacancy) + other income − income reductions
//	OpEx(y)  = percentage mode: EGI(y) × opex % × (1 + expense growth)^(y−1)
//	           detailed mode:   Σ item × (1 + expense growth)^(y−1) + mgmt % × EGI(y)
//	NOI(y)   = EGI(y) − OpEx(y)
//	CFBT(y)  = NOI(y) − annual debt service (held at the year-1 amount)
//	CF(y)    = CFBT(y) − capital reserve − deferred capital reserve (both every year)
//	Cum(y)   = Cum(y−1) + CF(y), Cum(0) = −total initial investment
func Project(a assumption.Assumptions) Projection {
	years := a.HoldingPeriodYears
	if years < 0 {
		years = 0
	}

	loan := amortization.NewLoan(a)
	debtService := loan.AnnualDebtService()
	initial := a.TotalInitialInvestment()
	reserves := a.TotalCapitalReserve()

	rentGrowth := 1 + a.RentGrowthRate/100
	expenseGrowth := 1 + a.ExpenseGrowthRate/100

	proj := Projection{
		Points:                 make([]YearPoint, 0, years+1),
		Details:                make([]YearDetail, 0, years),
		AnnualDebtService:      debtService,
		TotalInitialInvestment: initial,
	}
	proj.Points = append(proj.Points, YearPoint{Year: 0, CumulativeCashFlow: -initial})

	gpr := a.GrossPotentialRent()
	expenseFactor := 1.0
	items := expenseItems(a.Expenses)
	cumulative := -initial

	for y := 1; y <= years; y++ {
		gpr *= rentGrowth
		if y > 1 {
			expenseFactor *= expenseGrowth
			for i := range items {
				items[i] *= expenseGrowth
			}
		}

		vacancyLoss := gpr * a.VacancyRate / 100
		egi := gpr*(1-a.VacancyRate/100) + a.OtherIncome - a.IncomeReductions

		var opex, mgmt float64
		if a.ExpenseMode == assumption.ExpensePercentage {
			opex = egi * a.OperatingExpensePercent / 100 * expenseFactor
		} else {
			mgmt = egi * a.Expenses.ManagementPercent / 100
			opex = sum(items) + mgmt
		}

		noi := egi - opex
		cfbt := noi - debtService
		cf := cfbt - reserves
		cumulative += cf

		proj.Details = append(proj.Details, YearDetail{
			Year:                 y,
			GrossPotentialRent:   gpr,
			VacancyLoss:          vacancyLoss,
			OtherIncome:          a.OtherIncome,
			IncomeReductions:     a.IncomeReductions,
			EffectiveGrossIncome: egi,
			ManagementFee:        mgmt,
			OperatingExpenses:    opex,
			NOI:                  noi,
			DebtService:          debtService,
			CashFlowBeforeTax:    cfbt,
			CapitalReserves:      reserves,
			AnnualCashFlow:       cf,
			CumulativeCashFlow:   cumulative,
			LoanBalance:          loan.BalanceAfterYears(y),
		})
		proj.Points = append(proj.Points, YearPoint{
			Year:               y,
			NOI:                noi,
			CashFlow:           cf,
			CumulativeCashFlow: cumulative,
		})

		if proj.BreakEvenYear == nil && cumulative >= 0 {
			breakEven := y
			proj.BreakEvenYear = &breakEven
		}
	}

	return proj
}

// Statement calculates the purchase-year operating statement with no growth applied
func Statement(a assumption.Assumptions) OperatingStatement {
	gpr := a.GrossPotentialRent()
	egi := gpr*(1-a.VacancyRate/100) + a.OtherIncome - a.IncomeReductions

	var opex, mgmt float64
	if a.ExpenseMode == assumption.ExpensePercentage {
		opex = egi * a.OperatingExpensePercent / 100
	} else {
		mgmt = egi * a.Expenses.ManagementPercent / 100
		opex = a.Expenses.FixedTotal() + mgmt
	}

	debtService := amortization.NewLoan(a).AnnualDebtService()
	noi := egi - opex
	reserves := a.TotalCapitalReserve()

	return OperatingStatement{
		GrossPotentialRent:   gpr,
		VacancyLoss:          gpr * a.VacancyRate / 100,
		OtherIncome:          a.OtherIncome,
		IncomeReductions:     a.IncomeReductions,
		EffectiveGrossIncome: egi,
		ManagementFee:        mgmt,
		OperatingExpenses:    opex,
		NOI:                  noi,
		AnnualDebtService:    debtService,
		CashFlowBeforeTax:    noi - debtService,
		CapitalReserves:      reserves,
		AnnualCashFlow:       noi - debtService - reserves,
	}
}

// expenseItems returns the dollar line items in a fixed order; each one escalates on its own
func expenseItems(e assumption.Expenses) []float64 {
	return []float64{
		e.PropertyTaxes,
		e.Insurance,
		e.Maintenance,
		e.Utilities,
		e.ContractServices,
		e.Payroll,
		e.Marketing,
		e.GeneralAdmin,
		e.Other,
	}
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
