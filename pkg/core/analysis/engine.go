// Package analysis runs the full offer pipeline: loan terms, pro forma, disposition,
// IRR and grade, plus the one-at-a-time IRR sensitivity table.
package analysis

import (
	"math"
	"sort"

	"offer_analyzer/pkg/core/amortization"
	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/core/grading"
	"offer_analyzer/pkg/core/projection"
	"offer_analyzer/pkg/core/validate"
	"offer_analyzer/pkg/core/valuation"
)

// AnalysisEngine orchestrates one recalculation. It holds no state besides the read-only
// benchmark table, so a single engine may serve concurrent callers.
type AnalysisEngine struct {
	grader *grading.Engine
}

// NewAnalysisEngine creates an engine; a nil grader grades against the embedded benchmarks
func NewAnalysisEngine(grader *grading.Engine) *AnalysisEngine {
	if grader == nil {
		grader = grading.NewEngine(nil)
	}
	return &AnalysisEngine{grader: grader}
}

// Analyze is a shortcut for the default engine
func Analyze(a assumption.Assumptions) Output {
	return NewAnalysisEngine(nil).Analyze(a)
}

// Analyze sanitizes the assumptions and recomputes everything from scratch
func (e *AnalysisEngine) Analyze(a assumption.Assumptions) Output {
	a = a.Sanitize()

	loan := amortization.NewLoan(a)
	proj := projection.Project(a)
	stmt := projection.Statement(a)

	balance := loan.BalanceAfterYears(a.HoldingPeriodYears)
	exit := valuation.TerminalValue(proj.Final().NOI, a.DispositionCapRate, balance)

	initial := a.TotalInitialInvestment()
	flows := valuation.CashFlowSeries(initial, proj.AnnualCashFlows(), exit.NetEquity)
	irr := valuation.IRR(flows, valuation.DefaultIRRGuess) * 100

	metrics := Metrics{
		CapRate:                ratio(stmt.NOI, a.PurchasePrice) * 100,
		CashOnCash:             ratio(stmt.AnnualCashFlow, initial) * 100,
		DSCR:                   ratio(stmt.NOI, stmt.AnnualDebtService),
		ExpenseRatio:           ratio(stmt.OperatingExpenses, stmt.EffectiveGrossIncome) * 100,
		GoingInNOI:             stmt.NOI,
		AnnualDebtService:      proj.AnnualDebtService,
		MonthlyPayment:         loan.Payment(),
		LoanAmount:             loan.Amount,
		TotalInitialInvestment: initial,
		LoanBalanceAtHorizon:   balance,
		SalePrice:              exit.SalePrice,
		SellingCosts:           exit.SellingCosts,
		PricePerUnit:           ratio(a.PurchasePrice, float64(a.NumberOfUnits)),
		GrossRentMultiplier:    ratio(a.PurchasePrice, stmt.GrossPotentialRent),
	}
	if len(proj.Details) > 0 {
		metrics.NOIYear1 = proj.Details[0].NOI
	}

	cls := e.grader.Classify(grading.Characteristics{
		PurchasePrice:      a.PurchasePrice,
		NumberOfUnits:      a.NumberOfUnits,
		AverageMonthlyRent: a.AverageMonthlyRent,
		CapRate:            metrics.CapRate,
		ExpenseRatio:       metrics.ExpenseRatio,
	})
	grade := e.grader.CalculateGrade(grading.Metrics{
		IRR:           irr,
		CashOnCash:    metrics.CashOnCash,
		DSCR:          metrics.DSCR,
		CapRate:       metrics.CapRate,
		ExpenseRatio:  metrics.ExpenseRatio,
		BreakEvenYear: proj.BreakEvenYear,
		DebtFree:      loan.Amount <= 0,
		Gradeable:     a.PurchasePrice > 0 && a.NumberOfUnits > 0,
	}, cls)

	return Output{
		YearPoints:               proj.Points,
		YearDetails:              proj.Details,
		BreakEvenYear:            proj.BreakEvenYear,
		ProjectedEquityAtHorizon: exit.NetEquity,
		ROIAtHorizon:             valuation.ROIAtHorizon(exit.NetEquity, proj.CumulativeCashFlow(), initial),
		IRR:                      irr,
		Grade:                    grade,
		Metrics:                  metrics,
		LoanSchedule:             amortization.YearlySchedule(loan, a.HoldingPeriodYears),
		Warnings:                 validate.Review(a, stmt, proj),
	}
}

// =============================================================================
// SENSITIVITY
// =============================================================================

// sensitivityDriver moves one assumption by a fixed number of points in each direction
type sensitivityDriver struct {
	name  string
	label string
	step  float64
	get   func(assumption.Assumptions) float64
	set   func(*assumption.Assumptions, float64)
}

var sensitivityDrivers = []sensitivityDriver{
	{
		name: "rent_growth_rate", label: "Rent growth", step: 1,
		get: func(a assumption.Assumptions) float64 { return a.RentGrowthRate },
		set: func(a *assumption.Assumptions, v float64) { a.RentGrowthRate = v },
	},
	{
		name: "vacancy_rate", label: "Vacancy", step: 2,
		get: func(a assumption.Assumptions) float64 { return a.VacancyRate },
		set: func(a *assumption.Assumptions, v float64) { a.VacancyRate = v },
	},
	{
		name: "interest_rate", label: "Interest rate", step: 1,
		get: func(a assumption.Assumptions) float64 { return a.InterestRate },
		set: func(a *assumption.Assumptions, v float64) { a.InterestRate = v },
	},
	{
		name: "expense_growth_rate", label: "Expense growth", step: 1,
		get: func(a assumption.Assumptions) float64 { return a.ExpenseGrowthRate },
		set: func(a *assumption.Assumptions, v float64) { a.ExpenseGrowthRate = v },
	},
	{
		name: "disposition_cap_rate", label: "Exit cap rate", step: 0.5,
		get: func(a assumption.Assumptions) float64 { return a.DispositionCapRate },
		set: func(a *assumption.Assumptions, v float64) { a.DispositionCapRate = v },
	},
}

// Sensitivity is a shortcut for the default engine
func Sensitivity(a assumption.Assumptions) []SensitivityRow {
	return NewAnalysisEngine(nil).Sensitivity(a)
}

// Sensitivity re-runs the pipeline with each driver moved down and up by its step and
// returns the rows sorted by IRR swing, largest first. Low values are floored at 0.
func (e *AnalysisEngine) Sensitivity(a assumption.Assumptions) []SensitivityRow {
	a = a.Sanitize()
	baseIRR := e.Analyze(a).IRR

	rows := make([]SensitivityRow, 0, len(sensitivityDrivers))
	for _, d := range sensitivityDrivers {
		base := d.get(a)
		low := math.Max(0, base-d.step)
		high := base + d.step

		lowCase, highCase := a, a
		d.set(&lowCase, low)
		d.set(&highCase, high)

		lowIRR := e.Analyze(lowCase).IRR
		highIRR := e.Analyze(highCase).IRR

		rows = append(rows, SensitivityRow{
			Driver:    d.name,
			Label:     d.label,
			BaseValue: base,
			LowValue:  low,
			HighValue: high,
			BaseIRR:   baseIRR,
			LowIRR:    lowIRR,
			HighIRR:   highIRR,
			Swing:     math.Abs(highIRR - lowIRR),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Swing > rows[j].Swing })
	return rows
}

// ratio divides with a zero fallback
func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
