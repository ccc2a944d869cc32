package analysis

import (
	"math"
	"reflect"
	"testing"

	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/core/grading"
	"offer_analyzer/pkg/core/validate"
	"offer_analyzer/pkg/core/valuation"
)

// endToEndDeal is the 47-unit, $7M reference scenario
func endToEndDeal() assumption.Assumptions {
	a := assumption.Default()
	a.PurchasePrice = 7000000
	a.DownPaymentPercent = 20
	a.InterestRate = 7
	a.LoanStructure = assumption.LoanAmortizing
	a.AmortizationYears = 30
	a.ClosingCostPercent = 3
	a.NumberOfUnits = 47
	a.AverageMonthlyRent = 2500
	a.VacancyRate = 10
	a.RentGrowthRate = 2
	a.ExpenseGrowthRate = 2
	a.Expenses = assumption.Expenses{
		PropertyTaxes:     12000,
		Insurance:         10000,
		ManagementPercent: 6,
		Maintenance:       12000,
		Utilities:         6000,
		ContractServices:  6000,
		Payroll:           15000,
		Marketing:         2400,
		GeneralAdmin:      1200,
		Other:             5000,
	}
	a.CapitalReservePerUnit = 500
	a.HoldingPeriodYears = 10
	a.DispositionCapRate = 6
	return a
}

func TestAnalyze_EndToEnd(t *testing.T) {
	out := Analyze(endToEndDeal())

	if len(out.YearPoints) != 11 || len(out.YearDetails) != 10 || len(out.LoanSchedule) != 10 {
		t.Fatalf("unexpected series lengths: %d points, %d details, %d schedule rows",
			len(out.YearPoints), len(out.YearDetails), len(out.LoanSchedule))
	}

	m := out.Metrics
	checks := []struct {
		name     string
		got      float64
		expected float64
		tol      float64
	}{
		{"going-in NOI", m.GoingInNOI, 1123260, 1e-6},
		{"year-1 NOI", m.NOIYear1, 1147117.2, 0.01},
		{"cap rate", m.CapRate, 1123260.0 / 7000000 * 100, 1e-9},
		{"DSCR", m.DSCR, 1123260 / 447083.2768, 0.0001},
		{"annual debt service", m.AnnualDebtService, 447083.28, 0.01},
		{"loan amount", m.LoanAmount, 5600000, 1e-6},
		{"initial investment", m.TotalInitialInvestment, 1610000, 1e-6},
		{"balance at horizon", m.LoanBalanceAtHorizon, 4805493.47, 0.01},
		{"price per unit", m.PricePerUnit, 7000000.0 / 47, 1e-6},
		{"IRR", out.IRR, 52.41, 0.05},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.expected) > c.tol {
			t.Errorf("%s: expected %.4f, got %.4f", c.name, c.expected, c.got)
		}
	}

	if out.BreakEvenYear == nil || *out.BreakEvenYear != 3 {
		t.Errorf("expected break-even in year 3, got %v", out.BreakEvenYear)
	}
}

func TestAnalyze_Warnings(t *testing.T) {
	out := Analyze(endToEndDeal())
	codes := validate.Codes(out.Warnings)
	if len(codes) != 1 || codes[0] != validate.WarnExitCapCompression {
		t.Errorf("expected only the exit cap warning, got %v", codes)
	}

	a := endToEndDeal()
	a.DispositionCapRate = 17
	if w := Analyze(a).Warnings; len(w) != 0 {
		t.Errorf("expected no warnings, got %v", validate.Codes(w))
	}
}

func TestAnalyze_Deterministic(t *testing.T) {
	first := Analyze(endToEndDeal())
	for i := 0; i < 5; i++ {
		again := Analyze(endToEndDeal())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from the first run", i+1)
		}
	}
}

func TestAnalyze_IRRConsistentWithFlows(t *testing.T) {
	a := endToEndDeal()
	out := Analyze(a)

	var annual []float64
	for _, d := range out.YearDetails {
		annual = append(annual, d.AnnualCashFlow)
	}
	flows := valuation.CashFlowSeries(out.Metrics.TotalInitialInvestment, annual, out.ProjectedEquityAtHorizon)
	if npv := valuation.NPV(out.IRR/100, flows); math.Abs(npv) > 1 {
		t.Errorf("expected NPV ≈ 0 at the reported IRR, got %.4f", npv)
	}
}

func TestAnalyze_ROI(t *testing.T) {
	out := Analyze(endToEndDeal())
	final := out.YearDetails[len(out.YearDetails)-1]
	cumulative := final.CumulativeCashFlow + out.Metrics.TotalInitialInvestment

	expected := ((out.ProjectedEquityAtHorizon+cumulative)/out.Metrics.TotalInitialInvestment - 1) * 100
	if math.Abs(out.ROIAtHorizon-expected) > 1e-6 {
		t.Errorf("expected ROI %.4f, got %.4f", expected, out.ROIAtHorizon)
	}
}

func TestAnalyze_Grade(t *testing.T) {
	out := Analyze(endToEndDeal())
	cls := out.Grade.Classification
	if cls.AssetClass != grading.ClassC || cls.MarketTier != grading.TierTertiary {
		t.Errorf("expected C/tertiary, got %s/%s", cls.AssetClass, cls.MarketTier)
	}
	if out.Grade.Grade != "A+" {
		t.Errorf("expected A+, got %s (%.2f, %v)", out.Grade.Grade, out.Grade.Score, out.Grade.Breakdown)
	}
}

func TestAnalyze_AllCash(t *testing.T) {
	a := endToEndDeal()
	a.DownPaymentPercent = 100
	out := Analyze(a)

	if out.Metrics.LoanAmount != 0 || out.Metrics.AnnualDebtService != 0 {
		t.Errorf("expected no debt, got %+v", out.Metrics)
	}
	if out.Metrics.DSCR != 0 {
		t.Errorf("expected DSCR 0 without debt service, got %.4f", out.Metrics.DSCR)
	}
	if out.Grade.Breakdown[grading.MetricDSCR] != 100 {
		t.Errorf("expected full DSCR credit, got %.2f", out.Grade.Breakdown[grading.MetricDSCR])
	}
}

func TestAnalyze_NotGradeable(t *testing.T) {
	a := endToEndDeal()
	a.NumberOfUnits = 0
	out := Analyze(a)
	if out.Grade.Grade != grading.GradeNotApplicable {
		t.Errorf("expected N/A, got %s", out.Grade.Grade)
	}
	if out.Metrics.PricePerUnit != 0 {
		t.Errorf("expected price per unit 0, got %.2f", out.Metrics.PricePerUnit)
	}
}

func TestAnalyze_SanitizesInput(t *testing.T) {
	a := endToEndDeal()
	a.VacancyRate = -5
	a.HoldingPeriodYears = 0

	out := Analyze(a)
	if len(out.YearDetails) != 1 {
		t.Fatalf("expected a 1-year hold, got %d years", len(out.YearDetails))
	}
	if out.YearDetails[0].VacancyLoss != 0 {
		t.Errorf("expected negative vacancy clamped to 0, got %.2f", out.YearDetails[0].VacancyLoss)
	}
}

func TestSensitivity(t *testing.T) {
	rows := Sensitivity(endToEndDeal())
	if len(rows) != len(sensitivityDrivers) {
		t.Fatalf("expected %d rows, got %d", len(sensitivityDrivers), len(rows))
	}

	for i := 1; i < len(rows); i++ {
		if rows[i].Swing > rows[i-1].Swing {
			t.Errorf("rows not sorted by swing at %d: %.4f > %.4f", i, rows[i].Swing, rows[i-1].Swing)
		}
	}
	if rows[0].Driver != "rent_growth_rate" {
		t.Errorf("expected rent growth to dominate, got %s", rows[0].Driver)
	}
	if rows[len(rows)-1].Driver != "expense_growth_rate" {
		t.Errorf("expected expense growth to matter least, got %s", rows[len(rows)-1].Driver)
	}

	byDriver := map[string]SensitivityRow{}
	for _, r := range rows {
		byDriver[r.Driver] = r
	}
	if v := byDriver["vacancy_rate"]; v.HighIRR >= v.LowIRR {
		t.Errorf("higher vacancy should lower IRR: low %.4f high %.4f", v.LowIRR, v.HighIRR)
	}
	if r := byDriver["interest_rate"]; r.LowValue != 6 || r.HighValue != 8 {
		t.Errorf("expected interest rate 6..8, got %.2f..%.2f", r.LowValue, r.HighValue)
	}
}

func TestSensitivity_FloorsAtZero(t *testing.T) {
	a := endToEndDeal()
	a.RentGrowthRate = 0.5
	for _, r := range Sensitivity(a) {
		if r.Driver == "rent_growth_rate" && r.LowValue != 0 {
			t.Errorf("expected low rent growth floored at 0, got %.2f", r.LowValue)
		}
	}
}

func TestAnalyze_InterestOnly(t *testing.T) {
	a := endToEndDeal()
	a.LoanStructure = assumption.LoanInterestOnly
	a.InterestOnlyYears = 5

	cases := []struct {
		name      string
		refinance int
		balance   float64
		netEquity float64
	}{
		// repaid from sale proceeds
		{"no refinance", 0, 0, 22391550.27},
		{"25-year refinance", 25, 5105080.53, 17286469.74},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a.RefinanceYears = c.refinance
			out := Analyze(a)

			// L x r x 12, held through and after the interest-only period
			if math.Abs(out.Metrics.AnnualDebtService-392000) > 0.01 {
				t.Errorf("expected debt service 392000, got %.2f", out.Metrics.AnnualDebtService)
			}
			for _, d := range out.YearDetails {
				if math.Abs(d.DebtService-392000) > 0.01 {
					t.Errorf("year %d: expected debt service 392000, got %.2f", d.Year, d.DebtService)
				}
			}
			if got := out.YearDetails[4].LoanBalance; math.Abs(got-5600000) > 1e-6 {
				t.Errorf("expected the full balance at the end of year 5, got %.2f", got)
			}
			if math.Abs(out.Metrics.LoanBalanceAtHorizon-c.balance) > 0.01 {
				t.Errorf("expected horizon balance %.2f, got %.2f", c.balance, out.Metrics.LoanBalanceAtHorizon)
			}
			if math.Abs(out.ProjectedEquityAtHorizon-c.netEquity) > 0.01 {
				t.Errorf("expected net equity %.2f, got %.2f", c.netEquity, out.ProjectedEquityAtHorizon)
			}
			m := out.Metrics
			if diff := m.SalePrice - m.SellingCosts - m.LoanBalanceAtHorizon - out.ProjectedEquityAtHorizon; math.Abs(diff) > 1e-6 {
				t.Errorf("net equity does not tie to sale less costs less payoff: off by %v", diff)
			}
		})
	}
}

func TestAnalyze_HoldingPeriodIsCapped(t *testing.T) {
	a := endToEndDeal()
	a.HoldingPeriodYears = 2000000

	out := Analyze(a)
	if len(out.YearPoints) != assumption.MaxHoldingPeriodYears+1 || len(out.LoanSchedule) != assumption.MaxHoldingPeriodYears {
		t.Errorf("expected the horizon capped at %d years, got %d points and %d schedule rows",
			assumption.MaxHoldingPeriodYears, len(out.YearPoints), len(out.LoanSchedule))
	}
}
