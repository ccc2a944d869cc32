package projection

// YearPoint is the compact per-year series consumed by charts and the IRR calculation.
// Year 0 is the acquisition sentinel: NOI and cash flow are 0, cumulative is the negative
// initial investment.
type YearPoint struct {
	Year               int     `json:"year"`
	NOI                float64 `json:"noi"`
	CashFlow           float64 `json:"cash_flow"`
	CumulativeCashFlow float64 `json:"cumulative_cash_flow"`
}

// YearDetail is the full operating statement of one projected year
type YearDetail struct {
	Year                 int     `json:"year"`
	GrossPotentialRent   float64 `json:"gross_potential_rent"`
	VacancyLoss          float64 `json:"vacancy_loss"`
	OtherIncome          float64 `json:"other_income"`
	IncomeReductions     float64 `json:"income_reductions"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	ManagementFee        float64 `json:"management_fee"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
	DebtService          float64 `json:"debt_service"`
	CashFlowBeforeTax    float64 `json:"cash_flow_before_tax"`
	CapitalReserves      float64 `json:"capital_reserves"`
	AnnualCashFlow       float64 `json:"annual_cash_flow"`
	CumulativeCashFlow   float64 `json:"cumulative_cash_flow"`
	LoanBalance          float64 `json:"loan_balance"`
}

// OperatingStatement is the purchase-year (unescalated) statement behind the going-in
// metrics: cap rate, DSCR, cash-on-cash and expense ratio.
type OperatingStatement struct {
	GrossPotentialRent   float64 `json:"gross_potential_rent"`
	VacancyLoss          float64 `json:"vacancy_loss"`
	OtherIncome          float64 `json:"other_income"`
	IncomeReductions     float64 `json:"income_reductions"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	ManagementFee        float64 `json:"management_fee"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	NOI                  float64 `json:"noi"`
	AnnualDebtService    float64 `json:"annual_debt_service"`
	CashFlowBeforeTax    float64 `json:"cash_flow_before_tax"`
	CapitalReserves      float64 `json:"capital_reserves"`
	AnnualCashFlow       float64 `json:"annual_cash_flow"`
}

// Projection is the output of Project for years 0..holding period
type Projection struct {
	Points                 []YearPoint  `json:"year_points"`
	Details                []YearDetail `json:"year_details"`
	BreakEvenYear          *int         `json:"break_even_year"`
	AnnualDebtService      float64      `json:"annual_debt_service"`
	TotalInitialInvestment float64      `json:"total_initial_investment"`
}

// Final returns the last projected year, or a zero detail for an empty projection
func (p Projection) Final() YearDetail {
	if len(p.Details) == 0 {
		return YearDetail{}
	}
	return p.Details[len(p.Details)-1]
}

// AnnualCashFlows returns the year 1..N cash flows after reserves
func (p Projection) AnnualCashFlows() []float64 {
	flows := make([]float64, len(p.Details))
	for i, d := range p.Details {
		flows[i] = d.AnnualCashFlow
	}
	return flows
}

// CumulativeCashFlow is the sum of annual cash flows over the hold, excluding the initial
// investment
func (p Projection) CumulativeCashFlow() float64 {
	var total float64
	for _, d := range p.Details {
		total += d.AnnualCashFlow
	}
	return total
}
