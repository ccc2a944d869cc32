// Package assumption defines the input record for a multifamily offer analysis.
// One Assumptions value drives a full recalculation: projection, disposition, IRR and grade.
// All percentages are expressed in whole units (7 means 7%).
package assumption

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ENUMS
// =============================================================================

// LoanStructure selects how the acquisition loan is repaid
type LoanStructure string

const (
	LoanAmortizing   LoanStructure = "amortizing"
	LoanInterestOnly LoanStructure = "interest_only"
)

// ExpenseMode selects between itemized operating expenses and a single blended percentage
type ExpenseMode string

const (
	ExpenseDetailed   ExpenseMode = "detailed"
	ExpensePercentage ExpenseMode = "percentage"
)

// =============================================================================
// OPERATING EXPENSES
// =============================================================================

// Expenses holds the annual operating expense line items used in detailed mode.
// ManagementPercent is a percentage of effective gross income, every other field is a
// year-1 dollar amount.
type Expenses struct {
	PropertyTaxes     float64 `json:"property_taxes"`
	Insurance         float64 `json:"insurance"`
	ManagementPercent float64 `json:"management_percent"`
	Maintenance       float64 `json:"maintenance"`
	Utilities         float64 `json:"utilities"`
	ContractServices  float64 `json:"contract_services"`
	Payroll           float64 `json:"payroll"`
	Marketing         float64 `json:"marketing"`
	GeneralAdmin      float64 `json:"general_admin"`
	Other             float64 `json:"other"`
}

// FixedTotal sums every dollar-denominated line item (management excluded)
func (e Expenses) FixedTotal() float64 {
	return e.PropertyTaxes + e.Insurance + e.Maintenance + e.Utilities +
		e.ContractServices + e.Payroll + e.Marketing + e.GeneralAdmin + e.Other
}

// =============================================================================
// ASSUMPTIONS
// =============================================================================

// Assumptions is the immutable input of one calculation run
type Assumptions struct {
	// Acquisition
	PurchasePrice      float64 `json:"purchase_price"`
	DownPaymentPercent float64 `json:"down_payment_percent"`
	ClosingCostPercent float64 `json:"closing_cost_percent"`
	DispositionCapRate float64 `json:"disposition_cap_rate"`
	HoldingPeriodYears int     `json:"holding_period_years"`

	// Income
	NumberOfUnits      int     `json:"number_of_units"`
	AverageMonthlyRent float64 `json:"average_monthly_rent"`
	VacancyRate        float64 `json:"vacancy_rate"`
	RentGrowthRate     float64 `json:"rent_growth_rate"`
	OtherIncome        float64 `json:"other_income"`
	IncomeReductions   float64 `json:"income_reductions"`

	// Capital reserves (annual, per unit)
	CapitalReservePerUnit         float64 `json:"capital_reserve_per_unit"`
	DeferredCapitalReservePerUnit float64 `json:"deferred_capital_reserve_per_unit"`

	// Financing
	InterestRate      float64       `json:"interest_rate"`
	LoanStructure     LoanStructure `json:"loan_structure"`
	AmortizationYears int           `json:"amortization_years"`
	InterestOnlyYears int           `json:"interest_only_years"`
	RefinanceYears    int           `json:"refinance_years"`

	// Operating expenses
	ExpenseMode             ExpenseMode `json:"expense_mode"`
	Expenses                Expenses    `json:"expenses"`
	OperatingExpensePercent float64     `json:"operating_expense_percent"`
	ExpenseGrowthRate       float64     `json:"expense_growth_rate"`
}

// MaxHoldingPeriodYears bounds the projection horizon accepted from callers
const MaxHoldingPeriodYears = 100

// Default returns an assumption set with every numeric at zero and enums at their defaults
func Default() Assumptions {
	return Assumptions{
		LoanStructure:      LoanAmortizing,
		ExpenseMode:        ExpenseDetailed,
		HoldingPeriodYears: 1,
	}
}

// Sanitize clamps the record at the input boundary. Negatives become 0, the holding period
// is kept within 1..MaxHoldingPeriodYears and unknown enum values fall back to their defaults.
// The calculation packages never call this; callers that accept user input do.
func (a Assumptions) Sanitize() Assumptions {
	out := a
	for _, f := range []*float64{
		&out.PurchasePrice, &out.DownPaymentPercent, &out.ClosingCostPercent,
		&out.DispositionCapRate, &out.AverageMonthlyRent, &out.VacancyRate,
		&out.RentGrowthRate, &out.OtherIncome, &out.IncomeReductions,
		&out.ExpenseGrowthRate, &out.CapitalReservePerUnit, &out.DeferredCapitalReservePerUnit,
		&out.InterestRate, &out.OperatingExpensePercent,
		&out.Expenses.PropertyTaxes, &out.Expenses.Insurance, &out.Expenses.ManagementPercent,
		&out.Expenses.Maintenance, &out.Expenses.Utilities, &out.Expenses.ContractServices,
		&out.Expenses.Payroll, &out.Expenses.Marketing, &out.Expenses.GeneralAdmin,
		&out.Expenses.Other,
	} {
		if *f < 0 {
			*f = 0
		}
	}
	for _, n := range []*int{
		&out.NumberOfUnits, &out.AmortizationYears, &out.InterestOnlyYears, &out.RefinanceYears,
	} {
		if *n < 0 {
			*n = 0
		}
	}
	if out.HoldingPeriodYears < 1 {
		out.HoldingPeriodYears = 1
	}
	if out.HoldingPeriodYears > MaxHoldingPeriodYears {
		out.HoldingPeriodYears = MaxHoldingPeriodYears
	}
	if out.LoanStructure != LoanAmortizing && out.LoanStructure != LoanInterestOnly {
		out.LoanStructure = LoanAmortizing
	}
	if out.ExpenseMode != ExpenseDetailed && out.ExpenseMode != ExpensePercentage {
		out.ExpenseMode = ExpenseDetailed
	}
	return out
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// DownPayment is the equity portion of the purchase price
func (a Assumptions) DownPayment() float64 {
	return a.PurchasePrice * a.DownPaymentPercent / 100
}

// LoanAmount = purchase price - down payment
func (a Assumptions) LoanAmount() float64 {
	return a.PurchasePrice - a.DownPayment()
}

// ClosingCosts = purchase price x closing cost %
func (a Assumptions) ClosingCosts() float64 {
	return a.PurchasePrice * a.ClosingCostPercent / 100
}

// TotalInitialInvestment = down payment + closing costs
func (a Assumptions) TotalInitialInvestment() float64 {
	return a.DownPayment() + a.ClosingCosts()
}

// MonthlyRate converts the annual interest rate percentage into a monthly fraction
func (a Assumptions) MonthlyRate() float64 {
	return a.InterestRate / 100 / 12
}

// NumberOfPayments = amortization years x 12
func (a Assumptions) NumberOfPayments() int {
	return a.AmortizationYears * 12
}

// GrossPotentialRent is the purchase-year annual rent roll at 100% occupancy
func (a Assumptions) GrossPotentialRent() float64 {
	return float64(a.NumberOfUnits) * a.AverageMonthlyRent * 12
}

// TotalCapitalReserve is the annual reserve charge across all units (regular + deferred)
func (a Assumptions) TotalCapitalReserve() float64 {
	return a.CapitalReservePerUnit*float64(a.NumberOfUnits) +
		a.DeferredCapitalReservePerUnit*float64(a.NumberOfUnits)
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// ToJSON serializes the assumptions for scenario storage
func (a Assumptions) ToJSON() ([]byte, error) {
	return json.Marshal(a)
}

// FromJSON decodes assumptions on top of Default(), so omitted fields keep their defaults
func FromJSON(data []byte) (Assumptions, error) {
	a := Default()
	if err := json.Unmarshal(data, &a); err != nil {
		return Assumptions{}, fmt.Errorf("failed to decode assumptions: %w", err)
	}
	return a, nil
}
