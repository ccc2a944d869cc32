package analysis

import (
	"offer_analyzer/pkg/core/amortization"
	"offer_analyzer/pkg/core/grading"
	"offer_analyzer/pkg/core/projection"
	"offer_analyzer/pkg/core/validate"
)

// Output is the full result of one recalculation, as rendered by the offer screen
type Output struct {
	YearPoints               []projection.YearPoint      `json:"year_points"`
	YearDetails              []projection.YearDetail     `json:"year_details"`
	BreakEvenYear            *int                        `json:"break_even_year"`
	ProjectedEquityAtHorizon float64                     `json:"projected_equity_at_horizon"`
	ROIAtHorizon             float64                     `json:"roi_at_horizon"` // %
	IRR                      float64                     `json:"irr"`            // %
	Grade                    grading.GradeResult         `json:"grade"`
	Metrics                  Metrics                     `json:"metrics"`
	LoanSchedule             []amortization.ScheduleYear `json:"loan_schedule"`
	Warnings                 []validate.Warning          `json:"warnings"`
}

// Metrics are the summary cards. Going-in ratios use the purchase-year statement;
// horizon figures use the final projected year.
type Metrics struct {
	CapRate                float64 `json:"cap_rate"`      // %
	CashOnCash             float64 `json:"cash_on_cash"`  // %
	DSCR                   float64 `json:"dscr"`
	ExpenseRatio           float64 `json:"expense_ratio"` // % of EGI
	GoingInNOI             float64 `json:"going_in_noi"`  // purchase-year statement
	NOIYear1               float64 `json:"noi_year1"`     // projected year 1, after growth
	AnnualDebtService      float64 `json:"annual_debt_service"`
	MonthlyPayment         float64 `json:"monthly_payment"`
	LoanAmount             float64 `json:"loan_amount"`
	TotalInitialInvestment float64 `json:"total_initial_investment"`
	LoanBalanceAtHorizon   float64 `json:"loan_balance_at_horizon"`
	SalePrice              float64 `json:"sale_price"`
	SellingCosts           float64 `json:"selling_costs"`
	PricePerUnit           float64 `json:"price_per_unit"`
	GrossRentMultiplier    float64 `json:"gross_rent_multiplier"`
}

// SensitivityRow is the IRR response to moving one assumption down and up
type SensitivityRow struct {
	Driver    string  `json:"driver"`
	Label     string  `json:"label"`
	BaseValue float64 `json:"base_value"`
	LowValue  float64 `json:"low_value"`
	HighValue float64 `json:"high_value"`
	BaseIRR   float64 `json:"base_irr"`
	LowIRR    float64 `json:"low_irr"`
	HighIRR   float64 `json:"high_irr"`
	Swing     float64 `json:"swing"` // |high − low| in IRR points
}
