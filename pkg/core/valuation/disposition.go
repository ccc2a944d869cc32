// Package valuation prices the exit of a multifamily hold and solves its IRR.
package valuation

// SellingCostRate is the fixed share of the sale price lost to brokerage and closing
const SellingCostRate = 0.02

// Disposition holds the terminal sale figures at the end of the holding period
type Disposition struct {
	SalePrice    float64 `json:"sale_price"`
	SellingCosts float64 `json:"selling_costs"`
	LoanPayoff   float64 `json:"loan_payoff"`
	NetEquity    float64 `json:"net_equity"`
}

// TerminalValue capitalizes the final-year NOI at the disposition cap rate.
//
// FORMULA:
//
//	SalePrice    = NOI_final / (CapRate / 100)
//	SellingCosts = SalePrice × 2%
//	NetEquity    = SalePrice − LoanBalance − SellingCosts
//
// A cap rate ≤ 0 yields a sale price of 0.
func TerminalValue(finalYearNOI, dispositionCapRate, loanBalanceAtHorizon float64) Disposition {
	var salePrice float64
	if dispositionCapRate > 0 {
		salePrice = finalYearNOI / (dispositionCapRate / 100)
	}
	sellingCosts := salePrice * SellingCostRate

	return Disposition{
		SalePrice:    salePrice,
		SellingCosts: sellingCosts,
		LoanPayoff:   loanBalanceAtHorizon,
		NetEquity:    salePrice - loanBalanceAtHorizon - sellingCosts,
	}
}

// ROIAtHorizon is the total return on the initial investment over the hold, in percent.
//
// FORMULA: ROI = ((NetEquity + Σ CF) / InitialInvestment − 1) × 100
//
// Returns 0 when there is no initial investment.
func ROIAtHorizon(netEquity, cumulativeCashFlow, totalInitialInvestment float64) float64 {
	if totalInitialInvestment == 0 {
		return 0
	}
	return ((netEquity+cumulativeCashFlow)/totalInitialInvestment - 1) * 100
}
