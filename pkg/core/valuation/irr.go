package valuation

import (
	"fmt"
	"math"
)

const (
	// DefaultIRRGuess is the starting rate for the Newton iteration (10%)
	DefaultIRRGuess = 0.10

	irrMaxIter   = 100
	irrTolerance = 0.0001
)

// NPV discounts a cash-flow series where index 0 is undiscounted (time zero).
//
// FORMULA: NPV(r) = Σ CF_t / (1 + r)^t
func NPV(rate float64, cashFlows []float64) float64 {
	var npv float64
	for t, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(t))
	}
	return npv
}

// IRR solves NPV(r) = 0 with Newton's method and returns the rate as a fraction.
//
// FORMULA:
//
//	NPV(r)  = Σ CF_t / (1+r)^t
//	NPV'(r) = Σ −t · CF_t / (1+r)^(t+1)
//	r_{k+1} = r_k − NPV(r_k) / NPV'(r_k)
//
// The iteration stops when |r_{k+1} − r_k| < 0.0001 or after 100 steps, in which case the
// last estimate is returned. There is no bracketing: series with several sign changes may
// land on a spurious root. Callers treat the result as an estimate.
//
// Fallbacks: empty series → 0; a single negative flow → 0; a flat derivative or a
// non-finite step → the current estimate.
func IRR(cashFlows []float64, guess float64) float64 {
	if len(cashFlows) == 0 {
		fmt.Println("[IRR] Empty cash flow series, returning 0")
		return 0
	}
	if len(cashFlows) == 1 && cashFlows[0] < 0 {
		return 0
	}

	rate := guess
	for i := 0; i < irrMaxIter; i++ {
		npv, dnpv := npvAndDerivative(rate, cashFlows)
		if dnpv == 0 {
			return rate
		}

		next := rate - npv/dnpv
		if math.IsNaN(next) || math.IsInf(next, 0) {
			return rate
		}
		if math.Abs(next-rate) < irrTolerance {
			return next
		}
		rate = next
	}

	fmt.Printf("[IRR] Did not converge after %d iterations, last estimate %.6f\n", irrMaxIter, rate)
	return rate
}

func npvAndDerivative(rate float64, cashFlows []float64) (float64, float64) {
	var npv, dnpv float64
	for t, cf := range cashFlows {
		ft := float64(t)
		npv += cf / math.Pow(1+rate, ft)
		dnpv -= ft * cf / math.Pow(1+rate, ft+1)
	}
	return npv, dnpv
}

// CashFlowSeries assembles the IRR input: the negative initial investment, the annual cash
// flows, and the terminal net equity added into the final year.
func CashFlowSeries(initialInvestment float64, annualCashFlows []float64, terminalEquity float64) []float64 {
	series := make([]float64, 0, len(annualCashFlows)+1)
	series = append(series, -initialInvestment)
	series = append(series, annualCashFlows...)
	if len(annualCashFlows) > 0 {
		series[len(series)-1] += terminalEquity
	}
	return series
}
