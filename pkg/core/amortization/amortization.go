// Package amortization implements the loan math behind the offer analyzer:
// monthly payment, remaining balance and a yearly loan schedule.
// Every function is total: degenerate inputs produce numeric fallbacks, never errors.
package amortization

import (
	"math"

	"offer_analyzer/pkg/core/assumption"
)

// =============================================================================
// PAYMENT
// =============================================================================

// MonthlyPayment calculates the scheduled monthly debt payment.
//
// FORMULA (amortizing): PMT = P × [r(1+r)^n] / [(1+r)^n − 1]
// FORMULA (interest-only): PMT = P × r
//
// Where:
//   - P = Loan amount
//   - r = Monthly interest rate (annual % / 100 / 12)
//   - n = Number of monthly payments
//
// Fallbacks: n = 0 → 0; r = 0 → P / n; a zero denominator → P.
func MonthlyPayment(loanAmount, monthlyRate float64, numPayments int, structure assumption.LoanStructure) float64 {
	if structure == assumption.LoanInterestOnly {
		return loanAmount * monthlyRate
	}
	if numPayments == 0 {
		return 0
	}
	if monthlyRate == 0 {
		return loanAmount / float64(numPayments)
	}

	growth := math.Pow(1+monthlyRate, float64(numPayments))
	denominator := growth - 1
	if denominator == 0 {
		return loanAmount
	}
	return loanAmount * (monthlyRate * growth) / denominator
}

// =============================================================================
// REMAINING BALANCE
// =============================================================================

// RemainingBalance calculates the outstanding principal after monthsElapsed payments.
//
// FORMULA (amortizing): B_m = P × [(1+r)^n − (1+r)^m] / [(1+r)^n − 1]
//
// Interest-only loans keep the original balance through the IO period. After it, a loan
// without a refinance term is assumed repaid from sale proceeds (balance 0); with a
// refinance term the original balance amortizes over refinanceYears × 12 payments, with
// months counted from the end of the IO period.
//
// The result is never negative.
func RemainingBalance(
	loanAmount, monthlyRate float64,
	numPayments, monthsElapsed int,
	structure assumption.LoanStructure,
	interestOnlyYears, refinanceYears int,
) float64 {
	if structure == assumption.LoanInterestOnly {
		ioMonths := interestOnlyYears * 12
		if monthsElapsed <= ioMonths {
			return loanAmount
		}
		if refinanceYears == 0 {
			return 0
		}
		return amortizedBalance(loanAmount, monthlyRate, refinanceYears*12, monthsElapsed-ioMonths)
	}
	return amortizedBalance(loanAmount, monthlyRate, numPayments, monthsElapsed)
}

// amortizedBalance is the standard-annuity balance, linear when the rate is zero
func amortizedBalance(loanAmount, monthlyRate float64, numPayments, monthsElapsed int) float64 {
	if monthsElapsed <= 0 {
		return loanAmount
	}
	if monthsElapsed >= numPayments {
		return 0
	}

	if monthlyRate == 0 {
		balance := loanAmount * (1 - float64(monthsElapsed)/float64(numPayments))
		return math.Max(0, balance)
	}

	growthN := math.Pow(1+monthlyRate, float64(numPayments))
	growthM := math.Pow(1+monthlyRate, float64(monthsElapsed))
	denominator := growthN - 1
	if denominator == 0 {
		return 0
	}
	return math.Max(0, loanAmount*(growthN-growthM)/denominator)
}
