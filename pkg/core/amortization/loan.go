package amortization

import (
	"math"

	"offer_analyzer/pkg/core/assumption"
)

// Loan bundles the debt terms of one scenario
type Loan struct {
	Amount            float64                  `json:"amount"`
	MonthlyRate       float64                  `json:"monthly_rate"`
	NumPayments       int                      `json:"num_payments"`
	Structure         assumption.LoanStructure `json:"structure"`
	InterestOnlyYears int                      `json:"interest_only_years"`
	RefinanceYears    int                      `json:"refinance_years"`
}

// NewLoan derives the loan terms from an assumption set
func NewLoan(a assumption.Assumptions) Loan {
	return Loan{
		Amount:            a.LoanAmount(),
		MonthlyRate:       a.MonthlyRate(),
		NumPayments:       a.NumberOfPayments(),
		Structure:         a.LoanStructure,
		InterestOnlyYears: a.InterestOnlyYears,
		RefinanceYears:    a.RefinanceYears,
	}
}

// Payment returns the scheduled monthly payment
func (l Loan) Payment() float64 {
	return MonthlyPayment(l.Amount, l.MonthlyRate, l.NumPayments, l.Structure)
}

// AnnualDebtService is twelve scheduled payments. The analyzer holds it constant for the
// whole holding period.
func (l Loan) AnnualDebtService() float64 {
	return l.Payment() * 12
}

// BalanceAfterYears returns the outstanding principal at the end of the given year
func (l Loan) BalanceAfterYears(years int) float64 {
	return RemainingBalance(l.Amount, l.MonthlyRate, l.NumPayments, years*12,
		l.Structure, l.InterestOnlyYears, l.RefinanceYears)
}

// ScheduleYear is one row of the yearly loan schedule
type ScheduleYear struct {
	Year             int     `json:"year"`
	BeginningBalance float64 `json:"beginning_balance"`
	DebtService      float64 `json:"debt_service"`
	PrincipalPaid    float64 `json:"principal_paid"`
	InterestPaid     float64 `json:"interest_paid"`
	EndingBalance    float64 `json:"ending_balance"`
}

// YearlySchedule builds the loan-balance table for years 1..years.
// Principal is the drop in balance; interest is the constant debt service minus principal,
// floored at zero where the balance model and the payment model disagree (refinance or sale
// payoff after an interest-only period).
func YearlySchedule(l Loan, years int) []ScheduleYear {
	if years < 1 {
		return nil
	}

	debtService := l.AnnualDebtService()
	schedule := make([]ScheduleYear, 0, years)
	begin := l.Amount
	for y := 1; y <= years; y++ {
		end := l.BalanceAfterYears(y)
		principal := begin - end
		schedule = append(schedule, ScheduleYear{
			Year:             y,
			BeginningBalance: begin,
			DebtService:      debtService,
			PrincipalPaid:    principal,
			InterestPaid:     math.Max(0, debtService-principal),
			EndingBalance:    end,
		})
		begin = end
	}
	return schedule
}
