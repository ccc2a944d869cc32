// Package report renders a deal memo for a scenario as Markdown or HTML
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"offer_analyzer/pkg/core/analysis"
	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/core/grading"
	"offer_analyzer/pkg/core/utils"
	"offer_analyzer/pkg/core/validate"
)

// Format names accepted by Render
const (
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)

var breakdownLabels = []struct {
	metric string
	label  string
}{
	{grading.MetricIRR, "IRR"},
	{grading.MetricCashOnCash, "Cash-on-cash"},
	{grading.MetricDSCR, "DSCR"},
	{grading.MetricCapRate, "Cap rate"},
	{grading.MetricBreakEven, "Break-even year"},
	{grading.MetricExpenseRatio, "Expense ratio"},
}

// Markdown renders the memo for one analyzed scenario. The assumptions are sanitized the
// same way Analyze does, so the inputs shown match the figures computed from them.
func Markdown(name string, a assumption.Assumptions, out analysis.Output) string {
	if name == "" {
		name = "Untitled offer"
	}
	a = a.Sanitize()
	m := out.Metrics
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", name)
	fmt.Fprintf(&sb, "**Grade %s** (score %.1f, class %s, %s market)\n\n",
		out.Grade.Grade, out.Grade.Score, out.Grade.Classification.AssetClass, out.Grade.Classification.MarketTier)

	sb.WriteString("## Summary\n\n")
	sb.WriteString(utils.MarkdownTable(
		[]string{"Metric", "Value"}, []string{"l", "r"},
		[][]string{
			{"Purchase price", money(a.PurchasePrice)},
			{"Price per unit", money(m.PricePerUnit)},
			{"Total initial investment", money(m.TotalInitialInvestment)},
			{fmt.Sprintf("%d-year IRR", a.HoldingPeriodYears), percent(out.IRR)},
			{"ROI at horizon", percent(out.ROIAtHorizon)},
			{"Projected equity at horizon", money(out.ProjectedEquityAtHorizon)},
			{"Break-even year", breakEven(out.BreakEvenYear)},
		}))

	sb.WriteString("\n## Going-in metrics\n\n")
	sb.WriteString(utils.MarkdownTable(
		[]string{"Metric", "Value"}, []string{"l", "r"},
		[][]string{
			{"Cap rate", percent(m.CapRate)},
			{"Cash-on-cash", percent(m.CashOnCash)},
			{"DSCR", dscr(m.DSCR, m.LoanAmount)},
			{"Expense ratio", percent(m.ExpenseRatio)},
			{"Gross rent multiplier", fmt.Sprintf("%.2f", m.GrossRentMultiplier)},
			{"Going-in NOI", money(m.GoingInNOI)},
		}))

	sb.WriteString("\n## Financing\n\n")
	sb.WriteString(utils.MarkdownTable(
		[]string{"Term", "Value"}, []string{"l", "r"},
		[][]string{
			{"Loan amount", money(m.LoanAmount)},
			{"Structure", loanStructure(a)},
			{"Interest rate", percent(a.InterestRate)},
			{"Monthly payment", money(m.MonthlyPayment)},
			{"Annual debt service", money(m.AnnualDebtService)},
			{"Balance at horizon", money(m.LoanBalanceAtHorizon)},
		}))

	sb.WriteString("\n## Pro forma\n\n")
	rows := make([][]string, 0, len(out.YearDetails))
	for _, d := range out.YearDetails {
		rows = append(rows, []string{
			strconv.Itoa(d.Year),
			money(d.GrossPotentialRent),
			money(d.EffectiveGrossIncome),
			money(d.OperatingExpenses),
			money(d.NOI),
			money(d.DebtService),
			money(d.AnnualCashFlow),
			money(d.CumulativeCashFlow),
		})
	}
	sb.WriteString(utils.MarkdownTable(
		[]string{"Year", "GPR", "EGI", "OpEx", "NOI", "Debt service", "Cash flow", "Cumulative"},
		[]string{"l", "r", "r", "r", "r", "r", "r", "r"},
		rows))

	sb.WriteString("\n## Disposition\n\n")
	sb.WriteString(utils.MarkdownTable(
		[]string{"Item", "Value"}, []string{"l", "r"},
		[][]string{
			{"Exit cap rate", percent(a.DispositionCapRate)},
			{"Sale price", money(m.SalePrice)},
			{"Selling costs", money(m.SellingCosts)},
			{"Loan payoff", money(m.LoanBalanceAtHorizon)},
			{"Net equity", money(out.ProjectedEquityAtHorizon)},
		}))

	if len(out.Grade.Breakdown) > 0 {
		sb.WriteString("\n## Grade breakdown\n\n")
		rows := make([][]string, 0, len(breakdownLabels))
		for _, b := range breakdownLabels {
			rows = append(rows, []string{b.label, fmt.Sprintf("%.1f", out.Grade.Breakdown[b.metric])})
		}
		sb.WriteString(utils.MarkdownTable([]string{"Metric", "Score"}, []string{"l", "r"}, rows))
	}

	var flags []string
	for _, w := range out.Warnings {
		if w.Code != validate.WarnMissingInputs {
			flags = append(flags, "- "+w.Message)
		}
	}
	if len(flags) > 0 {
		sb.WriteString("\n## Flags\n\n")
		sb.WriteString(strings.Join(flags, "\n") + "\n")
	}

	if missing := a.Missing(); len(missing) > 0 {
		fmt.Fprintf(&sb, "\n> Missing inputs: %s\n", strings.Join(missing, ", "))
	}
	return sb.String()
}

// HTML renders the memo and converts it with goldmark
func HTML(name string, a assumption.Assumptions, out analysis.Output) (string, error) {
	return utils.MarkdownToHTML(Markdown(name, a, out))
}

// Render picks the output format; unknown formats fall back to Markdown
func Render(format, name string, a assumption.Assumptions, out analysis.Output) (string, error) {
	if format == FormatHTML {
		return HTML(name, a, out)
	}
	return Markdown(name, a, out), nil
}

func money(v float64) string {
	if v < 0 {
		return "-$" + humanize.CommafWithDigits(-v, 0)
	}
	return "$" + humanize.CommafWithDigits(v, 0)
}

func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

func dscr(v, loan float64) string {
	if loan <= 0 {
		return "n/a (all cash)"
	}
	return fmt.Sprintf("%.2fx", v)
}

func breakEven(year *int) string {
	if year == nil {
		return "not within hold"
	}
	return "Year " + strconv.Itoa(*year)
}

func loanStructure(a assumption.Assumptions) string {
	if a.LoanStructure == assumption.LoanInterestOnly {
		return fmt.Sprintf("Interest-only %d yrs, refinance %d yrs", a.InterestOnlyYears, a.RefinanceYears)
	}
	return fmt.Sprintf("Amortizing %d yrs", a.AmortizationYears)
}
