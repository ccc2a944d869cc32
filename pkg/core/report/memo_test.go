package report

import (
	"strings"
	"testing"

	"offer_analyzer/pkg/core/analysis"
	"offer_analyzer/pkg/core/assumption"
)

func memoDeal() assumption.Assumptions {
	a := assumption.Default()
	a.PurchasePrice = 7000000
	a.DownPaymentPercent = 20
	a.InterestRate = 7
	a.AmortizationYears = 30
	a.ClosingCostPercent = 3
	a.NumberOfUnits = 47
	a.AverageMonthlyRent = 2500
	a.VacancyRate = 10
	a.RentGrowthRate = 2
	a.HoldingPeriodYears = 5
	a.DispositionCapRate = 6
	return a
}

func TestMarkdown(t *testing.T) {
	a := memoDeal()
	md := Markdown("Maple Court", a, analysis.Analyze(a))

	for _, want := range []string{
		"# Maple Court",
		"## Summary",
		"| Purchase price | $7,000,000 |",
		"| Loan amount | $5,600,000 |",
		"| Structure | Amortizing 30 yrs |",
		"5-year IRR",
		"| Going-in NOI | $",
		"| Projected year-1 NOI | $",
		"## Grade breakdown",
		"## Flags",
		"- Exit cap 6.00% is below the going-in cap",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("memo missing %q", want)
		}
	}

	// header + separator + 5 years
	section := md[strings.Index(md, "## Pro forma"):strings.Index(md, "## Disposition")]
	if rows := strings.Count(section, "\n|"); rows != 7 {
		t.Errorf("expected 7 pro forma table lines, got %d", rows)
	}
	if strings.Contains(md, "Missing inputs") {
		t.Error("complete scenario should not list missing inputs")
	}
}

func TestMarkdown_IncompleteScenario(t *testing.T) {
	a := assumption.Default()
	md := Markdown("", a, analysis.Analyze(a))
	if !strings.HasPrefix(md, "# Untitled offer") {
		t.Errorf("expected the default title, got %q", md[:30])
	}
	if !strings.Contains(md, "Missing inputs: purchase_price, number_of_units, average_monthly_rent") {
		t.Error("expected the missing inputs note")
	}
	if strings.Contains(md, "## Grade breakdown") {
		t.Error("ungraded deals have no breakdown")
	}
}

func TestMarkdown_ShowsSanitizedInputs(t *testing.T) {
	a := memoDeal()
	a.HoldingPeriodYears = 0
	a.DispositionCapRate = -6
	md := Markdown("Maple Court", a, analysis.Analyze(a))

	for _, want := range []string{"| 1-year IRR |", "| Exit cap rate | 0.00% |", "| Sale price | $0 |"} {
		if !strings.Contains(md, want) {
			t.Errorf("memo missing %q", want)
		}
	}
	for _, bad := range []string{"0-year IRR", "-6.00%"} {
		if strings.Contains(md, bad) {
			t.Errorf("memo shows raw input %q", bad)
		}
	}
}

func TestHTML(t *testing.T) {
	a := memoDeal()
	html, err := Render(FormatHTML, "Maple Court", a, analysis.Analyze(a))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<h1>Maple Court</h1>") || !strings.Contains(html, "<table>") {
		t.Errorf("expected rendered HTML, got %.200s", html)
	}
}

func TestMoney(t *testing.T) {
	cases := map[float64]string{
		0:         "$0",
		1234567.4: "$1,234,567",
		-25000:    "-$25,000",
		999.25:    "$999",
	}
	for v, expected := range cases {
		if got := money(v); got != expected {
			t.Errorf("money(%v): expected %s, got %s", v, expected, got)
		}
	}
}
