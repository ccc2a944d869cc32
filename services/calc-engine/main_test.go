package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"offer_analyzer/pkg/core/analysis"
	"offer_analyzer/pkg/core/grading"
)

const deal = `{purchase_price: 1200000, number_of_units: 12, average_monthly_rent: 1100, down_payment_percent: 25, interest_rate: 6.5, amortization_years: 30, holding_period_years: 5, disposition_cap_rate: 7}`

func TestRun_Calculate(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"-mode", "calculate", "-data", deal}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	var out analysis.Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.YearDetails) != 5 || out.Metrics.LoanAmount != 900000 {
		t.Errorf("unexpected output: %d years, loan %.2f", len(out.YearDetails), out.Metrics.LoanAmount)
	}
}

func TestRun_Grade(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"-mode", "grade", "-data", deal}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	var g grading.GradeResult
	if err := json.Unmarshal(buf.Bytes(), &g); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if g.Grade == "" || g.Grade == grading.GradeNotApplicable {
		t.Errorf("expected a letter grade, got %q", g.Grade)
	}
}

func TestRun_CheckFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deal.hjson")
	if err := os.WriteFile(path, []byte(`{purchase_price: 1200000, vacancy_rate: -3}`), 0644); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := run([]string{"-mode", "check", "-file", path}, &buf); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := buf.String()
	for _, want := range []string{"clamped", "Success: pro forma ties out", "Flag [missing_inputs]", "number_of_units"} {
		if !strings.Contains(got, want) {
			t.Errorf("check output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Error:") {
		t.Errorf("unexpected check output: %s", got)
	}
}

func TestRun_CheckTiesOutNetEquity(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"-mode", "calculate", "-data", deal}, &buf); err != nil {
		t.Fatalf("calculate: %v", err)
	}
	var out analysis.Output
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}

	buf.Reset()
	if err := run([]string{"-mode", "check", "-data", deal}, &buf); err != nil {
		t.Fatalf("check: %v", err)
	}
	want := fmt.Sprintf("Success: net equity ties out at year 5 (%.2f)", out.ProjectedEquityAtHorizon)
	if !strings.Contains(buf.String(), want) {
		t.Errorf("expected %q in:\n%s", want, buf.String())
	}
	if out.ProjectedEquityAtHorizon <= 0 {
		t.Errorf("expected positive net equity, got %.2f", out.ProjectedEquityAtHorizon)
	}
}

func TestRun_ReportAndImport(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	var buf bytes.Buffer
	if err := run([]string{"-mode", "report", "-format", "html", "-name", "Oak Street", "-data", deal}, &buf); err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(buf.String(), "<h1>Oak Street</h1>") {
		t.Errorf("expected an HTML memo, got %s", buf.String())
	}

	buf.Reset()
	page := `<h1>Oak Street</h1><dl><dt>Price</dt><dd>$1,200,000</dd><dt>Units</dt><dd>12</dd></dl>`
	if err := run([]string{"-mode", "import", "-data", page}, &buf); err != nil {
		t.Fatalf("import: %v", err)
	}
	if !strings.Contains(buf.String(), `"purchase_price": 1200000`) {
		t.Errorf("expected the asking price in the seeded assumptions, got %s", buf.String())
	}
}

func TestRun_Errors(t *testing.T) {
	cases := map[string][]string{
		"no data":      {"-mode", "calculate"},
		"unknown mode": {"-mode", "teleport", "-data", deal},
		"bad format":   {"-mode", "report", "-format", "pdf", "-data", deal},
		"missing file": {"-file", "/nonexistent/deal.json"},
	}
	for name, args := range cases {
		if err := run(args, &bytes.Buffer{}); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
