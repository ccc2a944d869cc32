package listing

import (
	"math"
	"testing"

	"offer_analyzer/pkg/core/assumption"
)

const sampleListing = `<html>
<head><title>Listing 4471</title></head>
<body>
  <h1>Maple Court Apartments</h1>
  <table class="summary">
    <tr><th>Asking Price</th><td>$7,000,000</td></tr>
    <tr><th>Price per Unit</th><td>$148,936</td></tr>
    <tr><th>Units</th><td>47</td></tr>
    <tr><th>Cap Rate</th><td>6.25%</td></tr>
    <tr><th>Unit Mix</th><td>1BR / 2BR</td></tr>
  </table>
  <dl class="financials">
    <dt>Average Rent</dt><dd>$2,500/mo</dd>
    <dt>Property Taxes</dt><dd>$12,000</dd>
    <dt>Insurance:</dt><dd>$10,000</dd>
    <dt>Occupancy</dt><dd>94%</dd>
  </dl>
</body>
</html>`

func TestParse_TableAndDefinitionList(t *testing.T) {
	f, err := Parse(sampleListing)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if f.Name != "Maple Court Apartments" {
		t.Errorf("expected the h1 as name, got %q", f.Name)
	}

	checks := []struct {
		name     string
		got      *float64
		expected float64
	}{
		{"asking price", f.AskingPrice, 7000000},
		{"price per unit", f.PricePerUnit, 148936},
		{"units", f.Units, 47},
		{"cap rate", f.CapRate, 6.25},
		{"average rent", f.AverageRent, 2500},
		{"taxes", f.PropertyTaxes, 12000},
		{"insurance", f.Insurance, 10000},
		{"occupancy", f.Occupancy, 94},
		{"vacancy", f.VacancyRate, 6},
	}
	for _, c := range checks {
		if c.got == nil {
			t.Errorf("%s: not found", c.name)
			continue
		}
		if math.Abs(*c.got-c.expected) > 1e-9 {
			t.Errorf("%s: expected %v, got %v", c.name, c.expected, *c.got)
		}
	}

	if len(f.Unrecognized) != 1 || f.Unrecognized[0] != "Unit Mix" {
		t.Errorf("expected Unit Mix to be unrecognized, got %v", f.Unrecognized)
	}
}

func TestParse_Derivations(t *testing.T) {
	html := `<table>
		<tr><td>List Price</td><td>$4.8M</td></tr>
		<tr><td>Price/Unit</td><td>$120K</td></tr>
		<tr><td>NOI</td><td>$312,000</td></tr>
	</table>`
	f, err := Parse(html)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.Units == nil || *f.Units != 40 {
		t.Errorf("expected 40 units from price / price per unit, got %v", f.Units)
	}
	if f.CapRate == nil || math.Abs(*f.CapRate-6.5) > 1e-9 {
		t.Errorf("expected cap rate 6.5 from NOI / price, got %v", f.CapRate)
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	f, err := Parse("")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if f.count() != 0 {
		t.Errorf("expected no facts, got %d", f.count())
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw      string
		expected float64
		ok       bool
	}{
		{"$7,250,000", 7250000, true},
		{"$7.25M", 7250000, true},
		{"$7.25 MM", 7250000, true},
		{"$450K", 450000, true},
		{"$150K/unit", 150000, true},
		{"$7.25M/unit", 7250000, true},
		{"$2.1 million", 2100000, true},
		{"12 months", 12, true},
		{"3 kitchens", 3, true},
		{"5.5%", 5.5, true},
		{"$1,150/mo", 1150, true},
		{"48 units", 48, true},
		{"($12,000)", -12000, true},
		{"N/A", 0, false},
		{"—", 0, false},
		{"call broker", 0, false},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			v, ok := ParseValue(c.raw)
			if ok != c.ok {
				t.Fatalf("expected ok=%v, got %v", c.ok, ok)
			}
			if math.Abs(v-c.expected) > 1e-6 {
				t.Errorf("expected %v, got %v", c.expected, v)
			}
		})
	}
}

func TestFacts_Apply(t *testing.T) {
	f, err := Parse(sampleListing)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	base := assumption.Default()
	base.InterestRate = 7
	a := f.Apply(base)

	if a.PurchasePrice != 7000000 || a.NumberOfUnits != 47 || a.AverageMonthlyRent != 2500 {
		t.Errorf("core facts not applied: %+v", a)
	}
	if a.VacancyRate != 6 || a.Expenses.PropertyTaxes != 12000 || a.Expenses.Insurance != 10000 {
		t.Errorf("operating facts not applied: %+v", a)
	}
	if a.DispositionCapRate != 6.25 {
		t.Errorf("expected the listing cap rate as exit cap, got %v", a.DispositionCapRate)
	}
	if a.InterestRate != 7 {
		t.Error("facts not on the listing must keep their values")
	}

	preset := assumption.Default()
	preset.DispositionCapRate = 7
	if got := f.Apply(preset).DispositionCapRate; got != 7 {
		t.Errorf("an explicit exit cap must win, got %v", got)
	}
}
