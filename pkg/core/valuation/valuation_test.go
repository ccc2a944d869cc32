package valuation

import (
	"math"
	"testing"
)

func TestIRR_TwoFlowRoundTrip(t *testing.T) {
	irr := IRR([]float64{-1000, 1100}, DefaultIRRGuess)
	if math.Abs(irr-0.10) > 0.0001 {
		t.Errorf("expected IRR ≈ 0.10, got %.6f", irr)
	}
}

func TestIRR_KnownSeries(t *testing.T) {
	// -100, 60, 60: (1+r)² − 0.6(1+r) − 0.6 = 0 → r ≈ 13.07%
	irr := IRR([]float64{-100, 60, 60}, DefaultIRRGuess)
	if math.Abs(irr-0.130662) > 0.0001 {
		t.Errorf("expected IRR ≈ 0.1307, got %.6f", irr)
	}
	if npv := NPV(irr, []float64{-100, 60, 60}); math.Abs(npv) > 0.01 {
		t.Errorf("NPV at IRR should be ~0, got %.6f", npv)
	}
}

func TestIRR_NegativeReturn(t *testing.T) {
	irr := IRR([]float64{-1000, 500, 400}, DefaultIRRGuess)
	if irr >= 0 {
		t.Errorf("expected a negative IRR for a loss, got %.6f", irr)
	}
	if npv := NPV(irr, []float64{-1000, 500, 400}); math.Abs(npv) > 0.1 {
		t.Errorf("NPV at IRR should be ~0, got %.6f", npv)
	}
}

func TestIRR_EdgeCases(t *testing.T) {
	cases := []struct {
		name  string
		flows []float64
	}{
		{"nil series", nil},
		{"empty series", []float64{}},
		{"single negative", []float64{-5000}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if irr := IRR(c.flows, DefaultIRRGuess); irr != 0 {
				t.Errorf("expected 0, got %v", irr)
			}
		})
	}
}

func TestIRR_FlatDerivativeReturnsGuess(t *testing.T) {
	// a single positive flow has NPV' = 0 everywhere
	if irr := IRR([]float64{250}, 0.07); irr != 0.07 {
		t.Errorf("expected the guess back, got %v", irr)
	}
}

func TestNPV(t *testing.T) {
	npv := NPV(0.10, []float64{-1000, 1100})
	if math.Abs(npv) > 1e-9 {
		t.Errorf("expected NPV 0 at 10%%, got %v", npv)
	}
	if NPV(0, []float64{-1, 2, 3}) != 4 {
		t.Error("NPV at zero rate should be the plain sum")
	}
}

func TestCashFlowSeries(t *testing.T) {
	series := CashFlowSeries(1000, []float64{50, 60, 70}, 1200)
	expected := []float64{-1000, 50, 60, 1270}
	if len(series) != len(expected) {
		t.Fatalf("expected %d flows, got %d", len(expected), len(series))
	}
	for i := range expected {
		if series[i] != expected[i] {
			t.Errorf("flow %d: expected %v, got %v", i, expected[i], series[i])
		}
	}

	onlyInitial := CashFlowSeries(1000, nil, 1200)
	if len(onlyInitial) != 1 || onlyInitial[0] != -1000 {
		t.Errorf("expected just the initial outflow, got %v", onlyInitial)
	}
}

func TestTerminalValue(t *testing.T) {
	d := TerminalValue(600000, 6, 4000000)

	if math.Abs(d.SalePrice-10000000) > 1e-6 {
		t.Errorf("expected sale price 10,000,000, got %.2f", d.SalePrice)
	}
	if math.Abs(d.SellingCosts-200000) > 1e-6 {
		t.Errorf("expected selling costs 200,000, got %.2f", d.SellingCosts)
	}
	if math.Abs(d.NetEquity-5800000) > 1e-6 {
		t.Errorf("expected net equity 5,800,000, got %.2f", d.NetEquity)
	}
	if d.LoanPayoff != 4000000 {
		t.Errorf("expected loan payoff 4,000,000, got %.2f", d.LoanPayoff)
	}
}

func TestTerminalValue_ZeroCapRate(t *testing.T) {
	d := TerminalValue(600000, 0, 100000)
	if d.SalePrice != 0 || d.SellingCosts != 0 {
		t.Errorf("expected no sale value at a 0 cap rate, got %+v", d)
	}
	if d.NetEquity != -100000 {
		t.Errorf("expected net equity -100000, got %.2f", d.NetEquity)
	}
}

func TestROIAtHorizon(t *testing.T) {
	roi := ROIAtHorizon(1500000, 500000, 1000000)
	if math.Abs(roi-100) > 1e-9 {
		t.Errorf("expected ROI 100%%, got %.4f", roi)
	}
	if ROIAtHorizon(1, 1, 0) != 0 {
		t.Error("expected 0 ROI with no initial investment")
	}
}
