// Package grading classifies a multifamily deal and grades it against benchmark ranges.
// Thresholds are data (benchmarks.yaml), not code; the engine only interprets them.
package grading

import (
	"math"
)

// Engine grades deals against one benchmark table
type Engine struct {
	benchmarks *Benchmarks
}

// NewEngine creates an engine; a nil table means the embedded defaults
func NewEngine(b *Benchmarks) *Engine {
	if b == nil {
		b = Default()
	}
	return &Engine{benchmarks: b}
}

// Benchmarks exposes the table the engine grades against
func (e *Engine) Benchmarks() *Benchmarks {
	return e.benchmarks
}

// DetectAssetClass returns the class of the first matching rule, or the last rule's class
// when none match
func (e *Engine) DetectAssetClass(c Characteristics) AssetClass {
	rules := e.benchmarks.AssetClasses
	for _, r := range rules {
		if r.Matches(c) {
			return r.Class
		}
	}
	return rules[len(rules)-1].Class
}

// DetectMarketTier returns the tier of the first matching rule, or the last rule's tier
// when none match
func (e *Engine) DetectMarketTier(c Characteristics) MarketTier {
	rules := e.benchmarks.MarketTiers
	for _, r := range rules {
		if r.Matches(c) {
			return r.Tier
		}
	}
	return rules[len(rules)-1].Tier
}

// Classify runs both detectors
func (e *Engine) Classify(c Characteristics) Classification {
	return Classification{
		AssetClass: e.DetectAssetClass(c),
		MarketTier: e.DetectMarketTier(c),
	}
}

// CalculateGrade scores each metric against its {class × tier} range, weights the
// sub-scores into a 0–100 composite and maps it to a letter grade.
//
// Sub-score = clamp((value − floor) / (target − floor), 0, 1) × 100
//
// A deal without a break-even year scores 0 on that metric; an all-cash deal scores 100
// on DSCR. Metrics outside the ranges are clamped, never rejected.
func (e *Engine) CalculateGrade(m Metrics, cls Classification) GradeResult {
	if !m.Gradeable {
		return GradeResult{
			Grade:          GradeNotApplicable,
			Breakdown:      map[string]float64{},
			Classification: cls,
		}
	}

	cell := e.benchmarks.Cell(cls)

	breakdown := map[string]float64{
		MetricIRR:          rangeScore(m.IRR, cell.IRR),
		MetricCashOnCash:   rangeScore(m.CashOnCash, cell.CashOnCash),
		MetricCapRate:      rangeScore(m.CapRate, cell.CapRate),
		MetricExpenseRatio: rangeScore(m.ExpenseRatio, cell.ExpenseRatio),
	}

	if m.DebtFree {
		breakdown[MetricDSCR] = 100
	} else {
		breakdown[MetricDSCR] = rangeScore(m.DSCR, cell.DSCR)
	}

	if m.BreakEvenYear == nil {
		breakdown[MetricBreakEven] = 0
	} else {
		breakdown[MetricBreakEven] = rangeScore(float64(*m.BreakEvenYear), cell.BreakEven)
	}

	// fixed order keeps the float sum reproducible
	var weighted, totalWeight float64
	for _, metric := range metricOrder {
		w := e.benchmarks.Weights[metric]
		weighted += w * breakdown[metric]
		totalWeight += w
	}

	var score float64
	if totalWeight > 0 {
		score = round2(weighted / totalWeight)
	}

	return GradeResult{
		Grade:          e.letter(score),
		Score:          score,
		Breakdown:      breakdown,
		Classification: cls,
	}
}

// letter maps a composite score onto the descending grade bands
func (e *Engine) letter(score float64) string {
	bands := e.benchmarks.GradeBands
	for _, b := range bands {
		if score >= b.MinScore {
			return b.Grade
		}
	}
	return bands[len(bands)-1].Grade
}

// rangeScore normalizes a value onto 0..100 along a benchmark range
func rangeScore(v float64, r Range) float64 {
	if math.IsNaN(v) {
		return 0
	}
	span := r.Target - r.Floor
	if span == 0 {
		if v >= r.Target {
			return 100
		}
		return 0
	}
	ratio := (v - r.Floor) / span
	return round2(math.Max(0, math.Min(1, ratio)) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// =============================================================================
// DEFAULT-TABLE HELPERS
// =============================================================================

// DetectAssetClass classifies against the embedded benchmarks
func DetectAssetClass(c Characteristics) AssetClass {
	return NewEngine(nil).DetectAssetClass(c)
}

// DetectMarketTier classifies against the embedded benchmarks
func DetectMarketTier(c Characteristics) MarketTier {
	return NewEngine(nil).DetectMarketTier(c)
}

// CalculateGrade grades against the embedded benchmarks
func CalculateGrade(m Metrics, cls Classification) GradeResult {
	return NewEngine(nil).CalculateGrade(m, cls)
}
