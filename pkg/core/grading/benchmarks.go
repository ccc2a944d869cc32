package grading

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v2"
)

//go:embed benchmarks.yaml
var defaultBenchmarksYAML []byte

// Range maps a metric onto 0..100: the floor scores 0 and the target scores 100.
// A target below the floor marks a lower-is-better metric.
type Range struct {
	Floor  float64 `yaml:"floor" json:"floor"`
	Target float64 `yaml:"target" json:"target"`
}

// Rule is one classification criterion set. Zero-valued criteria are ignored.
type Rule struct {
	Class            AssetClass `yaml:"class,omitempty" json:"class,omitempty"`
	Tier             MarketTier `yaml:"tier,omitempty" json:"tier,omitempty"`
	MinAvgRent       float64    `yaml:"min_avg_rent" json:"min_avg_rent,omitempty"`
	MinPricePerUnit  float64    `yaml:"min_price_per_unit" json:"min_price_per_unit,omitempty"`
	MinPurchasePrice float64    `yaml:"min_purchase_price" json:"min_purchase_price,omitempty"`
	MinUnits         int        `yaml:"min_units" json:"min_units,omitempty"`
	MaxCapRate       float64    `yaml:"max_cap_rate" json:"max_cap_rate,omitempty"`
	MaxExpenseRatio  float64    `yaml:"max_expense_ratio" json:"max_expense_ratio,omitempty"`
}

// Matches reports whether every configured criterion holds
func (r Rule) Matches(c Characteristics) bool {
	if r.MinAvgRent > 0 && c.AverageMonthlyRent < r.MinAvgRent {
		return false
	}
	if r.MinPricePerUnit > 0 && c.PricePerUnit() < r.MinPricePerUnit {
		return false
	}
	if r.MinPurchasePrice > 0 && c.PurchasePrice < r.MinPurchasePrice {
		return false
	}
	if r.MinUnits > 0 && c.NumberOfUnits < r.MinUnits {
		return false
	}
	if r.MaxCapRate > 0 && c.CapRate > r.MaxCapRate {
		return false
	}
	if r.MaxExpenseRatio > 0 && c.ExpenseRatio > r.MaxExpenseRatio {
		return false
	}
	return true
}

// Cell holds the target ranges for one asset class × market tier
type Cell struct {
	AssetClass   AssetClass `yaml:"asset_class" json:"asset_class"`
	MarketTier   MarketTier `yaml:"market_tier" json:"market_tier"`
	IRR          Range      `yaml:"irr" json:"irr"`
	CashOnCash   Range      `yaml:"cash_on_cash" json:"cash_on_cash"`
	DSCR         Range      `yaml:"dscr" json:"dscr"`
	CapRate      Range      `yaml:"cap_rate" json:"cap_rate"`
	BreakEven    Range      `yaml:"break_even" json:"break_even"`
	ExpenseRatio Range      `yaml:"expense_ratio" json:"expense_ratio"`
}

// Band maps a minimum composite score to a letter grade
type Band struct {
	MinScore float64 `yaml:"min_score" json:"min_score"`
	Grade    string  `yaml:"grade" json:"grade"`
}

// Benchmarks is the full grading configuration. Treat it as read-only once loaded.
type Benchmarks struct {
	Weights      map[string]float64 `yaml:"weights" json:"weights"`
	GradeBands   []Band             `yaml:"grade_bands" json:"grade_bands"`
	AssetClasses []Rule             `yaml:"asset_classes" json:"asset_classes"`
	MarketTiers  []Rule             `yaml:"market_tiers" json:"market_tiers"`
	Cells        []Cell             `yaml:"cells" json:"cells"`

	index map[Classification]Cell
}

var (
	defaultBenchmarks *Benchmarks
	defaultOnce       sync.Once
)

// Default returns the embedded benchmark table, parsed once
func Default() *Benchmarks {
	defaultOnce.Do(func() {
		b, err := ParseBenchmarks(defaultBenchmarksYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded benchmarks are invalid: %v", err))
		}
		defaultBenchmarks = b
	})
	return defaultBenchmarks
}

// LoadBenchmarks reads a benchmark table from a YAML file
func LoadBenchmarks(path string) (*Benchmarks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmarks %s: %w", path, err)
	}
	b, err := ParseBenchmarks(data)
	if err != nil {
		return nil, fmt.Errorf("failed to load benchmarks %s: %w", path, err)
	}
	return b, nil
}

// ParseBenchmarks decodes and validates a YAML benchmark table
func ParseBenchmarks(data []byte) (*Benchmarks, error) {
	var b Benchmarks
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to parse benchmarks: %w", err)
	}

	// bands are evaluated highest first
	sort.SliceStable(b.GradeBands, func(i, j int) bool {
		return b.GradeBands[i].MinScore > b.GradeBands[j].MinScore
	})

	b.index = make(map[Classification]Cell, len(b.Cells))
	for _, c := range b.Cells {
		b.index[Classification{AssetClass: c.AssetClass, MarketTier: c.MarketTier}] = c
	}

	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the table is complete enough to grade any deal
func (b *Benchmarks) Validate() error {
	if len(b.AssetClasses) == 0 {
		return fmt.Errorf("benchmarks: no asset class rules")
	}
	if len(b.MarketTiers) == 0 {
		return fmt.Errorf("benchmarks: no market tier rules")
	}
	if len(b.GradeBands) == 0 {
		return fmt.Errorf("benchmarks: no grade bands")
	}

	var total float64
	for _, m := range metricOrder {
		w, ok := b.Weights[m]
		if !ok {
			return fmt.Errorf("benchmarks: missing weight for %s", m)
		}
		if w < 0 {
			return fmt.Errorf("benchmarks: negative weight for %s", m)
		}
		total += w
	}
	if total <= 0 {
		return fmt.Errorf("benchmarks: weights sum to zero")
	}

	for _, class := range b.classes() {
		for _, tier := range b.tiers() {
			if _, ok := b.index[Classification{AssetClass: class, MarketTier: tier}]; !ok {
				return fmt.Errorf("benchmarks: missing cell %s/%s", class, tier)
			}
		}
	}
	return nil
}

// Cell returns the ranges for a classification. Unknown combinations fall back to the
// first cell of the same asset class, then to the first cell of the table.
func (b *Benchmarks) Cell(cls Classification) Cell {
	if c, ok := b.index[cls]; ok {
		return c
	}
	for _, c := range b.Cells {
		if c.AssetClass == cls.AssetClass {
			return c
		}
	}
	if len(b.Cells) > 0 {
		return b.Cells[0]
	}
	return Cell{}
}

// classes lists the distinct asset classes in rule order
func (b *Benchmarks) classes() []AssetClass {
	seen := map[AssetClass]bool{}
	var out []AssetClass
	for _, r := range b.AssetClasses {
		if !seen[r.Class] {
			seen[r.Class] = true
			out = append(out, r.Class)
		}
	}
	return out
}

// tiers lists the distinct market tiers in rule order
func (b *Benchmarks) tiers() []MarketTier {
	seen := map[MarketTier]bool{}
	var out []MarketTier
	for _, r := range b.MarketTiers {
		if !seen[r.Tier] {
			seen[r.Tier] = true
			out = append(out, r.Tier)
		}
	}
	return out
}
