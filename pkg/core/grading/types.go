package grading

// AssetClass is the physical/quality class of the property
type AssetClass string

const (
	ClassA AssetClass = "A"
	ClassB AssetClass = "B"
	ClassC AssetClass = "C"
	ClassD AssetClass = "D"
)

// MarketTier is the liquidity tier of the property's market
type MarketTier string

const (
	TierPrimary   MarketTier = "primary"
	TierSecondary MarketTier = "secondary"
	TierTertiary  MarketTier = "tertiary"
)

// Metric names used in weights, benchmark cells and the grade breakdown
const (
	MetricIRR          = "irr"
	MetricCashOnCash   = "cash_on_cash"
	MetricDSCR         = "dscr"
	MetricCapRate      = "cap_rate"
	MetricBreakEven    = "break_even"
	MetricExpenseRatio = "expense_ratio"
)

var metricOrder = []string{MetricIRR, MetricCashOnCash, MetricDSCR, MetricCapRate, MetricBreakEven, MetricExpenseRatio}

// GradeNotApplicable is returned when a deal has no price or no units
const GradeNotApplicable = "N/A"

// Characteristics are the property facts the classifier looks at
type Characteristics struct {
	PurchasePrice      float64 `json:"purchase_price"`
	NumberOfUnits      int     `json:"number_of_units"`
	AverageMonthlyRent float64 `json:"average_monthly_rent"`
	CapRate            float64 `json:"cap_rate"`      // %
	ExpenseRatio       float64 `json:"expense_ratio"` // % of EGI
}

// PricePerUnit returns 0 for a deal without units
func (c Characteristics) PricePerUnit() float64 {
	if c.NumberOfUnits <= 0 {
		return 0
	}
	return c.PurchasePrice / float64(c.NumberOfUnits)
}

// Classification is the benchmark cell a deal is graded against
type Classification struct {
	AssetClass AssetClass `json:"asset_class"`
	MarketTier MarketTier `json:"market_tier"`
}

// Metrics are the summary figures a deal is graded on. Percentages are whole units.
type Metrics struct {
	IRR           float64 `json:"irr"`
	CashOnCash    float64 `json:"cash_on_cash"`
	DSCR          float64 `json:"dscr"`
	CapRate       float64 `json:"cap_rate"`
	ExpenseRatio  float64 `json:"expense_ratio"`
	BreakEvenYear *int    `json:"break_even_year"`

	// DebtFree marks an all-cash deal; DSCR is undefined and scores in full
	DebtFree bool `json:"debt_free"`

	// Gradeable is false when the deal has no purchase price or no units
	Gradeable bool `json:"gradeable"`
}

// GradeResult is the output of CalculateGrade
type GradeResult struct {
	Grade          string             `json:"grade"`
	Score          float64            `json:"score"`
	Breakdown      map[string]float64 `json:"breakdown"`
	Classification Classification     `json:"classification"`
}
