package listing

import (
	"math"

	"offer_analyzer/pkg/core/assumption"
)

// Facts are the values found on a listing page; nil means not found.
// Percentages are whole numbers, money is in dollars, rent is monthly per unit.
type Facts struct {
	Name          string   `json:"name"`
	AskingPrice   *float64 `json:"asking_price,omitempty"`
	PricePerUnit  *float64 `json:"price_per_unit,omitempty"`
	Units         *float64 `json:"units,omitempty"`
	AverageRent   *float64 `json:"average_rent,omitempty"`
	CapRate       *float64 `json:"cap_rate,omitempty"`
	NOI           *float64 `json:"noi,omitempty"`
	PropertyTaxes *float64 `json:"property_taxes,omitempty"`
	Insurance     *float64 `json:"insurance,omitempty"`
	VacancyRate   *float64 `json:"vacancy_rate,omitempty"`
	Occupancy     *float64 `json:"occupancy,omitempty"`
	YearBuilt     *float64 `json:"year_built,omitempty"`

	Unrecognized []string `json:"unrecognized,omitempty"`

	// raw cell text of each unrecognized label
	pending map[string]string
}

// derive fills gaps that follow from other facts
func (f *Facts) derive() {
	if f.VacancyRate == nil && f.Occupancy != nil {
		setOnce(&f.VacancyRate, math.Max(0, 100-*f.Occupancy))
	}
	if f.Units == nil && f.AskingPrice != nil && f.PricePerUnit != nil && *f.PricePerUnit > 0 {
		setOnce(&f.Units, math.Round(*f.AskingPrice / *f.PricePerUnit))
	}
	if f.AskingPrice == nil && f.Units != nil && f.PricePerUnit != nil {
		setOnce(&f.AskingPrice, *f.Units * *f.PricePerUnit)
	}
	if f.CapRate == nil && f.NOI != nil && f.AskingPrice != nil && *f.AskingPrice > 0 {
		setOnce(&f.CapRate, *f.NOI / *f.AskingPrice * 100)
	}
}

func (f *Facts) count() int {
	n := 0
	for _, v := range []*float64{f.AskingPrice, f.PricePerUnit, f.Units, f.AverageRent, f.CapRate,
		f.NOI, f.PropertyTaxes, f.Insurance, f.VacancyRate, f.Occupancy, f.YearBuilt} {
		if v != nil {
			n++
		}
	}
	return n
}

// Apply returns a copy of a seeded with every fact that was found. The listing cap rate
// becomes the disposition cap rate only when none is set.
func (f *Facts) Apply(a assumption.Assumptions) assumption.Assumptions {
	if f.AskingPrice != nil {
		a.PurchasePrice = *f.AskingPrice
	}
	if f.Units != nil {
		a.NumberOfUnits = int(math.Round(*f.Units))
	}
	if f.AverageRent != nil {
		a.AverageMonthlyRent = *f.AverageRent
	}
	if f.VacancyRate != nil {
		a.VacancyRate = *f.VacancyRate
	}
	if f.PropertyTaxes != nil {
		a.Expenses.PropertyTaxes = *f.PropertyTaxes
	}
	if f.Insurance != nil {
		a.Expenses.Insurance = *f.Insurance
	}
	if f.CapRate != nil && a.DispositionCapRate == 0 {
		a.DispositionCapRate = *f.CapRate
	}
	return a
}
