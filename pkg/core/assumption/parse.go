package assumption

import (
	"fmt"

	"offer_analyzer/pkg/core/utils"
)

// requiredFields must be set for an analysis to produce anything but zeros
var requiredFields = []string{"purchase_price", "number_of_units", "average_monthly_rent"}

// Parse decodes a scenario file that may be strict JSON, slightly broken JSON or Hjson.
// Omitted fields keep the values from Default(). The result is not sanitized.
func Parse(raw string) (Assumptions, error) {
	a := Default()
	if _, err := utils.SmartParse(raw, &a); err != nil {
		return Assumptions{}, fmt.Errorf("failed to parse assumptions: %w", err)
	}
	return a, nil
}

// Missing lists required inputs that are still zero
func (a Assumptions) Missing() []string {
	return utils.MissingFields(a, requiredFields...)
}
