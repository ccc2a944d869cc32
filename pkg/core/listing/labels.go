package listing

import (
	"context"
	"fmt"
	"strings"

	"offer_analyzer/pkg/core/llm"
	"offer_analyzer/pkg/core/utils"
)

// =============================================================================
// LABEL MAPPER - places labels the keyword table missed
// =============================================================================

// LabelMapper asks a model which fact an unrecognized label holds. The model only picks
// the field; the value is still read from the cell by ParseValue.
type LabelMapper struct {
	provider llm.Provider
}

// NewLabelMapper returns nil when there is no provider, which disables the pass
func NewLabelMapper(provider llm.Provider) *LabelMapper {
	if provider == nil {
		return nil
	}
	return &LabelMapper{provider: provider}
}

// LabelMapping pairs a listing label with a Facts field name
type LabelMapping struct {
	Label string `json:"label"`
	Field string `json:"field"`
}

type mappingResponse struct {
	Mappings []LabelMapping `json:"mappings"`
}

var fieldDescriptions = map[string]string{
	"price_per_unit": "asking price divided by unit count, dollars",
	"asking_price":   "total asking price, dollars",
	"units":          "number of apartment units",
	"average_rent":   "average monthly rent per unit, dollars",
	"cap_rate":       "capitalization rate, percent",
	"noi":            "annual net operating income, dollars",
	"property_taxes": "annual property taxes, dollars",
	"insurance":      "annual insurance premium, dollars",
	"vacancy_rate":   "vacancy, percent",
	"occupancy":      "occupancy, percent",
	"year_built":     "year the property was built",
}

// ParseWithMapper runs Parse, then lets mapper place the unrecognized labels.
// A nil mapper or a failed model call leaves the keyword result untouched.
func ParseWithMapper(ctx context.Context, html string, mapper *LabelMapper) (*Facts, error) {
	facts, err := Parse(html)
	if err != nil {
		return nil, err
	}
	if mapper == nil {
		return facts, nil
	}
	mapped, err := mapper.Map(ctx, facts)
	if err != nil {
		fmt.Printf("[LISTING] Label mapping skipped: %v\n", err)
		return facts, nil
	}
	if mapped > 0 {
		fmt.Printf("[LISTING] Model mapped %d of the unrecognized labels\n", mapped)
	}
	return facts, nil
}

// Map assigns every label the model places on a known field whose cell parses as a number.
// Fields already found by keyword keep their value. Returns how many labels were placed.
func (m *LabelMapper) Map(ctx context.Context, f *Facts) (int, error) {
	if m == nil || len(f.Unrecognized) == 0 {
		return 0, nil
	}

	systemPrompt, userPrompt := m.buildPrompt(f)
	response, err := m.provider.GenerateResponse(ctx, userPrompt, systemPrompt, map[string]interface{}{
		"response_format": map[string]interface{}{"type": "json_object"},
	})
	if err != nil {
		return 0, fmt.Errorf("LLM query failed: %w", err)
	}

	var parsed mappingResponse
	if _, err := utils.SmartParse(response, &parsed); err != nil {
		return 0, fmt.Errorf("failed to parse label mappings: %w", err)
	}

	placed := make(map[string]bool)
	for _, mp := range parsed.Mappings {
		raw, ok := f.pending[mp.Label]
		if !ok || placed[mp.Label] {
			continue
		}
		fd, ok := fieldByName(mp.Field)
		if !ok {
			continue
		}
		v, ok := ParseValue(raw)
		if !ok {
			continue
		}
		fd.assign(f, v)
		placed[mp.Label] = true
	}

	remaining := f.Unrecognized[:0]
	for _, label := range f.Unrecognized {
		if placed[label] {
			delete(f.pending, label)
			continue
		}
		remaining = append(remaining, label)
	}
	f.Unrecognized = remaining
	f.derive()
	return len(placed), nil
}

func (m *LabelMapper) buildPrompt(f *Facts) (string, string) {
	systemPrompt := "You are a multifamily acquisitions analyst. Map broker listing labels to standard fields. Reply with JSON only."

	var known strings.Builder
	for _, fd := range fields {
		fmt.Fprintf(&known, "%s - %s\n", fd.name, fieldDescriptions[fd.name])
	}
	var labels strings.Builder
	for _, label := range f.Unrecognized {
		fmt.Fprintf(&labels, "%q: %q\n", label, f.pending[label])
	}

	userPrompt := fmt.Sprintf(`Map these listing labels to fields.

LABELS (label: cell text):
%s
FIELDS:
%s
Output JSON:
{"mappings": [{"label": "Suites", "field": "units"}]}

Rules:
- label must be copied exactly from the list above
- Only map labels that clearly hold one of the fields
- Leave out labels that match nothing`, labels.String(), known.String())

	return systemPrompt, userPrompt
}
