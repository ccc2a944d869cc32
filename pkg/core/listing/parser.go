// Package listing pulls deal facts out of a broker listing page so an offer can be seeded
// from it instead of typed in by hand.
package listing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

// =============================================================================
// LISTING PARSER - labelled facts from <table> rows and <dl> pairs
// =============================================================================

// Parse scans every two-column table row and every dt/dd pair for known labels.
// The first value found for a field wins.
func Parse(html string) (*Facts, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing html: %w", err)
	}

	facts := &Facts{}
	facts.Name = strings.TrimSpace(doc.Find("h1").First().Text())
	if facts.Name == "" {
		facts.Name = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.Find("tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("th, td")
		if cells.Length() < 2 {
			return
		}
		label := strings.TrimSpace(cells.Eq(0).Text())
		value := strings.TrimSpace(cells.Eq(1).Text())
		facts.record(label, value)
	})

	doc.Find("dl").Each(func(i int, dl *goquery.Selection) {
		dl.Find("dt").Each(func(j int, dt *goquery.Selection) {
			dd := dt.NextFiltered("dd")
			if dd.Length() == 0 {
				return
			}
			facts.record(strings.TrimSpace(dt.Text()), strings.TrimSpace(dd.Text()))
		})
	})

	facts.derive()
	fmt.Printf("[LISTING] Parsed %q: %d facts, %d unrecognized labels\n",
		facts.Name, facts.count(), len(facts.Unrecognized))
	return facts, nil
}

// field is one fact the parser knows how to recognize. name matches the Facts JSON tag.
type field struct {
	name     string
	keywords []string
	assign   func(f *Facts, v float64)
}

// fields are checked in order; more specific labels come first so that
// "Price per Unit" never lands in the asking price
var fields = []field{
	{"price_per_unit", []string{"price per unit", "price/unit", "per unit price"}, func(f *Facts, v float64) { setOnce(&f.PricePerUnit, v) }},
	{"asking_price", []string{"asking price", "list price", "offering price", "sale price", "price"}, func(f *Facts, v float64) { setOnce(&f.AskingPrice, v) }},
	{"units", []string{"number of units", "unit count", "# of units", "total units", "units"}, func(f *Facts, v float64) { setOnce(&f.Units, v) }},
	{"average_rent", []string{"average rent", "avg rent", "avg. rent", "rent/unit", "monthly rent"}, func(f *Facts, v float64) { setOnce(&f.AverageRent, v) }},
	{"cap_rate", []string{"cap rate", "capitalization rate"}, func(f *Facts, v float64) { setOnce(&f.CapRate, v) }},
	{"noi", []string{"noi", "net operating income"}, func(f *Facts, v float64) { setOnce(&f.NOI, v) }},
	{"property_taxes", []string{"property tax", "real estate tax", "taxes"}, func(f *Facts, v float64) { setOnce(&f.PropertyTaxes, v) }},
	{"insurance", []string{"insurance"}, func(f *Facts, v float64) { setOnce(&f.Insurance, v) }},
	{"vacancy_rate", []string{"vacancy"}, func(f *Facts, v float64) { setOnce(&f.VacancyRate, v) }},
	{"occupancy", []string{"occupancy", "occupied"}, func(f *Facts, v float64) { setOnce(&f.Occupancy, v) }},
	{"year_built", []string{"year built"}, func(f *Facts, v float64) { setOnce(&f.YearBuilt, v) }},
}

func fieldByName(name string) (field, bool) {
	for _, fd := range fields {
		if fd.name == name {
			return fd, true
		}
	}
	return field{}, false
}

func (f *Facts) record(label, raw string) {
	key := strings.ToLower(strings.TrimSuffix(label, ":"))
	if key == "" {
		return
	}
	for _, fd := range fields {
		if !matches(key, fd.keywords) {
			continue
		}
		v, ok := ParseValue(raw)
		if !ok {
			return
		}
		fd.assign(f, v)
		return
	}
	if f.pending == nil {
		f.pending = make(map[string]string)
	}
	if _, seen := f.pending[label]; !seen {
		f.Unrecognized = append(f.Unrecognized, label)
		f.pending[label] = raw
	}
}

func matches(label string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(label, k) {
			return true
		}
	}
	return false
}

func setOnce(dst **float64, v float64) {
	if *dst == nil {
		*dst = &v
	}
}

var numberPattern = regexp.MustCompile(`-?\d[\d,]*(\.\d+)?|-?\.\d+`)

// ParseValue reads a money, count or percentage cell: "$7,250,000", "$7.25M", "48",
// "5.5%", "$1,150/mo", "$150K/unit". Suffixes K and M (or MM) scale the number when no
// letter follows them. Parentheses negate.
func ParseValue(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "—" || raw == "-" || raw == "–" || strings.EqualFold(raw, "N/A") {
		return 0, false
	}

	loc := numberPattern.FindStringIndex(raw)
	if loc == nil {
		return 0, false
	}
	value, err := strconv.ParseFloat(strings.ReplaceAll(raw[loc[0]:loc[1]], ",", ""), 64)
	if err != nil {
		return 0, false
	}

	rest := strings.ToLower(strings.TrimSpace(raw[loc[1]:]))
	switch {
	case hasSuffixWord(rest, "million"), hasSuffixWord(rest, "mm"), hasSuffixWord(rest, "m"):
		value *= 1000000
	case hasSuffixWord(rest, "thousand"), hasSuffixWord(rest, "k"):
		value *= 1000
	}

	if strings.Contains(raw, "(") && strings.Contains(raw, ")") && value > 0 {
		value = -value
	}
	return value, true
}

// hasSuffixWord reports whether rest starts with word and no letter follows it
func hasSuffixWord(rest, word string) bool {
	if !strings.HasPrefix(rest, word) {
		return false
	}
	next := rest[len(word):]
	return next == "" || !unicode.IsLetter(rune(next[0]))
}
