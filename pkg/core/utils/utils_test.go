package utils

import (
	"strings"
	"testing"
)

type sample struct {
	Price float64 `json:"purchase_price"`
	Units int     `json:"number_of_units"`
	Name  string
}

func TestSmartParse_Strategies(t *testing.T) {
	cases := map[string]string{
		"strict json":    `{"purchase_price": 100, "number_of_units": 4}`,
		"hjson":          "{\n  # comment\n  purchase_price: 100\n  number_of_units: 4\n}",
		"trailing comma": `{"purchase_price": 100, "number_of_units": 4,}`,
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			var s sample
			if _, err := SmartParse(input, &s); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.Price != 100 || s.Units != 4 {
				t.Errorf("unexpected result: %+v", s)
			}
		})
	}
}

func TestMissingFields(t *testing.T) {
	missing := MissingFields(sample{Price: 10}, "purchase_price", "number_of_units", "Name")
	if len(missing) != 2 || missing[0] != "number_of_units" || missing[1] != "Name" {
		t.Errorf("expected number_of_units and Name, got %v", missing)
	}
}

func TestMarkdownTable(t *testing.T) {
	md := MarkdownTable([]string{"Year", "NOI"}, []string{"l", "r"}, [][]string{{"1", "$10"}, {"2", "a|b"}})
	expected := "| Year | NOI |\n| :--- | ---: |\n| 1 | $10 |\n| 2 | a\\|b |\n"
	if md != expected {
		t.Errorf("unexpected table:\n%s", md)
	}
}

func TestMarkdownToHTML(t *testing.T) {
	html, err := MarkdownToHTML("# Memo\n\n" + MarkdownTable([]string{"A"}, nil, [][]string{{"1"}}))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(html, "<h1>Memo</h1>") || !strings.Contains(html, "<table>") {
		t.Errorf("expected heading and table, got %s", html)
	}
}
