package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"offer_analyzer/pkg/core/amortization"
	"offer_analyzer/pkg/core/analysis"
	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/core/grading"
	"offer_analyzer/pkg/core/listing"
	"offer_analyzer/pkg/core/llm"
	"offer_analyzer/pkg/core/projection"
	"offer_analyzer/pkg/core/report"
	"offer_analyzer/pkg/core/validate"
	"offer_analyzer/pkg/core/valuation"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// run parses flags and writes the result for the selected mode to out
func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("calc-engine", flag.ContinueOnError)
	fs.SetOutput(out)
	mode := fs.String("mode", "calculate", "Mode: check, calculate, grade, sensitivity, report or import")
	dataStr := fs.String("data", "", "Assumptions as JSON or Hjson (or listing HTML for import)")
	file := fs.String("file", "", "Read the payload from a file instead of -data")
	format := fs.String("format", report.FormatMarkdown, "Report format: markdown or html")
	name := fs.String("name", "", "Scenario name used in the report")
	benchmarks := fs.String("benchmarks", "", "Benchmark YAML (default: embedded table)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	payload := *dataStr
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", *file, err)
		}
		payload = string(data)
	}
	if payload == "" {
		return fmt.Errorf("no data provided")
	}
	if *format != report.FormatMarkdown && *format != report.FormatHTML {
		return fmt.Errorf("unknown format: %s", *format)
	}

	if *mode == "import" {
		return runImport(payload, out)
	}

	a, err := assumption.Parse(payload)
	if err != nil {
		return err
	}

	b := grading.Default()
	if *benchmarks != "" {
		if b, err = grading.LoadBenchmarks(*benchmarks); err != nil {
			return err
		}
	}
	engine := analysis.NewAnalysisEngine(grading.NewEngine(b))

	switch *mode {
	case "check":
		return runChecks(a, out)
	case "calculate":
		return writeJSON(out, engine.Analyze(a))
	case "grade":
		return writeJSON(out, engine.Analyze(a).Grade)
	case "sensitivity":
		return writeJSON(out, engine.Sensitivity(a))
	case "report":
		memo, err := report.Render(*format, *name, a, engine.Analyze(a))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, memo)
		return err
	default:
		return fmt.Errorf("unknown mode: %s", *mode)
	}
}

func runChecks(a assumption.Assumptions, out io.Writer) error {
	if clean := a.Sanitize(); clean != a {
		fmt.Fprintln(out, "Warning: some inputs were out of range and will be clamped")
		a = clean
	}

	proj := projection.Project(a)
	loan := amortization.NewLoan(a)
	schedule := amortization.YearlySchedule(loan, a.HoldingPeriodYears)
	linkage := validate.CheckLinkage(proj, schedule, validate.DefaultTolerance)
	if linkage.AllPassed {
		fmt.Fprintf(out, "Success: pro forma ties out (%d checks)\n", len(linkage.Checks))
	} else {
		fmt.Fprintf(out, "Error: %d linkage checks failed\n", len(linkage.FailedChecks))
		for _, f := range linkage.FailedChecks {
			fmt.Fprintf(out, "  - %s\n", f)
		}
	}

	exit := valuation.TerminalValue(proj.Final().NOI, a.DispositionCapRate, loan.BalanceAfterYears(a.HoldingPeriodYears))
	if equity := validate.CheckDisposition(exit, a.HoldingPeriodYears, validate.DefaultTolerance); equity.IsLinked {
		fmt.Fprintf(out, "Success: net equity ties out at year %d (%.2f)\n", equity.Year, equity.Actual)
	} else {
		fmt.Fprintf(out, "Error: net equity (year %d): expected %.2f, got %.2f\n", equity.Year, equity.Expected, equity.Actual)
	}

	warnings := validate.Review(a, projection.Statement(a), proj)
	if len(warnings) == 0 {
		fmt.Fprintln(out, "Success: no review flags")
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "Flag [%s]: %s\n", w.Code, w.Message)
	}
	return nil
}

// runImport parses listing HTML; with GEMINI_API_KEY set, unrecognized labels go to the model
func runImport(html string, out io.Writer) error {
	facts, err := listing.ParseWithMapper(context.Background(), html, listing.NewLabelMapper(llm.FromEnv()))
	if err != nil {
		return err
	}
	seeded := facts.Apply(assumption.Default())
	return writeJSON(out, map[string]interface{}{
		"facts":       facts,
		"assumptions": seeded,
		"missing":     seeded.Missing(),
	})
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
