package main

import (
	"context"
	"fmt"
	"os"

	"offer_analyzer/pkg/api"
	"offer_analyzer/pkg/core/analysis"
	"offer_analyzer/pkg/core/config"
	"offer_analyzer/pkg/core/grading"
	"offer_analyzer/pkg/core/listing"
	"offer_analyzer/pkg/core/llm"
	"offer_analyzer/pkg/core/store"
)

func main() {
	// Load .env, config/app.yaml and environment overrides
	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Printf("[FATAL] Failed to load config: %v\n", err)
		os.Exit(1)
	}

	benchmarks, err := cfg.Benchmarks()
	if err != nil {
		fmt.Printf("[FATAL] Failed to load benchmarks: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("[GRADING] Loaded %d benchmark cells from %s\n", len(benchmarks.Cells), cfg.BenchmarkSource())

	engine := analysis.NewAnalysisEngine(grading.NewEngine(benchmarks))

	repo, err := store.Open(context.Background(), cfg.StoreOptions())
	if err != nil {
		fmt.Printf("[FATAL] Failed to open %s store: %v\n", cfg.Store.Driver, err)
		os.Exit(1)
	}
	defer repo.Close()
	fmt.Printf("[STORE] Using %s scenario store\n", cfg.Store.Driver)

	labels := listing.NewLabelMapper(llm.FromEnv())
	if labels != nil {
		fmt.Println("[LISTING] GEMINI_API_KEY set, unrecognized listing labels go to the model")
	}

	router := api.NewRouter(api.Deps{
		Config:     cfg,
		Benchmarks: benchmarks,
		Engine:     engine,
		Repo:       repo,
		Labels:     labels,
	})

	fmt.Printf("API server starting on %s...\n", cfg.Server.Addr)
	fmt.Println("  - POST   /api/offer/analyze")
	fmt.Println("  - POST   /api/offer/sensitivity")
	fmt.Println("  - POST   /api/offer/import-listing")
	fmt.Println("  - GET    /api/scenarios")
	fmt.Println("  - POST   /api/scenarios")
	fmt.Println("  - GET    /api/scenarios/:id")
	fmt.Println("  - PUT    /api/scenarios/:id")
	fmt.Println("  - DELETE /api/scenarios/:id")
	fmt.Println("  - GET    /api/scenarios/:id/report?format=markdown|html")
	fmt.Println("  - GET    /ws/offer  (live recalculation)")
	fmt.Println("  - GET    /api/config")
	fmt.Println("  - GET    /api/config/benchmarks")

	if err := router.Run(cfg.Server.Addr); err != nil {
		fmt.Printf("[FATAL] Server failed to start: %v\n", err)
		repo.Close()
		os.Exit(1)
	}
}
