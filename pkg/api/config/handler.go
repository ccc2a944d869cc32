package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	coreconfig "offer_analyzer/pkg/core/config"
	"offer_analyzer/pkg/core/grading"
)

type Response struct {
	Server          coreconfig.ServerConfig `json:"server"`
	StoreDriver     string                  `json:"store_driver"`
	BenchmarkSource string                  `json:"benchmark_source"`
	GradeBands      []grading.Band          `json:"grade_bands"`
}

type ValidateResponse struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
	Cells int    `json:"cells,omitempty"`
}

// Handler holds dependencies for config endpoints
type Handler struct {
	Config     coreconfig.Config
	Benchmarks *grading.Benchmarks
}

// NewHandler creates a new config handler
func NewHandler(cfg coreconfig.Config, benchmarks *grading.Benchmarks) *Handler {
	if benchmarks == nil {
		benchmarks = grading.Default()
	}
	return &Handler{
		Config:     cfg,
		Benchmarks: benchmarks,
	}
}

// HandleConfig reports the active store and benchmark table. The DSN is never echoed.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	// Add CORS headers for local dev
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	resp := Response{
		Server:          h.Config.Server,
		StoreDriver:     h.Config.Store.Driver,
		BenchmarkSource: h.Config.BenchmarkSource(),
		GradeBands:      h.Benchmarks.GradeBands,
	}
	json.NewEncoder(w).Encode(resp)
}

// HandleBenchmarks returns the full benchmark table in use
func (h *Handler) HandleBenchmarks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Content-Type", "application/json")

	json.NewEncoder(w).Encode(h.Benchmarks)
}

// HandleValidateBenchmarks checks a candidate YAML benchmark table without installing it
func (h *Handler) HandleValidateBenchmarks(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	if r.Method == "OPTIONS" {
		w.WriteHeader(http.StatusOK)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil || len(body) == 0 {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	b, err := grading.ParseBenchmarks(body)
	if err != nil {
		fmt.Printf("[CONFIG] Rejected benchmark table: %v\n", err)
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(ValidateResponse{Valid: false, Error: err.Error()})
		return
	}
	json.NewEncoder(w).Encode(ValidateResponse{Valid: true, Cells: len(b.Cells)})
}
