// Package offer serves the offer analyzer over HTTP: one-shot analysis, sensitivity,
// listing import and saved scenarios.
package offer

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"offer_analyzer/pkg/core/analysis"
	"offer_analyzer/pkg/core/assumption"
	"offer_analyzer/pkg/core/listing"
	"offer_analyzer/pkg/core/report"
	"offer_analyzer/pkg/core/store"
	"offer_analyzer/pkg/models"
)

// Handler holds dependencies for offer and scenario endpoints
type Handler struct {
	engine *analysis.AnalysisEngine
	repo   store.ScenarioRepository
	labels *listing.LabelMapper
}

// NewHandler creates a new offer handler. labels may be nil, which keeps listing import
// to keyword matching.
func NewHandler(engine *analysis.AnalysisEngine, repo store.ScenarioRepository, labels *listing.LabelMapper) *Handler {
	return &Handler{engine: engine, repo: repo, labels: labels}
}

// Register mounts the routes on r
func (h *Handler) Register(r gin.IRouter) {
	offers := r.Group("/api/offer")
	offers.POST("/analyze", h.HandleAnalyze)
	offers.POST("/sensitivity", h.HandleSensitivity)
	offers.POST("/import-listing", h.HandleImportListing)

	scenarios := r.Group("/api/scenarios")
	scenarios.GET("", h.HandleListScenarios)
	scenarios.POST("", h.HandleCreateScenario)
	scenarios.GET("/:id", h.HandleGetScenario)
	scenarios.PUT("/:id", h.HandleUpdateScenario)
	scenarios.DELETE("/:id", h.HandleDeleteScenario)
	scenarios.GET("/:id/report", h.HandleScenarioReport)
}

// ScenarioRequest is the body of create and update
type ScenarioRequest struct {
	Name        string                 `json:"name"`
	Assumptions assumption.Assumptions `json:"assumptions"`
}

// ImportRequest carries a listing page and optional starting assumptions
type ImportRequest struct {
	HTML string                  `json:"html"`
	Base *assumption.Assumptions `json:"base,omitempty"`
}

// ImportResponse is the parsed listing plus the seeded assumptions
type ImportResponse struct {
	Facts       *listing.Facts         `json:"facts"`
	Assumptions assumption.Assumptions `json:"assumptions"`
	Missing     []string               `json:"missing"`
}

// ScenarioResponse is a saved scenario with its analysis
type ScenarioResponse struct {
	Scenario *models.Scenario `json:"scenario"`
	Output   analysis.Output  `json:"output"`
}

// HandleAnalyze runs the full pipeline on the posted assumptions
func (h *Handler) HandleAnalyze(c *gin.Context) {
	a, ok := readAssumptions(c)
	if !ok {
		return
	}
	out := h.engine.Analyze(a)
	fmt.Printf("[OFFER] Analyzed $%.0f / %d units: IRR %.2f%%, grade %s\n",
		a.PurchasePrice, a.NumberOfUnits, out.IRR, out.Grade.Grade)
	c.JSON(http.StatusOK, out)
}

// HandleSensitivity returns the IRR swing table
func (h *Handler) HandleSensitivity(c *gin.Context) {
	a, ok := readAssumptions(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": h.engine.Sensitivity(a)})
}

// HandleImportListing parses a broker listing and seeds assumptions from it
func (h *Handler) HandleImportListing(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.HTML == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "html is required"})
		return
	}

	facts, err := listing.ParseWithMapper(c.Request.Context(), req.HTML, h.labels)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	base := assumption.Default()
	if req.Base != nil {
		base = *req.Base
	}
	seeded := facts.Apply(base)
	c.JSON(http.StatusOK, ImportResponse{Facts: facts, Assumptions: seeded, Missing: seeded.Missing()})
}

// HandleListScenarios lists saved scenarios, newest first
func (h *Handler) HandleListScenarios(c *gin.Context) {
	list, err := h.repo.List(c.Request.Context())
	if err != nil {
		fmt.Printf("[ERROR] List scenarios: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if list == nil {
		list = []models.Scenario{}
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": list})
}

// HandleCreateScenario saves a new scenario
func (h *Handler) HandleCreateScenario(c *gin.Context) {
	req, ok := readScenario(c)
	if !ok {
		return
	}
	s := models.NewScenario(req.Name, req.Assumptions)
	if err := h.repo.Save(c.Request.Context(), s); err != nil {
		fmt.Printf("[ERROR] Save scenario: %v\n", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, ScenarioResponse{Scenario: s, Output: h.engine.Analyze(s.Assumptions)})
}

// HandleGetScenario loads a scenario and re-runs its analysis
func (h *Handler) HandleGetScenario(c *gin.Context) {
	s, ok := h.loadScenario(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, ScenarioResponse{Scenario: s, Output: h.engine.Analyze(s.Assumptions)})
}

// HandleUpdateScenario replaces the name and assumptions of a saved scenario
func (h *Handler) HandleUpdateScenario(c *gin.Context) {
	s, ok := h.loadScenario(c)
	if !ok {
		return
	}
	req, ok := readScenario(c)
	if !ok {
		return
	}
	if req.Name != "" {
		s.Name = req.Name
	}
	s.Assumptions = req.Assumptions

	if err := h.repo.Save(c.Request.Context(), s); err != nil {
		fmt.Printf("[ERROR] Update scenario %s: %v\n", s.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ScenarioResponse{Scenario: s, Output: h.engine.Analyze(s.Assumptions)})
}

// HandleDeleteScenario removes a saved scenario
func (h *Handler) HandleDeleteScenario(c *gin.Context) {
	id := c.Param("id")
	if err := h.repo.Delete(c.Request.Context(), id); err != nil {
		writeStoreError(c, id, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleScenarioReport renders the deal memo as Markdown (default) or HTML
func (h *Handler) HandleScenarioReport(c *gin.Context) {
	s, ok := h.loadScenario(c)
	if !ok {
		return
	}

	format := c.DefaultQuery("format", report.FormatMarkdown)
	if format != report.FormatMarkdown && format != report.FormatHTML {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown format %q", format)})
		return
	}

	body, err := report.Render(format, s.Name, s.Assumptions, h.engine.Analyze(s.Assumptions))
	if err != nil {
		fmt.Printf("[ERROR] Render report %s: %v\n", s.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	contentType := "text/markdown; charset=utf-8"
	if format == report.FormatHTML {
		contentType = "text/html; charset=utf-8"
	}
	c.Data(http.StatusOK, contentType, []byte(body))
}

func (h *Handler) loadScenario(c *gin.Context) (*models.Scenario, bool) {
	id := c.Param("id")
	s, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		writeStoreError(c, id, err)
		return nil, false
	}
	return s, true
}

// readAssumptions accepts strict JSON, Hjson or slightly broken JSON
func readAssumptions(c *gin.Context) (assumption.Assumptions, bool) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return assumption.Assumptions{}, false
	}
	a, err := assumption.Parse(string(body))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return assumption.Assumptions{}, false
	}
	return a, true
}

func readScenario(c *gin.Context) (ScenarioRequest, bool) {
	req := ScenarioRequest{Assumptions: assumption.Default()}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return ScenarioRequest{}, false
	}
	req.Assumptions = req.Assumptions.Sanitize()
	return req, true
}

func writeStoreError(c *gin.Context, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Scenario not found: %s", id)})
		return
	}
	fmt.Printf("[ERROR] Scenario %s: %v\n", id, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
