// Package api assembles the HTTP surface of the offer analyzer
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	configapi "offer_analyzer/pkg/api/config"
	"offer_analyzer/pkg/api/live"
	"offer_analyzer/pkg/api/offer"
	"offer_analyzer/pkg/core/analysis"
	"offer_analyzer/pkg/core/config"
	"offer_analyzer/pkg/core/grading"
	"offer_analyzer/pkg/core/listing"
	"offer_analyzer/pkg/core/store"
)

// Deps are the services shared by every handler
type Deps struct {
	Config     config.Config
	Benchmarks *grading.Benchmarks
	Engine     *analysis.AnalysisEngine
	Repo       store.ScenarioRepository
	Labels     *listing.LabelMapper // optional
}

// NewRouter wires all routes onto a gin engine
func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), CORS(d.Config.Server.AllowedOrigin))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "store": d.Config.Store.Driver})
	})

	offer.NewHandler(d.Engine, d.Repo, d.Labels).Register(r)
	live.NewHandler(d.Engine, d.Repo, d.Config.Server.AllowedOrigin).Register(r)

	cfg := configapi.NewHandler(d.Config, d.Benchmarks)
	r.GET("/api/config", gin.WrapF(cfg.HandleConfig))
	r.GET("/api/config/benchmarks", gin.WrapF(cfg.HandleBenchmarks))
	r.POST("/api/config/benchmarks/validate", gin.WrapF(cfg.HandleValidateBenchmarks))

	return r
}

// CORS sets the local-dev CORS headers on every response and answers preflight requests
func CORS(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	}
}
