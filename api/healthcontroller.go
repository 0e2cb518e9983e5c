package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"signalfeed/publish"
	"signalfeed/sources"
)

// HealthResponse is the body of GET /api/health
type HealthResponse struct {
	Status     string `json:"status"`
	Categories int    `json:"categories"`
	Sources    int    `json:"sources"`
	FeedCache  bool   `json:"feedCache"`
	Snapshots  bool   `json:"snapshots"`
}

// RegisterHealthRoutes registers health check endpoints.
func RegisterHealthRoutes(r *gin.Engine, deps Dependencies) {
	body := healthOf(deps.Catalog, deps.FeedCacheEnabled, deps.Publisher)
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, body)
	})
}

// healthOf summarizes the wiring; it never changes after startup
func healthOf(catalog *sources.Catalog, feedCache bool, pub publish.Publisher) HealthResponse {
	var total int
	for _, g := range catalog.Groups() {
		total += len(g.Sources)
	}
	_, nop := pub.(publish.Nop)
	return HealthResponse{
		Status:     "ok",
		Categories: len(catalog.Categories()),
		Sources:    total,
		FeedCache:  feedCache,
		Snapshots:  !nop,
	}
}
