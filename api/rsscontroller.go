package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"signalfeed/aggregator"
	"signalfeed/config"
	"signalfeed/logging"
	"signalfeed/publish"
	"signalfeed/sources"
	"signalfeed/types"
)

// failureMessage is the error text of every failed aggregation response
const failureMessage = "Failed to fetch RSS feeds"

// publishTimeout bounds an asynchronous snapshot publish
const publishTimeout = 10 * time.Second

// RSSResponse is the success body of GET /api/rss.
// Signals is a []types.Signal when a category was requested, otherwise a
// map of category to []types.Signal.
type RSSResponse struct {
	Success         bool             `json:"success"`
	Count           int              `json:"count"`
	TotalCategories int              `json:"totalCategories"`
	Categories      []types.Category `json:"categories"`
	Signals         any              `json:"signals"`
	Timestamp       time.Time        `json:"timestamp"`
}

// RSSErrorResponse is the failure body of GET /api/rss
type RSSErrorResponse struct {
	Success   bool           `json:"success"`
	Error     string         `json:"error"`
	Signals   []types.Signal `json:"signals"`
	Timestamp time.Time      `json:"timestamp"`
}

// SourcesResponse is the body of GET /api/rss/sources
type SourcesResponse struct {
	Categories []types.Category `json:"categories"`
	Groups     []sources.Group  `json:"groups"`
}

type rssController struct {
	aggregator SignalAggregator
	catalog    *sources.Catalog
	publisher  publish.Publisher
}

// RegisterRSSRoutes registers RSS-related endpoints.
func RegisterRSSRoutes(r *gin.Engine, deps Dependencies) {
	ctl := &rssController{
		aggregator: deps.Aggregator,
		catalog:    deps.Catalog,
		publisher:  deps.Publisher,
	}

	g := r.Group("/api/rss")
	// Panics inside the pipeline become the structured failure body
	g.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Logger.Error("rss pipeline panic", "panic", recovered)
		respondWithFailure(c)
	}))
	g.GET("", ctl.handleGetSignals)
	g.GET("/sources", ctl.handleGetSources)
}

// handleGetSignals aggregates signals.
// Query params: limit (int, default 40), category (string, optional), featured (bool, optional)
func (ctl *rssController) handleGetSignals(c *gin.Context) {
	req := aggregator.Request{
		Category:     types.Category(c.Query("category")),
		Limit:        parseLimit(c.Query("limit")),
		FeaturedOnly: parseBool(c.Query("featured")),
	}

	res, err := ctl.aggregator.Aggregate(c.Request.Context(), req)
	if err != nil {
		logging.Logger.Error("rss aggregation failed", "err", err)
		respondWithFailure(c)
		return
	}

	resp := RSSResponse{
		Success:         true,
		Count:           len(res.Signals),
		TotalCategories: len(res.ByCategory),
		Categories:      res.Categories,
		Timestamp:       res.Timestamp,
	}
	if res.Filtered {
		resp.Signals = res.Signals
	} else {
		resp.Signals = res.ByCategory
	}

	logging.Logger.Info("rss aggregation served",
		"category", req.Category, "limit", req.Limit, "count", resp.Count, "categories", resp.TotalCategories)

	ctl.publishAsync(publish.Snapshot{
		GeneratedAt: res.Timestamp,
		Category:    req.Category,
		Count:       len(res.Signals),
		Signals:     res.Signals,
	})

	c.JSON(http.StatusOK, resp)
}

// handleGetSources lists the configured feeds grouped by category
func (ctl *rssController) handleGetSources(c *gin.Context) {
	c.JSON(http.StatusOK, SourcesResponse{
		Categories: ctl.catalog.Categories(),
		Groups:     ctl.catalog.Groups(),
	})
}

func (ctl *rssController) publishAsync(snap publish.Snapshot) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		if err := ctl.publisher.Publish(ctx, snap); err != nil {
			logging.Logger.Warn("snapshot publish failed", "key", snap.Key(), "err", err)
		}
	}()
}

func respondWithFailure(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, RSSErrorResponse{
		Success:   false,
		Error:     failureMessage,
		Signals:   []types.Signal{},
		Timestamp: time.Now().UTC(),
	})
}

// parseLimit falls back to DefaultLimit for missing, malformed or non-positive values
func parseLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return config.DefaultLimit
	}
	return n
}

func parseBool(raw string) bool {
	b, err := strconv.ParseBool(raw)
	return err == nil && b
}
