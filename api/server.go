package api

import (
	"context"

	"github.com/gin-gonic/gin"

	"signalfeed/aggregator"
	"signalfeed/publish"
	"signalfeed/sources"
)

// SignalAggregator runs one aggregation cycle
type SignalAggregator interface {
	Aggregate(ctx context.Context, req aggregator.Request) (*aggregator.Result, error)
}

// Dependencies are the collaborators the routes need
type Dependencies struct {
	Aggregator SignalAggregator
	Catalog    *sources.Catalog
	// Publisher receives a snapshot after each successful aggregation. Optional.
	Publisher publish.Publisher
	// FeedCacheEnabled is reported by the health endpoint
	FeedCacheEnabled bool
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(deps Dependencies) *gin.Engine {
	if deps.Publisher == nil {
		deps.Publisher = publish.Nop{}
	}
	if deps.Catalog == nil {
		deps.Catalog = sources.Default()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}

	// Register resource routers
	RegisterRSSRoutes(r, deps)
	RegisterHealthRoutes(r, deps)
	return r
}
