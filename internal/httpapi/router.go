// Package httpapi exposes the catalog queries over HTTP with gin.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/goliatone/go-auction-query/internal/metrics"
	"github.com/goliatone/go-auction-query/query"
)

// Invalidator drops cached query results by tag.
type Invalidator interface {
	InvalidateTags(ctx context.Context, tags ...string) error
}

// Handler serves the catalog queries.
type Handler struct {
	queries     *query.Queries
	invalidator Invalidator
	now         func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithClock replaces time.Now when resolving default time windows.
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

func NewHandler(queries *query.Queries, invalidator Invalidator, opts ...HandlerOption) *Handler {
	h := &Handler{
		queries:     queries,
		invalidator: invalidator,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter registers the API routes, the request middleware and /metrics.
func NewRouter(h *Handler, collector *metrics.Collector, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))
	if collector != nil {
		r.Use(QueryMetrics(collector))
		r.GET("/metrics", gin.WrapH(collector.Handler()))
	}
	r.Use(ErrorHandler(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		items := api.Group("/items")
		items.GET("", h.ListItems)
		items.GET("/price-range", h.PriceRange)
		items.GET("/suggest", h.SuggestName)
		items.GET("/:id", h.FindItem)
		items.GET("/:id/highest-bidder", h.HighestBidder)

		api.GET("/categories", h.ListCategories)
		api.GET("/recommendations", h.Recommend)

		users := api.Group("/users/:user")
		users.GET("/items/active", h.ActiveItems)
		users.GET("/items/sold", h.SoldItems)
		users.GET("/items/bids", h.BidItems)
		users.GET("/history", h.BiddingHistory)

		api.DELETE("/cache/tags/:tag", h.InvalidateTag)
	}

	return r
}
