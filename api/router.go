// Package api assembles the HTTP surface over the snapshot store and the
// live heatmap service.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/marketgrid/nsewatch/api/handler"
	"github.com/marketgrid/nsewatch/api/middleware"
	"github.com/marketgrid/nsewatch/config"
	"github.com/marketgrid/nsewatch/heatmap"
	"github.com/marketgrid/nsewatch/monitor"
	"github.com/marketgrid/nsewatch/store"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	Data:    Auth (if keys configured) → RateLimit
//
// Health, root and metrics stay outside auth so probes and scrapers always
// work.
func NewRouter(cfg *config.Config, st *store.Store, browser handler.BrowserInfo, monitors []monitor.Monitor, hm *heatmap.Service, metrics *monitor.Metrics, markets []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/", handler.Root())
	r.GET("/health", handler.Health(st, monitors, browser))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	protected := r.Group("")
	protected.Use(middleware.Auth(cfg.APIKeys))
	protected.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateBurst))

	// Snapshot-backed data endpoints.
	protected.GET("/event-calendar", handler.Data(st, "event_calendar_data", nil))
	protected.GET("/announcements", handler.Data(st, "announcements_data", markets))
	protected.GET("/crd", handler.Data(st, "crd_data", nil))
	protected.GET("/credit-rating", handler.Data(st, "credit_rating_data", markets))
	protected.GET("/groww-news", handler.Data(st, "groww_news_data", nil))
	protected.GET("/trading-economics", handler.Data(st, "te_calendar_data", nil))

	// Live heatmap endpoints.
	protected.GET("/categories", handler.HeatmapCategories(hm))
	protected.GET("/indices", handler.HeatmapIndices(hm))
	protected.GET("/heatmap", handler.Heatmap(hm))

	return r
}
