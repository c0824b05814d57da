package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/marketgrid/nsewatch/models"
	"github.com/marketgrid/nsewatch/monitor"
	"github.com/marketgrid/nsewatch/store"
)

// BrowserInfo exposes the browser counters the health endpoint reports.
type BrowserInfo interface {
	ActivePages() int
	Uptime() time.Duration
}

// Health reports which monitors have written a snapshot yet. Always 200 so
// load balancers keep routing while the first cycles run; the status field
// carries the real state.
func Health(st *store.Store, monitors []monitor.Monitor, browser BrowserInfo) gin.HandlerFunc {
	return func(c *gin.Context) {
		states := make(map[string]bool, len(monitors))
		ready := 0
		for _, m := range monitors {
			ok := true
			for _, f := range m.SnapshotFiles() {
				if !st.Exists(f) {
					ok = false
					break
				}
			}
			states[m.Name()] = ok
			if ok {
				ready++
			}
		}

		status := "initializing"
		switch {
		case ready == len(monitors):
			status = "healthy"
		case ready > 0:
			status = "starting"
		}

		c.JSON(http.StatusOK, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now().Format(time.RFC3339),
			Monitors:  states,
			Ready:     fmt.Sprintf("%d/%d", ready, len(monitors)),
			Browser: models.BrowserStats{
				ActivePages: browser.ActivePages(),
				Uptime:      browser.Uptime().Round(time.Second).String(),
			},
		})
	}
}

// Root describes the service and its endpoints.
func Root() gin.HandlerFunc {
	index := gin.H{
		"service": "nsewatch",
		"endpoints": gin.H{
			"/health":            "monitor readiness",
			"/event-calendar":    "NSE event calendar",
			"/announcements":     "corporate announcements (?market=)",
			"/crd":               "corporate debt restructuring filings",
			"/credit-rating":     "credit rating revisions (?market=)",
			"/groww-news":        "stock market news feed",
			"/trading-economics": "macro economic calendar",
			"/categories":        "heatmap index families",
			"/indices":           "indices in a family (?category=)",
			"/heatmap":           "live heatmap tiles (?category=&index=)",
			"/metrics":           "Prometheus metrics",
		},
		"pagination": gin.H{
			"page":     "1-based page number",
			"per_page": fmt.Sprintf("records per page, default %d, max %d", defaultPerPage, maxPerPage),
		},
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, index)
	}
}
