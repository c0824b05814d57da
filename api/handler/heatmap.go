package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/marketgrid/nsewatch/heatmap"
	"github.com/marketgrid/nsewatch/models"
)

// HeatmapCategories lists the index families. Static data, no scrape.
func HeatmapCategories(svc *heatmap.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"categories": svc.Categories(),
		})
	}
}

// HeatmapIndices scrapes the index cards under ?category=.
func HeatmapIndices(svc *heatmap.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.DefaultQuery("category", models.CategoryBroadMarket)
		cards, err := svc.Indices(c.Request.Context(), category)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"category": category,
			"count":    len(cards),
			"indices":  cards,
		})
	}
}

// Heatmap scrapes live tiles for ?category=&index=.
func Heatmap(svc *heatmap.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		category := c.DefaultQuery("category", models.CategoryBroadMarket)
		index := c.Query("index")
		data, err := svc.Heatmap(c.Request.Context(), category, index)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    data,
		})
	}
}
