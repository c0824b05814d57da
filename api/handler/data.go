package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/marketgrid/nsewatch/models"
	"github.com/marketgrid/nsewatch/store"
)

const (
	defaultPerPage = 50
	maxPerPage     = 1000
)

// Data serves one monitor's snapshot with pagination. dir is the snapshot
// directory under the store root; markets, when non-empty, enables the
// ?market= query with the first entry as the default.
func Data(st *store.Store, dir string, markets []string) gin.HandlerFunc {
	marketSet := make(map[string]struct{}, len(markets))
	for _, m := range markets {
		marketSet[m] = struct{}{}
	}

	return func(c *gin.Context) {
		page, perPage, err := pageParams(c)
		if err != nil {
			respondError(c, err)
			return
		}

		file := "latest.json"
		if len(markets) > 0 {
			market := c.DefaultQuery("market", markets[0])
			if _, ok := marketSet[market]; !ok {
				respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput,
					"unknown market: "+market, nil))
				return
			}
			file = "latest_" + market + ".json"
		}

		snap, err := st.Read(dir + "/" + file)
		if err != nil {
			respondError(c, err)
			return
		}

		rows, pagination := models.Paginate(snap.Data, page, perPage)
		c.JSON(http.StatusOK, models.DataResponse{
			Success: true,
			Metadata: models.ResponseMetadata{
				ScrapeTimestamp:   snap.Metadata.ScrapeTimestamp,
				TotalRecords:      snap.Metadata.TotalRecords,
				TotalPagesScraped: snap.Metadata.TotalPages,
				SourceURL:         snap.Metadata.SourceURL,
				MarketType:        snap.Metadata.MarketType,
			},
			Pagination: pagination,
			Data:       rows,
		})
	}
}

// pageParams parses and validates ?page= and ?per_page=. per_page is capped
// rather than rejected when it exceeds the maximum.
func pageParams(c *gin.Context) (page, perPage int, err error) {
	page, err = positiveIntQuery(c, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	perPage, err = positiveIntQuery(c, "per_page", defaultPerPage)
	if err != nil {
		return 0, 0, err
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage, nil
}

func positiveIntQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, models.NewScrapeError(models.ErrCodeInvalidInput,
			name+" must be a positive integer", err)
	}
	return n, nil
}
