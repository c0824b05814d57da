package models

// Heatmap index categories exposed by the live heatmap endpoints.
const (
	CategoryBroadMarket = "broad-market"
	CategorySectoral    = "sectoral"
	CategoryThematic    = "thematic"
	CategoryStrategy    = "strategy"
)

// HeatmapCategory is a selectable index family on the heatmap page.
type HeatmapCategory struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HeatmapCategories lists the supported families in display order.
func HeatmapCategories() []HeatmapCategory {
	return []HeatmapCategory{
		{Key: CategoryBroadMarket, Name: "Broad Market Indices", Description: "NIFTY 50, NIFTY Next 50 and other market-wide indices"},
		{Key: CategorySectoral, Name: "Sectoral Indices", Description: "Bank, IT, Pharma, Auto and other sector indices"},
		{Key: CategoryThematic, Name: "Thematic Indices", Description: "Commodities, Energy, Infrastructure and other themes"},
		{Key: CategoryStrategy, Name: "Strategy Indices", Description: "Alpha, Momentum, Quality and other factor indices"},
	}
}

// ValidHeatmapCategory reports whether key names a known category.
func ValidHeatmapCategory(key string) bool {
	for _, c := range HeatmapCategories() {
		if c.Key == key {
			return true
		}
	}
	return false
}

// IndexCard is one index listed under a heatmap category.
type IndexCard struct {
	Name   string `json:"name"`
	Value  string `json:"value,omitempty"`
	Change string `json:"change,omitempty"`
}

// Stock price trends derived from tile background colour.
const (
	TrendGain    = "gain"
	TrendLoss    = "loss"
	TrendNeutral = "neutral"
)

// StockTile is one constituent tile on a rendered heatmap.
type StockTile struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price,omitempty"`
	Change string `json:"change,omitempty"`
	Color  string `json:"color,omitempty"`
	Trend  string `json:"trend"`
}

// HeatmapData is the payload of a live heatmap scrape.
type HeatmapData struct {
	Category        string      `json:"category"`
	IndexName       string      `json:"index_name"`
	TotalStocks     int         `json:"total_stocks"`
	ScrapeTimestamp string      `json:"scrape_timestamp"`
	Stocks          []StockTile `json:"stocks"`
}
