package models

// ResponseMetadata is the scrape-cycle context echoed by data endpoints.
type ResponseMetadata struct {
	ScrapeTimestamp   string `json:"scrape_timestamp"`
	TotalRecords      int    `json:"total_records"`
	TotalPagesScraped int    `json:"total_pages_scraped"`
	SourceURL         string `json:"source_url"`
	MarketType        string `json:"market_type,omitempty"`
}

// Pagination describes one page of a data response.
type Pagination struct {
	Page         int  `json:"page"`
	PerPage      int  `json:"per_page"`
	TotalRecords int  `json:"total_records"`
	TotalPages   int  `json:"total_pages"`
	HasNext      bool `json:"has_next"`
	HasPrev      bool `json:"has_prev"`
}

// DataResponse is the envelope for every paginated data endpoint.
type DataResponse struct {
	Success    bool             `json:"success"`
	Metadata   ResponseMetadata `json:"metadata"`
	Pagination Pagination       `json:"pagination"`
	Data       []Row            `json:"data"`
}

// ErrorResponse is the envelope for every failure.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// HealthResponse reports which monitors have produced a snapshot yet.
// It always carries HTTP 200; status degrades through initializing ->
// starting -> healthy as snapshot files appear.
type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	Monitors  map[string]bool `json:"monitors"`
	Ready     string          `json:"ready"`
	Browser   BrowserStats    `json:"browser"`
}

// BrowserStats carries live browser manager counters for the health report.
type BrowserStats struct {
	ActivePages int    `json:"active_pages"`
	Uptime      string `json:"uptime"`
}

// Paginate slices rows for a 1-based page of size perPage and returns the
// page plus its descriptor. Out-of-range pages yield an empty data slice.
func Paginate(rows []Row, page, perPage int) ([]Row, Pagination) {
	total := len(rows)
	totalPages := (total + perPage - 1) / perPage
	if totalPages == 0 {
		totalPages = 1
	}
	start := (page - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	return rows[start:end], Pagination{
		Page:         page,
		PerPage:      perPage,
		TotalRecords: total,
		TotalPages:   totalPages,
		HasNext:      page < totalPages,
		HasPrev:      page > 1,
	}
}
