package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Link types recognised inside table cells.
const (
	CellLinkPDF   = "pdf"
	CellLinkXBRL  = "xbrl"
	CellLinkPlain = "link"
)

// Cell is a single table cell. Most cells are plain text; cells that wrap a
// hyperlink (symbols, attachments, XBRL filings) additionally carry the href
// and a coarse link type. The JSON form is a bare string for plain cells and
// a {text, link, type} object for linked ones, matching the snapshot files
// consumers already parse.
type Cell struct {
	Text string
	Link string
	Type string
}

// LinkedCell builds a Cell for an anchor cell, classifying the href.
func LinkedCell(text, href string) Cell {
	lower := strings.ToLower(href)
	typ := CellLinkPlain
	switch {
	case strings.Contains(lower, ".pdf"):
		typ = CellLinkPDF
	case strings.Contains(lower, "xbrl"):
		typ = CellLinkXBRL
	}
	return Cell{Text: text, Link: href, Type: typ}
}

// TextCell builds a plain string Cell.
func TextCell(text string) Cell {
	return Cell{Text: text}
}

// MarshalJSON emits a bare string for plain cells and an object for linked ones.
func (c Cell) MarshalJSON() ([]byte, error) {
	if c.Link == "" {
		return json.Marshal(c.Text)
	}
	return json.Marshal(struct {
		Text string `json:"text"`
		Link string `json:"link"`
		Type string `json:"type,omitempty"`
	}{c.Text, c.Link, c.Type})
}

// UnmarshalJSON accepts both the bare-string and the object form.
func (c *Cell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Cell{Text: s}
		return nil
	}
	var obj struct {
		Text string `json:"text"`
		Link string `json:"link"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*c = Cell{Text: obj.Text, Link: obj.Link, Type: obj.Type}
	return nil
}

// Row maps a column header to its cell value. Column order lives in the
// snapshot metadata headers slice, not in the row itself.
type Row map[string]Cell

// SnapshotMetadata describes one scrape cycle.
type SnapshotMetadata struct {
	ScrapeTimestamp string   `json:"scrape_timestamp"`
	TotalRecords    int      `json:"total_records"`
	TotalPages      int      `json:"total_pages"`
	MarketType      string   `json:"market_type,omitempty"`
	SourceURL       string   `json:"source_url"`
	Headers         []string `json:"headers"`
}

// Snapshot is the single latest.json file each monitor maintains,
// overwritten every cycle.
type Snapshot struct {
	Metadata SnapshotMetadata `json:"metadata"`
	Data     []Row            `json:"data"`
}

// ZipRows converts raw cell slices into header-keyed rows. When a row has
// more cells than headers the extras get generated Column_N names; when it
// has fewer, the missing headers stay absent (serialised consumers treat
// absence and "" the same).
func ZipRows(headers []string, raw [][]Cell) []Row {
	rows := make([]Row, 0, len(raw))
	for _, cells := range raw {
		row := make(Row, len(cells))
		for i, cell := range cells {
			row[ColumnName(headers, i)] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

// ColumnName returns the header for index i, or a generated Column_N name
// when the row is wider than the header set.
func ColumnName(headers []string, i int) string {
	if i < len(headers) {
		return headers[i]
	}
	return "Column_" + strconv.Itoa(i+1)
}
