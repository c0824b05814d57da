// Package extract turns rendered HTML into structured records. Everything
// here is pure: the browser layer hands in HTML strings, these functions
// hand back rows, news items and heatmap tiles.
package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/marketgrid/nsewatch/models"
)

// Phrases NSE renders inside an otherwise-valid table when there is no data.
var emptyRowPhrases = []string{
	"no records",
	"no data available",
	"no result found",
}

func isEmptyRowText(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range emptyRowPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// Table extracts the largest data table from doc. Headers come from thead
// cells, or from the first row when there is no thead. Anchor cells keep
// their href, resolved against baseURL.
func Table(htmlStr, baseURL string) ([]string, [][]models.Cell, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil, nil, models.NewScrapeError(models.ErrCodeExtraction, "failed to parse HTML", err)
	}

	table := largestTable(doc)
	if table == nil {
		return nil, nil, models.NewScrapeError(models.ErrCodeExtraction, "no table found in page", nil)
	}

	base, _ := url.Parse(baseURL)

	var headers []string
	table.Find("thead th, thead td").Each(func(_ int, th *goquery.Selection) {
		headers = append(headers, cleanText(th.Text()))
	})

	var rows [][]models.Cell
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		if cells := rowCells(tr, base); cells != nil {
			rows = append(rows, cells)
		}
	})

	if len(headers) == 0 || len(rows) == 0 {
		// Tables without thead/tbody: first row is the header.
		headers = headers[:0]
		rows = rows[:0]
		table.Find("tr").Each(func(i int, tr *goquery.Selection) {
			if i == 0 {
				tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
					headers = append(headers, cleanText(cell.Text()))
				})
				return
			}
			if cells := rowCells(tr, base); cells != nil {
				rows = append(rows, cells)
			}
		})
	}

	return headers, rows, nil
}

// largestTable returns the table with the most rows, skipping layout tables
// with a single row.
func largestTable(doc *goquery.Document) *goquery.Selection {
	var best *goquery.Selection
	bestRows := 1
	doc.Find("table").Each(func(_ int, t *goquery.Selection) {
		if n := t.Find("tr").Length(); n > bestRows {
			best, bestRows = t, n
		}
	})
	return best
}

// rowCells converts one tr into cells, or nil for placeholder rows.
func rowCells(tr *goquery.Selection, base *url.URL) []models.Cell {
	var cells []models.Cell
	nonEmpty := false
	tr.Find("th, td").Each(func(_ int, td *goquery.Selection) {
		cell := cellValue(td, base)
		if cell.Text != "" {
			nonEmpty = true
		}
		cells = append(cells, cell)
	})
	if !nonEmpty || len(cells) == 0 {
		return nil
	}
	if len(cells) == 1 && isEmptyRowText(cells[0].Text) {
		return nil
	}
	return cells
}

// cellValue reads one td. A cell wrapping an anchor becomes a linked cell
// with its href classified (pdf, xbrl, link).
func cellValue(td *goquery.Selection, base *url.URL) models.Cell {
	text := cleanText(td.Text())
	a := td.Find("a[href]").First()
	if a.Length() == 0 {
		return models.TextCell(text)
	}

	href, _ := a.Attr("href")
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript:") || href == "#" {
		return models.TextCell(text)
	}
	if base != nil {
		if ref, err := url.Parse(href); err == nil {
			href = base.ResolveReference(ref).String()
		}
	}
	if text == "" {
		text = cleanText(a.Text())
	}
	return models.LinkedCell(text, href)
}

// cleanText collapses runs of whitespace to single spaces and trims.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
