package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/marketgrid/nsewatch/models"
)

// EconomicHeaders is the column set economic calendar rows normalise to,
// whichever extraction tier produced them.
var EconomicHeaders = []string{
	"date", "time", "country", "event",
	"actual", "forecast", "previous", "importance",
}

// EconomicCalendar extracts events from a Trading Economics calendar page.
// Three tiers, in order of fidelity: the structured calendar table, any
// generic data table, and finally keyword-bearing text lines. The last tier
// exists because the page sometimes serves a degraded layout to unknown
// clients, and a partial snapshot beats an empty one.
func EconomicCalendar(htmlStr string) ([]string, []models.Row) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return EconomicHeaders, nil
	}

	if rows := calendarTableRows(doc); len(rows) > 0 {
		return EconomicHeaders, rows
	}
	if rows := genericTableRows(htmlStr); len(rows) > 0 {
		return EconomicHeaders, rows
	}
	return []string{"raw_text"}, rawTextRows(doc)
}

// calendarTableRows reads the structured #calendar table. Event rows carry a
// data-country attribute; date header rows separate the days.
func calendarTableRows(doc *goquery.Document) []models.Row {
	var rows []models.Row
	currentDate := ""

	doc.Find("table#calendar tr, table.calendar tr").Each(func(_ int, tr *goquery.Selection) {
		if tr.Find("th").Length() > 0 {
			if d := cleanText(tr.Text()); d != "" {
				currentDate = d
			}
			return
		}
		country, _ := tr.Attr("data-country")
		if country == "" {
			country = cleanText(tr.Find("td .flag, td [title]").First().AttrOr("title", ""))
		}

		row := models.Row{
			"date":       models.TextCell(currentDate),
			"time":       models.TextCell(cleanText(tr.Find("td").First().Text())),
			"country":    models.TextCell(cleanText(country)),
			"event":      models.TextCell(cleanText(tr.Find("td a").First().Text())),
			"actual":     models.TextCell(cleanText(tr.Find("[id*='actual'], [class*='actual']").First().Text())),
			"forecast":   models.TextCell(cleanText(tr.Find("[id*='forecast'], [class*='forecast']").First().Text())),
			"previous":   models.TextCell(cleanText(tr.Find("[id*='previous'], [class*='previous']").First().Text())),
			"importance": models.TextCell(importanceOf(tr)),
		}
		if row["event"].Text == "" {
			// Fall back to the widest cell when the event is not a link.
			row["event"] = models.TextCell(widestCellText(tr))
		}
		if row["event"].Text != "" {
			rows = append(rows, row)
		}
	})
	return rows
}

// importanceOf counts the highlighted importance markers on a row.
func importanceOf(tr *goquery.Selection) string {
	switch {
	case tr.Find("[class*='importance-3'], .calendar-importance-3").Length() > 0:
		return "high"
	case tr.Find("[class*='importance-2'], .calendar-importance-2").Length() > 0:
		return "medium"
	case tr.Find("[class*='importance-1'], .calendar-importance-1").Length() > 0:
		return "low"
	}
	return ""
}

func widestCellText(tr *goquery.Selection) string {
	widest := ""
	tr.Find("td").Each(func(_ int, td *goquery.Selection) {
		if t := cleanText(td.Text()); len(t) > len(widest) {
			widest = t
		}
	})
	return widest
}

// genericTableRows maps any data table onto the calendar columns by
// position. Extra cells keep generated column names.
func genericTableRows(htmlStr string) []models.Row {
	_, raw, err := Table(htmlStr, "")
	if err != nil || len(raw) == 0 {
		return nil
	}
	rows := make([]models.Row, 0, len(raw))
	for _, cells := range raw {
		row := make(models.Row, len(cells))
		for i, cell := range cells {
			row[models.ColumnName(EconomicHeaders, i)] = cell
		}
		rows = append(rows, row)
	}
	return rows
}

var economicKeywords = []string{
	"gdp", "inflation", "cpi", "interest rate", "unemployment",
	"pmi", "trade balance", "manufacturing", "consumer",
}

// rawTextRows samples keyword-bearing lines from the page body.
func rawTextRows(doc *goquery.Document) []models.Row {
	var rows []models.Row
	for _, line := range splitLines(doc.Find("body").Text()) {
		if len(line) < 20 || len(line) > 300 {
			continue
		}
		lower := strings.ToLower(line)
		for _, kw := range economicKeywords {
			if strings.Contains(lower, kw) {
				rows = append(rows, models.Row{"raw_text": models.TextCell(line)})
				break
			}
		}
		if len(rows) >= 50 {
			break
		}
	}
	return rows
}
