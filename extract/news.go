package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NewsItem is one stock news card from the Groww market-news feed.
type NewsItem struct {
	Source      string
	Time        string
	Headline    string
	StockName   string
	StockChange string
}

var (
	reTimeAgo     = regexp.MustCompile(`(?i)\b(?:\d+\s+(?:second|minute|hour|day|week|month)s?|an?\s+(?:hour|day))\s+ago\b`)
	reStockChange = regexp.MustCompile(`([A-Za-z][A-Za-z\s&.,()'-]{1,60}?)\s+([-+]?\d+\.\d+%)`)
)

// Publishers whose names mark a card as a news item.
var newsSources = []string{
	"CNBC TV18", "CNBC-TV18", "Business Standard", "Economic Times",
	"The Hindu", "Moneycontrol", "Mint", "Livemint", "Reuters",
	"Bloomberg", "PTI", "ANI", "Financial Express", "NDTV Profit",
}

// UI chrome that must never be mistaken for a headline.
var uiPhrases = []string{
	"see more", "view more", "load more", "show more",
	"no data available", "top gainers", "top losers",
	"market news", "all news",
}

func isUIText(line string) bool {
	lower := strings.ToLower(line)
	for _, p := range uiPhrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

func looksLikeNewsCard(text string) bool {
	if reTimeAgo.MatchString(text) {
		return true
	}
	for _, src := range newsSources {
		if strings.Contains(text, src) {
			return true
		}
	}
	return false
}

// News extracts stock news cards from the rendered feed. The page carries no
// stable classes, so cards are recognised by their content: a relative
// timestamp or a known publisher name. Duplicates (the feed repeats cards as
// it lazy-loads) collapse on the lowercased headline.
func News(htmlStr string) []NewsItem {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var items []NewsItem

	doc.Find("div, li, article").Each(func(_ int, sel *goquery.Selection) {
		text := sel.Text()
		// Containers much larger than one card are ancestors; skip them and
		// let the per-card descendant match instead.
		if len(text) > 600 || len(text) < 40 {
			return
		}
		if !looksLikeNewsCard(text) {
			return
		}
		item, ok := parseNewsCard(text)
		if !ok {
			return
		}
		key := strings.ToLower(item.Headline)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		items = append(items, item)
	})

	return items
}

func parseNewsCard(text string) (NewsItem, bool) {
	if isUIText(text) && len(text) < 80 {
		return NewsItem{}, false
	}

	var item NewsItem
	lines := splitLines(text)

	for _, line := range lines {
		// Source and timestamp share a line: "Moneycontrol - 2 hours ago".
		if item.Time == "" && reTimeAgo.MatchString(line) {
			item.Time = reTimeAgo.FindString(line)
			item.Source = sourceFromLine(line)
			continue
		}
		// Price-change lines: "Tata Motors +2.41%".
		if strings.Contains(line, "%") {
			if item.StockChange == "" {
				if m := reStockChange.FindStringSubmatch(line); m != nil {
					item.StockName = cleanText(m[1])
					item.StockChange = m[2]
				}
			}
			continue
		}
		// Headline: the longest substantial line that is neither the
		// timestamp nor a price-change fragment.
		if len(line) >= 30 && !strings.Contains(strings.ToLower(line), "ago") &&
			!isUIText(line) && len(line) > len(item.Headline) {
			item.Headline = line
		}
	}

	if item.Headline == "" {
		return NewsItem{}, false
	}
	return item, true
}

// sourceFromLine strips the timestamp off a "Publisher - 2 hours ago" or
// "Publisher · 2 hours ago" line.
func sourceFromLine(line string) string {
	for _, sep := range []string{" - ", " · ", "·", " | "} {
		if idx := strings.Index(line, sep); idx > 0 {
			return cleanText(line[:idx])
		}
	}
	cleaned := cleanText(reTimeAgo.ReplaceAllString(line, ""))
	return strings.Trim(cleaned, " -·|")
}

func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = cleanText(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}
