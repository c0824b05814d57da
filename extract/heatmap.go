package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/marketgrid/nsewatch/models"
	"golang.org/x/net/html"
)

var (
	selStyled    = cascadia.MustCompile(`[style*="background"]`)
	selClicky    = cascadia.MustCompile(`a, button, [role="button"], [onclick]`)
	selIndicator = cascadia.MustCompile(`div[class*="heatmap"], div[id*="heatmap"], [class*="tile"], [class*="stock"]`)
	reRGB        = regexp.MustCompile(`rgba?\((\d+)\s*,\s*(\d+)\s*,\s*(\d+)`)
	rePercent    = regexp.MustCompile(`[-+]?\d+(?:\.\d+)?%`)
	reNumeric    = regexp.MustCompile(`^[\d,]+(?:\.\d+)?$`)
	reSymbolOK   = regexp.MustCompile(`^[A-Z][A-Z0-9&.\-]{1,19}$`)
)

// IndexCards lists the index selector cards on the heatmap page for the
// currently active category. Cards are anchors or buttons whose text names a
// NIFTY index; duplicates collapse on the index name.
func IndexCards(htmlStr string) []models.IndexCard {
	root, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var cards []models.IndexCard

	for _, node := range cascadia.QueryAll(root, selClicky) {
		text := nodeText(node)
		if len(text) > 120 || !strings.Contains(strings.ToUpper(text), "NIFTY") {
			continue
		}
		card := parseIndexCard(text)
		if card.Name == "" {
			continue
		}
		if _, dup := seen[card.Name]; dup {
			continue
		}
		seen[card.Name] = struct{}{}
		cards = append(cards, card)
	}
	return cards
}

func parseIndexCard(text string) models.IndexCard {
	var card models.IndexCard
	for _, line := range splitLines(text) {
		switch {
		case card.Name == "" && strings.Contains(strings.ToUpper(line), "NIFTY"):
			card.Name = line
		case card.Change == "" && rePercent.MatchString(line):
			card.Change = rePercent.FindString(line)
		case card.Value == "" && reNumeric.MatchString(strings.TrimSpace(line)):
			card.Value = strings.TrimSpace(line)
		}
	}
	return card
}

// Tiles extracts constituent tiles from a rendered heatmap. Tiles are the
// background-coloured boxes whose first line is a ticker symbol; the colour
// itself encodes the trend. Duplicates collapse on the symbol.
func Tiles(htmlStr string) []models.StockTile {
	root, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var tiles []models.StockTile

	for _, node := range cascadia.QueryAll(root, selStyled) {
		text := nodeText(node)
		if len(text) == 0 || len(text) > 120 {
			continue
		}
		tile, ok := parseTile(text, nodeAttr(node, "style"))
		if !ok {
			continue
		}
		if _, dup := seen[tile.Symbol]; dup {
			continue
		}
		seen[tile.Symbol] = struct{}{}
		tiles = append(tiles, tile)
	}
	return tiles
}

// HasTileView reports whether the document carries tile-view markup. After
// an index card click the page should swap from the card list to the
// heatmap; callers use this to tell a slow swap from an index with no data.
func HasTileView(htmlStr string) bool {
	root, err := html.Parse(strings.NewReader(htmlStr))
	if err != nil {
		return false
	}
	return cascadia.Query(root, selIndicator) != nil
}

func parseTile(text, style string) (models.StockTile, bool) {
	lines := splitLines(text)
	if len(lines) == 0 {
		return models.StockTile{}, false
	}

	symbol := strings.ToUpper(strings.TrimSpace(lines[0]))
	if !reSymbolOK.MatchString(symbol) || reNumeric.MatchString(symbol) {
		return models.StockTile{}, false
	}

	tile := models.StockTile{Symbol: symbol, Trend: models.TrendNeutral}
	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		switch {
		case tile.Change == "" && rePercent.MatchString(line):
			tile.Change = rePercent.FindString(line)
		case tile.Price == "" && reNumeric.MatchString(line):
			tile.Price = line
		}
	}

	if m := reRGB.FindStringSubmatch(style); m != nil {
		tile.Color = m[0] + ")"
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		tile.Trend = trendFromColor(r, g)
	}
	return tile, true
}

// trendFromColor maps tile background colour to a trend. Green-dominant
// tiles are gainers, red-dominant losers; close calls stay neutral.
func trendFromColor(r, g int) string {
	switch {
	case g > r+20:
		return models.TrendGain
	case r > g+20:
		return models.TrendLoss
	default:
		return models.TrendNeutral
	}
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				buf.WriteString(t)
				buf.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(buf.String())
}

func nodeAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
