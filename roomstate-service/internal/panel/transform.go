// Package panel turns the broadcaster panel markup into rows and derives
// the active goal from them.
package panel

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/weiawesome/wes-io-live/roomstate-service/internal/domain"
)

// Transform converts a table-like markup fragment into ordered label/value
// rows, one per table row. Header cell text is the label, data cell text
// the value. Rows without header cells use their first two data cells.
func Transform(fragment string) ([]domain.PanelRow, error) {
	// Bare rows are dropped by the parser outside a table context.
	if !strings.Contains(strings.ToLower(fragment), "<table") {
		fragment = "<table>" + fragment + "</table>"
	}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		return nil, fmt.Errorf("failed to parse panel markup: %w", err)
	}

	rows := []domain.PanelRow{}
	walk(doc, func(n *html.Node) bool {
		if n.Type != html.ElementNode || n.DataAtom != atom.Tr {
			return true
		}
		if row, ok := transformRow(n); ok {
			rows = append(rows, row)
		}
		return false
	})

	return rows, nil
}

func transformRow(tr *html.Node) (domain.PanelRow, bool) {
	var headers, cells []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Th:
			headers = append(headers, textOf(c))
		case atom.Td:
			cells = append(cells, textOf(c))
		}
	}

	switch {
	case len(headers) > 0:
		row := domain.PanelRow{Label: cleanLabel(headers[0])}
		if len(cells) > 0 {
			row.Value = cleanValue(cells[0])
		}
		return row, true
	case len(cells) >= 2:
		return domain.PanelRow{Label: cleanLabel(cells[0]), Value: cleanValue(cells[1])}, true
	case len(cells) == 1:
		return domain.PanelRow{Value: cleanValue(cells[0])}, true
	}
	return domain.PanelRow{}, false
}

func cleanLabel(s string) string {
	s = stripNewlines(s)
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ":-")
	return strings.TrimSpace(s)
}

func cleanValue(s string) string {
	return strings.TrimSpace(stripNewlines(s))
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r\n", "", "\n", "", "\r", "").Replace(s)
}

func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		switch {
		case c.Type == html.TextNode:
			b.WriteString(c.Data)
		case c.Type == html.ElementNode && c.DataAtom == atom.Br:
			b.WriteString("\n")
		}
		return true
	})
	return b.String()
}

// walk visits n and its descendants depth-first; returning false from fn
// skips the children of that node.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}
