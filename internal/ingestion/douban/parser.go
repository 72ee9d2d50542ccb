package douban

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// ListItem is one movie scraped off a Top 250 list page.
type ListItem struct {
	Title        string
	PosterURL    string
	Rating       float64
	CommentCount int
	Quote        string
}

// ParseListPage extracts the movie entries from one list page. Entries
// missing a title are skipped; every other field degrades to its zero value
// so one malformed block never sinks the page.
func ParseListPage(body []byte) ([]ListItem, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var items []ListItem
	for _, node := range findAll(doc, isItemDiv) {
		item := parseItem(node)
		if item.Title == "" {
			continue
		}
		items = append(items, item)
	}
	return items, nil
}

func parseItem(node *html.Node) ListItem {
	var item ListItem

	if img := findFirst(node, func(n *html.Node) bool { return n.Data == "img" }); img != nil {
		item.PosterURL = attr(img, "src")
	}

	// The first span.title holds the Chinese title; later ones carry the
	// slash-prefixed original title, which the catalog does not keep.
	if title := findFirst(node, hasClass("span", "title")); title != nil {
		item.Title = strings.TrimSpace(text(title))
	}

	if ratingSpan := findFirst(node, hasClass("span", "rating_num")); ratingSpan != nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(text(ratingSpan)), 64); err == nil {
			item.Rating = v
		}
	}

	// The rater count is a bare span with text like "1234567人评价"; some
	// pages comma-format the number.
	for _, span := range findAll(node, func(n *html.Node) bool { return n.Data == "span" }) {
		t := strings.TrimSpace(text(span))
		if suffix := "人评价"; strings.HasSuffix(t, suffix) {
			raw := strings.ReplaceAll(strings.TrimSuffix(t, suffix), ",", "")
			if v, err := strconv.Atoi(raw); err == nil {
				item.CommentCount = v
			}
			break
		}
	}

	if quote := findFirst(node, hasClass("span", "inq")); quote != nil {
		item.Quote = strings.TrimSpace(text(quote))
	}
	return item
}

func isItemDiv(n *html.Node) bool {
	return hasClass("div", "item")(n)
}

func hasClass(tag, class string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Data != tag {
			return false
		}
		for _, c := range strings.Fields(attr(n, "class")) {
			if c == class {
				return true
			}
		}
		return false
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// findFirst returns the first element node under root matching the predicate,
// depth first.
func findFirst(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, match); found != nil {
			return found
		}
	}
	return nil
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
			// Matching subtrees are treated as leaves; items do not nest.
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
