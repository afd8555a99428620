package scraper

import (
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"tds-export/utils"
)

// fetchTimeout bounds the single GET per help page. There is no retry: a
// slow or missing page just means a sheet without header notes.
const fetchTimeout = 10 * time.Second

// Client fetches field-mapping help pages.
type Client struct {
	http   *http.Client
	logger *utils.Logger
}

func NewClient(logger *utils.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: fetchTimeout},
		logger: logger,
	}
}

// FieldDefinitions fetches a help page and extracts field name to
// description from its mapping tables. Every failure mode — empty URL,
// network error, bad status, unparseable body — degrades to an empty map;
// the caller never sees an error.
func (c *Client) FieldDefinitions(url string) map[string]string {
	defs := make(map[string]string)
	if url == "" {
		return defs
	}

	resp, err := c.http.Get(url)
	if err != nil {
		c.logger.Warn("[scraper] %s unreachable: %v", url, err)
		return defs
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("[scraper] %s returned %s", url, resp.Status)
		return defs
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.logger.Warn("[scraper] %s not parseable: %v", url, err)
		return defs
	}

	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		field := strings.TrimSpace(cells.Eq(0).Text())
		if field == "" {
			return
		}
		defs[field] = descriptionText(cells.Eq(1))
	})

	c.logger.Debug("[scraper] %s: %d definitions", url, len(defs))
	return defs
}

// descriptionText flattens a description cell, keeping the line breaks the
// page expresses as br, p, or li boundaries. Each line is trimmed and empty
// lines are dropped.
func descriptionText(cell *goquery.Selection) string {
	var b strings.Builder
	for _, n := range cell.Nodes {
		writeNodeText(&b, n)
	}

	var lines []string
	for _, line := range strings.Split(b.String(), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

func writeNodeText(b *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "br", "p", "li":
			b.WriteString("\n")
		}
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		writeNodeText(b, child)
	}
}
