package extract

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/ppiankov/credence/internal/model"
)

// Page is the analysable content of a fetched HTML document
type Page struct {
	URL           string
	Title         string
	Description   string
	Headline      string
	Published     string
	Text          string
	OutboundLinks int
}

// ParsePage extracts visible text, metadata and outbound link counts from HTML
func ParsePage(body []byte, pageURL string) (*Page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	p := &Page{
		URL:         pageURL,
		Title:       firstNonEmpty(metaContent(doc, "og:title"), strings.TrimSpace(doc.Find("title").First().Text())),
		Description: firstNonEmpty(metaContent(doc, "og:description"), metaContent(doc, "description")),
		Headline:    strings.Join(strings.Fields(doc.Find("h1").First().Text()), " "),
		Published:   publishedDate(doc),
	}

	content := root
	if b := doc.Find("body").Nodes; len(b) > 0 {
		content = b[0]
	}
	p.Text = visibleText(content)

	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		resolved := resolveLink(base, href)
		if resolved == nil || seen[resolved.String()] {
			return
		}
		seen[resolved.String()] = true
		if !strings.EqualFold(resolved.Hostname(), base.Hostname()) {
			p.OutboundLinks++
		}
	})

	return p, nil
}

// Request builds a page-mode analysis request.
// Without block-level context the whole article's outbound links count as nearby.
func (p *Page) Request() model.AnalysisRequest {
	return model.AnalysisRequest{
		Text:  p.Text,
		URL:   p.URL,
		Title: p.Title,
		Mode:  model.ModePage,
		Meta: model.RequestMeta{
			Description: p.Description,
			Headline:    p.Headline,
			Published:   p.Published,
			LinkCounts: model.LinkCounts{
				Block:   p.OutboundLinks,
				Article: p.OutboundLinks,
			},
		},
	}
}

// StripHTML returns the visible text of an HTML fragment
func StripHTML(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func metaContent(doc *goquery.Document, name string) string {
	sel := doc.Find(fmt.Sprintf(`meta[property=%q], meta[name=%q]`, name, name)).First()
	v, _ := sel.Attr("content")
	return strings.TrimSpace(v)
}

func publishedDate(doc *goquery.Document) string {
	for _, name := range []string{"article:published_time", "og:published_time", "date", "pubdate"} {
		if v := metaContent(doc, name); v != "" {
			return v
		}
	}
	if v, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// visibleText collects text nodes, skipping non-rendered elements
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe", "template", "svg", "nav", "footer":
				return
			}
		}
		if n.Type == html.TextNode {
			if t := strings.Join(strings.Fields(n.Data), " "); t != "" {
				if buf.Len() > 0 {
					buf.WriteByte(' ')
				}
				buf.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// resolveLink resolves href against base, keeping only http(s) targets
func resolveLink(base *url.URL, href string) *url.URL {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return nil
	}
	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") || strings.HasPrefix(lower, "mailto:") {
		return nil
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return nil
	}
	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return nil
	}
	resolved.Fragment = ""
	return resolved
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
