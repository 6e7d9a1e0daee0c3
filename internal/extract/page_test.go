package extract

import (
	"strings"
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

const samplePage = `<!doctype html>
<html>
<head>
	<title>Fallback title</title>
	<meta property="og:title" content="Study finds coffee doubles your lifespan">
	<meta name="description" content="A look at the new study.">
	<meta property="article:published_time" content="2019-03-04T10:00:00Z">
	<script>var hidden = "do not include";</script>
</head>
<body>
	<nav><a href="/home">Home</a></nav>
	<h1>Coffee and   longevity</h1>
	<p>Researchers say 80% of drinkers live longer.</p>
	<p>See <a href="https://journal.example.org/paper">the paper</a> and
	<a href="https://journal.example.org/paper#section">its section</a> and
	<a href="/related">related</a> and <a href="mailto:x@example.com">mail</a>
	and <a href="https://data.example.net/set">data</a>.</p>
	<style>.x { color: red }</style>
</body>
</html>`

func TestParsePage(t *testing.T) {
	p, err := ParsePage([]byte(samplePage), "https://news.example.com/story")
	if err != nil {
		t.Fatalf("ParsePage() error = %v", err)
	}

	if p.Title != "Study finds coffee doubles your lifespan" {
		t.Errorf("Title = %q", p.Title)
	}
	if p.Description != "A look at the new study." {
		t.Errorf("Description = %q", p.Description)
	}
	if p.Headline != "Coffee and longevity" {
		t.Errorf("Headline = %q", p.Headline)
	}
	if p.Published != "2019-03-04T10:00:00Z" {
		t.Errorf("Published = %q", p.Published)
	}
	if !strings.Contains(p.Text, "80% of drinkers") {
		t.Errorf("Text missing paragraph: %q", p.Text)
	}
	if strings.Contains(p.Text, "do not include") || strings.Contains(p.Text, "color: red") {
		t.Errorf("Text includes non-visible content: %q", p.Text)
	}
	// journal paper (fragment deduped) + data set; same-host and mailto links excluded
	if p.OutboundLinks != 2 {
		t.Errorf("OutboundLinks = %d, want 2", p.OutboundLinks)
	}
}

func TestPageRequest(t *testing.T) {
	p := &Page{URL: "https://x.example", Title: "T", Text: "body", Published: "2020-01-01", OutboundLinks: 4}
	req := p.Request()

	if req.Mode != model.ModePage {
		t.Errorf("Mode = %s, want page", req.Mode)
	}
	if req.Meta.LinkCounts.Block != 4 || req.Meta.LinkCounts.Article != 4 {
		t.Errorf("LinkCounts = %+v", req.Meta.LinkCounts)
	}
	if req.Meta.Published != "2020-01-01" || req.Title != "T" {
		t.Errorf("request lost metadata: %+v", req)
	}
}

func TestParsePage_BadURL(t *testing.T) {
	if _, err := ParsePage([]byte("<p>x</p>"), "://bad"); err == nil {
		t.Error("expected error for invalid page url")
	}
}

func TestStripHTML(t *testing.T) {
	got := StripHTML(`<p>Hello <b>world</b></p>  <p>again</p>`)
	if got != "Hello world again" {
		t.Errorf("StripHTML() = %q", got)
	}
}
