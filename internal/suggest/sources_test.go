package suggest

import (
	"strings"
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

func TestSources_Default(t *testing.T) {
	got := Sources(Input{Text: "Coffee coffee coffee drinkers live longer than tea drinkers"})

	if got.Strong {
		t.Error("Strong must stay false without live corroboration")
	}
	if len(got.Sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(got.Sources))
	}
	first := got.Sources[0]
	if !strings.HasPrefix(first.URL, "https://www.reuters.com/site-search/?query=coffee%20drinkers") {
		t.Errorf("URL = %s", first.URL)
	}
	if first.Title != "Reuters coverage: coffee drinkers live" {
		t.Errorf("Title = %q", first.Title)
	}
	if first.ReliabilityScore != 90 || first.Type != "secondary" {
		t.Errorf("unexpected source %+v", first)
	}
}

func TestSources_TopicsAddOutlets(t *testing.T) {
	got := Sources(Input{
		Title:    "Senate vote on vaccine funding",
		Entities: model.Entities{Topics: []string{model.TopicPolitics, model.TopicHealth}, Keywords: []string{"senate"}},
	})
	if len(got.Sources) != 6 {
		t.Fatalf("expected 6 sources, got %d", len(got.Sources))
	}
	if got.Sources[5].Type != "primary" || !strings.Contains(got.Sources[5].URL, "pubmed") {
		t.Errorf("last source should be PubMed, got %+v", got.Sources[5])
	}
	// entity keyword first, then title keywords, deduplicated
	if !strings.Contains(got.Sources[0].URL, "query=senate%20vote%20vaccine%20funding") {
		t.Errorf("URL = %s", got.Sources[0].URL)
	}
}

func TestSources_EmptyTextUsesTopicLabel(t *testing.T) {
	got := Sources(Input{})
	if got.Sources[0].Title != "Reuters coverage: topic" {
		t.Errorf("Title = %q", got.Sources[0].Title)
	}
}

func TestSearchQueries(t *testing.T) {
	q := SearchQueries("Shocking miracle cure found, miracle doctors say")
	if len(q) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(q))
	}
	if q[0] != "miracle shocking cure found site:reuters.com OR site:apnews.com OR site:bbc.com" {
		t.Errorf("q[0] = %q", q[0])
	}
	if !strings.HasSuffix(q[1], "site:snopes.com OR site:politifact.com") {
		t.Errorf("q[1] = %q", q[1])
	}
}

func TestReliability(t *testing.T) {
	if Reliability(nil) != 50 {
		t.Error("empty suggestions should score 50")
	}
	got := Reliability([]model.Source{{ReliabilityScore: 90}, {ReliabilityScore: 91}})
	if got != 91 {
		t.Errorf("Reliability() = %d, want 91", got)
	}
}
