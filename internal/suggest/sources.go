// Package suggest proposes places to corroborate a claim.
package suggest

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
)

// Input is what source suggestion looks at
type Input struct {
	Text     string
	Title    string
	Entities model.Entities
}

// Suggestions are the proposed sources and whether live corroboration was found
type Suggestions struct {
	Sources []model.Source
	// Strong is reserved for live corroboration, which is never performed
	Strong bool
}

type outlet struct {
	label       string
	searchURL   string // %s receives the escaped query
	reliability int
	reason      string
	kind        string
}

var (
	reuters = outlet{"Reuters coverage", "https://www.reuters.com/site-search/?query=%s", 90,
		"High-authority newsroom; HTTPS; transparent masthead; corroborates with primary sources", "secondary"}
	apNews = outlet{"AP News coverage", "https://apnews.com/search?q=%s", 90,
		"Authoritative wire service; cites primary statements; HTTPS", "secondary"}
	snopes = outlet{"Snopes fact checks", "https://www.snopes.com/search/?q=%s", 92,
		"Recognized fact-checker; links to primary evidence; HTTPS", "secondary"}
	politifact = outlet{"PolitiFact checks", "https://www.politifact.com/search/?q=%s", 90,
		"Recognized political fact-checker; cites primary sources; HTTPS", "secondary"}
	who = outlet{"WHO info", "https://www.who.int/search?q=%s", 92,
		"Authoritative health guidance; primary reports; HTTPS", "secondary"}
	pubmed = outlet{"PubMed studies", "https://pubmed.ncbi.nlm.nih.gov/?term=%s", 93,
		"Peer-reviewed literature index; links to DOIs; HTTPS", "primary"}
)

// Sources builds site-search links from entity keywords mixed with title (or text) keywords.
// Politics adds PolitiFact; health adds WHO and PubMed.
func Sources(in Input) Suggestions {
	base := in.Title
	if base == "" {
		base = in.Text
	}
	entityKws := in.Entities.Keywords
	if len(entityKws) > 4 {
		entityKws = entityKws[:4]
	}
	mix := dedupe(append(append([]string{}, entityKws...), keywords(base, 6)...))
	if len(mix) > 4 {
		mix = mix[:4]
	}

	label := strings.Join(mix[:min(3, len(mix))], " ")
	if label == "" {
		label = "topic"
	}
	q := escape(strings.Join(mix, " "))

	outlets := []outlet{reuters, apNews, snopes}
	if in.Entities.HasTopic(model.TopicPolitics) {
		outlets = append(outlets, politifact)
	}
	if in.Entities.HasTopic(model.TopicHealth) {
		outlets = append(outlets, who, pubmed)
	}

	sources := make([]model.Source, 0, len(outlets))
	for _, o := range outlets {
		sources = append(sources, model.Source{
			Title:            o.label + ": " + label,
			URL:              fmt.Sprintf(o.searchURL, q),
			ReliabilityScore: o.reliability,
			Reason:           o.reason,
			Type:             o.kind,
		})
	}
	return Suggestions{Sources: sources}
}

// SearchQueries returns a newsroom query and a fact-checker query from the top keywords
func SearchQueries(text string) []string {
	kws := keywords(text, 6)
	if len(kws) > 4 {
		kws = kws[:4]
	}
	q := strings.Join(kws, " ")
	return []string{
		q + " site:reuters.com OR site:apnews.com OR site:bbc.com",
		q + " site:snopes.com OR site:politifact.com",
	}
}

// Reliability is the rounded mean reliability of the suggestions, 50 for none
func Reliability(sources []model.Source) int {
	if len(sources) == 0 {
		return 50
	}
	sum := 0
	for _, s := range sources {
		sum += s.ReliabilityScore
	}
	return util.Round(float64(sum) / float64(len(sources)))
}

func keywords(text string, k int) []string {
	return extract.TopK(extract.Keywords(text, func(w string) bool { return extract.StopWords[w] }), k)
}

func escape(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
