package extract

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

var (
	capitalisedPair = regexp.MustCompile(`\b([A-Z][a-z]+\s+[A-Z][a-z]+)\b`)
	orgSuffix       = regexp.MustCompile(`\b(inc|corp|company|party|committee|foundation)\b`)
	nonAlnum        = regexp.MustCompile(`[^a-z0-9\s]`)
)

var countries = []string{
	"united states", "china", "india", "russia", "uk", "united kingdom",
	"germany", "france", "japan", "canada", "brazil",
}

type topicLexicon struct {
	topic    string
	keywords []string
}

// Matched on word boundaries so short keywords like "ai" do not fire inside "said"
var topicLexicons = []topicLexicon{
	{model.TopicPolitics, []string{"election", "parliament", "senate", "congress", "policy", "campaign", "president", "prime minister", "vote", "democrat", "republican", "conservative", "labour"}},
	{model.TopicHealth, []string{"vaccine", "virus", "covid", "cancer", "flu", "disease", "who", "cdc", "therapy", "study", "trial"}},
	{model.TopicEconomy, []string{"inflation", "gdp", "unemployment", "stocks", "market", "economy", "trade", "tariffs"}},
	{model.TopicTechnology, []string{"ai", "artificial intelligence", "chip", "semiconductor", "software", "algorithm", "cyber", "data", "privacy"}},
}

var topicPatterns = compileTopics()

type topicPattern struct {
	topic string
	re    *regexp.Regexp
}

func compileTopics() []topicPattern {
	out := make([]topicPattern, 0, len(topicLexicons))
	for _, l := range topicLexicons {
		quoted := make([]string, len(l.keywords))
		for i, k := range l.keywords {
			quoted[i] = regexp.QuoteMeta(k)
		}
		out = append(out, topicPattern{
			topic: l.topic,
			re:    regexp.MustCompile(`\b(` + strings.Join(quoted, "|") + `)\b`),
		})
	}
	return out
}

// StopWords are dropped from keyword lists
var StopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "they": true, "have": true,
	"will": true, "would": true, "could": true, "should": true, "about": true, "there": true,
	"their": true, "which": true, "were": true, "been": true, "into": true, "after": true,
	"before": true, "because": true, "while": true, "however": true, "therefore": true,
}

// entityStopWords extends StopWords for entity keywords
var entityStopWords = map[string]bool{
	"said": true, "says": true, "also": true, "more": true, "over": true,
}

// ExtractEntities pulls people, organisations, countries, topics and keywords from text
func ExtractEntities(text string) model.Entities {
	ents := model.Entities{
		People:    []string{},
		Orgs:      []string{},
		Locations: []string{},
		Topics:    []string{},
		Keywords:  []string{},
	}
	if text == "" {
		return ents
	}

	var people, orgs []string
	seen := make(map[string]bool)
	for _, m := range capitalisedPair.FindAllStringSubmatchIndex(text, -1) {
		cand := text[m[2]:m[3]]
		if seen[cand] {
			continue
		}
		seen[cand] = true

		tail := text[m[3]:min(len(text), m[3]+20)]
		if orgSuffix.MatchString(strings.ToLower(tail)) {
			orgs = append(orgs, cand)
		} else {
			people = append(people, cand)
		}
	}
	ents.People = TopK(people, 5)
	ents.Orgs = TopK(orgs, 5)

	low := strings.ToLower(text)
	var locations []string
	for _, c := range countries {
		if strings.Contains(low, c) {
			locations = append(locations, c)
		}
	}
	ents.Locations = TopK(locations, 5)

	for _, tp := range topicPatterns {
		if tp.re.MatchString(low) {
			ents.Topics = append(ents.Topics, tp.topic)
		}
	}

	ents.Keywords = TopK(Keywords(text, func(w string) bool {
		return StopWords[w] || entityStopWords[w]
	}), 8)
	return ents
}

// Keywords lowercases text, strips punctuation and returns words longer than three letters
// that skip does not reject, in text order
func Keywords(text string, skip func(string) bool) []string {
	cleaned := nonAlnum.ReplaceAllString(strings.ToLower(text), " ")
	var out []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 3 || (skip != nil && skip(w)) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// TopK returns the k most frequent items; ties keep first-seen order
func TopK(items []string, k int) []string {
	counts := make(map[string]int)
	var order []string
	for _, it := range items {
		if counts[it] == 0 {
			order = append(order, it)
		}
		counts[it]++
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > k {
		order = order[:k]
	}
	if order == nil {
		return []string{}
	}
	return order
}
