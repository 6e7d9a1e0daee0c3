package model

// BiasLabel is a categorical lean estimate
type BiasLabel string

const (
	BiasLeft         BiasLabel = "Left"
	BiasRight        BiasLabel = "Right"
	BiasCenter       BiasLabel = "Center"
	BiasNeutral      BiasLabel = "Neutral"
	BiasLeaningLeft  BiasLabel = "Leaning Left"
	BiasLeaningRight BiasLabel = "Leaning Right"
	BiasUnknown      BiasLabel = "Unknown"
)

// BiasEstimate is a lean estimate with a 0-100 score (50 = balanced)
type BiasEstimate struct {
	Label      BiasLabel `json:"label"`
	Score      int       `json:"score"`
	Confidence float64   `json:"confidence"`
	Evidence   string    `json:"evidence"`
}

// CitationRisk is the penalty for numeric claims that lack nearby links
type CitationRisk struct {
	HasNumbers   bool     `json:"has_numbers"`
	NearbyLinks  int      `json:"nearby_links"`
	ArticleLinks int      `json:"article_links"`
	Risk         int      `json:"risk"` // 0-100
	Notes        []string `json:"notes"`
}

// TemporalRisk is the penalty for stale articles or stale references
type TemporalRisk struct {
	Risk  int      `json:"risk"` // 0-100
	Notes []string `json:"notes"`
}

// FactCheck is a normalized fact-check API result
type FactCheck struct {
	Rating   string `json:"rating,omitempty"`
	Evidence string `json:"evidence,omitempty"`
	URL      string `json:"url,omitempty"`
	Title    string `json:"title,omitempty"`
}

// FactCheckLookup is the outcome of an opt-in fact-check lookup
type FactCheckLookup struct {
	Used   bool       `json:"used"`
	Result *FactCheck `json:"result"`
	Error  string     `json:"error,omitempty"`
	Cached bool       `json:"cached,omitempty"`
}

// Rating returns the verdict rating or "" when no result is present
func (l *FactCheckLookup) Rating() string {
	if l == nil || l.Result == nil {
		return ""
	}
	return l.Result.Rating
}

// Source is a suggested place to corroborate the claim
type Source struct {
	Title            string `json:"title"`
	URL              string `json:"url"`
	ReliabilityScore int    `json:"reliability_score"`
	Reason           string `json:"reason"`
	EvidenceSnippet  string `json:"evidence_snippet,omitempty"`
	Type             string `json:"type"` // primary, secondary
}
