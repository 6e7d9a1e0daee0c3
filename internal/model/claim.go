package model

// FlagKind is one of the closed set of textual-risk categories
type FlagKind string

const (
	FlagExaggeration      FlagKind = "exaggeration"       // Overstated benefit or certainty
	FlagMissingEvidence   FlagKind = "missing_evidence"   // Claim lacks supporting citation
	FlagSensationalism    FlagKind = "sensationalism"     // Shock framing
	FlagBiasedLanguage    FlagKind = "biased_language"    // Loaded, partisan wording
	FlagUncitedStatistic  FlagKind = "uncited_statistic"  // Percentage or figure with no source
	FlagSourceAmbiguity   FlagKind = "source_ambiguity"   // "experts say" style attribution
	FlagMisleadingContext FlagKind = "misleading_context" // Context warning or fact-check mismatch
)

// AllFlags lists every flag kind in canonical order
var AllFlags = []FlagKind{
	FlagExaggeration,
	FlagMissingEvidence,
	FlagSensationalism,
	FlagBiasedLanguage,
	FlagUncitedStatistic,
	FlagSourceAmbiguity,
	FlagMisleadingContext,
}

// IsKnownFlag reports whether k belongs to the closed flag set
func IsKnownFlag(k FlagKind) bool {
	for _, f := range AllFlags {
		if f == k {
			return true
		}
	}
	return false
}

// Highlight is a flagged span of the analysed text
type Highlight struct {
	Span          string   `json:"span"`
	Start         int      `json:"start"` // Byte offset into the text
	End           int      `json:"end"`
	Reason        FlagKind `json:"reason"`
	Explanation   string   `json:"explanation"`
	Category      string   `json:"category"`
	SourceURL     string   `json:"source_url,omitempty"`
	ClaimLikeness *float64 `json:"claim_likeness,omitempty"` // Set only when AI ranking ran
}

// Entities are people, organisations, places and topics mentioned in the text
type Entities struct {
	People    []string `json:"people"`
	Orgs      []string `json:"orgs"`
	Locations []string `json:"locations"`
	Topics    []string `json:"topics"`
	Keywords  []string `json:"keywords"`
}

// Topic names produced by the entity extractor
const (
	TopicPolitics   = "politics"
	TopicHealth     = "health"
	TopicEconomy    = "economy"
	TopicTechnology = "technology"
)

// HasTopic reports whether the topic was detected
func (e Entities) HasTopic(topic string) bool {
	for _, t := range e.Topics {
		if t == topic {
			return true
		}
	}
	return false
}
