package extract

import (
	"regexp"

	"github.com/ppiankov/credence/internal/model"
)

// MaxHighlights bounds the highlight list across all rules
const MaxHighlights = 50

// Category values attached to highlights
const (
	CategoryLanguageBias    = "language_bias"
	CategoryMissingEvidence = "missing_evidence"
	CategoryProvenFalse     = "proven_false"
)

// FlagRule maps a pattern to a flag kind
type FlagRule struct {
	Kind        model.FlagKind
	Pattern     *regexp.Regexp
	Explanation string
	Category    string
}

// FlagRules is the ordered rule table; highlight order follows it
var FlagRules = []FlagRule{
	{
		Kind:        model.FlagExaggeration,
		Pattern:     regexp.MustCompile(`(?i)\b(doubles your lifespan|cure-all|miracle|100% safe|guaranteed)\b`),
		Explanation: "Potential exaggeration; needs citation or nuance.",
		Category:    CategoryLanguageBias,
	},
	{
		Kind:        model.FlagSensationalism,
		Pattern:     regexp.MustCompile(`(?i)\b(shocking|explosive|exposed|cover-?up|you won't believe)\b`),
		Explanation: "Likely sensational framing; may overstate the claim.",
		Category:    CategoryLanguageBias,
	},
	{
		Kind:        model.FlagBiasedLanguage,
		Pattern:     regexp.MustCompile(`(?i)\b(corrupt elites|mainstream media lies|traitors|sheeple)\b`),
		Explanation: "Potentially biased language; consider neutral wording.",
		Category:    CategoryLanguageBias,
	},
	{
		// No trailing \b: a boundary after '%' would require a word character to follow
		Kind:        model.FlagUncitedStatistic,
		Pattern:     regexp.MustCompile(`\b\d{1,3}%`),
		Explanation: "Statistic may lack citation; verify origin and methodology.",
		Category:    CategoryMissingEvidence,
	},
	{
		Kind:        model.FlagSourceAmbiguity,
		Pattern:     regexp.MustCompile(`(?i)\b(experts say|sources claim|it is said)\b`),
		Explanation: "Ambiguous source reference; look for named sources.",
		Category:    CategoryMissingEvidence,
	},
	{
		Kind:        model.FlagMisleadingContext,
		Pattern:     regexp.MustCompile(`(?i)\b(out of context|taken out of context)\b`),
		Explanation: "Context warning; check surrounding info and dates.",
		Category:    CategoryMissingEvidence,
	},
}

// FindHighlights runs every rule over text.
// Output is in rule order then match order, truncated to MaxHighlights.
func FindHighlights(text string) []model.Highlight {
	return findHighlights(FlagRules, text)
}

func findHighlights(rules []FlagRule, text string) []model.Highlight {
	out := make([]model.Highlight, 0)
	for _, r := range rules {
		for _, loc := range r.Pattern.FindAllStringIndex(text, -1) {
			out = append(out, model.Highlight{
				Span:        text[loc[0]:loc[1]],
				Start:       loc[0],
				End:         loc[1],
				Reason:      r.Kind,
				Explanation: r.Explanation,
				Category:    r.Category,
			})
		}
	}
	if len(out) > MaxHighlights {
		out = out[:MaxHighlights]
	}
	return out
}

// AggregateFlags returns the distinct known flag kinds in first-seen order
func AggregateFlags(highlights []model.Highlight) []model.FlagKind {
	flags := make([]model.FlagKind, 0)
	seen := make(map[model.FlagKind]bool)
	for _, h := range highlights {
		if seen[h.Reason] || !model.IsKnownFlag(h.Reason) {
			continue
		}
		seen[h.Reason] = true
		flags = append(flags, h.Reason)
	}
	return flags
}
