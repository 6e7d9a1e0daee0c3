// Package risk scores missing citations and stale context.
package risk

import (
	"regexp"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
)

var (
	numericFigure = regexp.MustCompile(`\b\d{1,3}(,\d{3})*(\.\d+)?%?\b`)
	trendPhrase   = regexp.MustCompile(`(?i)\b(doubled|tripled|all-time high|record)\b`)
)

// Citation risk increments
const (
	NoNearbyLinksRisk   = 40
	FewArticleLinksRisk = 20
	NoLinksAtAllRisk    = 10
	MinArticleLinks     = 3
)

// HasNumericClaim reports whether text states a figure or a trend superlative
func HasNumericClaim(text string) bool {
	return numericFigure.MatchString(text) || trendPhrase.MatchString(text)
}

// EvaluateCitations scores numeric claims against the links found around them
func EvaluateCitations(text string, links model.LinkCounts) model.CitationRisk {
	nearby := max(0, links.Block) + max(0, links.Before) + max(0, links.After)
	article := max(0, links.Article)

	r := model.CitationRisk{
		HasNumbers:   HasNumericClaim(text),
		NearbyLinks:  nearby,
		ArticleLinks: article,
		Notes:        []string{},
	}

	if r.HasNumbers && nearby == 0 {
		r.Risk += NoNearbyLinksRisk
		r.Notes = append(r.Notes, "Numeric/statistical claim without nearby citations.")
	}
	if r.HasNumbers && article < MinArticleLinks {
		r.Risk += FewArticleLinksRisk
		r.Notes = append(r.Notes, "Low number of links in article for numerical claims.")
	}
	if !r.HasNumbers && nearby == 0 && article == 0 {
		r.Risk += NoLinksAtAllRisk
		r.Notes = append(r.Notes, "No citations detected near the selection or in article.")
	}
	r.Risk = util.Clamp(r.Risk, 0, 100)
	return r
}
