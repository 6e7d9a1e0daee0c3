package risk

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
)

// Temporal risk increments
const (
	StaleArticleRisk   = 15
	StaleReferenceRisk = 10
	staleArticleAge    = 3 * 365 * 24 * time.Hour
	staleReferenceGap  = 5
)

var yearMention = regexp.MustCompile(`\b(19|20)\d{2}\b`)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	time.RFC850,
	time.ANSIC,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02 Jan 2006",
	"2006",
}

// ParseDate parses a publish date in any of the common page layouts
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// EvaluateTemporal scores an old publish date and references to much older years.
// now is injected so results are reproducible.
func EvaluateTemporal(text, published string, now time.Time) model.TemporalRisk {
	r := model.TemporalRisk{Notes: []string{}}

	pub, ok := ParseDate(published)
	if ok && now.Sub(pub) > staleArticleAge {
		r.Risk += StaleArticleRisk
		r.Notes = append(r.Notes, "Article appears older than 3 years; check for updated evidence.")
	}

	if ok {
		if latest, found := latestYear(text); found && latest < pub.UTC().Year()-staleReferenceGap {
			r.Risk += StaleReferenceRisk
			r.Notes = append(r.Notes, "Claim references much older events than publish date; context may be outdated.")
		}
	}

	r.Risk = util.Clamp(r.Risk, 0, 100)
	return r
}

func latestYear(text string) (int, bool) {
	latest, found := 0, false
	for _, m := range yearMention.FindAllString(text, -1) {
		y, err := strconv.Atoi(m)
		if err != nil {
			continue
		}
		if !found || y > latest {
			latest, found = y, true
		}
	}
	return latest, found
}
