package score

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
)

// QuickBaseline is the neutral starting point of the quick score
const QuickBaseline = 50

type quickRule struct {
	name    string
	points  int
	matches func(string) bool
}

var (
	repeatedBang   = regexp.MustCompile(`!{2,}`)
	alarmWords     = regexp.MustCompile(`(?i)\b(guaranteed|shocking|unbelievable|exposed)\b`)
	absolutes      = regexp.MustCompile(`(?i)\b(always|never|everyone|everybody|no one|nobody|none|guaranteed|certainly)\b|\b100%`)
	bigFigure      = regexp.MustCompile(`\b\d{2,}%|\b\d{4,}\b`)
	capitalsRunOf5 = regexp.MustCompile(`[A-Z]{5,}`)
)

var quickRules = []quickRule{
	{"alarm", 15, func(t string) bool { return repeatedBang.MatchString(t) || alarmWords.MatchString(t) }},
	{"absolutist", 10, absolutes.MatchString},
	{"figures", 5, bigFigure.MatchString},
	{"capitals", 5, capitalsRunOf5.MatchString},
}

// QuickScore is the pre-AI heuristic baseline in [0,100]
func QuickScore(text string) (int, model.Signal) {
	score := QuickBaseline
	hits := map[string]any{}
	for _, r := range quickRules {
		if r.matches(text) {
			score += r.points
			hits[r.name] = r.points
		}
	}
	score = util.Clamp(score, 0, 100)

	severity := model.SeverityInfo
	switch {
	case score >= 80:
		severity = model.SeverityCritical
	case score > QuickBaseline:
		severity = model.SeverityWarning
	}

	return score, model.Signal{
		Type:        model.SignalQuickScore,
		Severity:    severity,
		Description: fmt.Sprintf("Quick heuristic score: %d", score),
		Data: map[string]any{
			"baseline": QuickBaseline,
			"hits":     hits,
			"score":    score,
			"formula":  "50 + 15*alarm + 10*absolutist + 5*figures + 5*capitals",
		},
	}
}
