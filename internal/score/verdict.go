package score

import (
	"regexp"
	"strings"
)

// Verdict is the direction of a fact-check rating
type Verdict string

const (
	VerdictNone  Verdict = ""
	VerdictFalse Verdict = "false"
	VerdictMixed Verdict = "mixed"
	VerdictTrue  Verdict = "true"
)

var (
	falseRating = regexp.MustCompile(`false|fake|debunked|pants on fire|incorrect`)
	mixedRating = regexp.MustCompile(`mixture|unproven|contested`)
	trueRating  = regexp.MustCompile(`true|correct`)
)

// ClassifyRating maps a free-form rating to one verdict.
// Checks run false, mixed, true so "incorrect" is never read as "correct".
func ClassifyRating(rating string) Verdict {
	v := strings.ToLower(strings.TrimSpace(rating))
	switch {
	case v == "":
		return VerdictNone
	case falseRating.MatchString(v):
		return VerdictFalse
	case mixedRating.MatchString(v):
		return VerdictMixed
	case trueRating.MatchString(v):
		return VerdictTrue
	}
	return VerdictNone
}

var (
	inlineTrue = []*regexp.Regexp{
		regexp.MustCompile(`rating\s*:\s*true`),
		regexp.MustCompile(`\brating\b[^\n]{0,30}\btrue\b`),
		regexp.MustCompile(`\bverdict\b[^\n]{0,30}\btrue\b`),
	}
	inlineFalse = []*regexp.Regexp{
		regexp.MustCompile(`rating\s*:\s*false`),
		regexp.MustCompile(`\brating\b[^\n]{0,30}\bfalse\b`),
		regexp.MustCompile(`\bverdict\b[^\n]{0,30}\bfalse\b`),
	}

	snopesRatingTrue  = regexp.MustCompile(`\brating\b[^\n]{0,40}\btrue\b`)
	snopesRatingFalse = regexp.MustCompile(`\brating\b[^\n]{0,40}\bfalse\b`)
	wordTrue          = regexp.MustCompile(`\btrue\b`)
)

// DetectInlineVerdict reads a rating box printed on a fact-checker page.
// A true rating is checked first.
func DetectInlineVerdict(text string) Verdict {
	t := strings.ToLower(text)
	for _, re := range inlineTrue {
		if re.MatchString(t) {
			return VerdictTrue
		}
	}
	for _, re := range inlineFalse {
		if re.MatchString(t) {
			return VerdictFalse
		}
	}
	return VerdictNone
}

// VerdictEvidence gathers everything known about the claim's verdict
type VerdictEvidence struct {
	Rating      string  // external fact-check rating, may be empty
	Inline      Verdict // rating found on a fact-checker page
	Snopes      bool    // host is snopes.com
	ContextText string
	Title       string
}

// Positive reports a true verdict from any source
func (e VerdictEvidence) Positive() bool {
	if ClassifyRating(e.Rating) == VerdictTrue || e.Inline == VerdictTrue {
		return true
	}
	if e.Snopes {
		return snopesRatingTrue.MatchString(strings.ToLower(e.ContextText)) ||
			wordTrue.MatchString(strings.ToLower(e.Title))
	}
	return false
}

// Negative reports a false verdict from any source
func (e VerdictEvidence) Negative() bool {
	if ClassifyRating(e.Rating) == VerdictFalse || e.Inline == VerdictFalse {
		return true
	}
	return e.Snopes && snopesRatingFalse.MatchString(strings.ToLower(e.ContextText))
}
