// Package bias estimates political lean from the publishing domain and the wording.
package bias

import (
	"fmt"
	"regexp"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
)

type domainLean struct {
	label model.BiasLabel
	score int
}

var domainMap = map[string]domainLean{
	"cnn.com":            {model.BiasLeft, 35},
	"nytimes.com":        {model.BiasLeft, 40},
	"theguardian.com":    {model.BiasLeft, 40},
	"foxnews.com":        {model.BiasRight, 65},
	"dailywire.com":      {model.BiasRight, 65},
	"nationalreview.com": {model.BiasRight, 60},
	"reuters.com":        {model.BiasCenter, 50},
	"apnews.com":         {model.BiasCenter, 50},
	"bbc.com":            {model.BiasCenter, 50},
}

const (
	knownDomainConfidence   = 0.8
	unknownDomainConfidence = 0.3
	lexicalConfidence       = 0.5
	lexicalHitWeight        = 10
)

var (
	leftLexicon = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bclimate justice\b`),
		regexp.MustCompile(`(?i)\bsocial equity\b`),
		regexp.MustCompile(`(?i)\bprogressive\b`),
		regexp.MustCompile(`(?i)\bredistribution\b`),
	}
	rightLexicon = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\btax cuts\b`),
		regexp.MustCompile(`(?i)\bborder security\b`),
		regexp.MustCompile(`(?i)\bpatriot\b`),
		regexp.MustCompile(`(?i)\bwoke\b`),
	}
)

// Domain looks up the lean of a normalized host
func Domain(host string) model.BiasEstimate {
	lean, ok := domainMap[host]
	if !ok {
		evidence := host
		if evidence == "" {
			evidence = "unknown"
		}
		return model.BiasEstimate{
			Label:      model.BiasUnknown,
			Score:      50,
			Confidence: unknownDomainConfidence,
			Evidence:   evidence,
		}
	}
	return model.BiasEstimate{
		Label:      lean.label,
		Score:      lean.score,
		Confidence: knownDomainConfidence,
		Evidence:   host,
	}
}

// Lexical scores loaded wording. Each lexicon entry present adds 10 to its side;
// the score moves from 50 by the winning margin.
func Lexical(text string) model.BiasEstimate {
	left := hits(leftLexicon, text) * lexicalHitWeight
	right := hits(rightLexicon, text) * lexicalHitWeight

	est := model.BiasEstimate{
		Label:      model.BiasNeutral,
		Score:      50,
		Confidence: lexicalConfidence,
	}
	switch {
	case left > right:
		est.Label = model.BiasLeaningLeft
		est.Score = 50 - (left - right)
	case right > left:
		est.Label = model.BiasLeaningRight
		est.Score = 50 + (right - left)
	}
	est.Score = util.Clamp(est.Score, 0, 100)
	est.Evidence = fmt.Sprintf("left hits %d, right hits %d", left/lexicalHitWeight, right/lexicalHitWeight)
	return est
}

// Combine blends domain and lexical estimates, trusting a known domain more
func Combine(domain, lexical model.BiasEstimate) model.BiasEstimate {
	dw := 0.3
	if domain.Confidence > 0.5 {
		dw = 0.6
	}
	lw := 1 - dw

	composite := util.Clamp(util.Round(dw*float64(domain.Score)+lw*float64(lexical.Score)), 0, 100)

	label := model.BiasCenter
	switch {
	case composite < 47:
		label = model.BiasLeaningLeft
	case composite > 53:
		label = model.BiasLeaningRight
	}

	return model.BiasEstimate{
		Label:      label,
		Score:      composite,
		Confidence: util.ClampFloat(domain.Confidence*dw+0.6*lw, 0, 1),
		Evidence:   fmt.Sprintf("Domain: %s; Lexical score: %d", domain.Evidence, lexical.Score),
	}
}

// Estimate runs Domain, Lexical and Combine
func Estimate(host, text string) model.BiasEstimate {
	return Combine(Domain(host), Lexical(text))
}

func hits(lexicon []*regexp.Regexp, text string) int {
	n := 0
	for _, re := range lexicon {
		if re.MatchString(text) {
			n++
		}
	}
	return n
}
