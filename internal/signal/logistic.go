// Package signal holds the fixed-weight logistic models used when AI assist is enabled.
// The weights are hand-set, not trained.
package signal

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/credence/internal/util"
)

// MaxSentences bounds how many sentences are scored per request
const MaxSentences = 100

// Model is a logistic model over named features
type Model struct {
	Bias    float64
	Weights map[string]float64
}

// Score returns sigmoid(bias + sum(w*f)) clamped to [0,1]
func (m Model) Score(features map[string]float64) float64 {
	z := m.Bias
	for name, w := range m.Weights {
		z += w * features[name]
	}
	return util.ClampFloat(Sigmoid(z), 0, 1)
}

// Sigmoid is the numerically stable logistic function
func Sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// ClaimModel rates how assertion-like a sentence is
var ClaimModel = Model{
	Bias: -1.0,
	Weights: map[string]float64{
		"len_norm":    1.2,
		"has_number":  1.0,
		"verb_ratio":  2.0,
		"has_modal":   0.6,
		"attribution": 1.4,
	},
}

// SensationalModel rates sensational tone of a document
var SensationalModel = Model{
	Bias: -2.0,
	Weights: map[string]float64{
		"sens_hits":    0.6,
		"exclamations": 0.25,
		"cap_ratio":    3.0,
		"superlatives": 0.35,
	},
}

var (
	assertionVerbs = regexp.MustCompile(`\b(is|are|was|were|has|have|had|says|said|claims?|reports?|states?|announced|confirms?)\b`)
	modalVerbs     = regexp.MustCompile(`\b(will|would|should|could|may|might|can|cannot)\b`)
	attribution    = regexp.MustCompile(`\b(according to|as per|data shows|study finds|report (?:by|says))\b`)
	digit          = regexp.MustCompile(`\d`)

	sensationalWords = regexp.MustCompile(`\b(shocking|explosive|unbelievable|cover-?up|outrage|betrayal|exposed|disaster|meltdown|scandal|guaranteed|miracle)\b`)
	superlatives     = regexp.MustCompile(`\b(always|never|everyone|no one|worst|best|ultimate)\b`)
	capsRun          = regexp.MustCompile(`[A-Z]{4,}`)
)

// ClaimFeatures extracts the claim-likeness features of one sentence
func ClaimFeatures(sentence string) map[string]float64 {
	low := strings.ToLower(sentence)
	tokens := strings.Fields(sentence)

	f := map[string]float64{
		"len_norm": math.Min(1, float64(utf8.RuneCountInString(sentence))/220),
	}
	if digit.MatchString(sentence) {
		f["has_number"] = 1
	}
	if len(tokens) > 0 {
		verbs := len(assertionVerbs.FindAllStringIndex(low, -1))
		f["verb_ratio"] = math.Min(1, float64(verbs)/math.Max(5, float64(len(tokens))))
	}
	if modalVerbs.MatchString(low) {
		f["has_modal"] = 1
	}
	if attribution.MatchString(low) {
		f["attribution"] = 1
	}
	return f
}

// SensationalFeatures extracts the tone features of a document
func SensationalFeatures(text string) map[string]float64 {
	low := strings.ToLower(text)
	tokens := strings.Fields(text)

	f := map[string]float64{
		"sens_hits":    float64(len(sensationalWords.FindAllStringIndex(low, -1))),
		"exclamations": float64(strings.Count(text, "!")),
		"superlatives": float64(len(superlatives.FindAllStringIndex(low, -1))),
	}
	if len(tokens) > 0 {
		caps := 0
		for _, tok := range tokens {
			if capsRun.MatchString(tok) && !digit.MatchString(tok) {
				caps++
			}
		}
		f["cap_ratio"] = math.Min(1, float64(caps)/float64(len(tokens)))
	}
	return f
}

// ClaimLikeness scores each sentence, at most MaxSentences of them; nil for no input
func ClaimLikeness(sentences []string) []float64 {
	if len(sentences) == 0 {
		return nil
	}
	if len(sentences) > MaxSentences {
		sentences = sentences[:MaxSentences]
	}
	out := make([]float64, len(sentences))
	for i, s := range sentences {
		out[i] = ClaimModel.Score(ClaimFeatures(s))
	}
	return out
}

// Sensational scores the tone of text
func Sensational(text string) float64 {
	return SensationalModel.Score(SensationalFeatures(text))
}

// Mean is the arithmetic mean, 0 for no values
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
