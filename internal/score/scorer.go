package score

import (
	"fmt"
	"math"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/util"
)

// Inputs are the per-request signals merged into the final score
type Inputs struct {
	Baseline  int // quick score, softened on fact-checker hosts
	Selection bool
	TextLen   int // trimmed length of the analysed text
	Flags     int
	BiasScore int

	Rating string  // external fact-check rating, may be empty
	Inline Verdict // rating box on a fact-checker page

	AIEnabled    bool
	Sensational  *float64  // nil when AI is off
	ClaimScores  []float64 // nil when AI is off
	CitationRisk int
	TemporalRisk int
}

// Breakdown is the score with its transparent steps
type Breakdown struct {
	Final   int
	Signals []model.Signal
}

// Scorer merges signals and applies domain overrides
type Scorer struct {
	jitter Jitter
	rules  []OverrideRule
}

// NewScorer creates a scorer with the default override cascade.
// A nil jitter draws from math/rand/v2.
func NewScorer(jitter Jitter) *Scorer {
	if jitter == nil {
		jitter = NewRandomJitter()
	}
	return &Scorer{jitter: jitter, rules: DefaultOverrideRules()}
}

// WithRules replaces the override cascade
func (s *Scorer) WithRules(rules []OverrideRule) *Scorer {
	s.rules = rules
	return s
}

// Combine merges baseline, flags, bias, verdict, AI nudge and risk into a score in [0,100]
func (s *Scorer) Combine(in Inputs) Breakdown {
	var b Breakdown

	var final float64
	var flagSig, verdictSig model.Signal
	if in.Selection {
		final, flagSig, verdictSig = combineSelection(in)
	} else {
		final, flagSig, verdictSig = combinePage(in)
	}
	b.Signals = append(b.Signals, flagSig)
	if verdictSig.Type != "" {
		b.Signals = append(b.Signals, verdictSig)
	}
	score := util.Clamp(util.Round(final), 0, 100)

	if in.AIEnabled && in.Sensational != nil {
		delta := util.Clamp(util.Round((*in.Sensational-0.5)*10), -5, 5)
		score = util.Clamp(score+delta, 0, 100)
		b.Signals = append(b.Signals, model.Signal{
			Type:        model.SignalAINudge,
			Severity:    model.SeverityInfo,
			Description: fmt.Sprintf("Sensational tone nudge: %+d", delta),
			Data: map[string]any{
				"sensational": *in.Sensational,
				"delta":       delta,
				"formula":     "clamp(round((sensational - 0.5) * 10), -5, 5)",
			},
		})
	}

	citeFactor := 1.0
	if in.AIEnabled && len(in.ClaimScores) > 0 {
		sum := 0.0
		for _, c := range in.ClaimScores {
			sum += c
		}
		citeFactor = 0.8 + 0.4*(sum/float64(len(in.ClaimScores)))
	}
	riskDelta := float64(in.CitationRisk)*0.15*citeFactor + float64(in.TemporalRisk)*0.1
	score = util.Clamp(util.Round(float64(score)+riskDelta), 0, 100)

	b.Signals = append(b.Signals, riskSignal(model.SignalCitation, in.CitationRisk, map[string]any{
		"citation_risk": in.CitationRisk,
		"cite_factor":   citeFactor,
		"contribution":  float64(in.CitationRisk) * 0.15 * citeFactor,
		"formula":       "citation_risk * 0.15 * cite_factor (cite_factor = 0.8 + 0.4 * mean(claim_likeness) with AI, else 1)",
	}))
	b.Signals = append(b.Signals, riskSignal(model.SignalTemporal, in.TemporalRisk, map[string]any{
		"temporal_risk": in.TemporalRisk,
		"contribution":  float64(in.TemporalRisk) * 0.1,
		"formula":       "temporal_risk * 0.1",
	}))

	b.Final = score
	return b
}

func combinePage(in Inputs) (float64, model.Signal, model.Signal) {
	biasTerm := math.Max(0, float64(in.BiasScore-50)/5)
	final := clampF(float64(in.Baseline) + float64(in.Flags*5) + biasTerm)

	flagSig := model.Signal{
		Type:        model.SignalFlags,
		Severity:    flagSeverity(in.Flags),
		Description: fmt.Sprintf("%d flag kinds, bias term %.1f", in.Flags, biasTerm),
		Data: map[string]any{
			"baseline":  in.Baseline,
			"flags":     in.Flags,
			"bias":      in.BiasScore,
			"bias_term": biasTerm,
			"formula":   "baseline + 5*flags + max(0, (bias - 50) / 5)",
		},
	}

	source := "fact_check"
	v := ClassifyRating(in.Rating)
	if in.Rating == "" {
		v, source = in.Inline, "inline"
	}
	delta := 0.0
	switch v {
	case VerdictFalse:
		delta = 25
	case VerdictMixed:
		delta = 10
	case VerdictTrue:
		delta = -15
	}
	final = clampF(final + delta)
	return final, flagSig, verdictSignal(v, source, delta, "false +25, mixed +10, true -15")
}

func combineSelection(in Inputs) (float64, model.Signal, model.Signal) {
	weight := 3
	if in.TextLen < 120 {
		weight = 2
	}
	biasTerm := math.Max(0, float64(in.BiasScore-50)/6)
	final := clampF(float64(in.Baseline) + float64(in.Flags*weight) + biasTerm)

	flagSig := model.Signal{
		Type:        model.SignalFlags,
		Severity:    flagSeverity(in.Flags),
		Description: fmt.Sprintf("%d flag kinds at weight %d, bias term %.1f", in.Flags, weight, biasTerm),
		Data: map[string]any{
			"baseline":    in.Baseline,
			"flags":       in.Flags,
			"flag_weight": weight,
			"bias":        in.BiasScore,
			"bias_term":   biasTerm,
			"formula":     "baseline + weight*flags + max(0, (bias - 50) / 6), weight = 2 if len < 120 else 3",
		},
	}

	source := "fact_check"
	v := ClassifyRating(in.Rating)
	if in.Rating == "" {
		v, source = in.Inline, "inline"
	}
	delta := 0.0
	switch v {
	case VerdictFalse:
		delta = 20
	case VerdictTrue:
		delta = -12
	}
	final = clampF(final + delta)
	return final, flagSig, verdictSignal(v, source, delta, "false +20, true -12")
}

func verdictSignal(v Verdict, source string, delta float64, formula string) model.Signal {
	if v == VerdictNone {
		return model.Signal{}
	}
	severity := model.SeverityInfo
	if v == VerdictFalse {
		severity = model.SeverityCritical
	}
	return model.Signal{
		Type:        model.SignalVerdict,
		Severity:    severity,
		Description: fmt.Sprintf("Verdict %s from %s: %+.0f", v, source, delta),
		Data: map[string]any{
			"verdict": string(v),
			"source":  source,
			"delta":   delta,
			"formula": formula,
		},
	}
}

func riskSignal(t model.SignalType, risk int, data map[string]any) model.Signal {
	severity := model.SeverityInfo
	switch {
	case risk >= 40:
		severity = model.SeverityCritical
	case risk > 0:
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        t,
		Severity:    severity,
		Description: fmt.Sprintf("%s: %d", t, risk),
		Data:        data,
	}
}

func flagSeverity(n int) model.SignalSeverity {
	switch {
	case n >= 3:
		return model.SeverityCritical
	case n > 0:
		return model.SeverityWarning
	}
	return model.SeverityInfo
}

func clampF(v float64) float64 {
	return util.ClampFloat(v, 0, 100)
}
