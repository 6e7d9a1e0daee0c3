package score

import (
	"fmt"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/reputation"
)

// DomainFacts describe the publishing host and the verdict evidence about the claim
type DomainFacts struct {
	Host        string
	FactChecker bool
	Snopes      bool
	Trusted     bool
	Tier        reputation.Tier
	Positive    bool
	Negative    bool
}

// OverrideRule caps or floors the score for a class of hosts.
// Rules run in order; the first matching rule ends the cascade
// except that rules marked Always are evaluated regardless.
type OverrideRule struct {
	Name    string
	Always  bool
	Applies func(DomainFacts) bool
	Apply   func(score int, f DomainFacts, j Jitter) (int, string)
}

// Override notices
const (
	NoticeFactCheckTrue = "Authoritative fact-check indicates TRUE; authenticity boosted."
	NoticeSnopesDefault = "Trusted fact-check domain detected (Snopes); defaulting to high authenticity."
	NoticeSnopesFalse   = "Snopes indicates FALSE; raising suspicion."
	NoticeTrustedNews   = "Trusted major news domain detected; defaulting to high authenticity."
	NoticeUntiered      = "Domain not in tiers; defaulting to ≤50% authenticity."
)

// SnopesFalseFloor is the minimum score when Snopes rates the claim false
const SnopesFalseFloor = 85

// DefaultOverrideRules is the cascade in priority order
func DefaultOverrideRules() []OverrideRule {
	rules := []OverrideRule{
		{
			Name:    "fact_checker_positive",
			Applies: func(f DomainFacts) bool { return f.FactChecker && f.Positive },
			Apply: func(s int, _ DomainFacts, j Jitter) (int, string) {
				return min(s, j.IntRange(1, 5)), NoticeFactCheckTrue
			},
		},
		{
			Name:    "snopes_default_trust",
			Applies: func(f DomainFacts) bool { return f.Snopes && !f.Negative },
			Apply: func(s int, f DomainFacts, j Jitter) (int, string) {
				notice := NoticeSnopesDefault
				if f.Positive {
					notice = ""
				}
				return min(s, j.IntRange(1, 5)), notice
			},
		},
		{
			Name:    "snopes_false",
			Always:  true,
			Applies: func(f DomainFacts) bool { return f.Snopes && f.Negative },
			Apply: func(s int, _ DomainFacts, _ Jitter) (int, string) {
				return max(s, SnopesFalseFloor), NoticeSnopesFalse
			},
		},
		{
			Name:    "trusted_news",
			Applies: func(f DomainFacts) bool { return f.Trusted && !f.Negative },
			Apply: func(s int, _ DomainFacts, j Jitter) (int, string) {
				return min(s, j.IntRange(3, 10)), NoticeTrustedNews
			},
		},
	}

	for _, t := range []reputation.Tier{reputation.Tier80, reputation.Tier70, reputation.Tier60, reputation.Tier50} {
		tier := t
		rules = append(rules, OverrideRule{
			Name:    fmt.Sprintf("tier_%d", tier),
			Applies: func(f DomainFacts) bool { return !f.Negative && f.Tier == tier },
			Apply: func(s int, _ DomainFacts, j Jitter) (int, string) {
				lo, hi := tier.Range()
				return min(s, j.IntRange(lo, hi)), fmt.Sprintf("Tier: %d%%+ Authentic domain.", tier)
			},
		})
	}

	return append(rules, OverrideRule{
		Name:    "untiered_floor",
		Applies: func(f DomainFacts) bool { return !f.Negative },
		Apply: func(s int, _ DomainFacts, j Jitter) (int, string) {
			return max(s, j.IntRange(51, 85)), NoticeUntiered
		},
	})
}

// Override runs the cascade and returns the adjusted score, notices and a signal
// naming the rules that fired
func (s *Scorer) Override(score int, f DomainFacts) (int, []string, model.Signal) {
	var notices, fired []string
	handled := false
	before := score

	for _, r := range s.rules {
		if handled && !r.Always {
			continue
		}
		if !r.Applies(f) {
			continue
		}
		var notice string
		score, notice = r.Apply(score, f, s.jitter)
		if notice != "" {
			notices = append(notices, notice)
		}
		fired = append(fired, r.Name)
		handled = true
	}

	sig := model.Signal{
		Type:        model.SignalOverride,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("Domain override: %d -> %d", before, score),
		Data: map[string]any{
			"host":   f.Host,
			"rules":  fired,
			"before": before,
			"after":  score,
			"tier":   int(f.Tier),
		},
	}
	if f.Negative {
		sig.Severity = model.SeverityWarning
	}
	return score, notices, sig
}
