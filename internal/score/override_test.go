package score

import (
	"testing"

	"github.com/ppiankov/credence/internal/reputation"
)

func TestOverride_Cascade(t *testing.T) {
	tests := []struct {
		desc   string
		score  int
		facts  DomainFacts
		jitter Jitter
		want   int
		rules  []string
		notice string
	}{
		{
			desc:   "fact-checker with positive verdict",
			score:  60,
			facts:  DomainFacts{Host: "politifact.com", FactChecker: true, Positive: true},
			jitter: Midpoint{},
			want:   3,
			rules:  []string{"fact_checker_positive"},
			notice: NoticeFactCheckTrue,
		},
		{
			desc:   "snopes without verdict",
			score:  70,
			facts:  DomainFacts{Host: "snopes.com", FactChecker: true, Snopes: true},
			jitter: Midpoint{},
			want:   3,
			rules:  []string{"snopes_default_trust"},
			notice: NoticeSnopesDefault,
		},
		{
			desc:   "snopes negative wins over positive",
			score:  30,
			facts:  DomainFacts{Host: "snopes.com", FactChecker: true, Snopes: true, Positive: true, Negative: true},
			jitter: Midpoint{},
			want:   85,
			rules:  []string{"fact_checker_positive", "snopes_false"},
			notice: NoticeSnopesFalse,
		},
		{
			desc:   "trusted news",
			score:  70,
			facts:  DomainFacts{Host: "nytimes.com", Trusted: true},
			jitter: Fixed{Low: false},
			want:   10,
			rules:  []string{"trusted_news"},
			notice: NoticeTrustedNews,
		},
		{
			desc:   "tier 80",
			score:  70,
			facts:  DomainFacts{Host: "reuters.com", FactChecker: true, Tier: reputation.Tier80},
			jitter: Fixed{Low: true},
			want:   11,
			rules:  []string{"tier_80"},
			notice: "Tier: 80%+ Authentic domain.",
		},
		{
			desc:   "tier cap keeps lower scores",
			score:  5,
			facts:  DomainFacts{Host: "organiser.org", Tier: reputation.Tier50},
			jitter: Midpoint{},
			want:   5,
			rules:  []string{"tier_50"},
			notice: "Tier: 50%+ Authentic domain.",
		},
		{
			desc:   "untiered floor",
			score:  20,
			facts:  DomainFacts{Host: "example.org"},
			jitter: Fixed{Low: true},
			want:   51,
			rules:  []string{"untiered_floor"},
			notice: NoticeUntiered,
		},
		{
			desc:   "negative verdict off snopes leaves score",
			score:  77,
			facts:  DomainFacts{Host: "example.org", Negative: true, Tier: reputation.TierNone},
			jitter: Midpoint{},
			want:   77,
		},
		{
			desc:   "negative verdict skips trusted cap",
			score:  77,
			facts:  DomainFacts{Host: "cnn.com", Trusted: true, Negative: true},
			jitter: Midpoint{},
			want:   77,
		},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			s := NewScorer(tt.jitter)
			got, notices, sig := s.Override(tt.score, tt.facts)
			if got != tt.want {
				t.Errorf("score = %d, want %d", got, tt.want)
			}

			fired, _ := sig.Data["rules"].([]string)
			if len(fired) != len(tt.rules) {
				t.Fatalf("fired rules = %v, want %v", fired, tt.rules)
			}
			for i := range fired {
				if fired[i] != tt.rules[i] {
					t.Errorf("fired[%d] = %s, want %s", i, fired[i], tt.rules[i])
				}
			}

			if tt.notice == "" {
				if len(notices) != 0 {
					t.Errorf("expected no notices, got %v", notices)
				}
				return
			}
			if len(notices) == 0 || notices[len(notices)-1] != tt.notice {
				t.Errorf("notices = %v, want last %q", notices, tt.notice)
			}
		})
	}
}

func TestOverride_SnopesPositiveAddsSingleNotice(t *testing.T) {
	s := NewScorer(Midpoint{})
	_, notices, _ := s.Override(50, DomainFacts{Host: "snopes.com", FactChecker: true, Snopes: true, Positive: true})
	if len(notices) != 1 || notices[0] != NoticeFactCheckTrue {
		t.Errorf("notices = %v", notices)
	}
}

func TestOverride_RangesHoldForAnyJitter(t *testing.T) {
	for seed := uint64(0); seed < 200; seed++ {
		s := NewScorer(NewSeededJitter(seed))

		got, _, _ := s.Override(100, DomainFacts{Host: "bbc.com", Tier: reputation.Tier80})
		if got < 11 || got > 20 {
			t.Fatalf("seed %d: tier 80 score %d outside [11,20]", seed, got)
		}
		got, _, _ = s.Override(0, DomainFacts{Host: "unknown.example"})
		if got < 51 || got > 85 {
			t.Fatalf("seed %d: untiered score %d outside [51,85]", seed, got)
		}
		got, _, _ = s.Override(100, DomainFacts{Host: "snopes.com", Snopes: true, FactChecker: true})
		if got < 1 || got > 5 {
			t.Fatalf("seed %d: snopes score %d outside [1,5]", seed, got)
		}
	}
}

func TestJitter(t *testing.T) {
	if got := (Midpoint{}).IntRange(51, 85); got != 68 {
		t.Errorf("Midpoint = %d, want 68", got)
	}
	a := NewSeededJitter(7)
	b := NewSeededJitter(7)
	for i := 0; i < 20; i++ {
		if a.IntRange(1, 100) != b.IntRange(1, 100) {
			t.Fatal("seeded jitter is not reproducible")
		}
	}
	if got := NewRandomJitter().IntRange(5, 5); got != 5 {
		t.Errorf("degenerate range = %d", got)
	}
}
