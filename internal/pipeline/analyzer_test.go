package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/factcheck"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
	"github.com/ppiankov/credence/internal/settings"
	"github.com/ppiankov/credence/internal/suggest"
)

const alarmText = "BREAKING!!! Shocking coverup EXPOSED, 99% of people don't know this guaranteed miracle cure!"

var fixedNow = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

// stubFactChecker returns a canned lookup
type stubFactChecker struct {
	lookup *model.FactCheckLookup
	calls  int
}

func (s *stubFactChecker) Lookup(context.Context, model.Settings, string, string) *model.FactCheckLookup {
	s.calls++
	return s.lookup
}

func newTestAnalyzer(opts ...Option) *Analyzer {
	base := []Option{
		WithScorer(score.NewScorer(score.Midpoint{})),
		WithClock(func() time.Time { return fixedNow }),
	}
	return NewAnalyzer(append(base, opts...)...)
}

func inRange(v, lo, hi int) bool { return v >= lo && v <= hi }

func TestAnalyze_AlarmistTextNoURL(t *testing.T) {
	got := newTestAnalyzer().Analyze(context.Background(), model.AnalysisRequest{Text: alarmText})

	if got.InitialScore < 85 {
		t.Errorf("initial_score = %d, want >= 85", got.InitialScore)
	}
	for _, f := range []model.FlagKind{model.FlagSensationalism, model.FlagExaggeration} {
		if !slices.Contains(got.Flags, f) {
			t.Errorf("flags %v missing %s", got.Flags, f)
		}
	}
	if !slices.Contains(got.Flags, model.FlagMissingEvidence) {
		t.Errorf("high citation risk should add missing_evidence, got %v", got.Flags)
	}
	if !slices.Contains(got.Notices, NoticeCitation) || !slices.Contains(got.Notices, score.NoticeUntiered) {
		t.Errorf("unexpected notices %v", got.Notices)
	}
	if got.FinalScore != 100 {
		t.Errorf("final_score = %d, want 100", got.FinalScore)
	}
	if got.Mode != model.ModePage {
		t.Errorf("mode = %q, want page", got.Mode)
	}
}

func TestAnalyze_DomainOverrides(t *testing.T) {
	tests := []struct {
		desc   string
		url    string
		text   string
		lo, hi int
		notice string
	}{
		{"tier 80 news site", "https://www.bbc.com/news/x", alarmText, 11, 20, "Tier: 80%+ Authentic domain."},
		{"tier 80 fact-checker without verdict", "https://www.reuters.com/world/x", "Officials met on Tuesday.", 11, 20, "Tier: 80%+ Authentic domain."},
		{"snopes default trust", "https://www.snopes.com/fact-check/x", "Some claim circulated online.", 1, 5, score.NoticeSnopesDefault},
		{"unknown host", "https://example-news.net/a", "The council met on Tuesday to discuss the budget.", 51, 85, score.NoticeUntiered},
		{"unknown host keeps a higher score", "https://example-news.net/a", alarmText, 100, 100, score.NoticeUntiered},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			// random jitter must stay inside the bounds too
			for seed := uint64(0); seed < 20; seed++ {
				a := newTestAnalyzer(WithScorer(score.NewScorer(score.NewSeededJitter(seed))))
				got := a.Analyze(context.Background(), model.AnalysisRequest{Text: tt.text, URL: tt.url})
				if !inRange(got.FinalScore, tt.lo, tt.hi) {
					t.Fatalf("seed %d: final_score = %d, want [%d,%d]", seed, got.FinalScore, tt.lo, tt.hi)
				}
				if !slices.Contains(got.Notices, tt.notice) {
					t.Fatalf("seed %d: notices %v missing %q", seed, got.Notices, tt.notice)
				}
			}
		})
	}
}

func TestAnalyze_SourcesSignal(t *testing.T) {
	got := newTestAnalyzer().Analyze(context.Background(), model.AnalysisRequest{Text: alarmText, Title: "Miracle cure exposed"})

	var sig *model.Signal
	for i := range got.Signals {
		if got.Signals[i].Type == model.SignalSources {
			sig = &got.Signals[i]
		}
	}
	if sig == nil {
		t.Fatalf("no sources signal in %v", got.Signals)
	}
	if sig.Data["count"] != len(got.SuggestedSources) {
		t.Errorf("count = %v, want %d", sig.Data["count"], len(got.SuggestedSources))
	}
	if want := suggest.Reliability(got.SuggestedSources); sig.Data["reliability"] != want {
		t.Errorf("reliability = %v, want %d", sig.Data["reliability"], want)
	}
	if got.Signals[len(got.Signals)-1].Type != model.SignalSources {
		t.Errorf("sources signal should follow the override, got %v", got.Signals)
	}
}

func TestAnalyze_CleanTextHasNoFlags(t *testing.T) {
	got := newTestAnalyzer().Analyze(context.Background(), model.AnalysisRequest{
		Text: "The council met on Tuesday to discuss the budget.",
	})
	if got.Flags == nil || len(got.Flags) != 0 {
		t.Errorf("flags = %#v, want empty", got.Flags)
	}
	if got.Highlights == nil || len(got.Highlights) != 0 {
		t.Errorf("highlights = %#v, want empty", got.Highlights)
	}
}

func TestAnalyze_ScoresAlwaysInRange(t *testing.T) {
	texts := []string{
		"",
		"   ",
		alarmText,
		"Everything is fine.",
		"SHOCKING!!! 100% guaranteed miracle! Experts say corrupt elites EXPOSED the cover-up, 90% agree, taken out of context in 1999.",
	}
	a := newTestAnalyzer()
	for _, text := range texts {
		for _, mode := range []model.Mode{model.ModePage, model.ModeSelection} {
			got := a.Analyze(context.Background(), model.AnalysisRequest{Text: text, Mode: mode})
			if !inRange(got.InitialScore, 0, 100) || !inRange(got.FinalScore, 0, 100) {
				t.Errorf("%q/%s: scores out of range: %d, %d", text, mode, got.InitialScore, got.FinalScore)
			}
			if got.NeutralRewrite == "" || len([]rune(got.NeutralRewrite)) > 120 {
				t.Errorf("bad neutral rewrite %q", got.NeutralRewrite)
			}
			if len(got.ActionButtons) != 4 {
				t.Errorf("action buttons = %v", got.ActionButtons)
			}
		}
	}
}

func TestAnalyze_Idempotent(t *testing.T) {
	fc := &stubFactChecker{lookup: &model.FactCheckLookup{Used: true, Error: "offline"}}
	a := NewAnalyzer(
		WithSettings(settings.NewStatic(model.Settings{AIEnabled: true, SnopesOptIn: true})),
		WithFactChecker(fc),
		WithClock(func() time.Time { return fixedNow }),
	)
	req := model.AnalysisRequest{
		Text: "Experts say the shocking plan is guaranteed to work. 45% of voters agree, sources claim.",
		URL:  "https://example.org/post",
	}

	first := a.Analyze(context.Background(), req)
	second := a.Analyze(context.Background(), req)

	if !reflect.DeepEqual(first.Flags, second.Flags) {
		t.Errorf("flags differ: %v vs %v", first.Flags, second.Flags)
	}
	if !reflect.DeepEqual(first.Highlights, second.Highlights) {
		t.Errorf("highlights differ")
	}
	if first.Bias != second.Bias {
		t.Errorf("bias differs: %+v vs %+v", first.Bias, second.Bias)
	}
}

func TestAnalyze_CitationRisk(t *testing.T) {
	got := newTestAnalyzer().Analyze(context.Background(), model.AnalysisRequest{Text: "Unemployment fell 7% last year."})
	if got.Citation.Risk < 40 {
		t.Errorf("citation risk = %d, want >= 40", got.Citation.Risk)
	}
}

func TestAnalyze_TemporalRisk(t *testing.T) {
	got := newTestAnalyzer().Analyze(context.Background(), model.AnalysisRequest{
		Text: "The 2011 report found the same thing.",
		Meta: model.RequestMeta{Published: "2021-06-01"},
	})
	if got.Temporal.Risk < 10 {
		t.Errorf("temporal risk = %d, want >= 10", got.Temporal.Risk)
	}
	if !slices.Contains(got.Notices, NoticeTemporal) {
		t.Errorf("notices %v missing temporal notice", got.Notices)
	}
}

func TestAnalyze_FactCheckOptOutMakesNoRequest(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	client := factcheck.NewClient(model.FactCheckConfig{DefaultBase: srv.URL}, nil)
	a := newTestAnalyzer(
		WithSettings(settings.NewStatic(model.Settings{SnopesOptIn: false})),
		WithFactChecker(client),
	)
	got := a.Analyze(context.Background(), model.AnalysisRequest{Text: alarmText})

	if got.Snopes == nil || got.Snopes.Used || got.Snopes.Result != nil || got.Snopes.Error != "" {
		t.Errorf("snopes = %+v, want unused lookup", got.Snopes)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no fact-check requests, got %d", calls.Load())
	}
	if len(got.SuggestedSearchQueries) != 2 {
		t.Errorf("search queries expected without a fact-check result, got %v", got.SuggestedSearchQueries)
	}
	if got.ModelConfidence != 0.5 {
		t.Errorf("model_confidence = %v, want 0.5", got.ModelConfidence)
	}
}

func TestAnalyze_NegativeFactCheckOnSnopes(t *testing.T) {
	fc := &stubFactChecker{lookup: &model.FactCheckLookup{Used: true, Result: &model.FactCheck{
		Rating:   "False",
		Title:    "Fact check: Drinking bleach cures flu",
		URL:      "https://www.snopes.com/fact-check/bleach",
		Evidence: "No medical evidence.",
	}}}
	a := newTestAnalyzer(WithFactChecker(fc))

	got := a.Analyze(context.Background(), model.AnalysisRequest{
		Text: "Drinking bleach cures flu. Doctors disagree.",
		URL:  "https://www.snopes.com/fact-check/bleach",
	})

	if got.FinalScore < score.SnopesFalseFloor {
		t.Errorf("final_score = %d, want >= %d", got.FinalScore, score.SnopesFalseFloor)
	}
	if !slices.Contains(got.Notices, score.NoticeSnopesFalse) || slices.Contains(got.Notices, score.NoticeSnopesDefault) {
		t.Errorf("unexpected notices %v", got.Notices)
	}
	if len(got.Highlights) == 0 {
		t.Fatal("expected a fact-check highlight")
	}
	h := got.Highlights[0]
	if h.Span != "Drinking bleach cures flu" || h.Start != 0 || h.End != 25 {
		t.Errorf("unexpected highlight span %+v", h)
	}
	if h.Category != "proven_false" || h.Reason != model.FlagMisleadingContext || h.SourceURL == "" {
		t.Errorf("unexpected highlight %+v", h)
	}
	if h.Explanation != "Fact-check verdict: False. No medical evidence." {
		t.Errorf("explanation = %q", h.Explanation)
	}
	if got.ModelConfidence != 0.8 || len(got.SuggestedSearchQueries) != 0 {
		t.Errorf("confidence %v, queries %v", got.ModelConfidence, got.SuggestedSearchQueries)
	}
}

func TestAnalyze_PositiveVerdictOnFactChecker(t *testing.T) {
	fc := &stubFactChecker{lookup: &model.FactCheckLookup{Used: true, Result: &model.FactCheck{Rating: "True"}}}
	a := newTestAnalyzer(WithFactChecker(fc))

	got := a.Analyze(context.Background(), model.AnalysisRequest{
		Text: alarmText,
		URL:  "https://www.politifact.com/factchecks/x",
	})
	if !inRange(got.FinalScore, 1, 5) {
		t.Errorf("final_score = %d, want [1,5]", got.FinalScore)
	}
	if !slices.Contains(got.Notices, score.NoticeFactCheckTrue) {
		t.Errorf("notices %v missing fact-check notice", got.Notices)
	}
}

func TestAnalyze_InlineVerdictOnFactCheckerPage(t *testing.T) {
	got := newTestAnalyzer().Analyze(context.Background(), model.AnalysisRequest{
		Text: "Claim: the bridge collapsed. Rating: False. The photo is from another country.",
		URL:  "https://www.snopes.com/fact-check/bridge",
	})
	if got.FinalScore < score.SnopesFalseFloor {
		t.Errorf("inline false rating should floor the score, got %d", got.FinalScore)
	}
}

func TestAnalyze_ShortSelection(t *testing.T) {
	got := newTestAnalyzer().Analyze(context.Background(), model.AnalysisRequest{
		Text: "Experts say it works.",
		Mode: model.ModeSelection,
		Meta: model.RequestMeta{
			Surrounding: &model.Surrounding{Before: "The senate vote is today.", After: "More later."},
			Headline:    "Vaccine funding bill",
		},
	})
	if len(got.Notices) == 0 || got.Notices[0] != NoticeShortSelection {
		t.Errorf("first notice should be the short selection notice, got %v", got.Notices)
	}
	if !slices.Contains(got.Entities.Topics, model.TopicPolitics) {
		t.Errorf("selection entities should use surrounding context, got %v", got.Entities.Topics)
	}
	if got.Mode != model.ModeSelection {
		t.Errorf("mode = %q", got.Mode)
	}
}

func TestAnalyze_AIRanksHighlights(t *testing.T) {
	a := newTestAnalyzer(WithSettings(settings.NewStatic(model.Settings{AIEnabled: true})))
	got := a.Analyze(context.Background(), model.AnalysisRequest{
		Text: "Wow, shocking! The ministry reported that 40% of schools will close in 2026, according to officials.",
	})

	if len(got.Highlights) < 2 {
		t.Fatalf("expected several highlights, got %d", len(got.Highlights))
	}
	for i, h := range got.Highlights {
		if h.ClaimLikeness == nil {
			t.Fatalf("highlight %d has no claim-likeness", i)
		}
		if i > 0 && *got.Highlights[i-1].ClaimLikeness < *h.ClaimLikeness {
			t.Errorf("highlights not ordered by claim-likeness")
		}
	}

	var nudged bool
	for _, s := range got.Signals {
		if s.Type == model.SignalAINudge {
			nudged = true
		}
	}
	if !nudged {
		t.Error("expected an ai_nudge signal when AI is enabled")
	}
}

func TestAnalyzeURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Miracle diet</title>
<meta property="article:published_time" content="2024-01-02T10:00:00Z"></head>
<body><h1>Miracle diet</h1><p>Experts say this miracle diet works for 80% of people.</p>
<a href="https://journal.example/study">study</a></body></html>`))
	}))
	defer srv.Close()

	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.HTTP.RespectRobots = false
	cfg.HTTP.Timeout = 5 * time.Second
	a := New(cfg, Deps{}, WithScorer(score.NewScorer(score.Midpoint{})), WithClock(func() time.Time { return fixedNow }))

	got, err := a.AnalyzeURL(context.Background(), srv.URL+"/post")
	if err != nil {
		t.Fatalf("AnalyzeURL failed: %v", err)
	}
	if got.Host != "127.0.0.1" || got.Mode != model.ModePage {
		t.Errorf("host %q mode %q", got.Host, got.Mode)
	}
	for _, f := range []model.FlagKind{model.FlagExaggeration, model.FlagSourceAmbiguity, model.FlagUncitedStatistic} {
		if !slices.Contains(got.Flags, f) {
			t.Errorf("flags %v missing %s", got.Flags, f)
		}
	}
	if got.Citation.NearbyLinks != 1 || got.Citation.ArticleLinks != 1 {
		t.Errorf("link counts from page not applied: %+v", got.Citation)
	}
}

func TestAnalyzeURL_WithoutFetcher(t *testing.T) {
	if _, err := NewAnalyzer().AnalyzeURL(context.Background(), "https://example.com"); err == nil {
		t.Error("expected error without fetcher")
	}
}
