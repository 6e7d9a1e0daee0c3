package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ppiankov/credence/internal/bias"
	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/reputation"
	"github.com/ppiankov/credence/internal/risk"
	"github.com/ppiankov/credence/internal/score"
	"github.com/ppiankov/credence/internal/settings"
	"github.com/ppiankov/credence/internal/signal"
	"github.com/ppiankov/credence/internal/suggest"
)

// Notices added by the analyzer itself; override notices live in the score package
const (
	NoticeShortSelection = "Selection is very short; results may be less reliable. Added page headline and nearby context."
	NoticeCitation       = "Numeric/statistical claim lacks nearby citations; consider checking the original data source."
	NoticeTemporal       = "Article may be dated; verify whether newer evidence contradicts this claim."

	// NeutralRewrite is a generic caution, not a paraphrase
	NeutralRewrite = "Claim requires verification; consult reputable sources and check for cited evidence and context."
)

const (
	shortSelectionRunes = 80
	factCheckSoftening  = 20
	titleMatchRunes     = 60
	highlightSpanRunes  = 240
	rewriteRunes        = 120
	citationNoticeAt    = 40
	temporalNoticeAt    = 15
)

// FactChecker looks claims up against an external fact-check service
type FactChecker interface {
	Lookup(ctx context.Context, s model.Settings, title, text string) *model.FactCheckLookup
}

// Analyzer turns an AnalysisRequest into an AnalysisResult
type Analyzer struct {
	settings   settings.Provider
	factCheck  FactChecker
	classifier *reputation.Classifier
	scorer     *score.Scorer
	fetcher    *Fetcher
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures an Analyzer
type Option func(*Analyzer)

// WithSettings sets the settings provider consulted on every call
func WithSettings(p settings.Provider) Option {
	return func(a *Analyzer) { a.settings = p }
}

// WithFactChecker enables external fact-check lookups
func WithFactChecker(fc FactChecker) Option {
	return func(a *Analyzer) { a.factCheck = fc }
}

// WithClassifier replaces the domain reputation tables
func WithClassifier(c *reputation.Classifier) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithScorer replaces the scorer, typically to inject a deterministic jitter
func WithScorer(s *score.Scorer) Option {
	return func(a *Analyzer) { a.scorer = s }
}

// WithFetcher enables AnalyzeURL
func WithFetcher(f *Fetcher) Option {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithClock sets the clock used for temporal risk
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) { a.now = now }
}

// NewAnalyzer creates an analyzer. Without options it runs fully offline with default settings.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		settings:   settings.NewStatic(model.Settings{}),
		classifier: reputation.NewClassifier(nil),
		scorer:     score.NewScorer(nil),
		logger:     slog.New(slog.DiscardHandler),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores the request. It never fails; degraded inputs produce a well-formed result.
func (a *Analyzer) Analyze(ctx context.Context, req model.AnalysisRequest) *model.AnalysisResult {
	s, err := a.settings.Load(ctx)
	if err != nil {
		a.logger.Debug("settings unavailable, using defaults", "error", err)
		s = model.Settings{}
	}

	text := req.Text
	mode := req.Mode
	if mode == "" {
		mode = model.ModePage
	}
	req.Mode = mode
	selection := req.IsSelection()
	contextText := req.ContextText()
	scopeText := text
	if selection {
		scopeText = contextText
	}

	initial, quickSig := score.QuickScore(text)
	highlights := extract.FindHighlights(text)
	flags := extract.AggregateFlags(highlights)

	host := reputation.HostOf(req.URL)
	biasEst := bias.Estimate(host, scopeText)

	var sensational *float64
	var claimScores []float64
	if s.AIEnabled {
		sentences := extract.SplitSentences(text)
		texts := make([]string, 0, min(len(sentences), signal.MaxSentences))
		for _, st := range sentences[:min(len(sentences), signal.MaxSentences)] {
			texts = append(texts, st.Text)
		}
		claimScores = signal.ClaimLikeness(texts)
		v := signal.Sensational(contextText)
		sensational = &v
		if len(claimScores) > 0 {
			rankHighlights(highlights, sentences, claimScores)
		}
	}

	entities := extract.ExtractEntities(scopeText)
	lookup := a.lookup(ctx, s, req.Title, text)

	isFactChecker := a.classifier.IsFactChecker(host)
	inline := score.VerdictNone
	if isFactChecker {
		inline = score.DetectInlineVerdict(text)
	}
	suggestions := suggest.Sources(suggest.Input{Text: text, Title: req.Title, Entities: entities})

	citation := risk.EvaluateCitations(text, req.Meta.LinkCounts)
	temporal := risk.EvaluateTemporal(contextText, req.Meta.Published, a.now())

	baseline := initial
	if isFactChecker {
		baseline = max(0, initial-factCheckSoftening)
	}
	textLen := utf8.RuneCountInString(strings.TrimSpace(text))

	breakdown := a.scorer.Combine(score.Inputs{
		Baseline:     baseline,
		Selection:    selection,
		TextLen:      textLen,
		Flags:        len(flags),
		BiasScore:    biasEst.Score,
		Rating:       lookup.Rating(),
		Inline:       inline,
		AIEnabled:    s.AIEnabled,
		Sensational:  sensational,
		ClaimScores:  claimScores,
		CitationRisk: citation.Risk,
		TemporalRisk: temporal.Risk,
	})

	notices := []string{}
	if selection && textLen < shortSelectionRunes {
		notices = append(notices, NoticeShortSelection)
	}
	if citation.Risk >= citationNoticeAt {
		notices = append(notices, NoticeCitation)
		if !slices.Contains(flags, model.FlagMissingEvidence) {
			flags = append(flags, model.FlagMissingEvidence)
		}
	}
	if temporal.Risk >= temporalNoticeAt {
		notices = append(notices, NoticeTemporal)
	}

	evidence := score.VerdictEvidence{
		Rating:      lookup.Rating(),
		Inline:      inline,
		Snopes:      a.classifier.IsSnopes(host),
		ContextText: contextText,
		Title:       req.Title,
	}
	final, overrideNotices, overrideSig := a.scorer.Override(breakdown.Final, score.DomainFacts{
		Host:        host,
		FactChecker: isFactChecker,
		Snopes:      evidence.Snopes,
		Trusted:     a.classifier.IsTrusted(host),
		Tier:        a.classifier.Tier(host),
		Positive:    evidence.Positive(),
		Negative:    evidence.Negative(),
	})
	notices = append(notices, overrideNotices...)

	if h, ok := factCheckHighlight(text, lookup.Result); ok {
		highlights = append([]model.Highlight{h}, highlights...)
	}

	confidence := 0.5
	switch {
	case lookup.Result != nil:
		confidence = 0.8
	case suggestions.Strong:
		confidence = 0.7
	}
	queries := []string{}
	if lookup.Result == nil && !suggestions.Strong {
		queries = suggest.SearchQueries(text)
	}

	signals := make([]model.Signal, 0, len(breakdown.Signals)+4)
	signals = append(signals, quickSig, biasSignal(biasEst))
	signals = append(signals, breakdown.Signals...)
	signals = append(signals, overrideSig, sourcesSignal(suggestions.Sources))

	a.logger.Debug("analysis complete",
		"host", host, "mode", mode, "initial", initial, "final", final, "flags", len(flags))

	return &model.AnalysisResult{
		InitialScore:           initial,
		FinalScore:             final,
		ModelConfidence:        confidence,
		Flags:                  flags,
		Highlights:             highlights,
		NeutralRewrite:         extract.Truncate(NeutralRewrite, rewriteRunes),
		SuggestedSources:       suggestions.Sources,
		SuggestedSearchQueries: queries,
		ActionButtons:          slices.Clone(model.DefaultActionButtons),
		Bias:                   biasEst,
		Entities:               entities,
		Snopes:                 lookup,
		Notices:                notices,
		Citation:               citation,
		Temporal:               temporal,
		Signals:                signals,
		Host:                   host,
		Mode:                   mode,
		AnalyzedAt:             a.now().UTC(),
	}
}

// AnalyzeURL fetches a page and analyses its visible text in page mode
func (a *Analyzer) AnalyzeURL(ctx context.Context, rawURL string) (*model.AnalysisResult, error) {
	if a.fetcher == nil {
		return nil, fmt.Errorf("analyze %s: no fetcher configured", rawURL)
	}
	res, err := a.fetcher.FetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	page, err := extract.ParsePage(res.Body, res.FinalURL)
	if err != nil {
		return nil, fmt.Errorf("extract: %w", err)
	}
	a.logger.Info("page fetched", "url", res.FinalURL, "bytes", len(res.Body), "outbound_links", page.OutboundLinks)
	return a.Analyze(ctx, page.Request()), nil
}

func (a *Analyzer) lookup(ctx context.Context, s model.Settings, title, text string) *model.FactCheckLookup {
	if a.factCheck == nil {
		return &model.FactCheckLookup{Used: false}
	}
	if l := a.factCheck.Lookup(ctx, s, title, text); l != nil {
		return l
	}
	return &model.FactCheckLookup{Used: false}
}

// rankHighlights tags each highlight with the claim-likeness of its sentence and
// orders them most claim-like first. Highlights outside any sentence score 0.5.
func rankHighlights(highlights []model.Highlight, sentences []extract.Sentence, scores []float64) {
	for i := range highlights {
		v := 0.5
		if si := extract.SentenceIndex(sentences, highlights[i].Start); si >= 0 && si < len(scores) {
			v = scores[si]
		}
		highlights[i].ClaimLikeness = &v
	}
	sort.SliceStable(highlights, func(i, j int) bool {
		return *highlights[i].ClaimLikeness > *highlights[j].ClaimLikeness
	})
}

// factCheckHighlight builds a highlight for the sentence a fact-check title refers to
func factCheckHighlight(text string, fc *model.FactCheck) (model.Highlight, bool) {
	if fc == nil || fc.Rating == "" || fc.Title == "" {
		return model.Highlight{}, false
	}
	title := strings.ToLower(fc.Title)

	for _, frag := range extract.Fragments(text) {
		sent := strings.TrimSpace(frag)
		if sent == "" || !strings.Contains(title, strings.ToLower(extract.Truncate(sent, titleMatchRunes))) {
			continue
		}
		idx := strings.Index(text, sent)
		if idx < 0 {
			return model.Highlight{}, false
		}

		evidence := fc.Evidence
		if evidence == "" {
			evidence = "See linked analysis."
		}
		category := extract.CategoryMissingEvidence
		if score.ClassifyRating(fc.Rating) == score.VerdictFalse {
			category = extract.CategoryProvenFalse
		}
		return model.Highlight{
			Span:        extract.Truncate(sent, highlightSpanRunes),
			Start:       idx,
			End:         idx + len(sent),
			Reason:      model.FlagMisleadingContext,
			Explanation: fmt.Sprintf("Fact-check verdict: %s. %s", fc.Rating, evidence),
			Category:    category,
			SourceURL:   fc.URL,
		}, true
	}
	return model.Highlight{}, false
}

// sourcesSignal reports the suggested outlets and their mean reliability; it does not move the score
func sourcesSignal(sources []model.Source) model.Signal {
	names := make([]string, 0, len(sources))
	for _, src := range sources {
		names = append(names, src.Title)
	}
	reliability := suggest.Reliability(sources)
	return model.Signal{
		Type:        model.SignalSources,
		Severity:    model.SeverityInfo,
		Description: fmt.Sprintf("%d suggested sources, mean reliability %d", len(sources), reliability),
		Data: map[string]any{
			"count":       len(sources),
			"reliability": reliability,
			"sources":     names,
		},
	}
}

func biasSignal(b model.BiasEstimate) model.Signal {
	severity := model.SeverityInfo
	if b.Score > 60 || b.Score < 40 {
		severity = model.SeverityWarning
	}
	return model.Signal{
		Type:        model.SignalBias,
		Severity:    severity,
		Description: fmt.Sprintf("Bias %s (%d, confidence %.2f)", b.Label, b.Score, b.Confidence),
		Data: map[string]any{
			"label":      string(b.Label),
			"score":      b.Score,
			"confidence": b.Confidence,
			"evidence":   b.Evidence,
		},
	}
}
