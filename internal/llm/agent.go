package llm

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/settings"
)

const (
	claimRunes = 100

	// VerdictError marks a response that could not be parsed
	VerdictError   = "Error"
	failedSummary  = "Failed to analyze text."
	missingKeyHint = "API key is missing. Set settings.gemini_api_key, GEMINI_API_KEY or OPENAI_API_KEY."
)

// Agent verifies claims and answers follow-up questions through an LLM provider
type Agent struct {
	config      Config
	settings    settings.Provider
	newProvider func(Config) (Provider, error)
	logger      *slog.Logger
}

// AgentOption configures an Agent
type AgentOption func(*Agent)

// WithProviderFactory replaces provider construction
func WithProviderFactory(fn func(Config) (Provider, error)) AgentOption {
	return func(a *Agent) { a.newProvider = fn }
}

// WithAgentLogger sets the logger
func WithAgentLogger(l *slog.Logger) AgentOption {
	return func(a *Agent) { a.logger = l }
}

// NewAgent creates an agent. A Gemini key in the settings takes precedence over config.
func NewAgent(config Config, sp settings.Provider, opts ...AgentOption) *Agent {
	a := &Agent{
		config:      config,
		settings:    sp,
		newProvider: NewProvider,
		logger:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Agent) provider(ctx context.Context) (Provider, error) {
	cfg := a.config
	if a.settings != nil && (cfg.Provider == "" || cfg.Provider == "gemini") {
		if s, err := a.settings.Load(ctx); err == nil && s.GeminiAPIKey != "" {
			cfg.APIKey = s.GeminiAPIKey
		}
	}
	return a.newProvider(cfg)
}

// VerifyClaim asks the model for a verdict on req.Text.
// Configuration and transport failures set Error; an unparseable answer yields the "Error" verdict.
func (a *Agent) VerifyClaim(ctx context.Context, req model.VerifyRequest) model.VerifyResult {
	claim := extract.Truncate(req.Text, claimRunes)

	p, err := a.provider(ctx)
	if err != nil {
		return model.VerifyResult{Claim: claim, Error: userMessage(err)}
	}

	answer, err := p.Generate(ctx, BuildVerifyPrompt(req.Text, req.Author))
	if err != nil {
		a.logger.Warn("verification request failed", "provider", p.Name(), "error", err)
		return model.VerifyResult{Claim: claim, Error: err.Error()}
	}

	verdict, summary, err := ParseVerdictResponse(answer)
	if err != nil {
		a.logger.Warn("verification answer unparseable", "provider", p.Name(), "error", err)
		verdict, summary = VerdictError, failedSummary
	}
	scale := MapVerdict(verdict)
	return model.VerifyResult{
		Claim:   claim,
		Verdict: verdict,
		Summary: summary,
		Sources: []string{},
		Scale:   &scale,
	}
}

// ChatWithAgent answers a follow-up question about a prior analysis
func (a *Agent) ChatWithAgent(ctx context.Context, req model.ChatRequest) model.ChatReply {
	p, err := a.provider(ctx)
	if err != nil {
		return model.ChatReply{Error: userMessage(err)}
	}
	reply, err := p.Generate(ctx, BuildChatPrompt(req.Question, req.Context))
	if err != nil {
		a.logger.Warn("chat request failed", "provider", p.Name(), "error", err)
		return model.ChatReply{Error: err.Error()}
	}
	return model.ChatReply{Reply: reply}
}

func userMessage(err error) string {
	if errors.Is(err, ErrMissingAPIKey) {
		return missingKeyHint
	}
	return err.Error()
}
