package model

import "time"

// AnalysisResult is the complete, immutable verdict for one request
type AnalysisResult struct {
	InitialScore           int              `json:"initial_score"`
	FinalScore             int              `json:"final_score"`      // 0 = authentic, 100 = highly suspicious
	ModelConfidence        float64          `json:"model_confidence"` // 0-1
	Flags                  []FlagKind       `json:"flags"`
	Highlights             []Highlight      `json:"highlights"`
	NeutralRewrite         string           `json:"neutral_rewrite"`
	SuggestedSources       []Source         `json:"suggested_sources"`
	SuggestedSearchQueries []string         `json:"suggested_search_queries"`
	ActionButtons          []string         `json:"action_buttons"`
	Bias                   BiasEstimate     `json:"bias"`
	Entities               Entities         `json:"entities"`
	Snopes                 *FactCheckLookup `json:"snopes"`
	Notices                []string         `json:"notices"`

	Citation   CitationRisk `json:"citation"`
	Temporal   TemporalRisk `json:"temporal"`
	Signals    []Signal     `json:"signals"`
	Host       string       `json:"host,omitempty"`
	Mode       Mode         `json:"mode"`
	AnalyzedAt time.Time    `json:"analyzed_at"`
}

// DefaultActionButtons are the actions offered alongside every result
var DefaultActionButtons = []string{"Open sources", "Save to history", "Report", "Get author details"}

// Signal is a transparent scoring step with its inputs and formula
type Signal struct {
	Type        SignalType     `json:"type"`
	Severity    SignalSeverity `json:"severity"`
	Description string         `json:"description"`
	Data        map[string]any `json:"data,omitempty"`
}

// SignalType classifies the scoring step
type SignalType string

const (
	SignalQuickScore SignalType = "quick_score"     // Seeded lexical heuristics
	SignalFlags      SignalType = "flags"           // Flag and bias weighting
	SignalBias       SignalType = "bias"            // Combined domain and lexical lean
	SignalVerdict    SignalType = "verdict"         // Fact-check or inline verdict adjustment
	SignalAINudge    SignalType = "ai_nudge"        // Bounded sensational-tone nudge
	SignalCitation   SignalType = "citation_risk"   // Missing citations
	SignalTemporal   SignalType = "temporal_risk"   // Stale article or references
	SignalOverride   SignalType = "domain_override" // Domain override cascade
	SignalSources    SignalType = "sources"         // Suggested corroborating outlets
)

// SignalSeverity indicates the importance of the signal
type SignalSeverity string

const (
	SeverityInfo     SignalSeverity = "info"
	SeverityWarning  SignalSeverity = "warning"
	SeverityCritical SignalSeverity = "critical"
)

// Author describes who posted the claim
type Author struct {
	Handle   string `json:"handle"`
	Name     string `json:"name"`
	Verified bool   `json:"verified"`
}

// VerifyRequest is the input to the LLM verification agent
type VerifyRequest struct {
	Text   string  `json:"text"`
	Author *Author `json:"author,omitempty"`
}

// VerifyResult is the agent's verdict; Error is set only on outright failure
type VerifyResult struct {
	Claim   string   `json:"claim,omitempty"`
	Verdict string   `json:"verdict,omitempty"`
	Summary string   `json:"summary,omitempty"`
	Sources []string `json:"sources,omitempty"`
	Scale   *Scale   `json:"scale,omitempty"`
	Error   string   `json:"error,omitempty"`
}

// Scale is the five-level presentation of an agent verdict
type Scale struct {
	Level string `json:"level"` // true, likely_true, unverified, likely_false, false
	Color string `json:"color"`
	Score int    `json:"score"` // 100 = true ... 0 = false
}

// ChatRequest is a follow-up question about a prior analysis
type ChatRequest struct {
	Question string      `json:"question"`
	Context  ChatContext `json:"context"`
}

// ChatContext is the prior analysis the agent answers from
type ChatContext struct {
	ClaimText   string          `json:"claim_text"`
	Analysis    *AnalysisResult `json:"analysis,omitempty"`
	AgentResult string          `json:"agent_result,omitempty"`
}

// ChatReply is either a reply or an error
type ChatReply struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}
