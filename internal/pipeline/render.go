package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Renderer writes analysis results as JSON, Markdown or a terminal summary
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the result as indented JSON to path
func (r *Renderer) RenderJSON(result *model.AnalysisResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes the Markdown report to path
func (r *Renderer) RenderMarkdown(result *model.AnalysisResult, path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown(result)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// Markdown formats the result as a Markdown report
func (r *Renderer) Markdown(result *model.AnalysisResult) string {
	var b strings.Builder

	b.WriteString("# Credibility Report\n\n")
	if result.Host != "" {
		fmt.Fprintf(&b, "**Host:** %s  \n", result.Host)
	}
	fmt.Fprintf(&b, "**Mode:** %s  \n", result.Mode)
	fmt.Fprintf(&b, "**Analyzed:** %s\n\n", result.AnalyzedAt.Format("2006-01-02 15:04 UTC"))

	b.WriteString("## Score\n\n")
	fmt.Fprintf(&b, "| Suspicion | Authenticity | Initial | Confidence |\n|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d/100 | %d%% | %d | %.1f |\n\n",
		result.FinalScore, 100-result.FinalScore, result.InitialScore, result.ModelConfidence)

	if len(result.Notices) > 0 {
		b.WriteString("## Notices\n\n")
		for _, n := range result.Notices {
			fmt.Fprintf(&b, "- %s\n", n)
		}
		b.WriteString("\n")
	}

	if len(result.Flags) > 0 {
		b.WriteString("## Flags\n\n")
		for _, f := range result.Flags {
			fmt.Fprintf(&b, "- `%s`\n", f)
		}
		b.WriteString("\n")
	}

	if len(result.Highlights) > 0 {
		b.WriteString("## Highlights\n\n")
		for _, h := range result.Highlights {
			fmt.Fprintf(&b, "- **%s** (%s): \"%s\". %s", h.Reason, h.Category, h.Span, h.Explanation)
			if h.SourceURL != "" {
				fmt.Fprintf(&b, " [source](%s)", h.SourceURL)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Bias\n\n")
	fmt.Fprintf(&b, "%s (score %d, confidence %.2f). %s\n\n",
		result.Bias.Label, result.Bias.Score, result.Bias.Confidence, result.Bias.Evidence)

	if fc := result.Snopes; fc != nil && fc.Used {
		b.WriteString("## Fact Check\n\n")
		switch {
		case fc.Result != nil:
			fmt.Fprintf(&b, "- Rating: %s\n", fc.Result.Rating)
			if fc.Result.Title != "" {
				fmt.Fprintf(&b, "- Title: %s\n", fc.Result.Title)
			}
			if fc.Result.URL != "" {
				fmt.Fprintf(&b, "- URL: %s\n", fc.Result.URL)
			}
		case fc.Error != "":
			fmt.Fprintf(&b, "- Lookup failed: %s\n", fc.Error)
		}
		b.WriteString("\n")
	}

	if len(result.SuggestedSources) > 0 {
		b.WriteString("## Suggested Sources\n\n")
		for _, s := range result.SuggestedSources {
			fmt.Fprintf(&b, "- [%s](%s) (reliability %d, %s)\n", s.Title, s.URL, s.ReliabilityScore, s.Type)
		}
		b.WriteString("\n")
	}
	if len(result.SuggestedSearchQueries) > 0 {
		b.WriteString("## Search Queries\n\n")
		for _, q := range result.SuggestedSearchQueries {
			fmt.Fprintf(&b, "- `%s`\n", q)
		}
		b.WriteString("\n")
	}

	if len(result.Signals) > 0 {
		b.WriteString("## Signals\n\n| Signal | Severity | Description |\n|---|---|---|\n")
		for _, s := range result.Signals {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Type, s.Severity, s.Description)
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "> %s\n", result.NeutralRewrite)

	if r.includeFooter {
		b.WriteString("\n---\n\n*Heuristic score. 0 = likely authentic, 100 = highly suspicious. Not a determination of truth.*\n")
	}
	return b.String()
}

// RenderSummary prints a short human-readable summary
func (r *Renderer) RenderSummary(w io.Writer, result *model.AnalysisResult) {
	fmt.Fprintf(w, "Suspicion: %d/100 (authenticity %d%%)\n", result.FinalScore, 100-result.FinalScore)
	if result.Host != "" {
		fmt.Fprintf(w, "Host: %s\n", result.Host)
	}
	if len(result.Flags) > 0 {
		flags := make([]string, len(result.Flags))
		for i, f := range result.Flags {
			flags[i] = string(f)
		}
		fmt.Fprintf(w, "Flags: %s\n", strings.Join(flags, ", "))
	}
	fmt.Fprintf(w, "Bias: %s (%d)\n", result.Bias.Label, result.Bias.Score)
	for _, n := range result.Notices {
		fmt.Fprintf(w, "! %s\n", n)
	}
}

// RenderReport writes the JSON and Markdown outputs that have a path, then the summary
func (r *Renderer) RenderReport(w io.Writer, result *model.AnalysisResult, jsonPath, mdPath string, verbose bool) error {
	if jsonPath != "" {
		if err := r.RenderJSON(result, jsonPath); err != nil {
			return fmt.Errorf("render JSON: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", jsonPath)
		}
	}
	if mdPath != "" {
		if err := r.RenderMarkdown(result, mdPath); err != nil {
			return fmt.Errorf("render markdown: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Wrote Markdown: %s\n", mdPath)
		}
	}
	r.RenderSummary(w, result)
	return nil
}
