package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	timeout     time.Duration
	noCache     bool
	noFooter    bool
	insecureTLS bool
	noRobots    bool

	pageURL    string
	pageTitle  string
	published  string
	selection  bool
	before     string
	after      string
	headline   string
	nearbyLink int
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Score a text, a selection or a web page",
	Long: `Analyze scores text for credibility risk:
- Lexical heuristics and flagged spans
- Bias estimate from the domain and the wording
- Citation and staleness risk
- Optional fact-check lookup (--fact-check)
- Domain reputation overrides

Text is read from the arguments, from stdin when the argument is "-",
or fetched from --url when no text is given.

Example:
  credence analyze "BREAKING!!! Shocking cure EXPOSED"
  credence analyze --url https://example.com/article --md report.md
  credence analyze --selection --url https://example.com/a --headline "Budget vote" "Experts say it works"
  echo "99% of doctors agree" | credence analyze -`,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&pageURL, "url", "", "page URL (fetched when no text is given)")
	analyzeCmd.Flags().StringVar(&pageTitle, "title", "", "page title")
	analyzeCmd.Flags().StringVar(&published, "published", "", "publish date of the page")
	analyzeCmd.Flags().BoolVar(&selection, "selection", false, "treat the text as a selection inside a page")
	analyzeCmd.Flags().StringVar(&before, "before", "", "text just before the selection")
	analyzeCmd.Flags().StringVar(&after, "after", "", "text just after the selection")
	analyzeCmd.Flags().StringVar(&headline, "headline", "", "page headline")
	analyzeCmd.Flags().IntVar(&nearbyLink, "links", 0, "outbound links near the text")

	// Output flags
	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	analyzeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")

	// HTTP flags
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", time.Minute, "overall timeout")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fact-check cache")
	analyzeCmd.Flags().BoolVar(&insecureTLS, "insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	analyzeCmd.Flags().BoolVar(&noRobots, "ignore-robots", false, "fetch pages even when robots.txt disallows it")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	text, err := readText(args, cmd.InOrStdin())
	if err != nil {
		return err
	}
	if text == "" && pageURL == "" {
		return fmt.Errorf("nothing to analyze: pass text, \"-\" for stdin, or --url")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyHTTPFlags(cmd, cfg)
	logger := newLogger(cfg.Log, os.Stderr)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	analyzer := newAnalyzer(cfg, logger)

	var result *model.AnalysisResult
	if text == "" {
		if verbose {
			fmt.Fprintf(os.Stderr, "⚙️  Fetching %s...\n", pageURL)
		}
		result, err = analyzer.AnalyzeURL(ctx, pageURL)
		if err != nil {
			return fmt.Errorf("analyze failed: %w", err)
		}
	} else {
		result = analyzer.Analyze(ctx, buildRequest(text))
	}

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	if err := renderer.RenderReport(cmd.OutOrStdout(), result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

func readText(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}
	return strings.TrimSpace(strings.Join(args, " ")), nil
}

func buildRequest(text string) model.AnalysisRequest {
	req := model.AnalysisRequest{
		Text:  text,
		URL:   pageURL,
		Title: pageTitle,
		Mode:  model.ModePage,
		Meta: model.RequestMeta{
			Headline:   headline,
			Published:  published,
			LinkCounts: model.LinkCounts{Block: nearbyLink},
		},
	}
	if selection {
		req.Mode = model.ModeSelection
		if before != "" || after != "" {
			req.Meta.Surrounding = &model.Surrounding{Before: before, After: after}
		}
	}
	return req
}

// applyHTTPFlags lets explicitly set command flags win over the config file
func applyHTTPFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
	if flags.Changed("insecure") {
		cfg.HTTP.InsecureTLS = insecureTLS
	}
	if flags.Changed("ignore-robots") {
		cfg.HTTP.RespectRobots = !noRobots
	}
}
