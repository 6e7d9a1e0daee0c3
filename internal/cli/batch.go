package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
	// noCache, noFooter and timeout are defined in analyze.go and shared here
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Analyze many URLs or requests from a file in parallel",
	Long: `Batch processes many inputs concurrently:
- Read inputs from a file, one per line: a page URL or a JSON request
- Process them in parallel with a configurable worker count
- Write a JSON and a Markdown report for each input

Example:
  credence batch inputs.txt
  credence batch inputs.txt --concurrency 8 --output-dir ./reports
  credence batch inputs.txt --fact-check --timeout 20m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	addBatchFlags(batchCmd)
}

// addBatchFlags registers the flags batch and feed share
func addBatchFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	cmd.Flags().StringVar(&outputDir, "output-dir", "./credence-reports", "output directory for reports")
	cmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the fact-check cache")
	cmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown reports")
	cmd.Flags().BoolVar(&noRobots, "ignore-robots", false, "fetch pages even when robots.txt disallows it")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	items, err := worker.ReadItemsFromFile(file)
	if err != nil {
		return fmt.Errorf("read inputs: %w", err)
	}

	printBanner("Credence Batch Processing", [][2]string{
		{"Input file", file},
		{"Inputs", fmt.Sprint(len(items))},
		{"Workers", fmt.Sprint(concurrency)},
		{"Output dir", outputDir},
		{"Timeout", batchTimeout.String()},
	})
	return processItems(cmd, items)
}

// processItems analyses items on the worker pool and writes one report pair per item
func processItems(cmd *cobra.Command, items []worker.Item) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyHTTPFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") || cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = concurrency
	}
	logger := newLogger(cfg.Log, os.Stderr)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	processor := worker.NewBatchProcessor(newAnalyzer(cfg, logger), cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "⚙️  Processing %d inputs with %d workers...\n\n", len(items), cfg.Concurrency.Workers)
	results := processor.Process(ctx, items)

	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)
	successCount, failureCount := 0, 0
	for i, res := range results {
		label := res.Item.Label()
		if res.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", label, res.Error)
			continue
		}

		slug := fmt.Sprintf("%03d-%s", i+1, sanitizeFilename(label))
		jsonPath := filepath.Join(outputDir, slug+".json")
		mdPath := filepath.Join(outputDir, slug+".md")

		if err := renderer.RenderJSON(res.Result, jsonPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", label, err)
			continue
		}
		if err := renderer.RenderMarkdown(res.Result, mdPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", label, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (suspicion: %d/100, %s)\n", label, res.Result.FinalScore, res.Duration.Round(time.Millisecond))
	}

	printBanner("Batch Complete", [][2]string{
		{"Total", fmt.Sprint(len(results))},
		{"Success", fmt.Sprint(successCount)},
		{"Failures", fmt.Sprint(failureCount)},
		{"Output", outputDir},
	})
	if successCount == 0 && failureCount > 0 {
		return fmt.Errorf("all %d inputs failed", failureCount)
	}
	return nil
}

func printBanner(title string, rows [][2]string) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  %s\n", title)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	for _, r := range rows {
		fmt.Fprintf(os.Stderr, "  %-12s %s\n", r[0]+":", r[1])
	}
	fmt.Fprintf(os.Stderr, "\n")
}

var filenameReplacer = strings.NewReplacer(
	"/", "_",
	"\\", "_",
	":", "_",
	"*", "_",
	"?", "_",
	"\"", "_",
	"<", "_",
	">", "_",
	"|", "_",
	"&", "_",
	"=", "_",
	" ", "-",
)

// sanitizeFilename sanitizes a label for use as a filename
func sanitizeFilename(s string) string {
	s = strings.TrimPrefix(s, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.Trim(filenameReplacer.Replace(s), "_-.")
	if s == "" {
		s = "item"
	}

	// Limit length
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}
