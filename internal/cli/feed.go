package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/credence/internal/feed"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/worker"
)

var feedMaxItems int

// feedCmd represents the feed command
var feedCmd = &cobra.Command{
	Use:   "feed <feed-url>",
	Short: "Analyze the entries of an RSS or Atom feed",
	Long: `Feed fetches an RSS or Atom feed, turns each entry into a page-mode
request (title, description, link, publish date) and analyses the entries
in parallel like batch.

Example:
  credence feed https://example.com/rss.xml
  credence feed https://example.com/atom.xml --max-items 50 --output-dir ./feed-reports`,
	Args: cobra.ExactArgs(1),
	RunE: runFeed,
}

func init() {
	rootCmd.AddCommand(feedCmd)
	addBatchFlags(feedCmd)
	feedCmd.Flags().IntVar(&feedMaxItems, "max-items", feed.DefaultMaxItems, "maximum feed entries to analyze")
}

func runFeed(cmd *cobra.Command, args []string) error {
	feedURL := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyHTTPFlags(cmd, cfg)
	logger := newLogger(cfg.Log, os.Stderr)

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fetcher := pipeline.NewFetcher(cfg.HTTP, worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize))
	items, err := feed.NewReader(fetcher, feedMaxItems, logger.With("component", "feed")).Items(ctx, feedURL)
	if err != nil {
		return fmt.Errorf("read feed: %w", err)
	}
	if len(items) == 0 {
		fmt.Fprintf(os.Stderr, "Feed %s has no entries to analyze\n", feedURL)
		return nil
	}

	printBanner("Credence Feed Processing", [][2]string{
		{"Feed", feedURL},
		{"Entries", fmt.Sprint(len(items))},
		{"Workers", fmt.Sprint(concurrency)},
		{"Output dir", outputDir},
	})
	return processItems(cmd, items)
}
