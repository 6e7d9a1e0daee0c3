// Package feed turns RSS and Atom items into page-mode analysis requests.
package feed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mmcdole/gofeed"

	"github.com/ppiankov/credence/internal/extract"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/worker"
)

// DefaultMaxItems bounds how many entries of one feed are analysed
const DefaultMaxItems = 20

// Fetcher downloads the feed document
type Fetcher interface {
	FetchWithRetry(ctx context.Context, rawURL string) (*pipeline.FetchResult, error)
}

// Reader parses feeds fetched through the rate-limited fetcher
type Reader struct {
	fetcher  Fetcher
	parser   *gofeed.Parser
	maxItems int
	logger   *slog.Logger
}

// NewReader creates a feed reader. maxItems <= 0 uses DefaultMaxItems.
func NewReader(f Fetcher, maxItems int, logger *slog.Logger) *Reader {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Reader{fetcher: f, parser: gofeed.NewParser(), maxItems: maxItems, logger: logger}
}

// Items fetches feedURL and converts its entries to batch items
func (r *Reader) Items(ctx context.Context, feedURL string) ([]worker.Item, error) {
	res, err := r.fetcher.FetchWithRetry(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	f, err := r.parser.Parse(bytes.NewReader(res.Body))
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}
	items := ItemsFromFeed(f, r.maxItems)
	r.logger.Info("feed parsed", "url", feedURL, "title", f.Title, "entries", len(f.Items), "items", len(items))
	return items, nil
}

// ItemsFromFeed converts up to limit entries. Entries without any text are skipped.
func ItemsFromFeed(f *gofeed.Feed, limit int) []worker.Item {
	items := make([]worker.Item, 0, min(len(f.Items), limit))
	for _, entry := range f.Items {
		if len(items) == limit {
			break
		}
		req, ok := Request(entry)
		if !ok {
			continue
		}
		items = append(items, worker.Item{ID: uuid.NewString(), Request: &req})
	}
	return items
}

// Request maps one feed entry to a page-mode request.
// The body prefers full content over the summary and falls back to the title.
func Request(entry *gofeed.Item) (model.AnalysisRequest, bool) {
	if entry == nil {
		return model.AnalysisRequest{}, false
	}
	title := strings.TrimSpace(entry.Title)
	description := extract.StripHTML(entry.Description)

	text := extract.StripHTML(entry.Content)
	if text == "" {
		text = description
	}
	if text == "" {
		text = title
	}
	if text == "" {
		return model.AnalysisRequest{}, false
	}

	published := entry.Published
	if entry.PublishedParsed != nil {
		published = entry.PublishedParsed.UTC().Format(time.RFC3339)
	}

	return model.AnalysisRequest{
		Text:  text,
		URL:   strings.TrimSpace(entry.Link),
		Title: title,
		Mode:  model.ModePage,
		Meta: model.RequestMeta{
			Description: description,
			Headline:    title,
			Published:   published,
		},
	}, true
}
