package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ppiankov/credence/internal/model"
)

// Analyzer scores requests and fetched pages
type Analyzer interface {
	Analyze(ctx context.Context, req model.AnalysisRequest) *model.AnalysisResult
	AnalyzeURL(ctx context.Context, rawURL string) (*model.AnalysisResult, error)
}

// Item is one batch input: either a page URL or a ready request
type Item struct {
	ID      string
	URL     string
	Request *model.AnalysisRequest
}

// Label returns a short human-readable name for the item
func (it Item) Label() string {
	if it.URL != "" {
		return it.URL
	}
	if it.Request != nil {
		if it.Request.URL != "" {
			return it.Request.URL
		}
		if it.Request.Title != "" {
			return it.Request.Title
		}
	}
	return it.ID
}

// AnalyzeJob analyses one item
type AnalyzeJob struct {
	Item     Item
	Analyzer Analyzer
}

// Execute runs the analysis
func (j *AnalyzeJob) Execute(ctx context.Context) Result {
	start := time.Now()
	out := &ItemResult{Item: j.Item}

	switch {
	case j.Item.Request != nil:
		out.Result = j.Analyzer.Analyze(ctx, *j.Item.Request)
	case j.Item.URL != "":
		out.Result, out.Error = j.Analyzer.AnalyzeURL(ctx, j.Item.URL)
	default:
		out.Error = fmt.Errorf("item %s has neither url nor request", j.Item.ID)
	}

	out.Duration = time.Since(start)
	return out
}

// ItemResult is the outcome of one AnalyzeJob
type ItemResult struct {
	Item     Item
	Result   *model.AnalysisResult
	Error    error
	Duration time.Duration
}

// GetError returns the job error
func (r *ItemResult) GetError() error {
	return r.Error
}

// BatchProcessor analyses many items concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{analyzer: analyzer, concurrency: concurrency}
}

// Process analyses items and returns results in input order
func (b *BatchProcessor) Process(ctx context.Context, items []Item) []*ItemResult {
	if len(items) == 0 {
		return []*ItemResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	for _, it := range items {
		pool.Submit(&AnalyzeJob{Item: it, Analyzer: b.analyzer})
	}
	results := pool.Wait()

	out := make([]*ItemResult, len(items))
	for i, r := range results {
		if r == nil {
			out[i] = &ItemResult{Item: items[i], Error: context.Canceled}
			continue
		}
		out[i] = r.(*ItemResult)
	}
	return out
}

// ProcessFile reads items from path and processes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, path string) ([]*ItemResult, error) {
	items, err := ReadItemsFromFile(path)
	if err != nil {
		return nil, err
	}
	return b.Process(ctx, items), nil
}

// ReadItemsFromFile reads batch items from a file
func ReadItemsFromFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()
	return ReadItems(f)
}

// ReadItems parses one item per line: a URL or a JSON AnalysisRequest.
// Blank lines, '#' comments and exact duplicates are skipped.
func ReadItems(r io.Reader) ([]Item, error) {
	var items []Item
	seen := make(map[string]bool)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || seen[line] {
			continue
		}
		seen[line] = true

		it := Item{ID: uuid.NewString()}
		if strings.HasPrefix(line, "{") {
			var req model.AnalysisRequest
			if err := json.Unmarshal([]byte(line), &req); err != nil {
				return nil, fmt.Errorf("line %d: decode request: %w", lineNo, err)
			}
			if req.Mode == "" {
				req.Mode = model.ModePage
			}
			it.Request = &req
		} else {
			it.URL = line
		}
		items = append(items, it)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}
	return items, nil
}
