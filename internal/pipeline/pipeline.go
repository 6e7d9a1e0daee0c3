package pipeline

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/factcheck"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/reputation"
	"github.com/ppiankov/credence/internal/settings"
	"github.com/ppiankov/credence/internal/util"
	"github.com/ppiankov/credence/internal/worker"
)

// Deps are the runtime collaborators the CLI and server share
type Deps struct {
	Settings settings.Provider
	Logger   *slog.Logger
	Online   func() bool // nil means always online
}

// New wires an Analyzer from configuration: fact-check cache, rate limiter,
// fact-check client, reputation overrides and the page fetcher
func New(cfg *model.Config, deps Deps, extra ...Option) *Analyzer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)

	fcOpts := []factcheck.Option{
		factcheck.WithHTTPClient(util.NewHTTPClient(cfg.HTTP, cfg.FactCheck.Timeout)),
		factcheck.WithLimiter(limiter),
		factcheck.WithLogger(logger.With("component", "factcheck")),
		factcheck.WithMaxAge(cfg.Cache.TTL),
	}
	if deps.Online != nil {
		fcOpts = append(fcOpts, factcheck.WithOnline(deps.Online))
	}
	fc := factcheck.NewClient(cfg.FactCheck, NewStore(cfg.Cache, logger), fcOpts...)

	opts := []Option{
		WithFactChecker(fc),
		WithClassifier(reputation.NewClassifier(&cfg.Reputation)),
		WithFetcher(NewFetcher(cfg.HTTP, limiter)),
		WithLogger(logger.With("component", "analyzer")),
	}
	if deps.Settings != nil {
		opts = append(opts, WithSettings(deps.Settings))
	}
	return NewAnalyzer(append(opts, extra...)...)
}

// NewStore builds the fact-check cache: memory in front of disk when a directory
// is usable, memory only otherwise, nothing when disabled
func NewStore(cfg model.CacheConfig, logger *slog.Logger) cache.Store {
	if !cfg.Enabled {
		return cache.Nop{}
	}
	memory := cache.NewMemoryStore(cfg.MemoryTTL)

	dir := cfg.Dir
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			logger.Debug("no user cache dir, using memory cache only", "error", err)
			return memory
		}
		dir = filepath.Join(base, "credence", "factcheck")
	}
	return cache.NewLayeredStore(memory, cache.NewDiskStore(dir))
}
