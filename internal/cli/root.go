package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/settings"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
	offline   bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credence",
	Short: "Credence - heuristic credibility scoring for text and web pages",
	Long: `Credence scores how suspicious a piece of text looks, from 0 (likely
authentic) to 100 (highly suspicious).

It combines lexical heuristics, bias estimation, citation and staleness
risk, optional fact-check lookups and a domain reputation cascade, and
explains every step that moved the score.

A Credence score is a prompt to check sources, not a verdict on truth.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command; ctx is cancelled on interrupt
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "credence %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.credence/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "", "log format (text, json)")
	pf.BoolVar(&offline, "offline", false, "never contact the fact-check API")
	pf.Bool("ai", false, "enable on-device claim ranking and tone nudge")
	pf.Bool("fact-check", false, "opt in to fact-check API lookups")
	pf.String("llm-provider", "", "LLM provider for verify and chat (gemini, openai, ollama)")
	pf.String("llm-model", "", "LLM model name")

	_ = viper.BindPFlag("output.verbose", pf.Lookup("verbose"))
	_ = viper.BindPFlag("log.level", pf.Lookup("log-level"))
	_ = viper.BindPFlag("log.format", pf.Lookup("log-format"))
	_ = viper.BindPFlag("settings.ai_enabled", pf.Lookup("ai"))
	_ = viper.BindPFlag("settings.snopes_opt_in", pf.Lookup("fact-check"))
	_ = viper.BindPFlag("llm.provider", pf.Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.model", pf.Lookup("llm-model"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .env, the config file and CREDENCE_* environment variables
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load .env: %v\n", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".credence"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// CREDENCE_SETTINGS_AI_ENABLED -> settings.ai_enabled
	viper.SetEnvPrefix("CREDENCE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range []string{"llm.api_key", "llm.base_url", "settings.snopes_api_base", "settings.snopes_api_key", "settings.gemini_api_key"} {
		_ = viper.BindEnv(key)
	}

	err := viper.ReadInConfig()
	switch {
	case err == nil:
		if verbose {
			fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
		}
	case cfgFile != "":
		fmt.Fprintf(os.Stderr, "Warning: could not read config file %s: %v\n", cfgFile, err)
	}
}

// loadConfig merges defaults, the config file, environment and flags
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Settings, _ = settings.NewViperProvider(nil).Load(context.Background())
	resolveLLMEnv(cfg)
	return cfg, nil
}

// resolveLLMEnv fills provider credentials from the conventional environment variables
func resolveLLMEnv(cfg *model.Config) {
	if cfg.LLM.APIKey != "" {
		return
	}
	switch strings.ToLower(cfg.LLM.Provider) {
	case "", "gemini":
		cfg.LLM.APIKey = os.Getenv("GEMINI_API_KEY")
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if base := os.Getenv("OPENAI_BASE_URL"); base != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = base
		}
	case "ollama":
		if base := os.Getenv("OLLAMA_BASE_URL"); base != "" && cfg.LLM.BaseURL == "" {
			cfg.LLM.BaseURL = base
		}
	}
}

// newLogger builds the process logger on stderr
func newLogger(cfg model.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// newAnalyzer wires the analyzer with live settings and the offline switch
func newAnalyzer(cfg *model.Config, logger *slog.Logger) *pipeline.Analyzer {
	return pipeline.New(cfg, pipeline.Deps{
		Settings: settings.NewViperProvider(nil),
		Logger:   logger,
		Online:   func() bool { return !offline },
	})
}
