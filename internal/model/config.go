package model

import "time"

// Config is the complete Credence configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	Settings     Settings           `yaml:"settings" mapstructure:"settings"`
	FactCheck    FactCheckConfig    `yaml:"fact_check" mapstructure:"fact_check"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Reputation   ReputationConfig   `yaml:"reputation" mapstructure:"reputation"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// HTTPConfig controls page fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// CacheConfig controls the fact-check cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	TTL       time.Duration `yaml:"ttl" mapstructure:"ttl"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
}

// Settings are the user-facing feature switches and keys.
// Absent keys fall back to the zero value, which disables the feature.
type Settings struct {
	AIEnabled     bool   `yaml:"ai_enabled" mapstructure:"ai_enabled" json:"aiEnabled"`
	SnopesOptIn   bool   `yaml:"snopes_opt_in" mapstructure:"snopes_opt_in" json:"snopesOptIn"`
	SnopesAPIBase string `yaml:"snopes_api_base,omitempty" mapstructure:"snopes_api_base" json:"snopesApiBase,omitempty"`
	SnopesAPIKey  string `yaml:"snopes_api_key,omitempty" mapstructure:"snopes_api_key" json:"snopesApiKey,omitempty"`
	GeminiAPIKey  string `yaml:"gemini_api_key,omitempty" mapstructure:"gemini_api_key" json:"geminiApiKey,omitempty"`
}

// FactCheckConfig tunes the fact-check client
type FactCheckConfig struct {
	DefaultBase string        `yaml:"default_base" mapstructure:"default_base"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Attempts    int           `yaml:"attempts" mapstructure:"attempts"`
	Backoff     time.Duration `yaml:"backoff" mapstructure:"backoff"`
}

// LLMConfig selects the agent backend
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // gemini, openai, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ReputationConfig extends the built-in domain tables
type ReputationConfig struct {
	ExtraTrusted []string       `yaml:"extra_trusted,omitempty" mapstructure:"extra_trusted"`
	DomainTiers  map[string]int `yaml:"domain_tiers,omitempty" mapstructure:"domain_tiers"` // host -> 80, 70, 60 or 50
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr         string        `yaml:"addr" mapstructure:"addr"`
	CORSOrigin   string        `yaml:"cors_origin" mapstructure:"cors_origin"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
}

// ConcurrencyConfig controls batch parallelism
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig applies per host to outbound requests
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// LogConfig controls the structured logger
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Credence/0.1 (+https://github.com/ppiankov/credence)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			TTL:       24 * time.Hour,
			MemoryTTL: time.Hour,
		},
		FactCheck: FactCheckConfig{
			DefaultBase: "https://api.snopes.com/fact-check",
			Timeout:     10 * time.Second,
			Attempts:    2,
			Backoff:     300 * time.Millisecond,
		},
		LLM: LLMConfig{
			Provider:  "gemini",
			Model:     "gemini-2.5-flash-lite",
			Timeout:   30,
			MaxTokens: 1000,
		},
		Server: ServerConfig{
			Addr:         ":8080",
			CORSOrigin:   "*",
			MaxBodyBytes: 1 << 20,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         5,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
