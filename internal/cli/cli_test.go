package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credence/internal/model"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		desc string
		in   string
		want string
	}{
		{"url", "https://example.com/a/b?x=1", "example.com_a_b_x_1"},
		{"title", "Miracle cure: found", "Miracle-cure_-found"},
		{"empty", "///", "item"},
		{"long", strings.Repeat("a", 150), strings.Repeat("a", 100)},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if got := sanitizeFilename(tt.in); got != tt.want {
				t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadText(t *testing.T) {
	got, err := readText([]string{"-"}, strings.NewReader("  from stdin \n"))
	if err != nil || got != "from stdin" {
		t.Errorf("stdin: got %q, %v", got, err)
	}
	got, _ = readText([]string{"two", "words"}, nil)
	if got != "two words" {
		t.Errorf("args: got %q", got)
	}
}

func TestBuildRequest(t *testing.T) {
	pageURL, selection, before, after, headline = "https://example.com/a", true, "Before.", "", "Budget vote"
	t.Cleanup(func() { pageURL, selection, before, after, headline = "", false, "", "", "" })

	req := buildRequest("Experts say it works")
	if req.Mode != model.ModeSelection || req.URL != "https://example.com/a" {
		t.Errorf("unexpected request %+v", req)
	}
	if req.Meta.Surrounding == nil || req.Meta.Surrounding.Before != "Before." || req.Meta.Headline != "Budget vote" {
		t.Errorf("selection context missing: %+v", req.Meta)
	}
}

func TestResolveLLMEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	tests := []struct {
		desc     string
		llm      model.LLMConfig
		wantKey  string
		wantBase string
	}{
		{"gemini default", model.LLMConfig{}, "g-key", ""},
		{"openai", model.LLMConfig{Provider: "openai"}, "o-key", ""},
		{"ollama", model.LLMConfig{Provider: "ollama"}, "", "http://ollama:11434"},
		{"explicit key wins", model.LLMConfig{Provider: "openai", APIKey: "cfg"}, "cfg", ""},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			cfg := &model.Config{LLM: tt.llm}
			resolveLLMEnv(cfg)
			if cfg.LLM.APIKey != tt.wantKey || cfg.LLM.BaseURL != tt.wantBase {
				t.Errorf("got key %q base %q", cfg.LLM.APIKey, cfg.LLM.BaseURL)
			}
		})
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(model.LogConfig{Level: "warn", Format: "json"}, &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("unexpected log output %q", out)
	}

	buf.Reset()
	newLogger(model.LogConfig{Level: "bogus"}, &buf).Info("info level")
	if !strings.Contains(buf.String(), "info level") {
		t.Error("unknown level should fall back to info")
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".credence", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	if cfg.LLM.Provider != "gemini" || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected config %+v", cfg)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when the file exists")
	}
}

func TestMaskSecrets(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Settings.GeminiAPIKey = "secret"

	masked := maskSecrets(*cfg)
	if masked.Settings.GeminiAPIKey != "****" || masked.Settings.SnopesAPIKey != "" {
		t.Errorf("unexpected masking %+v", masked.Settings)
	}
	if cfg.Settings.GeminiAPIKey != "secret" {
		t.Error("original config modified")
	}
}
