package settings

import (
	"context"
	"testing"

	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/model"
)

func TestStatic(t *testing.T) {
	p := NewStatic(model.Settings{AIEnabled: true})
	s, err := p.Load(context.Background())
	if err != nil || !s.AIEnabled {
		t.Fatalf("Load() = %+v, %v", s, err)
	}

	p.Set(model.Settings{SnopesOptIn: true})
	s, _ = p.Load(context.Background())
	if s.AIEnabled || !s.SnopesOptIn {
		t.Errorf("Set did not replace settings: %+v", s)
	}
}

func TestViperProvider_AbsentKeysDisable(t *testing.T) {
	v := viper.New()
	p := NewViperProvider(v)

	s, err := p.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s != (model.Settings{}) {
		t.Errorf("expected zero settings, got %+v", s)
	}

	v.Set("settings.ai_enabled", true)
	v.Set("settings.snopes_api_key", "k")
	s, _ = p.Load(context.Background())
	if !s.AIEnabled || s.SnopesAPIKey != "k" {
		t.Errorf("changes not picked up: %+v", s)
	}
}
