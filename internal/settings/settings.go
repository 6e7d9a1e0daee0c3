// Package settings supplies the user-controlled switches consulted on every analysis.
package settings

import (
	"context"
	"sync"

	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/model"
)

// Provider returns the current settings. Implementations are read on every request
// so changes take effect without a restart.
type Provider interface {
	Load(ctx context.Context) (model.Settings, error)
}

// Static always returns the same settings
type Static struct {
	mu sync.RWMutex
	s  model.Settings
}

// NewStatic returns a provider holding s
func NewStatic(s model.Settings) *Static {
	return &Static{s: s}
}

// Load returns the held settings
func (p *Static) Load(context.Context) (model.Settings, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.s, nil
}

// Set replaces the held settings
func (p *Static) Set(s model.Settings) {
	p.mu.Lock()
	p.s = s
	p.mu.Unlock()
}

// ViperProvider reads the settings.* keys from a viper instance
type ViperProvider struct {
	v *viper.Viper
}

// NewViperProvider wraps v; nil uses the global viper instance
func NewViperProvider(v *viper.Viper) *ViperProvider {
	if v == nil {
		v = viper.GetViper()
	}
	return &ViperProvider{v: v}
}

// Load reads the current settings.* values; it never fails
func (p *ViperProvider) Load(context.Context) (model.Settings, error) {
	return model.Settings{
		AIEnabled:     p.v.GetBool("settings.ai_enabled"),
		SnopesOptIn:   p.v.GetBool("settings.snopes_opt_in"),
		SnopesAPIBase: p.v.GetString("settings.snopes_api_base"),
		SnopesAPIKey:  p.v.GetString("settings.snopes_api_key"),
		GeminiAPIKey:  p.v.GetString("settings.gemini_api_key"),
	}, nil
}
