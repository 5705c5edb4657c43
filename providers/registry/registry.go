// Package registry selects a provider by name so callers can drive every
// backend through the same ai.Provider interface.
package registry

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/leofalp/chatbridge/providers/ai"
	"github.com/leofalp/chatbridge/providers/ai/gemini"
	"github.com/leofalp/chatbridge/providers/ai/liaobots"
)

// Config describes the provider to build. Empty fields keep the defaults the
// provider constructor reads from the environment.
type Config struct {
	Name       string
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

var constructors = map[string]func() ai.Provider{
	gemini.ProviderName:   func() ai.Provider { return gemini.New() },
	liaobots.ProviderName: func() ai.Provider { return liaobots.New() },
}

// Names returns the registered provider names in sorted order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds the provider named by cfg.Name and applies the non-empty
// overrides.
//
// Example:
//
//	provider, err := registry.New(registry.Config{Name: "gemini", APIKey: key})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	stream, err := provider.CreateStream(ctx, request)
func New(cfg Config) (ai.Provider, error) {
	constructor, ok := constructors[cfg.Name]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q (available: %v)", cfg.Name, Names())
	}

	provider := constructor()
	if cfg.APIKey != "" {
		provider = provider.WithAPIKey(cfg.APIKey)
	}
	if cfg.BaseURL != "" {
		provider = provider.WithBaseURL(cfg.BaseURL)
	}
	if cfg.HTTPClient != nil {
		provider = provider.WithHttpClient(cfg.HTTPClient)
	}
	return provider, nil
}
