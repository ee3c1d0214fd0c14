// Package factory builds the configured LLM provider.
package factory

import (
	"context"
	"fmt"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/llm"
	"github.com/px4-agent-org/px4-agent/pkg/llm/gemini"
	"github.com/px4-agent-org/px4-agent/pkg/llm/mock"
	"github.com/px4-agent-org/px4-agent/pkg/llm/openai"
)

// NewProvider resolves the active provider from configuration and
// environment and constructs it. It returns the provider, its ID and the
// merged options.
func NewProvider(ctx context.Context, cfg *config.Config) (llm.Provider, string, config.ProviderOptions, error) {
	if cfg.ActiveProvider == "mock" {
		return mock.New(), "mock", config.ProviderOptions{}, nil
	}

	providerID, opts, err := cfg.GetActiveProvider()
	if err != nil {
		return nil, "", config.ProviderOptions{}, err
	}

	switch providerID {
	case "gemini":
		p, err := gemini.New(ctx, gemini.Config{
			APIKey: opts.APIKey,
			Model:  opts.Model,
		})
		if err != nil {
			return nil, "", config.ProviderOptions{}, err
		}
		return p, providerID, opts, nil
	case "openai":
		return openai.New(openai.Config{
			APIKey:  opts.APIKey,
			BaseURL: opts.BaseURL,
		}), providerID, opts, nil
	default:
		return nil, "", config.ProviderOptions{}, fmt.Errorf("unknown provider: %s", providerID)
	}
}
