package llm

import (
	"context"
	"fmt"

	"github.com/rteja/assessly/internal/store"
)

// NewProvider creates a named Provider from configuration, wrapped with the
// shared retry policy and call logging. Valid names: "openai", "gemini",
// "anthropic", "openrouter", "mock".
func NewProvider(ctx context.Context, name string, cfg Config, events store.EventRepo) (Provider, error) {
	var base Provider
	var err error

	switch name {
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", name, err)
	}

	// Middleware order: caller -> retry -> timeout -> logging -> base, so
	// every attempt (including retried ones) gets its own deadline and
	// lands in the call log.
	logged := WithLogging(base, events)
	bounded := WithTimeout(logged, cfg.Timeout)
	return WithRetry(bounded, cfg.Retry), nil
}
