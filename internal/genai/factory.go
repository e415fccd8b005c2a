package genai

import (
	"fmt"

	"intent-insights/internal/common/config"
	"intent-insights/internal/common/logger"
)

// New returns the generator selected by cfg.Provider.
func New(cfg config.GenAIConfig, log logger.Logger) (Generator, error) {
	switch cfg.Provider {
	case "", "http":
		return NewHTTPGenerator(cfg, log), nil
	case "anthropic":
		return NewAnthropicGenerator(cfg, log)
	default:
		return nil, fmt.Errorf("unsupported genai provider %q", cfg.Provider)
	}
}
