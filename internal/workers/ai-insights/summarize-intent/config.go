// internal/workers/ai-insights/summarize-intent/config.go
package summarizeintent

import (
	"time"

	"intent-insights/internal/common/config"
)

type Config struct {
	Timeout time.Duration
}

func LoadConfig(wcfg config.WorkerConfig) *Config {
	timeout := config.GetDuration(wcfg.Timeout)
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Config{Timeout: timeout}
}
